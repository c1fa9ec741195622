// Package domain defines the core business entities and errors.
package domain

import "errors"

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// This is often wrapped with a more specific error message.
	ErrValidation = errors.New("validation failed")

	// ErrEmptyTopic is returned when a generation request has no topic.
	ErrEmptyTopic = errors.New("topic cannot be empty")

	// ErrTopicTooLong is returned when a topic exceeds MaxTopicRunes.
	ErrTopicTooLong = errors.New("topic is too long")

	// ErrInvalidStyle is returned when a style is not one of the known styles.
	ErrInvalidStyle = errors.New("invalid style")

	// ErrInvalidLength is returned when a length is not one of the known lengths.
	ErrInvalidLength = errors.New("invalid length")

	// ErrInvalidCoverMode is returned when a cover mode is not recognised.
	ErrInvalidCoverMode = errors.New("invalid cover mode")

	// ErrInvalidReferenceImage is returned when reference image bytes are
	// present but unusable.
	ErrInvalidReferenceImage = errors.New("invalid reference image")

	// ErrEmptyCover is returned when a cover result carries no value.
	ErrEmptyCover = errors.New("cover result is empty")

	// ErrAmbiguousCover is returned when a cover result carries more than one value.
	ErrAmbiguousCover = errors.New("cover result has more than one value")
)
