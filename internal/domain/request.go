package domain

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

const (
	// MaxTopicRunes bounds the topic a user may submit.
	MaxTopicRunes = 200

	// MaxReferenceImageBytes bounds the reference image size.
	MaxReferenceImageBytes = 8 << 20
)

// ReferenceImage is a user-supplied image used to condition cover generation.
type ReferenceImage struct {
	Data     []byte `json:"-"`
	MIMEType string `json:"mime_type"`
}

// Validate checks that the image is non-empty, bounded and typed as an image.
func (r *ReferenceImage) Validate() error {
	if len(r.Data) == 0 {
		return fmt.Errorf("%w: no image data", ErrInvalidReferenceImage)
	}
	if len(r.Data) > MaxReferenceImageBytes {
		return fmt.Errorf("%w: %d bytes exceeds limit of %d", ErrInvalidReferenceImage,
			len(r.Data), MaxReferenceImageBytes)
	}
	if !strings.HasPrefix(r.MIMEType, "image/") {
		return fmt.Errorf("%w: unsupported mime type %q", ErrInvalidReferenceImage, r.MIMEType)
	}
	return nil
}

// GenerationRequest is a single user submission. It is created once per
// submission and must not be modified while the request is in flight.
type GenerationRequest struct {
	ID             uuid.UUID       `json:"id"`
	Topic          string          `json:"topic"`
	Style          Style           `json:"style"`
	Length         Length          `json:"length"`
	CoverMode      CoverMode       `json:"cover_mode"`
	ReferenceImage *ReferenceImage `json:"reference_image,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
}

// NewGenerationRequest builds and validates a request. The reference image is
// only kept when coverMode is CoverModeReference.
func NewGenerationRequest(
	topic string,
	style Style,
	length Length,
	coverMode CoverMode,
	ref *ReferenceImage,
) (*GenerationRequest, error) {
	if coverMode != CoverModeReference {
		ref = nil
	}

	req := &GenerationRequest{
		ID:             uuid.New(),
		Topic:          strings.TrimSpace(topic),
		Style:          style,
		Length:         length,
		CoverMode:      coverMode,
		ReferenceImage: ref,
		CreatedAt:      time.Now().UTC(),
	}

	if err := req.Validate(); err != nil {
		return nil, err
	}
	return req, nil
}

// Validate checks if the request has valid data.
// Errors wrap ErrValidation.
func (r *GenerationRequest) Validate() error {
	if strings.TrimSpace(r.Topic) == "" {
		return fmt.Errorf("%w: %w", ErrValidation, ErrEmptyTopic)
	}
	if utf8.RuneCountInString(r.Topic) > MaxTopicRunes {
		return fmt.Errorf("%w: %w", ErrValidation, ErrTopicTooLong)
	}
	if !r.Style.Valid() {
		return fmt.Errorf("%w: %w: %q", ErrValidation, ErrInvalidStyle, r.Style)
	}
	if !r.Length.Valid() {
		return fmt.Errorf("%w: %w: %q", ErrValidation, ErrInvalidLength, r.Length)
	}
	if !r.CoverMode.Valid() {
		return fmt.Errorf("%w: %w: %q", ErrValidation, ErrInvalidCoverMode, r.CoverMode)
	}
	if r.ReferenceImage != nil {
		if r.CoverMode != CoverModeReference {
			return fmt.Errorf("%w: %w: only allowed in %s mode",
				ErrValidation, ErrInvalidReferenceImage, CoverModeReference)
		}
		if err := r.ReferenceImage.Validate(); err != nil {
			return fmt.Errorf("%w: %w", ErrValidation, err)
		}
	}
	return nil
}

// HasReference reports whether cover generation should be conditioned on a
// reference image.
func (r *GenerationRequest) HasReference() bool {
	return r.CoverMode == CoverModeReference && r.ReferenceImage != nil
}
