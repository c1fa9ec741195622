package api

import (
	"github.com/phrazzld/redpost/internal/domain"
)

// CreatePostRequest defines the payload for the post generation endpoint.
type CreatePostRequest struct {
	Topic     string `json:"topic"      validate:"required,max=200"`
	Style     string `json:"style"      validate:"required,oneof=emotional educational promotion rant"`
	Length    string `json:"length"     validate:"required,oneof=short medium long"`
	CoverMode string `json:"cover_mode" validate:"omitempty,oneof=auto reference template"`

	// ReferenceImage is a data URL of the form data:<mime>;base64,<data>.
	// It must be well formed when present but is only used in "reference" mode.
	ReferenceImage string `json:"reference_image,omitempty" validate:"omitempty,datauri"`
}

// TopicsResponse is returned by the topic suggestion endpoint.
type TopicsResponse struct {
	Topics []string `json:"topics"`
}

// OptionsResponse lists the selectable generation options.
type OptionsResponse struct {
	Styles     []domain.StyleOption  `json:"styles"`
	Lengths    []domain.LengthOption `json:"lengths"`
	CoverModes []domain.CoverMode    `json:"cover_modes"`
}

// ProgressResponse is the current progress of the in-flight request.
type ProgressResponse struct {
	domain.ProgressState
	Busy bool `json:"busy"`
}
