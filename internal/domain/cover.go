package domain

import "fmt"

// CoverKind identifies which value a CoverResult carries.
type CoverKind string

// Cover kinds.
const (
	CoverKindInline   CoverKind = "inline"
	CoverKindURL      CoverKind = "url"
	CoverKindTemplate CoverKind = "template"
)

// InlineImage is image bytes returned directly by the image model.
type InlineImage struct {
	Data     []byte `json:"data"`
	MIMEType string `json:"mime_type"`
}

// CoverResult carries exactly one of an inline image, a fallback image URL or
// the template text fields.
type CoverResult struct {
	Kind     CoverKind     `json:"kind"`
	Image    *InlineImage  `json:"image,omitempty"`
	URL      string        `json:"url,omitempty"`
	Template *CoverSummary `json:"template,omitempty"`
	// Fallback is true when URL came from the fallback image service.
	Fallback bool `json:"fallback"`
}

// NewInlineCover wraps generated image bytes.
func NewInlineCover(img *InlineImage) *CoverResult {
	return &CoverResult{Kind: CoverKindInline, Image: img}
}

// NewFallbackCover wraps a fallback image URL.
func NewFallbackCover(url string) *CoverResult {
	return &CoverResult{Kind: CoverKindURL, URL: url, Fallback: true}
}

// NewTemplateCover wraps template text fields.
func NewTemplateCover(summary *CoverSummary) *CoverResult {
	return &CoverResult{Kind: CoverKindTemplate, Template: summary}
}

// Validate checks that exactly one value is present and matches Kind.
func (c *CoverResult) Validate() error {
	set := 0
	if c.Image != nil && len(c.Image.Data) > 0 {
		set++
	}
	if c.URL != "" {
		set++
	}
	if c.Template != nil {
		set++
	}
	switch {
	case set == 0:
		return ErrEmptyCover
	case set > 1:
		return ErrAmbiguousCover
	}

	switch c.Kind {
	case CoverKindInline:
		if c.Image == nil || len(c.Image.Data) == 0 {
			return fmt.Errorf("%w: kind %s without image", ErrEmptyCover, c.Kind)
		}
	case CoverKindURL:
		if c.URL == "" {
			return fmt.Errorf("%w: kind %s without url", ErrEmptyCover, c.Kind)
		}
	case CoverKindTemplate:
		if c.Template == nil {
			return fmt.Errorf("%w: kind %s without template", ErrEmptyCover, c.Kind)
		}
	default:
		return fmt.Errorf("%w: unknown cover kind %q", ErrValidation, c.Kind)
	}
	return nil
}
