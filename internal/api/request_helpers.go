package api

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/phrazzld/redpost/internal/domain"
)

// parseDataURL decodes a base64 data URL into a reference image.
func parseDataURL(raw string) (*domain.ReferenceImage, error) {
	rest, ok := strings.CutPrefix(raw, "data:")
	if !ok {
		return nil, fmt.Errorf("%w: %w: not a data url", domain.ErrValidation, domain.ErrInvalidReferenceImage)
	}

	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return nil, fmt.Errorf("%w: %w: missing payload", domain.ErrValidation, domain.ErrInvalidReferenceImage)
	}

	mimeType, encoding, _ := strings.Cut(meta, ";")
	if encoding != "base64" {
		return nil, fmt.Errorf("%w: %w: payload must be base64", domain.ErrValidation, domain.ErrInvalidReferenceImage)
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %w: %w", domain.ErrValidation, domain.ErrInvalidReferenceImage, err)
	}

	return &domain.ReferenceImage{Data: data, MIMEType: strings.ToLower(mimeType)}, nil
}

// fieldErrors maps request fields to the domain error reported when the field
// fails validation.
var fieldErrors = map[string]error{
	"Style":          domain.ErrInvalidStyle,
	"Length":         domain.ErrInvalidLength,
	"CoverMode":      domain.ErrInvalidCoverMode,
	"ReferenceImage": domain.ErrInvalidReferenceImage,
}

// validationError converts a validator error into a domain validation error
// so that handlers and services report the same messages for the same problem.
func validationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return fmt.Errorf("%w: %w", domain.ErrValidation, err)
	}

	first := verrs[0]
	cause, ok := fieldErrors[first.Field()]
	if first.Field() == "Topic" {
		ok = true
		cause = domain.ErrTopicTooLong
		if first.Tag() == "required" {
			cause = domain.ErrEmptyTopic
		}
	}
	if !ok {
		return fmt.Errorf("%w: field %s failed on %s", domain.ErrValidation, first.Field(), first.Tag())
	}
	return fmt.Errorf("%w: %w", domain.ErrValidation, cause)
}
