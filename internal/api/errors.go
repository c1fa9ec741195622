package api

import (
	"errors"
	"net/http"

	"github.com/phrazzld/redpost/internal/api/shared"
	"github.com/phrazzld/redpost/internal/domain"
	"github.com/phrazzld/redpost/internal/generation"
	"github.com/phrazzld/redpost/internal/service"
)

// Error kinds reported in error bodies that are not provider kinds.
const (
	KindValidation = "validation"
	KindBusy       = "busy"
	KindInternal   = "internal"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, shared.ErrEmptyBody):
		return http.StatusBadRequest

	case errors.Is(err, service.ErrBusy):
		return http.StatusConflict

	case errors.Is(err, generation.ErrAuthMissing),
		errors.Is(err, generation.ErrAuthInvalid):
		return http.StatusUnauthorized

	case errors.Is(err, generation.ErrQuotaExceeded):
		return http.StatusTooManyRequests

	case errors.Is(err, generation.ErrEmptyResponse),
		errors.Is(err, generation.ErrMalformedOutput),
		errors.Is(err, generation.ErrUnknownProvider):
		return http.StatusBadGateway

	default:
		return http.StatusInternalServerError
	}
}

// ErrorKind returns the kind reported to clients for err and whether the
// user can act on it.
func ErrorKind(err error) (string, bool) {
	var perr *generation.ProviderError
	switch {
	case errors.Is(err, domain.ErrValidation), errors.Is(err, shared.ErrEmptyBody):
		return KindValidation, true
	case errors.Is(err, service.ErrBusy):
		return KindBusy, false
	case errors.As(err, &perr):
		return string(perr.Kind), perr.Kind.Actionable()
	default:
		return KindInternal, false
	}
}

// HandleAPIError writes the error response for err. The body carries the
// user message for the error, never the raw error text.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error) {
	status := MapErrorToStatusCode(err)
	kind, actionable := ErrorKind(err)

	opts := []shared.ResponseOption{shared.WithErrorKind(kind, actionable)}
	if status == http.StatusUnauthorized {
		opts = append(opts, shared.WithElevatedLogLevel())
	}

	shared.RespondWithErrorAndLog(w, r, status, service.UserMessage(err), err, opts...)
}
