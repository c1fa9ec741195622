package generation

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// Kind is the closed classification of provider failures.
type Kind string

// Provider error kinds.
const (
	KindAuthMissing     Kind = "auth_missing"
	KindAuthInvalid     Kind = "auth_invalid"
	KindQuotaExceeded   Kind = "quota_exceeded"
	KindEmptyResponse   Kind = "empty_response"
	KindMalformedOutput Kind = "malformed_output"
	KindUnknown         Kind = "unknown"
)

// Sentinel errors, one per Kind. A *ProviderError matches the sentinel of its
// kind with errors.Is.
var (
	// ErrAuthMissing is returned when no API key is configured.
	ErrAuthMissing = errors.New("api key missing")

	// ErrAuthInvalid is returned when the provider rejects the API key.
	ErrAuthInvalid = errors.New("api key rejected by provider")

	// ErrQuotaExceeded is returned when the provider rate-limits the request.
	ErrQuotaExceeded = errors.New("provider quota exceeded")

	// ErrEmptyResponse is returned when the provider returns no usable content.
	ErrEmptyResponse = errors.New("empty response from model")

	// ErrMalformedOutput is returned when model output cannot be parsed, even
	// after the repair pass.
	ErrMalformedOutput = errors.New("malformed output from model")

	// ErrUnknownProvider is returned for any failure that matches no other kind.
	ErrUnknownProvider = errors.New("provider request failed")
)

var kindSentinels = map[Kind]error{
	KindAuthMissing:     ErrAuthMissing,
	KindAuthInvalid:     ErrAuthInvalid,
	KindQuotaExceeded:   ErrQuotaExceeded,
	KindEmptyResponse:   ErrEmptyResponse,
	KindMalformedOutput: ErrMalformedOutput,
	KindUnknown:         ErrUnknownProvider,
}

// Kinds lists every kind Classify can return.
var Kinds = []Kind{
	KindAuthMissing,
	KindAuthInvalid,
	KindQuotaExceeded,
	KindEmptyResponse,
	KindMalformedOutput,
	KindUnknown,
}

// Actionable reports whether the user can resolve the failure themselves by
// replacing credentials or waiting. Actionable failures are never retried.
func (k Kind) Actionable() bool {
	switch k {
	case KindAuthMissing, KindAuthInvalid, KindQuotaExceeded:
		return true
	default:
		return false
	}
}

// Sentinel returns the sentinel error for k.
func (k Kind) Sentinel() error {
	if err, ok := kindSentinels[k]; ok {
		return err
	}
	return ErrUnknownProvider
}

// ProviderError is the only error type that crosses the provider boundary.
type ProviderError struct {
	Kind       Kind
	RawMessage string
	Err        error
}

// NewProviderError builds a ProviderError of an explicit kind.
func NewProviderError(kind Kind, rawMessage string, cause error) *ProviderError {
	return &ProviderError{Kind: kind, RawMessage: rawMessage, Err: cause}
}

// Error implements error.
func (e *ProviderError) Error() string {
	if e.RawMessage == "" {
		return e.Kind.Sentinel().Error()
	}
	return fmt.Sprintf("%s: %s", e.Kind.Sentinel(), e.RawMessage)
}

// Unwrap returns the underlying cause.
func (e *ProviderError) Unwrap() error {
	return e.Err
}

// Is matches the sentinel error of the error's kind.
func (e *ProviderError) Is(target error) bool {
	return target == e.Kind.Sentinel()
}

type rule struct {
	kind     Kind
	patterns []*regexp.Regexp
}

// Rules are evaluated in order; the first kind with a matching pattern wins.
// Missing-key messages are checked before invalid-key messages because the
// latter are the broader set.
var rules = []rule{
	{
		kind: KindAuthMissing,
		patterns: compile(
			`api[_ ]?key[_ ]?missing`,
			`missing (an? )?api[_ ]?key`,
			`no api[_ ]?key`,
			`api[_ ]?key (is )?(required|not (set|configured|provided))`,
			`api[_ ]?key (must|cannot) be (set|empty|provided)`,
			`key material`,
		),
	},
	{
		kind: KindAuthInvalid,
		patterns: compile(
			`\b401\b`,
			`\b403\b`,
			`unauthori[sz]ed`,
			`unauthenticated`,
			`forbidden`,
			`permission[_ ]denied`,
			`api[_ ]?key not valid`,
			`key not valid`,
			`invalid[_ ]api[_ ]?key`,
			`api[_ ]?key rejected`,
			`key_not_found_on_project`,
			`entity was not found`,
			`entity not found`,
		),
	},
	{
		kind: KindQuotaExceeded,
		patterns: compile(
			`\b429\b`,
			`rate[- _]?limit`,
			`quota`,
			`resource[_ ]exhausted`,
			`too many requests`,
		),
	},
	{
		kind: KindEmptyResponse,
		patterns: compile(
			`api_empty_response`,
			`empty response`,
			`response body (is )?empty`,
			`empty (response )?body`,
			`no content generated`,
		),
	},
	{
		kind: KindMalformedOutput,
		patterns: compile(
			`malformed output`,
			`invalid json`,
			`unexpected end of json input`,
		),
	},
}

func compile(exprs ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(exprs))
	for i, expr := range exprs {
		out[i] = regexp.MustCompile(`(?i)` + expr)
	}
	return out
}

// Classify maps a raw provider error message to a Kind. It is total: any
// message that matches no rule is KindUnknown.
func Classify(message string) Kind {
	msg := strings.TrimSpace(message)
	if msg == "" {
		return KindUnknown
	}
	for _, r := range rules {
		for _, p := range r.patterns {
			if p.MatchString(msg) {
				return r.kind
			}
		}
	}
	return KindUnknown
}

// FromError converts any error into a *ProviderError. Errors that already are
// provider errors are returned as-is; context errors keep their cause so
// callers can still detect cancellation. A nil error returns nil.
func FromError(err error) *ProviderError {
	if err == nil {
		return nil
	}

	var perr *ProviderError
	if errors.As(err, &perr) {
		return perr
	}

	msg := err.Error()
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return NewProviderError(KindUnknown, msg, err)
	}
	return NewProviderError(Classify(msg), msg, err)
}

// KindOf returns the Kind of err, or KindUnknown if err is not a provider error.
func KindOf(err error) Kind {
	var perr *ProviderError
	if errors.As(err, &perr) {
		return perr.Kind
	}
	return KindUnknown
}
