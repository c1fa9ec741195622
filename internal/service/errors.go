package service

import (
	"errors"
	"fmt"
)

// Common service errors - sentinel errors used across service implementations.
// These errors represent common conditions that callers may want to check for with errors.Is().
//
// Error handling principles:
// 1. Service methods return sentinel errors for expected error conditions
// 2. Provider failures are returned as *generation.ProviderError
// 3. Unexpected errors are wrapped in GenerationServiceError
// 4. The API layer maps service errors to appropriate HTTP status codes
var (
	// ErrBusy indicates that a generation request is already in flight.
	// API layer should map this to HTTP 409 Conflict.
	ErrBusy = errors.New("a generation request is already in progress")
)

// GenerationServiceError wraps errors from the generation service with context.
type GenerationServiceError struct {
	// Operation is the operation that failed (e.g., "resolve_cover")
	Operation string
	// Message is a human-readable description of the error
	Message string
	// Err is the underlying error that caused the failure
	Err error
}

// Error implements the error interface for GenerationServiceError.
func (e *GenerationServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("generation service %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("generation service %s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *GenerationServiceError) Unwrap() error {
	return e.Err
}

// NewGenerationServiceError creates a new GenerationServiceError.
// It returns known sentinel errors directly without wrapping.
func NewGenerationServiceError(operation, message string, err error) error {
	if errors.Is(err, ErrBusy) {
		return ErrBusy
	}
	return &GenerationServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
