package gemini

import "errors"

// Error definitions for the gemini package.
var (
	// ErrInvalidConfig is returned when the adapter cannot be built from the
	// supplied configuration.
	ErrInvalidConfig = errors.New("invalid gemini configuration")
)
