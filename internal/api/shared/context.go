package shared

import (
	"context"
	"strings"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

// Key type for context values
type ContextKey string

const (
	// TraceIDKey is the key for the trace ID in the request context
	TraceIDKey ContextKey = "traceID"
)

// SetTraceID adds a trace ID to the context.
// The ID assigned by chi's RequestID middleware is reused when present so that
// access logs and error responses carry the same value.
func SetTraceID(ctx context.Context) context.Context {
	traceID := chimiddleware.GetReqID(ctx)
	if traceID == "" {
		traceID = newTraceID()
	}
	return context.WithValue(ctx, TraceIDKey, traceID)
}

// GetTraceID retrieves the trace ID from the context.
// If no trace ID exists, it returns an empty string.
func GetTraceID(ctx context.Context) string {
	traceID, ok := ctx.Value(TraceIDKey).(string)
	if !ok {
		return ""
	}
	return traceID
}

// newTraceID returns a 32 character hex ID.
func newTraceID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}
