package events

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/redpost/internal/domain"
)

// ProgressEvent reports the progress of one generation request.
type ProgressEvent struct {
	// ID is a unique identifier for this event
	ID uuid.UUID `json:"id"`

	// RequestID identifies the generation request the event belongs to.
	// It is empty for the reset to idle that follows a finished request.
	RequestID string `json:"request_id,omitempty"`

	Percent int          `json:"percent"`
	Phase   domain.Phase `json:"phase"`

	// CreatedAt is the timestamp when the event was created
	CreatedAt time.Time `json:"created_at"`
}

// NewProgressEvent creates a new ProgressEvent for the given request and state.
func NewProgressEvent(requestID string, state domain.ProgressState) *ProgressEvent {
	return &ProgressEvent{
		ID:        uuid.New(),
		RequestID: requestID,
		Percent:   state.Percent,
		Phase:     state.Phase,
		CreatedAt: time.Now(),
	}
}

// State returns the progress state carried by the event.
func (e *ProgressEvent) State() domain.ProgressState {
	return domain.ProgressState{Percent: e.Percent, Phase: e.Phase}
}

// EventHandler defines an interface for components that can handle events.
type EventHandler interface {
	// HandleEvent processes the given event within the provided context.
	// Returns an error if the event cannot be handled successfully.
	HandleEvent(ctx context.Context, event *ProgressEvent) error
}

// HandlerFunc adapts an ordinary function to the EventHandler interface.
type HandlerFunc func(ctx context.Context, event *ProgressEvent) error

// HandleEvent calls f(ctx, event).
func (f HandlerFunc) HandleEvent(ctx context.Context, event *ProgressEvent) error {
	return f(ctx, event)
}

// EventEmitter defines an interface for components that can emit events.
// This allows services to publish events without direct knowledge of handlers.
type EventEmitter interface {
	// EmitEvent publishes the given event to all registered handlers.
	// Returns an error if the event cannot be emitted.
	EmitEvent(ctx context.Context, event *ProgressEvent) error
}
