package events

import (
	"context"
	"log/slog"
	"sync"
)

// InMemoryEventEmitter is a simple implementation of the EventEmitter interface
// that stores registered handlers in memory and dispatches events to them.
// It also fans events out to channel subscribers, which is how the HTTP API
// streams progress.
type InMemoryEventEmitter struct {
	handlers    []EventHandler
	subscribers map[int]chan *ProgressEvent
	nextSubID   int
	mu          sync.RWMutex
	logger      *slog.Logger
}

// NewInMemoryEventEmitter creates a new instance of InMemoryEventEmitter.
func NewInMemoryEventEmitter(logger *slog.Logger) *InMemoryEventEmitter {
	return &InMemoryEventEmitter{
		handlers:    make([]EventHandler, 0),
		subscribers: make(map[int]chan *ProgressEvent),
		logger:      logger.With("component", "in_memory_event_emitter"),
	}
}

// RegisterHandler adds a new event handler to receive events.
func (e *InMemoryEventEmitter) RegisterHandler(handler EventHandler) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.handlers = append(e.handlers, handler)
	e.logger.Debug("registered new event handler", "handler_count", len(e.handlers))
}

// Subscribe returns a channel receiving every subsequent event and a function
// that cancels the subscription and closes the channel. A subscriber that
// falls more than buffer events behind misses events rather than blocking
// the emitter.
func (e *InMemoryEventEmitter) Subscribe(buffer int) (<-chan *ProgressEvent, func()) {
	if buffer < 1 {
		buffer = 1
	}
	ch := make(chan *ProgressEvent, buffer)

	e.mu.Lock()
	id := e.nextSubID
	e.nextSubID++
	e.subscribers[id] = ch
	e.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			e.mu.Lock()
			delete(e.subscribers, id)
			e.mu.Unlock()
			close(ch)
		})
	}
	return ch, cancel
}

// EmitEvent publishes the given event to all registered handlers and subscribers.
// If any handler returns an error, the event will still be sent to all other handlers,
// and the first error encountered will be returned.
func (e *InMemoryEventEmitter) EmitEvent(ctx context.Context, event *ProgressEvent) error {
	e.mu.RLock()
	handlers := make([]EventHandler, len(e.handlers))
	copy(handlers, e.handlers)
	for _, ch := range e.subscribers {
		select {
		case ch <- event:
		default:
			e.logger.Debug("dropping event for slow subscriber", "event_id", event.ID)
		}
	}
	e.mu.RUnlock()

	var firstErr error
	for i, handler := range handlers {
		if err := handler.HandleEvent(ctx, event); err != nil {
			e.logger.Error("handler failed to process event",
				"error", err,
				"handler_index", i,
				"event_id", event.ID,
				"request_id", event.RequestID)
			if firstErr == nil {
				firstErr = err
			}
		}
	}

	return firstErr
}
