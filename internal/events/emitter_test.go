package events

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/phrazzld/redpost/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testEvent(percent int) *ProgressEvent {
	return NewProgressEvent("req", domain.ProgressState{Percent: percent, Phase: domain.PhaseGeneratingText})
}

func TestInMemoryEventEmitter(t *testing.T) {
	// Create a minimal logger that discards output
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("emit event with no handlers", func(t *testing.T) {
		emitter := NewInMemoryEventEmitter(logger)

		// Should not error even with no handlers
		err := emitter.EmitEvent(context.Background(), testEvent(10))
		assert.NoError(t, err)
	})

	t.Run("emit event with successful handlers", func(t *testing.T) {
		emitter := NewInMemoryEventEmitter(logger)

		handler1 := &MockEventHandler{}
		handler2 := &MockEventHandler{}
		emitter.RegisterHandler(handler1)
		emitter.RegisterHandler(handler2)

		event := testEvent(27)
		err := emitter.EmitEvent(context.Background(), event)
		assert.NoError(t, err)

		// Verify both handlers received the event
		assert.Equal(t, 1, handler1.HandledCount)
		assert.Equal(t, 1, handler2.HandledCount)
		assert.Equal(t, event, handler1.LastEvent)
		assert.Equal(t, event, handler2.LastEvent)
	})

	t.Run("emit event with failing handler", func(t *testing.T) {
		emitter := NewInMemoryEventEmitter(logger)

		successHandler := &MockEventHandler{}
		failingHandler := &MockEventHandler{
			HandlerError: errors.New("handler error"),
		}
		emitter.RegisterHandler(failingHandler)
		emitter.RegisterHandler(successHandler)

		// Should return an error from the failing handler
		err := emitter.EmitEvent(context.Background(), testEvent(41))
		assert.Error(t, err)
		assert.Equal(t, "handler error", err.Error())

		// Both handlers should still have received the event
		assert.Equal(t, 1, successHandler.HandledCount)
		assert.Equal(t, 1, failingHandler.HandledCount)
	})
}

func TestInMemoryEventEmitterSubscribe(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("subscriber receives events in order", func(t *testing.T) {
		emitter := NewInMemoryEventEmitter(logger)
		ch, cancel := emitter.Subscribe(4)
		defer cancel()

		require.NoError(t, emitter.EmitEvent(context.Background(), testEvent(10)))
		require.NoError(t, emitter.EmitEvent(context.Background(), testEvent(27)))

		assert.Equal(t, 10, (<-ch).Percent)
		assert.Equal(t, 27, (<-ch).Percent)
	})

	t.Run("slow subscriber does not block", func(t *testing.T) {
		emitter := NewInMemoryEventEmitter(logger)
		ch, cancel := emitter.Subscribe(1)
		defer cancel()

		for p := 10; p < 60; p += 10 {
			require.NoError(t, emitter.EmitEvent(context.Background(), testEvent(p)))
		}

		assert.Equal(t, 10, (<-ch).Percent)
		assert.Empty(t, ch)
	})

	t.Run("cancel closes channel and stops delivery", func(t *testing.T) {
		emitter := NewInMemoryEventEmitter(logger)
		ch, cancel := emitter.Subscribe(2)

		cancel()
		cancel()

		_, open := <-ch
		assert.False(t, open)
		assert.NoError(t, emitter.EmitEvent(context.Background(), testEvent(10)))
	})
}
