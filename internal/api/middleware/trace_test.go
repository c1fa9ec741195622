package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/redpost/internal/api/shared"
	"github.com/phrazzld/redpost/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTraceMiddleware(t *testing.T) {
	log, buf := logger.GetTestLogger(t)

	var traceID string
	handler := TraceMiddleware(log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceID = shared.GetTraceID(r.Context())
		logger.FromContext(r.Context(), nil).InfoContext(r.Context(), "inside handler")
		w.WriteHeader(http.StatusNoContent)
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/progress", nil))

	assert.Equal(t, http.StatusNoContent, w.Code)
	require.NotEmpty(t, traceID)

	entries, err := buf.GetLogEntries()
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "request started", entries[0]["msg"])
	assert.Equal(t, "/api/progress", entries[0]["path"])
	for _, entry := range entries {
		assert.Equal(t, traceID, entry["trace_id"])
	}
}

func TestTraceMiddlewareReusesChiRequestID(t *testing.T) {
	log, _ := logger.GetTestLogger(t)

	var traceID, requestID string
	handler := chimiddleware.RequestID(TraceMiddleware(log)(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			traceID = shared.GetTraceID(r.Context())
			requestID = chimiddleware.GetReqID(r.Context())
		})))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	require.NotEmpty(t, requestID)
	assert.Equal(t, requestID, traceID)
}
