package api

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/phrazzld/redpost/internal/api/shared"
	"github.com/phrazzld/redpost/internal/domain"
	"github.com/phrazzld/redpost/internal/events"
	"github.com/phrazzld/redpost/internal/platform/logger"
	"github.com/phrazzld/redpost/internal/service"
)

const (
	// streamBuffer is the per-subscriber event buffer of the progress stream.
	streamBuffer = 32

	// DefaultHeartbeat is the interval of keep-alive comments on the progress stream.
	DefaultHeartbeat = 15 * time.Second
)

// ProgressSubscriber delivers progress events to stream clients.
type ProgressSubscriber interface {
	Subscribe(buffer int) (<-chan *events.ProgressEvent, func())
}

// PostHandler handles post generation HTTP requests
type PostHandler struct {
	posts     service.GenerationService
	progress  ProgressSubscriber
	heartbeat time.Duration
	logger    *slog.Logger
}

// NewPostHandler creates a new PostHandler
func NewPostHandler(
	posts service.GenerationService,
	progress ProgressSubscriber,
	heartbeat time.Duration,
	logger *slog.Logger,
) *PostHandler {
	if logger == nil {
		logger = slog.Default()
	}
	if heartbeat <= 0 {
		heartbeat = DefaultHeartbeat
	}
	return &PostHandler{
		posts:     posts,
		progress:  progress,
		heartbeat: heartbeat,
		logger:    logger.With("component", "post_handler"),
	}
}

// CreatePost handles POST /api/posts requests.
// Generation is synchronous: the response carries the finished post and cover.
func (h *PostHandler) CreatePost(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context(), h.logger)

	var req CreatePostRequest
	if err := shared.DecodeJSON(w, r, &req); err != nil {
		HandleAPIError(w, r, fmt.Errorf("%w: invalid request body: %w", domain.ErrValidation, err))
		return
	}

	if err := shared.ValidateRequest(&req); err != nil {
		HandleAPIError(w, r, validationError(err))
		return
	}

	coverMode := domain.CoverMode(req.CoverMode)
	if coverMode == "" {
		coverMode = domain.CoverModeAuto
	}

	var ref *domain.ReferenceImage
	if coverMode == domain.CoverModeReference && req.ReferenceImage != "" {
		img, err := parseDataURL(req.ReferenceImage)
		if err != nil {
			HandleAPIError(w, r, err)
			return
		}
		ref = img
	}

	genReq, err := domain.NewGenerationRequest(
		req.Topic,
		domain.Style(req.Style),
		domain.Length(req.Length),
		coverMode,
		ref,
	)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	log.InfoContext(r.Context(), "post generation requested",
		"request_id", genReq.ID,
		"style", genReq.Style,
		"cover_mode", genReq.CoverMode)

	result, err := h.posts.Generate(r.Context(), genReq)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, result)
}

// GetProgress handles GET /api/progress requests.
func (h *PostHandler) GetProgress(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithJSON(w, r, http.StatusOK, ProgressResponse{
		ProgressState: h.posts.Progress(),
		Busy:          h.posts.Busy(),
	})
}

// StreamProgress handles GET /api/progress/stream requests with Server-Sent
// Events. The current state is sent first, then every change until the client
// disconnects.
func (h *PostHandler) StreamProgress(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		shared.RespondWithError(w, r, http.StatusInternalServerError, "streaming unsupported",
			shared.WithErrorKind(KindInternal, false))
		return
	}

	ctx := r.Context()
	log := logger.FromContext(ctx, h.logger)

	ch, cancel := h.progress.Subscribe(streamBuffer)
	defer cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)

	if err := writeEvent(w, events.NewProgressEvent("", h.posts.Progress())); err != nil {
		log.DebugContext(ctx, "progress stream closed", "error", err)
		return
	}
	flusher.Flush()

	heartbeat := time.NewTicker(h.heartbeat)
	defer heartbeat.Stop()

	for {
		select {
		case <-ctx.Done():
			log.DebugContext(ctx, "progress stream client disconnected")
			return
		case event, ok := <-ch:
			if !ok {
				return
			}
			if err := writeEvent(w, event); err != nil {
				log.DebugContext(ctx, "progress stream closed", "error", err)
				return
			}
			flusher.Flush()
		case <-heartbeat.C:
			if _, err := fmt.Fprint(w, ": ping\n\n"); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}

// writeEvent writes one progress event in Server-Sent Events framing.
func writeEvent(w http.ResponseWriter, event *events.ProgressEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "id: %s\nevent: progress\ndata: %s\n\n", event.ID, data)
	return err
}

// SuggestTopics handles GET /api/topics/suggestions requests.
// It always succeeds; suggestion failures yield an empty list.
func (h *PostHandler) SuggestTopics(w http.ResponseWriter, r *http.Request) {
	topics := h.posts.SuggestTopics(r.Context(), r.URL.Query().Get("topic"))
	shared.RespondWithJSON(w, r, http.StatusOK, TopicsResponse{Topics: topics})
}

// GetOptions handles GET /api/options requests.
func (h *PostHandler) GetOptions(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithJSON(w, r, http.StatusOK, OptionsResponse{
		Styles:     domain.Styles,
		Lengths:    domain.Lengths,
		CoverModes: domain.CoverModes,
	})
}
