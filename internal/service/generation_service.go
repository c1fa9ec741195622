package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/phrazzld/redpost/internal/domain"
	"github.com/phrazzld/redpost/internal/events"
	"github.com/phrazzld/redpost/internal/generation"
	"github.com/phrazzld/redpost/internal/platform/logger"
	"github.com/phrazzld/redpost/internal/progress"
)

// GenerationResult is the outcome of a successful generation request.
type GenerationResult struct {
	RequestID uuid.UUID             `json:"request_id"`
	Post      *domain.GeneratedPost `json:"post"`
	Cover     *domain.CoverResult   `json:"cover"`
}

// GenerationService turns user submissions into posts.
type GenerationService interface {
	// Generate runs a request to completion. It returns ErrBusy when another
	// request is in flight, a domain.ErrValidation error for a bad request,
	// and a *generation.ProviderError when the provider fails.
	Generate(ctx context.Context, req *domain.GenerationRequest) (*GenerationResult, error)

	// SuggestTopics returns related topics. It never fails: any error yields
	// an empty list.
	SuggestTopics(ctx context.Context, topic string) []string

	// Progress returns the current progress state.
	Progress() domain.ProgressState

	// Busy reports whether a request is in flight.
	Busy() bool

	// Close stops background timers.
	Close()
}

// generationServiceImpl implements the GenerationService interface
type generationServiceImpl struct {
	text    generation.TextGenerator
	covers  generation.CoverResolver
	topics  generation.TopicSuggester
	checker generation.CapabilityChecker
	emitter events.EventEmitter

	progress *progress.Simulator
	busy     atomic.Bool
	// requestID is the ID of the request whose progress is being reported.
	requestID atomic.Value

	logger *slog.Logger
}

// NewGenerationService creates a new GenerationService.
// It returns an error if any of the required dependencies are nil.
// The Observer of progressOpts is replaced: progress is published through emitter.
func NewGenerationService(
	text generation.TextGenerator,
	covers generation.CoverResolver,
	topics generation.TopicSuggester,
	checker generation.CapabilityChecker,
	emitter events.EventEmitter,
	progressOpts progress.Options,
	logger *slog.Logger,
) (GenerationService, error) {
	// Validate dependencies
	if text == nil {
		return nil, NewGenerationServiceError("create_service", "text generator cannot be nil", nil)
	}
	if covers == nil {
		return nil, NewGenerationServiceError("create_service", "cover resolver cannot be nil", nil)
	}
	if topics == nil {
		return nil, NewGenerationServiceError("create_service", "topic suggester cannot be nil", nil)
	}
	if checker == nil {
		return nil, NewGenerationServiceError("create_service", "capability checker cannot be nil", nil)
	}
	if emitter == nil {
		return nil, NewGenerationServiceError("create_service", "event emitter cannot be nil", nil)
	}
	if logger == nil {
		return nil, NewGenerationServiceError("create_service", "logger cannot be nil", nil)
	}

	s := &generationServiceImpl{
		text:    text,
		covers:  covers,
		topics:  topics,
		checker: checker,
		emitter: emitter,
		logger:  logger.With("component", "generation_service"),
	}
	s.requestID.Store("")

	progressOpts.Observer = s.publishProgress
	sim, err := progress.NewSimulator(progressOpts, logger)
	if err != nil {
		return nil, NewGenerationServiceError("create_service", "invalid progress options", err)
	}
	s.progress = sim

	return s, nil
}

// Generate runs text generation and then cover resolution for req.
func (s *generationServiceImpl) Generate(
	ctx context.Context,
	req *domain.GenerationRequest,
) (*GenerationResult, error) {
	if req == nil {
		return nil, NewGenerationServiceError("generate", "request is required", domain.ErrValidation)
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	if !s.busy.CompareAndSwap(false, true) {
		s.logger.WarnContext(ctx, "rejected request while another is in flight", "request_id", req.ID)
		return nil, ErrBusy
	}
	defer s.busy.Store(false)

	ctx = logger.WithRequestID(logger.WithLogger(ctx, s.logger), req.ID.String())
	log := logger.FromContext(ctx, s.logger)

	// Readiness is confirmed for every request rather than assumed from an
	// earlier success.
	if err := s.checker.Ready(ctx); err != nil {
		perr := generation.FromError(err)
		log.WarnContext(ctx, "provider not ready", "kind", perr.Kind)
		return nil, perr
	}

	log.InfoContext(ctx, "generation started",
		"style", req.Style,
		"length", req.Length,
		"cover_mode", req.CoverMode,
		"has_reference", req.HasReference())

	s.requestID.Store(req.ID.String())
	s.progress.Begin()
	finished := false
	defer func() {
		s.progress.Halt()
		if !finished {
			s.progress.Fail()
		}
	}()

	post, err := s.text.GenerateText(ctx, req)
	if err != nil {
		err = providerError(err)
		log.ErrorContext(ctx, "text generation failed", "kind", generation.KindOf(err), "error", err)
		return nil, err
	}

	if req.CoverMode.WantsImage() {
		s.progress.EnterCover()
	}

	cover, err := s.covers.ResolveCover(ctx, req, post)
	if err != nil {
		log.ErrorContext(ctx, "cover resolution failed", "error", err)
		return nil, NewGenerationServiceError("resolve_cover", "failed to resolve cover", err)
	}
	if err := cover.Validate(); err != nil {
		log.ErrorContext(ctx, "cover resolver returned an invalid cover", "error", err)
		return nil, NewGenerationServiceError("resolve_cover", "invalid cover", err)
	}

	finished = true
	s.progress.Complete()

	log.InfoContext(ctx, "generation completed",
		"cover_kind", cover.Kind,
		"cover_fallback", cover.Fallback)

	return &GenerationResult{RequestID: req.ID, Post: post, Cover: cover}, nil
}

// SuggestTopics asks the suggester for related topics, absorbing failures.
func (s *generationServiceImpl) SuggestTopics(ctx context.Context, topic string) []string {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return []string{}
	}

	topics, err := s.topics.SuggestTopics(ctx, topic)
	if err != nil {
		s.logger.WarnContext(ctx, "topic suggestion failed", "kind", generation.KindOf(err), "error", err)
		return []string{}
	}
	if topics == nil {
		return []string{}
	}
	return topics
}

// Progress returns the current progress state.
func (s *generationServiceImpl) Progress() domain.ProgressState {
	return s.progress.Snapshot()
}

// Busy reports whether a request is in flight.
func (s *generationServiceImpl) Busy() bool {
	return s.busy.Load()
}

// Close stops the progress timers.
func (s *generationServiceImpl) Close() {
	s.progress.Close()
}

// publishProgress forwards a progress state to the event emitter.
func (s *generationServiceImpl) publishProgress(state domain.ProgressState) {
	id, _ := s.requestID.Load().(string)
	if state.Phase == domain.PhaseIdle {
		id = ""
	}

	event := events.NewProgressEvent(id, state)
	if err := s.emitter.EmitEvent(context.Background(), event); err != nil {
		s.logger.Warn("failed to publish progress event",
			"error", err,
			"request_id", id,
			"percent", state.Percent)
	}
}

// providerError keeps validation errors as they are and classifies anything
// else as a provider error.
func providerError(err error) error {
	if errors.Is(err, domain.ErrValidation) {
		return err
	}
	return generation.FromError(err)
}
