// Package app wires configuration, the Gemini adapters, cover resolution and
// the generation service into one Application shared by the server and CLI
// binaries.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/phrazzld/redpost/internal/config"
	"github.com/phrazzld/redpost/internal/cover"
	"github.com/phrazzld/redpost/internal/events"
	"github.com/phrazzld/redpost/internal/platform/gemini"
	"github.com/phrazzld/redpost/internal/progress"
	"github.com/phrazzld/redpost/internal/service"
)

// Application holds all the shared application dependencies to simplify
// management and ensure proper cleanup on shutdown.
type Application struct {
	Config *config.Config
	Logger *slog.Logger

	// Emitter publishes progress events to stream subscribers and handlers.
	Emitter *events.InMemoryEventEmitter

	// Generation is the post generation service.
	Generation service.GenerationService

	geminiOpts []gemini.Option
	coverOpts  []cover.Option
}

// Option customizes an Application before its dependencies are built.
type Option func(*Application)

// WithGeminiOptions passes options to the Gemini client, e.g. a custom HTTP
// client or a fake content generator in tests.
func WithGeminiOptions(opts ...gemini.Option) Option {
	return func(a *Application) {
		a.geminiOpts = append(a.geminiOpts, opts...)
	}
}

// WithCoverOptions passes options to the cover resolver.
func WithCoverOptions(opts ...cover.Option) Option {
	return func(a *Application) {
		a.coverOpts = append(a.coverOpts, opts...)
	}
}

// New creates an Application with all dependencies initialized.
// A missing API key is not an error: generation then fails with an
// auth-missing error so the user can be told to configure one.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger, opts ...Option) (*Application, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	app := &Application{
		Config: cfg,
		Logger: logger,
	}
	for _, opt := range opts {
		opt(app)
	}

	client, err := gemini.NewClient(ctx, cfg.LLM, logger, app.geminiOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize gemini client: %w", err)
	}

	text, err := gemini.NewTextGenerator(client, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize text generator: %w", err)
	}
	images, err := gemini.NewImageGenerator(client, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize image generator: %w", err)
	}
	topics, err := gemini.NewTopicSuggester(client, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize topic suggester: %w", err)
	}
	logger.Info("LLM adapters initialized",
		"text_model", cfg.LLM.TextModel,
		"image_model", cfg.LLM.ImageModel,
		"base_url_override", cfg.LLM.BaseURL != "")

	resolver, err := cover.NewResolver(images, cfg.Cover, logger, app.coverOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cover resolver: %w", err)
	}

	app.Emitter = events.NewInMemoryEventEmitter(logger)

	app.Generation, err = service.NewGenerationService(
		text,
		resolver,
		topics,
		client,
		app.Emitter,
		progress.Options{
			Interval:    cfg.Progress.TickInterval(),
			SoftCeiling: cfg.Progress.SoftCeiling,
			DoneHold:    cfg.Progress.DoneHold(),
		},
		logger,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create generation service: %w", err)
	}

	return app, nil
}

// Close releases background resources.
func (a *Application) Close() {
	if a.Generation != nil {
		a.Generation.Close()
	}
	a.Logger.Info("application resources released")
}
