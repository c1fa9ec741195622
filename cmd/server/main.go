// Package main implements the entry point for the redpost API server, which
// generates social media posts and their cover images with Gemini.
package main

import (
	"context"
	"fmt"
	"log"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/phrazzld/redpost/internal/app"
	"github.com/phrazzld/redpost/internal/config"
	"github.com/phrazzld/redpost/internal/platform/logger"
)

// main is the entry point for the redpost server.
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

// run loads configuration, sets up logging, builds the application and serves
// until ctx is cancelled.
func run(ctx context.Context) error {
	// A missing .env file is fine: configuration may come from the environment.
	_ = godotenv.Load()

	application, err := initializeApp(ctx)
	if err != nil {
		return err
	}
	return application.Serve(ctx)
}

// initializeApp loads configuration and sets up application components.
func initializeApp(ctx context.Context) (*app.Application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	l, err := logger.Setup(cfg.Server)
	if err != nil {
		return nil, fmt.Errorf("failed to set up logger: %w", err)
	}

	l.Info("Server configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel,
		"api_key_present", cfg.LLM.GeminiAPIKey != "")

	application, err := app.New(ctx, cfg, l)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize application: %w", err)
	}
	l.Debug("application initialized")
	return application, nil
}
