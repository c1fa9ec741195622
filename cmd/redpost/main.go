// Package main implements the redpost command line interface. It generates a
// post and its cover from the terminal, suggests related topics, and can run
// the HTTP API.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/joho/godotenv"
	"github.com/phrazzld/redpost/internal/app"
	"github.com/phrazzld/redpost/internal/config"
	"github.com/phrazzld/redpost/internal/platform/logger"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	logLevel  string
	jsonLogs  bool
	configDir string

	// Set by the root command before any subcommand runs.
	cfg    *config.Config
	log    *slog.Logger
	stderr io.Writer

	// appOptions are passed to app.New; tests use them to replace the model.
	appOptions []app.Option
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "redpost",
	Short: "Generate lifestyle social posts and covers with Gemini",
	Long: `redpost writes a titled, tagged lifestyle post for a topic in one of
four tones and produces a 3:4 cover for it.

The API key is read from GEMINI_API_KEY, API_KEY or REDPOST_LLM_GEMINI_API_KEY,
and a .env file in the working directory is loaded first.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		_ = godotenv.Load()

		if configDir != "" {
			if err := os.Setenv(config.EnvPrefix+"_CONFIG_DIR", configDir); err != nil {
				return fmt.Errorf("failed to set config dir: %w", err)
			}
		}
		if logLevel != "" {
			if err := os.Setenv(config.EnvPrefix+"_SERVER_LOG_LEVEL", strings.ToLower(logLevel)); err != nil {
				return fmt.Errorf("failed to set log level: %w", err)
			}
		}

		loaded, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		cfg = loaded

		// Logs and the progress bar share stderr.
		stderr = &lockedWriter{w: cmd.ErrOrStderr()}
		log, err = logger.SetupWithWriter(cfg.Server, stderr, jsonLogs)
		if err != nil {
			return fmt.Errorf("failed to set up logger: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&jsonLogs, "json-logs", false, "write logs as JSON")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "directory containing config.yaml")

	rootCmd.AddCommand(generateCmd, suggestCmd, serveCmd)
}

// lockedWriter serializes writes from concurrent goroutines.
type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
