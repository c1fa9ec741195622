package main

import (
	"os/signal"
	"syscall"

	"github.com/phrazzld/redpost/internal/app"
	"github.com/spf13/cobra"
)

var servePort int

// serveCmd runs the HTTP API
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Long: `Serves the post generation API until SIGINT or SIGTERM:

  POST /api/posts                 generate a post
  GET  /api/progress              current progress
  GET  /api/progress/stream       progress as Server-Sent Events
  GET  /api/topics/suggestions    related topics
  GET  /api/options               styles, lengths and cover modes
  GET  /health                    liveness`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "port to listen on (overrides server.port)")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if servePort > 0 {
		cfg.Server.Port = servePort
	}

	application, err := app.New(ctx, cfg, log, appOptions...)
	if err != nil {
		return err
	}
	return application.Serve(ctx)
}
