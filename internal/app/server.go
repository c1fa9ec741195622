package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"
)

// ShutdownTimeout bounds how long in-flight requests may run after shutdown
// begins. Generation calls are cancelled through their request context.
const ShutdownTimeout = 10 * time.Second

// Serve runs the HTTP server on the configured port until ctx is cancelled,
// then shuts down gracefully and releases application resources.
func (a *Application) Serve(ctx context.Context) error {
	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", a.Config.Server.Port))
	if err != nil {
		return fmt.Errorf("failed to listen: %w", err)
	}
	return a.ServeListener(ctx, ln)
}

// ServeListener is Serve on an existing listener.
func (a *Application) ServeListener(ctx context.Context, ln net.Listener) error {
	server := &http.Server{
		Handler:           a.Router(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	serverCtx, cancelServer := context.WithCancel(ctx)
	defer cancelServer()

	errCh := make(chan error, 1)
	go func() {
		a.Logger.Info("Starting server", "addr", ln.Addr().String())
		if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.Logger.Error("Server failed", "error", err)
			errCh <- err
			cancelServer()
		}
	}()

	<-serverCtx.Done()
	a.Logger.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer shutdownCancel()

	var serveErr error
	select {
	case serveErr = <-errCh:
	default:
	}

	if err := server.Shutdown(shutdownCtx); err != nil {
		a.Logger.Error("Server shutdown failed", "error", err)
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	a.Close()

	if serveErr != nil {
		return fmt.Errorf("server failed: %w", serveErr)
	}
	a.Logger.Info("Server shutdown completed")
	return nil
}
