package app

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/redpost/internal/api"
	apiMiddleware "github.com/phrazzld/redpost/internal/api/middleware"
)

// Router creates the application router with all routes and middleware.
func (a *Application) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware(a.Logger))

	postHandler := api.NewPostHandler(a.Generation, a.Emitter, api.DefaultHeartbeat, a.Logger)

	r.Route("/api", func(r chi.Router) {
		r.Post("/posts", postHandler.CreatePost)
		r.Get("/progress", postHandler.GetProgress)
		r.Get("/progress/stream", postHandler.StreamProgress)
		r.Get("/topics/suggestions", postHandler.SuggestTopics)
		r.Get("/options", postHandler.GetOptions)
	})

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			a.Logger.Error("Failed to write health check response", "error", err)
		}
	})

	return r
}
