package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"scriptflow/internal/http/handlers"
	"scriptflow/internal/middleware"
)

// Options configures the HTTP surface.
type Options struct {
	CORSOrigins     []string
	RateLimitPerMin int
}

func NewRouter(app *handlers.App, logger zerolog.Logger, opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(
		chimw.RealIP,
		chimw.Recoverer,
		middleware.RequestID,
		middleware.Logger(logger),
		middleware.CORS(opts.CORSOrigins),
	)
	if opts.RateLimitPerMin > 0 {
		r.Use(middleware.RateLimit(opts.RateLimitPerMin, time.Minute))
	}

	r.Get("/v1/healthz", app.Health)

	r.Route("/v1", func(r chi.Router) {
		r.Use(middleware.Subject)

		r.Route("/generation", func(r chi.Router) {
			r.Post("/batch", app.BatchStart)
			r.Delete("/batch", app.BatchStop)
			r.Get("/progress", app.Progress)
		})

		r.Route("/scripts", func(r chi.Router) {
			r.Get("/", app.ScriptsList)
			r.Get("/{job_id}", app.ScriptsGet)
			r.Post("/{job_id}/revision", app.RevisionRequest)
			r.Post("/{job_id}/revision/reset", app.RevisionReset)
		})

		r.Get("/stats", app.StatsSummary)
	})

	return r
}
