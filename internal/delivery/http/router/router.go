package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/user/page-analyzer/internal/delivery/http/handler"
	"github.com/user/page-analyzer/internal/delivery/http/middleware"
	"go.uber.org/zap"
)

// DefaultRequestTimeout applies when New gets a non-positive requestTimeout.
const DefaultRequestTimeout = 60 * time.Second

// New wires routes and middleware. Checks block on the remote site for up to
// the fetch timeout, so requestTimeout must stay above it.
func New(h *handler.Handler, logger *zap.Logger, sessionCookie string, requestTimeout time.Duration) http.Handler {
	if requestTimeout <= 0 {
		requestTimeout = DefaultRequestTimeout
	}

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logging(logger))
	r.Use(chimw.Recoverer)
	r.Use(middleware.Metrics)
	r.Use(chimw.Timeout(requestTimeout))

	r.Handle("/metrics", promhttp.Handler())
	r.Get("/health", h.HandleHealthCheck)

	r.Group(func(r chi.Router) {
		r.Use(middleware.Session(sessionCookie))

		r.Get("/", h.HandleIndex)
		r.Route("/urls", func(r chi.Router) {
			r.Get("/", h.HandleListURLs)
			r.Post("/", h.HandleCreateURL)
			r.Get("/{id}", h.HandleShowURL)
			r.Post("/{id}/checks", h.HandleRunCheck)
		})
	})

	return r
}
