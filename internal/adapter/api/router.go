package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/user/stream-harness/internal/adapter/api/handler"
	"github.com/user/stream-harness/internal/adapter/api/middleware"
	"github.com/user/stream-harness/internal/usecase"
)

// NewControlRouter creates the HTTP router for the simulator's control
// surface.
func NewControlRouter(pool *usecase.Pool, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logging(logger))

	h := handler.NewControlHandler(pool, logger)

	r.Get("/start", h.Start)
	r.Get("/stop", h.Stop)
	r.Get("/increase", h.Increase)
	r.Get("/decrease", h.Decrease)
	r.Get("/status", h.Status)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
	r.Handle("/metrics", promhttp.Handler())

	return r
}
