// Package api exposes the ledger over HTTP. Each mutating request is
// one unit of work: fresh transaction context, fresh write set,
// commit on success, discard on error.
package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/quaestor-io/quaestor/internal/ledger"
)

// NewRouter builds the HTTP surface over l.
func NewRouter(l *ledger.Ledger) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)

	h := NewHandlers(l)

	r.Get("/health", h.Health)

	r.Route("/api", func(r chi.Router) {
		r.Post("/deployments", h.CreateDeployment)
		r.Get("/deployments", h.ListDeployments)
		r.Get("/deployments/{id}", h.GetDeployment)
		r.Post("/deployments/{id}/revoke", h.RevokeDeployment)

		r.Get("/revocations", h.ListRevocations)

		r.Get("/logs", h.ListLogs)
		r.Get("/logs/{id}", h.GetLog)

		r.Get("/state/digest", h.StateDigest)
	})

	return r
}

// requestLogger emits one structured line per request on the default
// slog logger.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		slog.Info("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration_ms", time.Since(start).Milliseconds(),
			"request_id", middleware.GetReqID(r.Context()))
	})
}
