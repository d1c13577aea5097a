// Package http exposes health, readiness, and metrics endpoints plus a
// read-only API over the latest fetch-cycle snapshot.
package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/couchcryptid/disaster-watch/internal/domain"
	"github.com/couchcryptid/disaster-watch/internal/pipeline"
)

// ReadinessChecker reports whether the service is ready to serve traffic.
type ReadinessChecker interface {
	CheckReadiness(ctx context.Context) error
}

// SnapshotProvider hands out the latest completed fetch-cycle snapshot,
// or nil before the first cycle finishes.
type SnapshotProvider interface {
	Latest() *pipeline.Snapshot
}

// Server exposes the HTTP surface of the service.
type Server struct {
	httpServer *http.Server
	snapshots  SnapshotProvider
	logger     *slog.Logger
}

// NewServer creates an HTTP server with health, metrics, and API routes.
func NewServer(addr string, snapshots SnapshotProvider, ready ReadinessChecker, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		snapshots: snapshots,
		logger:    logger,
	}

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", handleReady(ready))
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("GET /v1/assessment", s.handleAssessment)
	mux.HandleFunc("GET /v1/alerts", s.handleAlerts)
	mux.HandleFunc("GET /v1/forecast", s.handleForecast)
	mux.HandleFunc("GET /v1/notifications", s.handleNotifications)

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func handleReady(checker ReadinessChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := checker.CheckReadiness(ctx); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "not ready",
				"error":  err.Error(),
			})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}

// handleAssessment serves the current overall risk assessment. A snapshot
// without an assessment (classification impossible) answers 204 so clients
// render an empty state, not an error.
func (s *Server) handleAssessment(w http.ResponseWriter, _ *http.Request) {
	snap, ok := s.latestOr503(w)
	if !ok {
		return
	}
	if snap.Assessment == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, snap.Assessment)
}

// handleAlerts serves the merged alert set, narrowed by the q, type, and
// severity query parameters.
func (s *Server) handleAlerts(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.latestOr503(w)
	if !ok {
		return
	}

	filter := domain.AlertFilter{
		Query:    r.URL.Query().Get("q"),
		Type:     r.URL.Query().Get("type"),
		Severity: r.URL.Query().Get("severity"),
	}
	alerts := domain.FilterAlerts(snap.Alerts, filter)

	writeJSON(w, http.StatusOK, map[string]any{
		"alerts":     alerts,
		"count":      len(alerts),
		"fetched_at": snap.FetchedAt,
	})
}

func (s *Server) handleForecast(w http.ResponseWriter, _ *http.Request) {
	snap, ok := s.latestOr503(w)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"days":       snap.Forecast,
		"fetched_at": snap.FetchedAt,
	})
}

func (s *Server) handleNotifications(w http.ResponseWriter, _ *http.Request) {
	snap, ok := s.latestOr503(w)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"notifications": snap.Notifications,
		"count":         len(snap.Notifications),
		"fetched_at":    snap.FetchedAt,
	})
}

func (s *Server) latestOr503(w http.ResponseWriter) (*pipeline.Snapshot, bool) {
	snap := s.snapshots.Latest()
	if snap == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "no completed fetch cycle yet"})
		return nil, false
	}
	return snap, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response
}
