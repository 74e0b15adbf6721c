// Package api exposes a small operator status endpoint on the watch daemon.
package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/aaryanpatel2/nbaliveslack/internal/monitor"
)

// NewRouter creates the status router for a running monitor.
func NewRouter(mon *monitor.Monitor) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	started := time.Now()

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, map[string]string{"status": "ok"})
	})

	r.Get("/status", func(w http.ResponseWriter, _ *http.Request) {
		snap := mon.Snapshot()
		writeJSON(w, map[string]any{
			"tracked_team":   snap.TrackedTeam,
			"tracking":       snap.Tracking,
			"stopped_games":  snap.StoppedGames,
			"uptime_seconds": int(time.Since(started).Seconds()),
		})
	})

	return r
}

// Serve runs the status server until it fails. Intended to be called with
// `go`; a status server failure never takes down the monitor.
func Serve(addr string, mon *monitor.Monitor, logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("Status server listening", "addr", addr)
	if err := http.ListenAndServe(addr, NewRouter(mon)); err != nil {
		logger.Error("Status server stopped", "error", err)
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
