package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/optiondata/chaincache/internal/refresh"
	"github.com/optiondata/chaincache/internal/store"
)

// createHealthHandler creates the HTTP handler for health checks.
func createHealthHandler(snapStore store.Store, scheduler *refresh.Scheduler) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		stats := scheduler.Stats()

		health := struct {
			Status      string         `json:"status"`
			Refresh     refresh.Stats  `json:"refresh"`
			SnapshotAge *float64       `json:"snapshot_age_seconds,omitempty"`
			Components  map[string]any `json:"components"`
		}{
			Status:     "healthy",
			Refresh:    stats,
			Components: make(map[string]any),
		}

		latest, err := snapStore.Latest(ctx)
		switch {
		case errors.Is(err, store.ErrEmpty):
			// Distinct "no data yet" condition: reportable, not an error.
			health.Components["store"] = "empty"
			health.Status = "degraded"
		case err != nil:
			health.Components["store"] = map[string]string{
				"status": "unavailable",
				"error":  err.Error(),
			}
			health.Status = "unhealthy"
		default:
			age := time.Since(latest.TakenAt).Seconds()
			health.SnapshotAge = &age
			health.Components["store"] = map[string]any{
				"status":     "ok",
				"taken_at":   latest.TakenAt,
				"atm_strike": latest.ATMStrike,
				"rows":       len(latest.Rows),
			}
		}

		w.Header().Set("Content-Type", "application/json")
		if health.Status == "unhealthy" {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
		json.NewEncoder(w).Encode(health)
	})

	return mux
}
