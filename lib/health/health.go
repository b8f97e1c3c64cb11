package health

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/icco/podcast/lib/types"
)

// Checker is the part of the store the health check needs.
type Checker interface {
	Ping(ctx context.Context) error
	Stats(ctx context.Context) (*types.StatsData, error)
}

// Health represents the health check response structure.
type Health struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	DB        struct {
		Status  string           `json:"status"`
		Message string           `json:"message,omitempty"`
		Stats   *types.StatsData `json:"stats,omitempty"`
	} `json:"db"`
}

// Check returns an HTTP handler that pings the database and reports row
// counts. It answers 503 when the database is unreachable.
func Check(c Checker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		health := Health{
			Status:    "ok",
			Timestamp: time.Now(),
		}

		if err := c.Ping(ctx); err != nil {
			slog.ErrorContext(ctx, "Database ping failed", slog.Any("error", err))
			health.Status = "degraded"
			health.DB.Status = "error"
			health.DB.Message = "Database ping failed"
			writeHealth(w, health, http.StatusServiceUnavailable)
			return
		}

		stats, err := c.Stats(ctx)
		if err != nil {
			slog.ErrorContext(ctx, "Failed to read database stats", slog.Any("error", err))
			health.Status = "degraded"
			health.DB.Status = "error"
			health.DB.Message = "Failed to read database stats"
			writeHealth(w, health, http.StatusServiceUnavailable)
			return
		}

		health.DB.Status = "ok"
		health.DB.Stats = stats
		writeHealth(w, health, http.StatusOK)
	}
}

func writeHealth(w http.ResponseWriter, health Health, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(health); err != nil {
		slog.Error("Failed to encode health response", slog.Any("error", err))
	}
}
