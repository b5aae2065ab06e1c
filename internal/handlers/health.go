package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/sbilibin2017/finanfun/internal/logger"
)

// Pinger reports storage reachability.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthResponse describes service health.
// swagger:model HealthResponse
type HealthResponse struct {
	// default: ok
	Status string `json:"status"`
	// connected or disconnected
	Database  string    `json:"database"`
	Timestamp time.Time `json:"timestamp"`
}

// NewHealthHandler reports liveness and storage connectivity. It always answers 200.
// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} handlers.HealthResponse
// @Router /health [get]
func NewHealthHandler(db Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := "connected"
		if err := db.Ping(r.Context()); err != nil {
			logger.Log.Errorw("health check ping failed", "err", err)
			status = "disconnected"
		}

		writeJSON(w, http.StatusOK, HealthResponse{
			Status:    "ok",
			Database:  status,
			Timestamp: time.Now().UTC(),
		})
	}
}
