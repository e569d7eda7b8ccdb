package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// HealthHandler serves liveness and readiness. Liveness never touches the
// store; readiness pings it with a short deadline.
type HealthHandler struct {
	Pool    *pgxpool.Pool
	Version string
}

func NewHealthHandler(pool *pgxpool.Pool, version string) *HealthHandler {
	if version == "" {
		version = "dev"
	}
	return &HealthHandler{Pool: pool, Version: version}
}

type healthResponse struct {
	Status    string `json:"status"`
	Version   string `json:"version"`
	Timestamp string `json:"timestamp"`
}

func (h *HealthHandler) health(status string) healthResponse {
	return healthResponse{
		Status:    status,
		Version:   h.Version,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

func (h *HealthHandler) Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.health("ok"))
}

func (h *HealthHandler) Readyz(w http.ResponseWriter, r *http.Request) {
	if h.Pool == nil {
		writeJSON(w, http.StatusServiceUnavailable, healthResponse{
			Status:    "unavailable",
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.Pool.Ping(ctx); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, h.health("unavailable"))
		return
	}

	writeJSON(w, http.StatusOK, h.health("ready"))
}
