package handlers

import (
	"encoding/json"
	"net/http"
	"time"
)

// HealthResponse represents the health check response
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	ChainID string `json:"chainId"`
	Uptime  string `json:"uptime"`
}

// HealthHandler handles health check requests
type HealthHandler struct {
	version string
	chainID string
	started time.Time
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(version, chainID string) *HealthHandler {
	return &HealthHandler{
		version: version,
		chainID: chainID,
		started: time.Now(),
	}
}

// Health handles GET /health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(HealthResponse{
		Status:  "ok",
		Version: h.version,
		ChainID: h.chainID,
		Uptime:  time.Since(h.started).Round(time.Second).String(),
	})
}
