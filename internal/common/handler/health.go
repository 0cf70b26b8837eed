package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Pinger is a backend dependency that can report its reachability
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingFunc adapts a function to Pinger
type PingFunc func(ctx context.Context) error

func (f PingFunc) Ping(ctx context.Context) error {
	return f(ctx)
}

// HealthHandler handles health check endpoints
type HealthHandler struct {
	backends map[string]Pinger
}

// NewHealthHandler creates a new HealthHandler checking the named backends.
// Only configured backends are passed in; the memory store has none.
func NewHealthHandler(backends map[string]Pinger) *HealthHandler {
	return &HealthHandler{backends: backends}
}

// HealthResponse represents health check response
type HealthResponse struct {
	Status string `json:"status" example:"ok"`
}

// ReadyResponse represents readiness check response
type ReadyResponse struct {
	Status   string            `json:"status" example:"ok"`
	Backends map[string]string `json:"backends"`
}

// Health godoc
// @Summary Health check
// @Description Returns server health status
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{Status: "ok"})
}

// Ready godoc
// @Summary Readiness check
// @Description Returns server readiness status including nonce backend connectivity
// @Tags health
// @Produce json
// @Success 200 {object} ReadyResponse
// @Failure 503 {object} ReadyResponse
// @Router /ready [get]
func (h *HealthHandler) Ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	response := ReadyResponse{
		Status:   "ok",
		Backends: make(map[string]string, len(h.backends)),
	}
	statusCode := http.StatusOK

	for name, backend := range h.backends {
		if err := backend.Ping(ctx); err != nil {
			response.Backends[name] = "error"
			response.Status = "degraded"
			statusCode = http.StatusServiceUnavailable
			continue
		}
		response.Backends[name] = "ok"
	}

	c.JSON(statusCode, response)
}
