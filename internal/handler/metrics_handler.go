package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/seatwise/seatwise-api/internal/service"
	"github.com/seatwise/seatwise-api/pkg/response"
)

// ReadinessCheck probes one downstream dependency.
type ReadinessCheck func(ctx context.Context) error

// MetricsHandler exposes liveness, readiness and metrics endpoints.
type MetricsHandler struct {
	metrics *service.MetricsService
	env     string
	started time.Time
	checks  map[string]ReadinessCheck
}

// NewMetricsHandler constructs the handler.
func NewMetricsHandler(metrics *service.MetricsService, env string, checks map[string]ReadinessCheck) *MetricsHandler {
	return &MetricsHandler{
		metrics: metrics,
		env:     env,
		started: time.Now(),
		checks:  checks,
	}
}

// Health godoc
// @Summary Liveness probe
// @Tags ops
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /health [get]
func (h *MetricsHandler) Health(c *gin.Context) {
	response.JSON(c, http.StatusOK, gin.H{
		"status":  "ok",
		"env":     h.env,
		"uptime":  time.Since(h.started).String(),
		"metrics": h.metrics.Snapshot(),
	})
}

// Ready godoc
// @Summary Readiness probe
// @Tags ops
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 503 {object} response.Envelope
// @Router /ready [get]
func (h *MetricsHandler) Ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	deps := gin.H{}
	for name, check := range h.checks {
		if err := check(ctx); err != nil {
			status = http.StatusServiceUnavailable
			deps[name] = err.Error()
			continue
		}
		deps[name] = "ok"
	}

	if status != http.StatusOK {
		c.JSON(status, response.Envelope{Data: gin.H{"status": "degraded", "dependencies": deps}})
		return
	}
	response.JSON(c, status, gin.H{"status": "ready", "dependencies": deps})
}

// Prometheus serves the scrape endpoint.
func (h *MetricsHandler) Prometheus(c *gin.Context) {
	h.metrics.Handler().ServeHTTP(c.Writer, c.Request)
}
