package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/student-admin-console/internal/models"
	"github.com/noah-isme/student-admin-console/internal/service"
)

type readinessChecker interface {
	Health(ctx context.Context) models.DiagnosticResult
}

// MetricsHandler exposes observability endpoints.
type MetricsHandler struct {
	metrics *service.MetricsService
	checker readinessChecker
}

// NewMetricsHandler constructs a metrics handler. checker backs /ready; nil
// reports ready unconditionally.
func NewMetricsHandler(metrics *service.MetricsService, checker readinessChecker) *MetricsHandler {
	return &MetricsHandler{metrics: metrics, checker: checker}
}

// Prometheus serves the Prometheus metrics endpoint.
func (h *MetricsHandler) Prometheus(c *gin.Context) {
	if h.metrics == nil {
		c.Status(http.StatusServiceUnavailable)
		return
	}
	h.metrics.Handler().ServeHTTP(c.Writer, c.Request)
}

// Health responds with a generic OK payload for liveness usage.
func (h *MetricsHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Ready reports whether the backend answers its health endpoint.
func (h *MetricsHandler) Ready(c *gin.Context) {
	if h.checker == nil {
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
		return
	}
	result := h.checker.Health(c.Request.Context())
	if !result.Reachable {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "backend": result})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready", "backend": result})
}
