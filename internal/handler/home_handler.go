package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/student-admin-console/internal/models"
	appErrors "github.com/noah-isme/student-admin-console/pkg/errors"
	"github.com/noah-isme/student-admin-console/pkg/response"
)

type diagnosticsService interface {
	Hello(ctx context.Context) models.DiagnosticResult
	Health(ctx context.Context) models.DiagnosticResult
	Version(ctx context.Context) (*models.VersionInfo, error)
}

type metricsSnapshotter interface {
	Snapshot() models.SystemMetrics
}

type snapshotClearer interface {
	Clear(ctx context.Context) error
}

// HomeHandler serves the connectivity and version checks.
type HomeHandler struct {
	diagnostics diagnosticsService
	metrics     metricsSnapshotter
	snapshots   snapshotClearer
}

// NewHomeHandler constructs HomeHandler. snapshots may be nil when snapshot
// mirroring is disabled.
func NewHomeHandler(diagnostics diagnosticsService, metrics metricsSnapshotter, snapshots snapshotClearer) *HomeHandler {
	return &HomeHandler{diagnostics: diagnostics, metrics: metrics, snapshots: snapshots}
}

// Hello godoc
// @Summary Check the backend greeting endpoint
// @Tags Home
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /home/hello [get]
func (h *HomeHandler) Hello(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.diagnostics.Hello(c.Request.Context()))
}

// Health godoc
// @Summary Check the backend health endpoint
// @Tags Home
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /home/health [get]
func (h *HomeHandler) Health(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.diagnostics.Health(c.Request.Context()))
}

// Version godoc
// @Summary Backend version information
// @Tags Home
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /home/version [get]
func (h *HomeHandler) Version(c *gin.Context) {
	info, err := h.diagnostics.Version(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, info)
}

// Metrics godoc
// @Summary Console instrumentation summary
// @Tags Home
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /home/metrics [get]
func (h *HomeHandler) Metrics(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.metrics.Snapshot())
}

// ClearSnapshots godoc
// @Summary Drop the mirrored store snapshots
// @Tags Home
// @Success 204
// @Failure 503 {object} response.Envelope
// @Router /home/snapshots [delete]
func (h *HomeHandler) ClearSnapshots(c *gin.Context) {
	if h.snapshots == nil {
		response.Error(c, appErrors.New("SNAPSHOTS_DISABLED", http.StatusServiceUnavailable, "snapshot mirroring is disabled"))
		return
	}
	if err := h.snapshots.Clear(c.Request.Context()); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
