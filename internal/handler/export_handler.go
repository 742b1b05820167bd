package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/student-admin-console/internal/service"
	"github.com/noah-isme/student-admin-console/pkg/response"
)

type exportService interface {
	Export(ctx context.Context, dataset, format string) (*service.ExportFile, error)
	CourseCalendar(ctx context.Context) (*service.ExportFile, error)
}

// ExportHandler streams rendered downloads.
type ExportHandler struct {
	exports exportService
}

// NewExportHandler constructs ExportHandler.
func NewExportHandler(exports exportService) *ExportHandler {
	return &ExportHandler{exports: exports}
}

// Export godoc
// @Summary Download a dataset
// @Tags Exports
// @Produce text/csv
// @Produce application/pdf
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param dataset path string true "students, courses or enrollments"
// @Param format query string false "csv (default), pdf or xlsx"
// @Success 200 {file} file
// @Router /exports/{dataset} [get]
func (h *ExportHandler) Export(c *gin.Context) {
	file, err := h.exports.Export(c.Request.Context(), c.Param("dataset"), c.Query("format"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, file.Filename, file.ContentType, file.Body)
}

// Calendar godoc
// @Summary Course calendar feed
// @Tags Exports
// @Produce text/calendar
// @Success 200 {file} file
// @Router /courses/calendar.ics [get]
func (h *ExportHandler) Calendar(c *gin.Context) {
	file, err := h.exports.CourseCalendar(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, file.Filename, file.ContentType, file.Body)
}
