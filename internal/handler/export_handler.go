package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noor-academy/curriculum-api/internal/service"
	appErrors "github.com/noor-academy/curriculum-api/pkg/errors"
	"github.com/noor-academy/curriculum-api/pkg/response"
)

type progressExporter interface {
	ExportProgress(ctx context.Context, studentID, programID string, format service.ExportFormat) (*service.ExportResult, error)
}

// ExportHandler serves downloadable progress reports.
type ExportHandler struct {
	exports progressExporter
}

// NewExportHandler constructs the handler.
func NewExportHandler(exports progressExporter) *ExportHandler {
	return &ExportHandler{exports: exports}
}

// ExportProgress godoc
// @Summary Download a student's progress timeline as CSV or PDF
// @Tags Progress
// @Produce octet-stream
// @Param id path string true "Student ID"
// @Param program query string true "Program ID"
// @Param format query string false "Export format (csv or pdf, default csv)"
// @Success 200 {file} binary
// @Router /students/{id}/progress/export [get]
func (h *ExportHandler) ExportProgress(c *gin.Context) {
	program := c.Query("program")
	if program == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "program query parameter is required"))
		return
	}
	format := service.ExportFormat(c.DefaultQuery("format", string(service.ExportCSV)))

	result, err := h.exports.ExportProgress(c.Request.Context(), c.Param("id"), program, format)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.FileName))
	c.Data(http.StatusOK, result.ContentType, result.Data)
}
