package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noor-academy/curriculum-api/internal/dto"
	appErrors "github.com/noor-academy/curriculum-api/pkg/errors"
	"github.com/noor-academy/curriculum-api/pkg/response"
)

type progressReader interface {
	CurrentWeek(ctx context.Context, studentID, programID string) (dto.CurrentWeek, error)
	Snapshot(ctx context.Context, studentID, programID string) (*dto.ProgressSnapshot, error)
}

// ProgressHandler exposes the derived progress views.
type ProgressHandler struct {
	progress progressReader
}

// NewProgressHandler constructs the handler.
func NewProgressHandler(progress progressReader) *ProgressHandler {
	return &ProgressHandler{progress: progress}
}

// Snapshot godoc
// @Summary Get the full progress snapshot for a student's program
// @Description Returns the active week, its milestone position and the complete milestone timeline.
// @Tags Progress
// @Produce json
// @Param id path string true "Student ID"
// @Param program query string true "Program ID"
// @Success 200 {object} response.Envelope
// @Router /students/{id}/progress [get]
func (h *ProgressHandler) Snapshot(c *gin.Context) {
	program := c.Query("program")
	if program == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "program query parameter is required"))
		return
	}
	snapshot, err := h.progress.Snapshot(c.Request.Context(), c.Param("id"), program)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, snapshot, nil)
}

// CurrentWeek godoc
// @Summary Get the active teaching week for a student's program
// @Tags Progress
// @Produce json
// @Param id path string true "Student ID"
// @Param program query string true "Program ID"
// @Success 200 {object} response.Envelope
// @Router /students/{id}/progress/week [get]
func (h *ProgressHandler) CurrentWeek(c *gin.Context) {
	program := c.Query("program")
	if program == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "program query parameter is required"))
		return
	}
	week, err := h.progress.CurrentWeek(c.Request.Context(), c.Param("id"), program)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, week, nil)
}
