package handler

import (
	"context"
	"database/sql"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noor-academy/curriculum-api/internal/models"
	appErrors "github.com/noor-academy/curriculum-api/pkg/errors"
	"github.com/noor-academy/curriculum-api/pkg/response"
)

type studentReader interface {
	FindByID(ctx context.Context, id string) (*models.Student, error)
}

// ProgramHandler serves the program catalogue and student availability
// preferences.
type ProgramHandler struct {
	catalog  *models.ProgramCatalog
	students studentReader
}

// NewProgramHandler constructs the handler.
func NewProgramHandler(catalog *models.ProgramCatalog, students studentReader) *ProgramHandler {
	return &ProgramHandler{catalog: catalog, students: students}
}

// List godoc
// @Summary List curriculum programs with their milestone plans
// @Tags Programs
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /programs [get]
func (h *ProgramHandler) List(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.catalog.List(), nil)
}

// Get godoc
// @Summary Get one program and its milestone plan
// @Tags Programs
// @Produce json
// @Param id path string true "Program ID"
// @Success 200 {object} response.Envelope
// @Router /programs/{id} [get]
func (h *ProgramHandler) Get(c *gin.Context) {
	program, ok := h.catalog.Find(c.Param("id"))
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrUnknownProgram, "program not found"))
		return
	}
	response.JSON(c, http.StatusOK, program, nil)
}

// Availability godoc
// @Summary Get a student's booking availability preferences
// @Description Returns the preferred days, slot labels and timezone captured at admission, for pre-filling the schedule generator.
// @Tags Students
// @Produce json
// @Param id path string true "Student ID"
// @Success 200 {object} response.Envelope
// @Router /students/{id}/availability [get]
func (h *ProgramHandler) Availability(c *gin.Context) {
	student, err := h.students.FindByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "student not found"))
			return
		}
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student"))
		return
	}
	response.JSON(c, http.StatusOK, student.Availability(), nil)
}
