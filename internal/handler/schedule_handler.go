package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noor-academy/curriculum-api/internal/dto"
	"github.com/noor-academy/curriculum-api/internal/models"
	appErrors "github.com/noor-academy/curriculum-api/pkg/errors"
	"github.com/noor-academy/curriculum-api/pkg/response"
)

type scheduleGenerator interface {
	Generate(ctx context.Context, req dto.GenerateScheduleRequest) (*dto.GenerateScheduleResponse, error)
	Regenerate(ctx context.Context, req dto.GenerateScheduleRequest) (*dto.GenerateScheduleResponse, error)
}

type scheduleBooker interface {
	BookMakeup(ctx context.Context, req dto.BookMakeupRequest) (*models.ClassOccurrence, error)
	Reschedule(ctx context.Context, id string, req dto.RescheduleRequest) (*models.ClassOccurrence, error)
	Complete(ctx context.Context, id string) (*models.ClassOccurrence, error)
}

type occurrenceLister interface {
	ListByStudent(ctx context.Context, studentID string, filter models.OccurrenceFilter) ([]models.ClassOccurrence, error)
}

// ScheduleHandler exposes calendar generation and per-occurrence booking
// endpoints.
type ScheduleHandler struct {
	generator   scheduleGenerator
	booking     scheduleBooker
	occurrences occurrenceLister
}

// NewScheduleHandler constructs the handler.
func NewScheduleHandler(generator scheduleGenerator, booking scheduleBooker, occurrences occurrenceLister) *ScheduleHandler {
	return &ScheduleHandler{generator: generator, booking: booking, occurrences: occurrences}
}

// Generate godoc
// @Summary Generate the full recurring class calendar for a student's program
// @Description Creates every weekly main/short occurrence of the program in one transaction. Fails with 409 when the pair already has a schedule.
// @Tags Schedules
// @Accept json
// @Produce json
// @Param payload body dto.GenerateScheduleRequest true "Generate schedule payload"
// @Success 201 {object} response.Envelope
// @Router /schedules/generate [post]
func (h *ScheduleHandler) Generate(c *gin.Context) {
	var req dto.GenerateScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid generate payload"))
		return
	}
	result, err := h.generator.Generate(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}

// Regenerate godoc
// @Summary Rebuild a student's program calendar from scratch
// @Description Drops every existing occurrence for the pair and generates a fresh calendar at the new day/time coordinates.
// @Tags Schedules
// @Accept json
// @Produce json
// @Param payload body dto.GenerateScheduleRequest true "Regenerate schedule payload"
// @Success 201 {object} response.Envelope
// @Router /schedules/regenerate [post]
func (h *ScheduleHandler) Regenerate(c *gin.Context) {
	var req dto.GenerateScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid regenerate payload"))
		return
	}
	result, err := h.generator.Regenerate(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}

// ListForStudent godoc
// @Summary List a student's class occurrences
// @Tags Schedules
// @Produce json
// @Param id path string true "Student ID"
// @Param program query string false "Program filter"
// @Param day query string false "Day-of-week filter"
// @Param classType query string false "Class type filter (main, short, makeup)"
// @Success 200 {object} response.Envelope
// @Router /students/{id}/schedules [get]
func (h *ScheduleHandler) ListForStudent(c *gin.Context) {
	filter := models.OccurrenceFilter{
		Program: c.Query("program"),
	}
	if classType := models.ClassType(c.Query("classType")); classType != "" {
		if !classType.Valid() {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid classType filter"))
			return
		}
		filter.ClassType = classType
	}
	if day := c.Query("day"); day != "" {
		normalized, err := models.NormalizeDayOfWeek(day)
		if err != nil {
			response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid day filter"))
			return
		}
		filter.DayOfWeek = normalized
	}
	occurrences, err := h.occurrences.ListByStudent(c.Request.Context(), c.Param("id"), filter)
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list schedules"))
		return
	}
	response.JSON(c, http.StatusOK, occurrences, nil, map[string]interface{}{"count": len(occurrences)})
}

// BookMakeup godoc
// @Summary Book an ad-hoc makeup class in a free slot hour
// @Description Books a half-hour makeup class at the earliest free hour of the requested slot, or at the pinned time when provided. Fails with 409 when the slot is fully booked.
// @Tags Schedules
// @Accept json
// @Produce json
// @Param payload body dto.BookMakeupRequest true "Makeup booking payload"
// @Success 201 {object} response.Envelope
// @Router /schedules/makeup [post]
func (h *ScheduleHandler) BookMakeup(c *gin.Context) {
	var req dto.BookMakeupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid makeup payload"))
		return
	}
	occurrence, err := h.booking.BookMakeup(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, occurrence)
}

// Reschedule godoc
// @Summary Move one class occurrence to a new day and time
// @Tags Schedules
// @Accept json
// @Produce json
// @Param id path string true "Occurrence ID"
// @Param payload body dto.RescheduleRequest true "Reschedule payload"
// @Success 200 {object} response.Envelope
// @Router /schedules/{id}/reschedule [patch]
func (h *ScheduleHandler) Reschedule(c *gin.Context) {
	var req dto.RescheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid reschedule payload"))
		return
	}
	occurrence, err := h.booking.Reschedule(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, occurrence, nil)
}

// Complete godoc
// @Summary Mark a class occurrence completed
// @Tags Schedules
// @Produce json
// @Param id path string true "Occurrence ID"
// @Success 200 {object} response.Envelope
// @Router /schedules/{id}/complete [post]
func (h *ScheduleHandler) Complete(c *gin.Context) {
	occurrence, err := h.booking.Complete(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, occurrence, nil)
}
