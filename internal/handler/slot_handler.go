package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noor-academy/curriculum-api/internal/dto"
	"github.com/noor-academy/curriculum-api/internal/models"
	"github.com/noor-academy/curriculum-api/internal/service"
	appErrors "github.com/noor-academy/curriculum-api/pkg/errors"
	"github.com/noor-academy/curriculum-api/pkg/response"
)

type dayOccurrenceLister interface {
	ListByDay(ctx context.Context, dayOfWeek string) ([]models.ClassOccurrence, error)
}

// SlotHandler exposes the booking grid: slot catalogue and per-day
// utilization.
type SlotHandler struct {
	occurrences dayOccurrenceLister
	slots       *models.SlotCatalog
	utilization *service.SlotUtilizationService
}

// NewSlotHandler constructs the handler.
func NewSlotHandler(occurrences dayOccurrenceLister, slots *models.SlotCatalog, utilization *service.SlotUtilizationService) *SlotHandler {
	return &SlotHandler{occurrences: occurrences, slots: slots, utilization: utilization}
}

// List godoc
// @Summary List the bookable time slots
// @Tags Slots
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /slots [get]
func (h *SlotHandler) List(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.slots.List(), nil)
}

// Utilization godoc
// @Summary Get booked/free hour partition for a weekday
// @Description Computes utilization of the named slot on the given day. When slot is omitted, every slot of the day grid is returned.
// @Tags Slots
// @Produce json
// @Param day query string true "Day of week"
// @Param slot query string false "Slot label (Morning, Afternoon, Evening, Night)"
// @Success 200 {object} response.Envelope
// @Router /slots/utilization [get]
func (h *SlotHandler) Utilization(c *gin.Context) {
	var query dto.SlotUtilizationQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid utilization query"))
		return
	}
	day, err := models.NormalizeDayOfWeek(query.Day)
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid day"))
		return
	}

	occurrences, err := h.occurrences.ListByDay(c.Request.Context(), day)
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load booked occurrences"))
		return
	}

	if query.Slot != "" {
		slot, ok := h.slots.Find(query.Slot)
		if !ok {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "unknown time slot"))
			return
		}
		result, err := h.utilization.Calculate(day, slot, occurrences)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.JSON(c, http.StatusOK, result, nil)
		return
	}

	results := make([]dto.SlotUtilization, 0, len(h.slots.List()))
	for _, slot := range h.slots.List() {
		result, err := h.utilization.Calculate(day, slot, occurrences)
		if err != nil {
			response.Error(c, err)
			return
		}
		results = append(results, result)
	}
	response.JSON(c, http.StatusOK, results, nil)
}
