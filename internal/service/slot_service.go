package service

import (
	"fmt"
	"sort"

	"github.com/noor-academy/curriculum-api/internal/dto"
	"github.com/noor-academy/curriculum-api/internal/models"
	appErrors "github.com/noor-academy/curriculum-api/pkg/errors"
)

// SlotUtilizationService computes hour-grid occupancy for a weekday slot.
// It is a pure calculator: callers fetch the booked occurrences, it derives
// the booked/free partition and a suggested next-available start hour.
type SlotUtilizationService struct{}

// NewSlotUtilizationService constructs the calculator.
func NewSlotUtilizationService() *SlotUtilizationService {
	return &SlotUtilizationService{}
}

// Calculate derives the utilization of one slot on one weekday from the
// occurrences booked that day. An occurrence counts only when its start hour
// lies inside the slot. A main class occupies its start hour and the hour
// after; short and makeup classes occupy a single hour bucket even though
// they run thirty minutes, since the grid is hour-granular.
func (s *SlotUtilizationService) Calculate(dayOfWeek string, slot models.TimeSlot, occurrences []models.ClassOccurrence) (dto.SlotUtilization, error) {
	occupied := make(map[int]bool)
	for _, occurrence := range occurrences {
		if occurrence.DayOfWeek != dayOfWeek {
			continue
		}
		startHour, err := occurrence.StartHour()
		if err != nil {
			return dto.SlotUtilization{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, fmt.Sprintf("occurrence %s has malformed class time", occurrence.ID))
		}
		if !slot.Contains(startHour) {
			continue
		}
		occupied[startHour] = true
		if occurrence.ClassType == models.ClassTypeMain {
			occupied[startHour+1] = true
		}
	}

	booked := make([]int, 0, len(slot.Hours))
	free := make([]int, 0, len(slot.Hours))
	for _, hour := range slot.Hours {
		if occupied[hour] {
			booked = append(booked, hour)
		} else {
			free = append(free, hour)
		}
	}
	sort.Ints(booked)
	sort.Ints(free)

	result := dto.SlotUtilization{
		DayOfWeek:              dayOfWeek,
		Slot:                   slot.Label,
		TotalHours:             slot.TotalHours(),
		BookedHours:            booked,
		FreeHours:              free,
		BookedCount:            len(booked),
		FreeCount:              len(free),
		HasPartialAvailability: len(free) > 0 && len(booked) > 0,
	}
	if slot.TotalHours() > 0 {
		result.UtilizationPercent = float64(len(booked)) / float64(slot.TotalHours()) * 100
	}
	if len(free) > 0 {
		suggested := free[0]
		result.SuggestedStartHour = &suggested
	}
	return result, nil
}

// SuggestStartHour returns the earliest free hour of the slot, or
// ErrNoFreeCapacity when the slot is fully booked. Manual booking must treat
// the error as blocking rather than booking over an occupied hour.
func (s *SlotUtilizationService) SuggestStartHour(dayOfWeek string, slot models.TimeSlot, occurrences []models.ClassOccurrence) (int, error) {
	utilization, err := s.Calculate(dayOfWeek, slot, occurrences)
	if err != nil {
		return 0, err
	}
	if utilization.SuggestedStartHour == nil {
		return 0, appErrors.Clone(appErrors.ErrNoFreeCapacity, fmt.Sprintf("no free hours left in %s slot on %s", slot.Label, dayOfWeek))
	}
	return *utilization.SuggestedStartHour, nil
}
