package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noor-academy/curriculum-api/internal/dto"
	"github.com/noor-academy/curriculum-api/internal/models"
	appErrors "github.com/noor-academy/curriculum-api/pkg/errors"
)

type bookingOccurrenceStore interface {
	ListByDay(ctx context.Context, dayOfWeek string) ([]models.ClassOccurrence, error)
	FindByID(ctx context.Context, id string) (*models.ClassOccurrence, error)
	Create(ctx context.Context, occurrence *models.ClassOccurrence) error
	MarkCompleted(ctx context.Context, id string, completedAt time.Time) error
	Reschedule(ctx context.Context, id, dayOfWeek, classTime string, meetingLink *string) error
}

// BookingService handles the manual, single-occurrence operations: ad-hoc
// makeup bookings, rescheduling, and marking classes completed.
type BookingService struct {
	occurrences bookingOccurrenceStore
	catalog     *models.ProgramCatalog
	slots       *models.SlotCatalog
	utilization *SlotUtilizationService
	progress    snapshotInvalidator
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewBookingService wires booking dependencies.
func NewBookingService(
	occurrences bookingOccurrenceStore,
	catalog *models.ProgramCatalog,
	slots *models.SlotCatalog,
	utilization *SlotUtilizationService,
	progress snapshotInvalidator,
	validate *validator.Validate,
	logger *zap.Logger,
) *BookingService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if utilization == nil {
		utilization = NewSlotUtilizationService()
	}
	return &BookingService{
		occurrences: occurrences,
		catalog:     catalog,
		slots:       slots,
		utilization: utilization,
		progress:    progress,
		validator:   validate,
		logger:      logger,
	}
}

// BookMakeup books a half-hour makeup class inside the requested slot. The
// start hour is the earliest free hour unless the caller pins an explicit
// time, which must itself be free. A fully booked slot is a blocking error,
// never booked over.
func (s *BookingService) BookMakeup(ctx context.Context, req dto.BookMakeupRequest) (*models.ClassOccurrence, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid makeup booking payload")
	}
	program, ok := s.catalog.Find(req.Program)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrUnknownProgram, fmt.Sprintf("program %s is not in the catalogue", req.Program))
	}
	if req.AcademicYear > program.DurationYears || req.WeekNumber > program.WeeksPerYear {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("week %d of year %d is outside program %s", req.WeekNumber, req.AcademicYear, req.Program))
	}
	day, err := models.NormalizeDayOfWeek(req.DayOfWeek)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid booking day")
	}
	slot, ok := s.slots.Find(req.Slot)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown time slot %q", req.Slot))
	}

	booked, err := s.occurrences.ListByDay(ctx, day)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load booked occurrences")
	}
	utilization, err := s.utilization.Calculate(day, slot, booked)
	if err != nil {
		return nil, err
	}
	if utilization.FreeCount == 0 {
		return nil, appErrors.Clone(appErrors.ErrNoFreeCapacity, fmt.Sprintf("no free hours left in %s slot on %s", slot.Label, day))
	}

	classTime := req.ClassTime
	if classTime == "" {
		classTime = fmt.Sprintf("%02d:00", *utilization.SuggestedStartHour)
	} else {
		hour, _, err := models.ParseClassTime(classTime)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid booking time")
		}
		if !slot.Contains(hour) {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("hour %d is outside the %s slot", hour, slot.Label))
		}
		if !containsHour(utilization.FreeHours, hour) {
			return nil, appErrors.Clone(appErrors.ErrNoFreeCapacity, fmt.Sprintf("hour %d in %s slot on %s is already booked", hour, slot.Label, day))
		}
	}

	occurrence := &models.ClassOccurrence{
		StudentID:    req.StudentID,
		Program:      req.Program,
		AcademicYear: req.AcademicYear,
		WeekNumber:   req.WeekNumber,
		ClassType:    models.ClassTypeMakeup,
		DayOfWeek:    day,
		ClassTime:    classTime,
		MeetingLink:  req.MeetingLink,
		Status:       models.OccurrenceScheduled,
	}
	if err := s.occurrences.Create(ctx, occurrence); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to book makeup class")
	}
	s.invalidate(ctx, req.StudentID, req.Program)
	return occurrence, nil
}

// Reschedule moves an occurrence to a new day/time and optionally replaces
// its meeting link. Completion status is preserved.
func (s *BookingService) Reschedule(ctx context.Context, id string, req dto.RescheduleRequest) (*models.ClassOccurrence, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid reschedule payload")
	}
	day, err := models.NormalizeDayOfWeek(req.DayOfWeek)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid reschedule day")
	}
	if _, _, err := models.ParseClassTime(req.ClassTime); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid reschedule time")
	}

	occurrence, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	link := occurrence.MeetingLink
	if req.MeetingLink != nil {
		link = req.MeetingLink
	}
	if err := s.occurrences.Reschedule(ctx, id, day, req.ClassTime, link); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "class occurrence not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to reschedule occurrence")
	}

	occurrence.DayOfWeek = day
	occurrence.ClassTime = req.ClassTime
	occurrence.MeetingLink = link
	s.invalidate(ctx, occurrence.StudentID, occurrence.Program)
	return occurrence, nil
}

// Complete marks an occurrence completed and stamps the completion time.
func (s *BookingService) Complete(ctx context.Context, id string) (*models.ClassOccurrence, error) {
	occurrence, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if occurrence.Status == models.OccurrenceCompleted {
		return nil, appErrors.Clone(appErrors.ErrConflict, "class occurrence is already completed")
	}

	completedAt := time.Now().UTC()
	if err := s.occurrences.MarkCompleted(ctx, id, completedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "class occurrence not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to mark occurrence completed")
	}

	occurrence.Status = models.OccurrenceCompleted
	occurrence.CompletedAt = &completedAt
	s.invalidate(ctx, occurrence.StudentID, occurrence.Program)
	return occurrence, nil
}

func (s *BookingService) load(ctx context.Context, id string) (*models.ClassOccurrence, error) {
	if id == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "occurrence id is required")
	}
	occurrence, err := s.occurrences.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "class occurrence not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load occurrence")
	}
	return occurrence, nil
}

func (s *BookingService) invalidate(ctx context.Context, studentID, program string) {
	if s.progress == nil {
		return
	}
	if err := s.progress.InvalidateSnapshot(ctx, studentID, program); err != nil {
		s.logger.Warn("snapshot invalidation failed", zap.String("student_id", studentID), zap.Error(err))
	}
}

func containsHour(hours []int, hour int) bool {
	for _, h := range hours {
		if h == hour {
			return true
		}
	}
	return false
}
