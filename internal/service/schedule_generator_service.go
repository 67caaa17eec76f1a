package service

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/noor-academy/curriculum-api/internal/dto"
	"github.com/noor-academy/curriculum-api/internal/models"
	"github.com/noor-academy/curriculum-api/internal/repository"
	appErrors "github.com/noor-academy/curriculum-api/pkg/errors"
)

type generatorOccurrenceStore interface {
	ExistsForStudentProgram(ctx context.Context, studentID, program string) (bool, error)
	ExistsForStudentProgramTx(ctx context.Context, tx *sqlx.Tx, studentID, program string) (bool, error)
	AcquireGenerationLock(ctx context.Context, tx *sqlx.Tx, studentID, program string) error
	BulkCreateWithTx(ctx context.Context, tx *sqlx.Tx, occurrences []models.ClassOccurrence, batchSize int) error
	DeleteByStudentProgram(ctx context.Context, studentID, program string) (int64, error)
}

type txProvider interface {
	BeginTxx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error)
}

type snapshotInvalidator interface {
	InvalidateSnapshot(ctx context.Context, studentID, program string) error
}

// ScheduleGeneratorService builds the complete multi-year class calendar for
// a student's program in one operation: a weekly 2-hour main class and a
// half-hour short class at fixed day/time coordinates for every curriculum
// week. Generation is all-or-nothing: the whole calendar is written inside
// one transaction, guarded by an advisory lock and the storage-level unique
// constraint, so a student+program pair is generated at most once and never
// left half-written.
type ScheduleGeneratorService struct {
	occurrences generatorOccurrenceStore
	catalog     *models.ProgramCatalog
	tx          txProvider
	progress    snapshotInvalidator
	metrics     *MetricsService
	validator   *validator.Validate
	logger      *zap.Logger
	batchSize   int
}

// ScheduleGeneratorConfig governs generator behaviour.
type ScheduleGeneratorConfig struct {
	BatchSize int
}

// NewScheduleGeneratorService wires generator dependencies.
func NewScheduleGeneratorService(
	occurrences generatorOccurrenceStore,
	catalog *models.ProgramCatalog,
	tx txProvider,
	progress snapshotInvalidator,
	metrics *MetricsService,
	validate *validator.Validate,
	logger *zap.Logger,
	cfg ScheduleGeneratorConfig,
) *ScheduleGeneratorService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 50
	}
	return &ScheduleGeneratorService{
		occurrences: occurrences,
		catalog:     catalog,
		tx:          tx,
		progress:    progress,
		metrics:     metrics,
		validator:   validate,
		logger:      logger,
		batchSize:   cfg.BatchSize,
	}
}

// Generate creates the full program calendar for the student. It fails with
// ErrDuplicateSchedule when any occurrence already exists for the pair.
func (s *ScheduleGeneratorService) Generate(ctx context.Context, req dto.GenerateScheduleRequest) (*dto.GenerateScheduleResponse, error) {
	program, calendar, err := s.prepare(req)
	if err != nil {
		return nil, err
	}

	// Fast-path check outside the transaction so obvious duplicates fail
	// before any lock is taken. The authoritative check runs under the
	// advisory lock inside writeCalendar.
	exists, err := s.occurrences.ExistsForStudentProgram(ctx, req.StudentID, req.Program)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check existing schedule")
	}
	if exists {
		return nil, s.duplicateError(req.Program)
	}

	if err := s.writeCalendar(ctx, req, calendar); err != nil {
		return nil, err
	}
	return s.finish(ctx, req, program, len(calendar)), nil
}

// Regenerate deletes every occurrence for the pair and rebuilds the calendar
// from scratch. This is the recovery path for schedules that must change
// day/time wholesale.
func (s *ScheduleGeneratorService) Regenerate(ctx context.Context, req dto.GenerateScheduleRequest) (*dto.GenerateScheduleResponse, error) {
	program, calendar, err := s.prepare(req)
	if err != nil {
		return nil, err
	}

	dropped, err := s.occurrences.DeleteByStudentProgram(ctx, req.StudentID, req.Program)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to clear existing schedule")
	}
	if dropped > 0 {
		s.logger.Info("cleared existing schedule before regeneration",
			zap.String("student_id", req.StudentID),
			zap.String("program", req.Program),
			zap.Int64("occurrences_dropped", dropped),
		)
	}

	if err := s.writeCalendar(ctx, req, calendar); err != nil {
		return nil, err
	}
	return s.finish(ctx, req, program, len(calendar)), nil
}

func (s *ScheduleGeneratorService) prepare(req dto.GenerateScheduleRequest) (models.Program, []models.ClassOccurrence, error) {
	if err := s.validator.Struct(req); err != nil {
		return models.Program{}, nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid schedule generation payload")
	}
	program, ok := s.catalog.Find(req.Program)
	if !ok {
		return models.Program{}, nil, appErrors.Clone(appErrors.ErrUnknownProgram, fmt.Sprintf("program %s is not in the catalogue", req.Program))
	}

	mainDay, err := models.NormalizeDayOfWeek(req.MainDayOfWeek)
	if err != nil {
		return models.Program{}, nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid main class day")
	}
	shortDay, err := models.NormalizeDayOfWeek(req.ShortDayOfWeek)
	if err != nil {
		return models.Program{}, nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid short class day")
	}
	if _, _, err := models.ParseClassTime(req.MainClassTime); err != nil {
		return models.Program{}, nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid main class time")
	}
	if _, _, err := models.ParseClassTime(req.ShortClassTime); err != nil {
		return models.Program{}, nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid short class time")
	}

	req.MainDayOfWeek = mainDay
	req.ShortDayOfWeek = shortDay
	return program, buildCalendar(program, req), nil
}

// writeCalendar persists the calendar in one transaction: advisory lock,
// authoritative duplicate check, then chunked inserts. Either every week of
// the program lands or none does.
func (s *ScheduleGeneratorService) writeCalendar(ctx context.Context, req dto.GenerateScheduleRequest, calendar []models.ClassOccurrence) (err error) {
	if s.tx == nil {
		return appErrors.Clone(appErrors.ErrInternal, "transaction provider missing")
	}
	tx, err := s.tx.BeginTxx(ctx, nil)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to begin generation transaction")
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = s.occurrences.AcquireGenerationLock(ctx, tx, req.StudentID, req.Program); err != nil {
		err = appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to lock student schedule")
		return err
	}

	var exists bool
	exists, err = s.occurrences.ExistsForStudentProgramTx(ctx, tx, req.StudentID, req.Program)
	if err != nil {
		err = appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check existing schedule")
		return err
	}
	if exists {
		err = s.duplicateError(req.Program)
		return err
	}

	if err = s.occurrences.BulkCreateWithTx(ctx, tx, calendar, s.batchSize); err != nil {
		if repository.IsUniqueViolation(err) {
			err = s.duplicateError(req.Program)
			return err
		}
		err = appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to persist schedule")
		return err
	}

	if err = tx.Commit(); err != nil {
		err = appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to commit schedule")
		return err
	}
	return nil
}

func (s *ScheduleGeneratorService) finish(ctx context.Context, req dto.GenerateScheduleRequest, program models.Program, created int) *dto.GenerateScheduleResponse {
	if s.progress != nil {
		if err := s.progress.InvalidateSnapshot(ctx, req.StudentID, req.Program); err != nil {
			s.logger.Warn("snapshot invalidation failed after generation", zap.String("student_id", req.StudentID), zap.Error(err))
		}
	}
	s.metrics.RecordScheduleGenerated()
	s.logger.Info("schedule generated",
		zap.String("student_id", req.StudentID),
		zap.String("program", req.Program),
		zap.Int("occurrences", created),
	)
	return &dto.GenerateScheduleResponse{
		StudentID:          req.StudentID,
		Program:            req.Program,
		OccurrencesCreated: created,
		DurationYears:      program.DurationYears,
		WeeksPerYear:       program.WeeksPerYear,
		ActiveWeek:         dto.CurrentWeek{AcademicYear: 1, WeekNumber: 1},
	}
}

func (s *ScheduleGeneratorService) duplicateError(programID string) error {
	return appErrors.Clone(appErrors.ErrDuplicateSchedule, fmt.Sprintf("schedule already generated for program %s; delete it before regenerating", programID))
}

// buildCalendar emits the main/short occurrence pair for every week of the
// program, all scheduled and sharing the optional meeting link.
func buildCalendar(program models.Program, req dto.GenerateScheduleRequest) []models.ClassOccurrence {
	calendar := make([]models.ClassOccurrence, 0, program.TotalWeeks()*2)
	for year := 1; year <= program.DurationYears; year++ {
		for week := 1; week <= program.WeeksPerYear; week++ {
			calendar = append(calendar,
				models.ClassOccurrence{
					StudentID:    req.StudentID,
					Program:      req.Program,
					AcademicYear: year,
					WeekNumber:   week,
					ClassType:    models.ClassTypeMain,
					DayOfWeek:    req.MainDayOfWeek,
					ClassTime:    req.MainClassTime,
					MeetingLink:  req.MeetingLink,
					Status:       models.OccurrenceScheduled,
				},
				models.ClassOccurrence{
					StudentID:    req.StudentID,
					Program:      req.Program,
					AcademicYear: year,
					WeekNumber:   week,
					ClassType:    models.ClassTypeShort,
					DayOfWeek:    req.ShortDayOfWeek,
					ClassTime:    req.ShortClassTime,
					MeetingLink:  req.MeetingLink,
					Status:       models.OccurrenceScheduled,
				},
			)
		}
	}
	return calendar
}
