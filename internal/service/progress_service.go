package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/noor-academy/curriculum-api/internal/dto"
	"github.com/noor-academy/curriculum-api/internal/models"
	appErrors "github.com/noor-academy/curriculum-api/pkg/errors"
)

type progressOccurrenceReader interface {
	ListByStudent(ctx context.Context, studentID string, filter models.OccurrenceFilter) ([]models.ClassOccurrence, error)
}

// ProgressService derives a student's position in the curriculum from their
// class-occurrence history: the active teaching week and the milestone
// timeline it maps onto. It is a read-only consumer of occurrence records.
type ProgressService struct {
	occurrences progressOccurrenceReader
	catalog     *models.ProgramCatalog
	cache       *CacheService
	cacheTTL    time.Duration
	logger      *zap.Logger
}

// NewProgressService wires progress dependencies.
func NewProgressService(occurrences progressOccurrenceReader, catalog *models.ProgramCatalog, cache *CacheService, cacheTTL time.Duration, logger *zap.Logger) *ProgressService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cacheTTL <= 0 {
		cacheTTL = 5 * time.Minute
	}
	return &ProgressService{
		occurrences: occurrences,
		catalog:     catalog,
		cache:       cache,
		cacheTTL:    cacheTTL,
		logger:      logger,
	}
}

// CurrentWeek resolves the first not-fully-completed (year, week) pair for
// the student's program.
func (s *ProgressService) CurrentWeek(ctx context.Context, studentID, programID string) (dto.CurrentWeek, error) {
	program, ok := s.catalog.Find(programID)
	if !ok {
		return dto.CurrentWeek{}, appErrors.Clone(appErrors.ErrUnknownProgram, fmt.Sprintf("program %s is not in the catalogue", programID))
	}
	if studentID == "" {
		return dto.CurrentWeek{}, appErrors.Clone(appErrors.ErrValidation, "student id is required")
	}

	occurrences, err := s.occurrences.ListByStudent(ctx, studentID, models.OccurrenceFilter{Program: programID})
	if err != nil {
		return dto.CurrentWeek{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load occurrences")
	}
	return resolveCurrentWeek(program, occurrences), nil
}

// Snapshot assembles the full progress view for a student+program pair,
// served from cache when available.
func (s *ProgressService) Snapshot(ctx context.Context, studentID, programID string) (*dto.ProgressSnapshot, error) {
	program, ok := s.catalog.Find(programID)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrUnknownProgram, fmt.Sprintf("program %s is not in the catalogue", programID))
	}
	if studentID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "student id is required")
	}

	key := snapshotCacheKey(studentID, programID)
	var cached dto.ProgressSnapshot
	if hit, _ := s.cache.Get(ctx, key, &cached); hit {
		return &cached, nil
	}

	occurrences, err := s.occurrences.ListByStudent(ctx, studentID, models.OccurrenceFilter{Program: programID})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load occurrences")
	}

	current := resolveCurrentWeek(program, occurrences)
	absoluteWeek := program.AbsoluteWeek(current.AcademicYear, current.WeekNumber)
	timeline := TimelineFor(program)

	completed := 0
	for _, occurrence := range occurrences {
		if occurrence.Status == models.OccurrenceCompleted {
			completed++
		}
	}

	snapshot := &dto.ProgressSnapshot{
		StudentID:      studentID,
		Program:        programID,
		CurrentWeek:    current,
		AbsoluteWeek:   absoluteWeek,
		Milestone:      timeline.Resolve(absoluteWeek),
		Timeline:       timeline.Entries(absoluteWeek),
		TotalScheduled: len(occurrences),
		TotalCompleted: completed,
		GeneratedAt:    time.Now().UTC(),
	}

	if err := s.cache.Set(ctx, key, snapshot, s.cacheTTL); err != nil {
		s.logger.Warn("progress snapshot cache write failed", zap.String("student_id", studentID), zap.Error(err))
	}
	return snapshot, nil
}

// InvalidateSnapshot drops the cached snapshot after any occurrence write.
func (s *ProgressService) InvalidateSnapshot(ctx context.Context, studentID, programID string) error {
	return s.cache.Invalidate(ctx, snapshotCacheKey(studentID, programID))
}

func snapshotCacheKey(studentID, programID string) string {
	return fmt.Sprintf("progress:%s:%s", studentID, programID)
}

type weekKey struct {
	Year int
	Week int
}

type weekTally struct {
	total     int
	completed int
}

// resolveCurrentWeek scans program order for the first week that is either
// never scheduled or not fully completed. Occurrences are indexed by
// (year, week) up front so the scan stays linear in total occurrence count.
// A week is judged only on the occurrences that exist for it: a week holding
// a lone main class with every record completed still counts as done.
func resolveCurrentWeek(program models.Program, occurrences []models.ClassOccurrence) dto.CurrentWeek {
	index := make(map[weekKey]*weekTally, len(occurrences))
	for _, occurrence := range occurrences {
		key := weekKey{Year: occurrence.AcademicYear, Week: occurrence.WeekNumber}
		tally := index[key]
		if tally == nil {
			tally = &weekTally{}
			index[key] = tally
		}
		tally.total++
		if occurrence.Status == models.OccurrenceCompleted {
			tally.completed++
		}
	}

	for year := 1; year <= program.DurationYears; year++ {
		for week := 1; week <= program.WeeksPerYear; week++ {
			tally, exists := index[weekKey{Year: year, Week: week}]
			if !exists {
				return dto.CurrentWeek{AcademicYear: year, WeekNumber: week}
			}
			if tally.completed < tally.total {
				return dto.CurrentWeek{AcademicYear: year, WeekNumber: week}
			}
		}
	}
	return dto.CurrentWeek{AcademicYear: program.DurationYears, WeekNumber: program.WeeksPerYear}
}
