package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noor-academy/curriculum-api/internal/models"
	appErrors "github.com/noor-academy/curriculum-api/pkg/errors"
)

type fakeOccurrenceReader struct {
	occurrences []models.ClassOccurrence
	err         error
}

func (f *fakeOccurrenceReader) ListByStudent(context.Context, string, models.OccurrenceFilter) ([]models.ClassOccurrence, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.occurrences, nil
}

func testCatalog(t *testing.T) *models.ProgramCatalog {
	t.Helper()
	catalog, err := models.NewProgramCatalog(models.DefaultPrograms())
	require.NoError(t, err)
	return catalog
}

func weekPair(program string, year, week int, status models.OccurrenceStatus) []models.ClassOccurrence {
	return []models.ClassOccurrence{
		{StudentID: "student-1", Program: program, AcademicYear: year, WeekNumber: week, ClassType: models.ClassTypeMain, DayOfWeek: "Monday", ClassTime: "18:00", Status: status},
		{StudentID: "student-1", Program: program, AcademicYear: year, WeekNumber: week, ClassType: models.ClassTypeShort, DayOfWeek: "Thursday", ClassTime: "19:00", Status: status},
	}
}

func TestCurrentWeekStartsAtWeekOne(t *testing.T) {
	svc := NewProgressService(&fakeOccurrenceReader{}, testCatalog(t), nil, 0, nil)

	week, err := svc.CurrentWeek(context.Background(), "student-1", "tajweed")
	require.NoError(t, err)
	assert.Equal(t, 1, week.AcademicYear)
	assert.Equal(t, 1, week.WeekNumber)
}

func TestCurrentWeekAdvancesAfterCompletedWeek(t *testing.T) {
	reader := &fakeOccurrenceReader{occurrences: weekPair("tajweed", 1, 1, models.OccurrenceCompleted)}
	svc := NewProgressService(reader, testCatalog(t), nil, 0, nil)

	week, err := svc.CurrentWeek(context.Background(), "student-1", "tajweed")
	require.NoError(t, err)
	assert.Equal(t, 1, week.AcademicYear)
	assert.Equal(t, 2, week.WeekNumber)
}

func TestCurrentWeekStaysOnPartiallyCompletedWeek(t *testing.T) {
	occurrences := weekPair("tajweed", 1, 1, models.OccurrenceCompleted)
	occurrences[1].Status = models.OccurrenceScheduled
	svc := NewProgressService(&fakeOccurrenceReader{occurrences: occurrences}, testCatalog(t), nil, 0, nil)

	week, err := svc.CurrentWeek(context.Background(), "student-1", "tajweed")
	require.NoError(t, err)
	assert.Equal(t, 1, week.WeekNumber)
}

func TestCurrentWeekCountsLoneOccurrenceWeek(t *testing.T) {
	// A week holding only a completed main class is judged on what exists
	// for it, so it counts as done.
	occurrences := append(
		weekPair("tajweed", 1, 1, models.OccurrenceCompleted),
		models.ClassOccurrence{StudentID: "student-1", Program: "tajweed", AcademicYear: 1, WeekNumber: 2, ClassType: models.ClassTypeMain, DayOfWeek: "Monday", ClassTime: "18:00", Status: models.OccurrenceCompleted},
	)
	svc := NewProgressService(&fakeOccurrenceReader{occurrences: occurrences}, testCatalog(t), nil, 0, nil)

	week, err := svc.CurrentWeek(context.Background(), "student-1", "tajweed")
	require.NoError(t, err)
	assert.Equal(t, 3, week.WeekNumber)
}

func TestCurrentWeekStopsAtNeverScheduledGap(t *testing.T) {
	// Weeks 1 and 3 exist but week 2 was never scheduled: the gap is the
	// active week regardless of what follows it.
	occurrences := append(
		weekPair("tajweed", 1, 1, models.OccurrenceCompleted),
		weekPair("tajweed", 1, 3, models.OccurrenceCompleted)...,
	)
	svc := NewProgressService(&fakeOccurrenceReader{occurrences: occurrences}, testCatalog(t), nil, 0, nil)

	week, err := svc.CurrentWeek(context.Background(), "student-1", "tajweed")
	require.NoError(t, err)
	assert.Equal(t, 2, week.WeekNumber)
}

func TestCurrentWeekTerminalWhenEverythingCompleted(t *testing.T) {
	var occurrences []models.ClassOccurrence
	for week := 1; week <= 24; week++ {
		occurrences = append(occurrences, weekPair("tajweed", 1, week, models.OccurrenceCompleted)...)
	}
	svc := NewProgressService(&fakeOccurrenceReader{occurrences: occurrences}, testCatalog(t), nil, 0, nil)

	week, err := svc.CurrentWeek(context.Background(), "student-1", "tajweed")
	require.NoError(t, err)
	assert.Equal(t, 1, week.AcademicYear)
	assert.Equal(t, 24, week.WeekNumber)
}

func TestCurrentWeekCrossesYearBoundary(t *testing.T) {
	var occurrences []models.ClassOccurrence
	for week := 1; week <= 52; week++ {
		occurrences = append(occurrences, weekPair("essentials", 1, week, models.OccurrenceCompleted)...)
	}
	svc := NewProgressService(&fakeOccurrenceReader{occurrences: occurrences}, testCatalog(t), nil, 0, nil)

	week, err := svc.CurrentWeek(context.Background(), "student-1", "essentials")
	require.NoError(t, err)
	assert.Equal(t, 2, week.AcademicYear)
	assert.Equal(t, 1, week.WeekNumber)
}

func TestCurrentWeekUnknownProgram(t *testing.T) {
	svc := NewProgressService(&fakeOccurrenceReader{}, testCatalog(t), nil, 0, nil)

	_, err := svc.CurrentWeek(context.Background(), "student-1", "algebra")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnknownProgram.Code, appErrors.FromError(err).Code)
}

func TestCurrentWeekRequiresStudent(t *testing.T) {
	svc := NewProgressService(&fakeOccurrenceReader{}, testCatalog(t), nil, 0, nil)

	_, err := svc.CurrentWeek(context.Background(), "", "tajweed")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestSnapshotAggregatesProgress(t *testing.T) {
	var occurrences []models.ClassOccurrence
	for week := 1; week <= 8; week++ {
		occurrences = append(occurrences, weekPair("tajweed", 1, week, models.OccurrenceCompleted)...)
	}
	svc := NewProgressService(&fakeOccurrenceReader{occurrences: occurrences}, testCatalog(t), nil, 0, nil)

	snapshot, err := svc.Snapshot(context.Background(), "student-1", "tajweed")
	require.NoError(t, err)

	// Eight completed weeks put the student at week 9, the start of the
	// Noon & Meem milestone.
	assert.Equal(t, 9, snapshot.CurrentWeek.WeekNumber)
	assert.Equal(t, 9, snapshot.AbsoluteWeek)
	assert.Equal(t, 2, snapshot.Milestone.MilestoneID)
	assert.Equal(t, "Noon & Meem Rules", snapshot.Milestone.Name)
	assert.Equal(t, 0, snapshot.Milestone.Progress)
	assert.Len(t, snapshot.Timeline, 3)
	assert.Equal(t, 16, snapshot.TotalScheduled)
	assert.Equal(t, 16, snapshot.TotalCompleted)
	assert.False(t, snapshot.GeneratedAt.IsZero())
}
