package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noor-academy/curriculum-api/internal/models"
)

func newOccurrenceMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func occurrenceRows() *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{"id", "student_id", "program", "academic_year", "week_number", "class_type", "day_of_week", "class_time", "meeting_link", "status", "completed_at", "created_at", "updated_at"}).
		AddRow("occ-1", "student-1", "tajweed", 1, 1, "main", "Monday", "18:00", nil, "scheduled", nil, now, now)
}

func TestListByStudentAppliesFilters(t *testing.T) {
	db, mock, cleanup := newOccurrenceMock(t)
	defer cleanup()
	repo := NewClassOccurrenceRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM class_occurrences WHERE student_id = $1 AND program = $2 AND class_type = $3 ORDER BY academic_year ASC, week_number ASC, class_type ASC")).
		WithArgs("student-1", "tajweed", "main").
		WillReturnRows(occurrenceRows())

	occurrences, err := repo.ListByStudent(context.Background(), "student-1", models.OccurrenceFilter{Program: "tajweed", ClassType: models.ClassTypeMain})
	require.NoError(t, err)
	require.Len(t, occurrences, 1)
	assert.Equal(t, "occ-1", occurrences[0].ID)
	assert.Equal(t, models.ClassTypeMain, occurrences[0].ClassType)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListByDay(t *testing.T) {
	db, mock, cleanup := newOccurrenceMock(t)
	defer cleanup()
	repo := NewClassOccurrenceRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM class_occurrences WHERE day_of_week = $1 ORDER BY class_time ASC")).
		WithArgs("Monday").
		WillReturnRows(occurrenceRows())

	occurrences, err := repo.ListByDay(context.Background(), "Monday")
	require.NoError(t, err)
	assert.Len(t, occurrences, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindByIDNotFound(t *testing.T) {
	db, mock, cleanup := newOccurrenceMock(t)
	defer cleanup()
	repo := NewClassOccurrenceRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM class_occurrences WHERE id = $1")).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByID(context.Background(), "missing")
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExistsForStudentProgram(t *testing.T) {
	db, mock, cleanup := newOccurrenceMock(t)
	defer cleanup()
	repo := NewClassOccurrenceRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS (SELECT 1 FROM class_occurrences WHERE student_id = $1 AND program = $2)")).
		WithArgs("student-1", "tajweed").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	exists, err := repo.ExistsForStudentProgram(context.Background(), "student-1", "tajweed")
	require.NoError(t, err)
	assert.True(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateAssignsID(t *testing.T) {
	db, mock, cleanup := newOccurrenceMock(t)
	defer cleanup()
	repo := NewClassOccurrenceRepository(db)

	mock.ExpectExec("INSERT INTO class_occurrences").
		WillReturnResult(sqlmock.NewResult(0, 1))

	occurrence := &models.ClassOccurrence{
		StudentID:    "student-1",
		Program:      "tajweed",
		AcademicYear: 1,
		WeekNumber:   3,
		ClassType:    models.ClassTypeMakeup,
		DayOfWeek:    "Friday",
		ClassTime:    "19:00",
		Status:       models.OccurrenceScheduled,
	}
	err := repo.Create(context.Background(), occurrence)
	require.NoError(t, err)
	assert.NotEmpty(t, occurrence.ID)
	assert.False(t, occurrence.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBulkCreateWithTxChunksInserts(t *testing.T) {
	db, mock, cleanup := newOccurrenceMock(t)
	defer cleanup()
	repo := NewClassOccurrenceRepository(db)

	occurrences := make([]models.ClassOccurrence, 120)
	for i := range occurrences {
		occurrences[i] = models.ClassOccurrence{
			StudentID:    "student-1",
			Program:      "essentials",
			AcademicYear: 1,
			WeekNumber:   i/2 + 1,
			ClassType:    models.ClassTypeMain,
			DayOfWeek:    "Monday",
			ClassTime:    "18:00",
			Status:       models.OccurrenceScheduled,
		}
	}

	mock.ExpectBegin()
	// 120 rows at batch size 50 means three INSERT statements.
	for i := 0; i < 3; i++ {
		mock.ExpectExec("INSERT INTO class_occurrences").WillReturnResult(sqlmock.NewResult(0, 50))
	}
	mock.ExpectCommit()

	tx, err := db.BeginTxx(context.Background(), nil)
	require.NoError(t, err)
	require.NoError(t, repo.BulkCreateWithTx(context.Background(), tx, occurrences, 50))
	require.NoError(t, tx.Commit())

	for _, occurrence := range occurrences {
		assert.NotEmpty(t, occurrence.ID)
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMarkCompletedRequiresRow(t *testing.T) {
	db, mock, cleanup := newOccurrenceMock(t)
	defer cleanup()
	repo := NewClassOccurrenceRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE class_occurrences SET status = $1, completed_at = $2, updated_at = $3 WHERE id = $4")).
		WithArgs("completed", sqlmock.AnyArg(), sqlmock.AnyArg(), "missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.MarkCompleted(context.Background(), "missing", time.Now())
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRescheduleUpdatesRow(t *testing.T) {
	db, mock, cleanup := newOccurrenceMock(t)
	defer cleanup()
	repo := NewClassOccurrenceRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE class_occurrences SET day_of_week = $1, class_time = $2, meeting_link = $3, updated_at = $4 WHERE id = $5")).
		WithArgs("Wednesday", "10:00", nil, sqlmock.AnyArg(), "occ-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Reschedule(context.Background(), "occ-1", "Wednesday", "10:00", nil)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteByStudentProgramReportsCount(t *testing.T) {
	db, mock, cleanup := newOccurrenceMock(t)
	defer cleanup()
	repo := NewClassOccurrenceRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM class_occurrences WHERE student_id = $1 AND program = $2")).
		WithArgs("student-1", "tajweed").
		WillReturnResult(sqlmock.NewResult(0, 48))

	dropped, err := repo.DeleteByStudentProgram(context.Background(), "student-1", "tajweed")
	require.NoError(t, err)
	assert.Equal(t, int64(48), dropped)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAcquireGenerationLock(t *testing.T) {
	db, mock, cleanup := newOccurrenceMock(t)
	defer cleanup()
	repo := NewClassOccurrenceRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("SELECT pg_advisory_xact_lock(hashtext($1))")).
		WithArgs("student-1:tajweed").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	tx, err := db.BeginTxx(context.Background(), nil)
	require.NoError(t, err)
	require.NoError(t, repo.AcquireGenerationLock(context.Background(), tx, "student-1", "tajweed"))
	require.NoError(t, tx.Rollback())
	assert.NoError(t, mock.ExpectationsWereMet())
}

type recordingObserver struct {
	labels    []string
	durations []time.Duration
}

func (o *recordingObserver) ObserveDBQuery(label string, duration time.Duration) {
	o.labels = append(o.labels, label)
	o.durations = append(o.durations, duration)
}

func TestQueryObserverRecordsTimings(t *testing.T) {
	db, mock, cleanup := newOccurrenceMock(t)
	defer cleanup()
	observer := &recordingObserver{}
	repo := NewClassOccurrenceRepository(db).WithMetrics(observer)

	mock.ExpectQuery(regexp.QuoteMeta("FROM class_occurrences WHERE day_of_week = $1 ORDER BY class_time ASC")).
		WithArgs("Monday").
		WillReturnRows(occurrenceRows())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS (SELECT 1 FROM class_occurrences WHERE student_id = $1 AND program = $2)")).
		WithArgs("student-1", "tajweed").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

	_, err := repo.ListByDay(context.Background(), "Monday")
	require.NoError(t, err)
	_, err = repo.ExistsForStudentProgram(context.Background(), "student-1", "tajweed")
	require.NoError(t, err)

	require.Equal(t, []string{"occurrences_list_by_day", "occurrences_exists"}, observer.labels)
	for _, duration := range observer.durations {
		assert.GreaterOrEqual(t, duration, time.Duration(0))
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, IsUniqueViolation(&pq.Error{Code: "23505"}))
	assert.True(t, IsUniqueViolation(fmt.Errorf("insert: %w", &pq.Error{Code: "23505"})))
	assert.False(t, IsUniqueViolation(&pq.Error{Code: "23503"}))
	assert.False(t, IsUniqueViolation(errors.New("boom")))
}
