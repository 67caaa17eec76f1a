package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noor-academy/curriculum-api/internal/models"
)

const occurrenceColumns = "id, student_id, program, academic_year, week_number, class_type, day_of_week, class_time, meeting_link, status, completed_at, created_at, updated_at"

// QueryObserver receives per-query timing, typically the metrics service.
type QueryObserver interface {
	ObserveDBQuery(label string, duration time.Duration)
}

// ClassOccurrenceRepository provides persistence for scheduled class occurrences.
type ClassOccurrenceRepository struct {
	db       *sqlx.DB
	observer QueryObserver
}

// NewClassOccurrenceRepository creates a new occurrence repository.
func NewClassOccurrenceRepository(db *sqlx.DB) *ClassOccurrenceRepository {
	return &ClassOccurrenceRepository{db: db}
}

// WithMetrics attaches a query observer and returns the repository.
func (r *ClassOccurrenceRepository) WithMetrics(observer QueryObserver) *ClassOccurrenceRepository {
	r.observer = observer
	return r
}

func (r *ClassOccurrenceRepository) observe(label string, start time.Time) {
	if r.observer != nil {
		r.observer.ObserveDBQuery(label, time.Since(start))
	}
}

// ListByStudent returns a student's occurrences with optional filtering,
// ordered by program position.
func (r *ClassOccurrenceRepository) ListByStudent(ctx context.Context, studentID string, filter models.OccurrenceFilter) ([]models.ClassOccurrence, error) {
	defer r.observe("occurrences_list_by_student", time.Now())
	conditions := []string{"student_id = $1"}
	args := []interface{}{studentID}

	if filter.Program != "" {
		conditions = append(conditions, fmt.Sprintf("program = $%d", len(args)+1))
		args = append(args, filter.Program)
	}
	if filter.DayOfWeek != "" {
		conditions = append(conditions, fmt.Sprintf("day_of_week = $%d", len(args)+1))
		args = append(args, filter.DayOfWeek)
	}
	if filter.ClassType != "" {
		conditions = append(conditions, fmt.Sprintf("class_type = $%d", len(args)+1))
		args = append(args, string(filter.ClassType))
	}

	query := fmt.Sprintf("SELECT %s FROM class_occurrences WHERE %s ORDER BY academic_year ASC, week_number ASC, class_type ASC", occurrenceColumns, strings.Join(conditions, " AND "))
	var occurrences []models.ClassOccurrence
	if err := r.db.SelectContext(ctx, &occurrences, query, args...); err != nil {
		return nil, fmt.Errorf("list occurrences by student: %w", err)
	}
	return occurrences, nil
}

// ListByDay returns all occurrences booked on a weekday, across students.
// The slot utilization calculator consumes this view.
func (r *ClassOccurrenceRepository) ListByDay(ctx context.Context, dayOfWeek string) ([]models.ClassOccurrence, error) {
	defer r.observe("occurrences_list_by_day", time.Now())
	query := fmt.Sprintf("SELECT %s FROM class_occurrences WHERE day_of_week = $1 ORDER BY class_time ASC", occurrenceColumns)
	var occurrences []models.ClassOccurrence
	if err := r.db.SelectContext(ctx, &occurrences, query, dayOfWeek); err != nil {
		return nil, fmt.Errorf("list occurrences by day: %w", err)
	}
	return occurrences, nil
}

// FindByID loads one occurrence by id.
func (r *ClassOccurrenceRepository) FindByID(ctx context.Context, id string) (*models.ClassOccurrence, error) {
	defer r.observe("occurrences_find_by_id", time.Now())
	query := fmt.Sprintf("SELECT %s FROM class_occurrences WHERE id = $1", occurrenceColumns)
	var occurrence models.ClassOccurrence
	if err := r.db.GetContext(ctx, &occurrence, query, id); err != nil {
		return nil, err
	}
	return &occurrence, nil
}

// ExistsForStudentProgram reports whether any occurrence exists for the
// student+program pair.
func (r *ClassOccurrenceRepository) ExistsForStudentProgram(ctx context.Context, studentID, program string) (bool, error) {
	defer r.observe("occurrences_exists", time.Now())
	const query = `SELECT EXISTS (SELECT 1 FROM class_occurrences WHERE student_id = $1 AND program = $2)`
	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, studentID, program); err != nil {
		return false, fmt.Errorf("check existing occurrences: %w", err)
	}
	return exists, nil
}

// AcquireGenerationLock takes a transaction-scoped advisory lock on the
// student+program pair so concurrent generation requests serialise at the
// database rather than racing the duplicate check.
func (r *ClassOccurrenceRepository) AcquireGenerationLock(ctx context.Context, tx *sqlx.Tx, studentID, program string) error {
	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, studentID+":"+program); err != nil {
		return fmt.Errorf("acquire generation lock: %w", err)
	}
	return nil
}

// ExistsForStudentProgramTx runs the duplicate check inside the generation
// transaction, after the advisory lock is held.
func (r *ClassOccurrenceRepository) ExistsForStudentProgramTx(ctx context.Context, tx *sqlx.Tx, studentID, program string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM class_occurrences WHERE student_id = $1 AND program = $2)`
	var exists bool
	if err := tx.GetContext(ctx, &exists, query, studentID, program); err != nil {
		return false, fmt.Errorf("check existing occurrences: %w", err)
	}
	return exists, nil
}

// Create stores a single occurrence (manual makeup bookings).
func (r *ClassOccurrenceRepository) Create(ctx context.Context, occurrence *models.ClassOccurrence) error {
	defer r.observe("occurrences_create", time.Now())
	if occurrence.ID == "" {
		occurrence.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if occurrence.CreatedAt.IsZero() {
		occurrence.CreatedAt = now
	}
	occurrence.UpdatedAt = now

	const query = `INSERT INTO class_occurrences (id, student_id, program, academic_year, week_number, class_type, day_of_week, class_time, meeting_link, status, completed_at, created_at, updated_at) VALUES (:id, :student_id, :program, :academic_year, :week_number, :class_type, :day_of_week, :class_time, :meeting_link, :status, :completed_at, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, occurrence); err != nil {
		return fmt.Errorf("create occurrence: %w", err)
	}
	return nil
}

// BulkCreateWithTx inserts occurrences using an existing transaction in
// fixed-size chunks so single statements stay within payload limits.
func (r *ClassOccurrenceRepository) BulkCreateWithTx(ctx context.Context, tx *sqlx.Tx, occurrences []models.ClassOccurrence, batchSize int) error {
	defer r.observe("occurrences_bulk_create", time.Now())
	if tx == nil {
		return fmt.Errorf("nil transaction provided")
	}
	if batchSize <= 0 {
		batchSize = 50
	}

	now := time.Now().UTC()
	for start := 0; start < len(occurrences); start += batchSize {
		end := start + batchSize
		if end > len(occurrences) {
			end = len(occurrences)
		}
		batch := make([]models.ClassOccurrence, end-start)
		for i := range batch {
			payload := occurrences[start+i]
			if payload.ID == "" {
				payload.ID = uuid.NewString()
			}
			if payload.CreatedAt.IsZero() {
				payload.CreatedAt = now
			}
			payload.UpdatedAt = now
			batch[i] = payload
			occurrences[start+i] = payload
		}

		if _, err := sqlx.NamedExecContext(ctx, tx, `INSERT INTO class_occurrences (id, student_id, program, academic_year, week_number, class_type, day_of_week, class_time, meeting_link, status, completed_at, created_at, updated_at) VALUES (:id, :student_id, :program, :academic_year, :week_number, :class_type, :day_of_week, :class_time, :meeting_link, :status, :completed_at, :created_at, :updated_at)`, batch); err != nil {
			return fmt.Errorf("bulk insert occurrences: %w", err)
		}
	}
	return nil
}

// MarkCompleted transitions an occurrence to completed and stamps the time.
func (r *ClassOccurrenceRepository) MarkCompleted(ctx context.Context, id string, completedAt time.Time) error {
	defer r.observe("occurrences_mark_completed", time.Now())
	const query = `UPDATE class_occurrences SET status = $1, completed_at = $2, updated_at = $3 WHERE id = $4`
	result, err := r.db.ExecContext(ctx, query, string(models.OccurrenceCompleted), completedAt, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("mark occurrence completed: %w", err)
	}
	return requireRow(result)
}

// Reschedule updates the day, time and meeting link of one occurrence
// without touching its completion status.
func (r *ClassOccurrenceRepository) Reschedule(ctx context.Context, id, dayOfWeek, classTime string, meetingLink *string) error {
	defer r.observe("occurrences_reschedule", time.Now())
	const query = `UPDATE class_occurrences SET day_of_week = $1, class_time = $2, meeting_link = $3, updated_at = $4 WHERE id = $5`
	result, err := r.db.ExecContext(ctx, query, dayOfWeek, classTime, meetingLink, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("reschedule occurrence: %w", err)
	}
	return requireRow(result)
}

// DeleteByStudentProgram removes every occurrence for the student+program
// pair and reports how many rows were dropped. Regeneration relies on this.
func (r *ClassOccurrenceRepository) DeleteByStudentProgram(ctx context.Context, studentID, program string) (int64, error) {
	defer r.observe("occurrences_delete_by_student_program", time.Now())
	result, err := r.db.ExecContext(ctx, `DELETE FROM class_occurrences WHERE student_id = $1 AND program = $2`, studentID, program)
	if err != nil {
		return 0, fmt.Errorf("delete occurrences: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete occurrences rows affected: %w", err)
	}
	return affected, nil
}

func requireRow(result sql.Result) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// IsUniqueViolation reports whether the error is a Postgres unique
// constraint violation, the storage-level guard behind duplicate detection.
func IsUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return false
}
