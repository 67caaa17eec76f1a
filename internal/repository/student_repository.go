package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/noor-academy/curriculum-api/internal/models"
)

// StudentRepository reads student records and their availability preferences.
// The admissions flow owns writes; this API only consumes them.
type StudentRepository struct {
	db *sqlx.DB
}

// NewStudentRepository creates a new student repository.
func NewStudentRepository(db *sqlx.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

// FindByID loads a student by id.
func (r *StudentRepository) FindByID(ctx context.Context, id string) (*models.Student, error) {
	const query = `SELECT id, full_name, email, timezone, preferences, active, created_at, updated_at FROM students WHERE id = $1`
	var student models.Student
	if err := r.db.GetContext(ctx, &student, query, id); err != nil {
		return nil, err
	}
	return &student, nil
}
