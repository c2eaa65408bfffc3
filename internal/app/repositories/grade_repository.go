package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tolgad/registra/internal/app/models"
	"github.com/tolgad/registra/internal/pkg/apperrors"
	"github.com/tolgad/registra/internal/pkg/dberrors"
)

// GradeRepository handles database operations for grades
type GradeRepository struct {
	db *pgxpool.Pool
}

// NewGradeRepository creates a new grade repository
func NewGradeRepository(db *pgxpool.Pool) *GradeRepository {
	return &GradeRepository{
		db: db,
	}
}

// Create records a grade for an enrollment. One grade per enrollment.
func (r *GradeRepository) Create(ctx context.Context, grade *models.Grade) error {
	query := `
		INSERT INTO grades (enrollment_id, grade_value, status)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRow(ctx, query, grade.EnrollmentID, grade.Value, grade.Status).
		Scan(&grade.ID, &grade.CreatedAt, &grade.UpdatedAt)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "grades_enrollment_id_key") {
			return apperrors.ErrGradeAlreadyExists
		}
		return fmt.Errorf("error creating grade: %w", err)
	}

	return nil
}

// GetByEnrollmentID retrieves the grade recorded for an enrollment
func (r *GradeRepository) GetByEnrollmentID(ctx context.Context, enrollmentID int64) (*models.Grade, error) {
	query := `
		SELECT id, enrollment_id, grade_value, status, created_at, updated_at
		FROM grades
		WHERE enrollment_id = $1
	`

	var grade models.Grade
	err := r.db.QueryRow(ctx, query, enrollmentID).Scan(
		&grade.ID,
		&grade.EnrollmentID,
		&grade.Value,
		&grade.Status,
		&grade.CreatedAt,
		&grade.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrGradeNotFound
		}
		return nil, fmt.Errorf("error retrieving grade: %w", err)
	}

	return &grade, nil
}
