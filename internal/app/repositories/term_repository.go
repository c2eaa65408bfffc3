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

// TermRepository handles database operations for academic terms
type TermRepository struct {
	db *pgxpool.Pool
}

// NewTermRepository creates a new term repository
func NewTermRepository(db *pgxpool.Pool) *TermRepository {
	return &TermRepository{
		db: db,
	}
}

// Create creates a new term
func (r *TermRepository) Create(ctx context.Context, term *models.Term) error {
	query := `
		INSERT INTO terms (name, start_date, end_date)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRow(ctx, query, term.Name, term.StartDate, term.EndDate).
		Scan(&term.ID, &term.CreatedAt, &term.UpdatedAt)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "terms_name_key") {
			return apperrors.ErrTermAlreadyExists
		}
		return fmt.Errorf("error creating term: %w", err)
	}

	return nil
}

// GetByID retrieves a term by ID
func (r *TermRepository) GetByID(ctx context.Context, id int64) (*models.Term, error) {
	query := `
		SELECT id, name, start_date, end_date, created_at, updated_at
		FROM terms
		WHERE id = $1
	`

	var term models.Term
	err := r.db.QueryRow(ctx, query, id).Scan(
		&term.ID,
		&term.Name,
		&term.StartDate,
		&term.EndDate,
		&term.CreatedAt,
		&term.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrTermNotFound
		}
		return nil, fmt.Errorf("error retrieving term: %w", err)
	}

	return &term, nil
}

// GetAll retrieves all terms, newest first
func (r *TermRepository) GetAll(ctx context.Context) ([]*models.Term, error) {
	query := `
		SELECT id, name, start_date, end_date, created_at, updated_at
		FROM terms
		ORDER BY start_date DESC
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var terms []*models.Term
	for rows.Next() {
		var term models.Term
		if err := rows.Scan(
			&term.ID,
			&term.Name,
			&term.StartDate,
			&term.EndDate,
			&term.CreatedAt,
			&term.UpdatedAt,
		); err != nil {
			return nil, err
		}
		terms = append(terms, &term)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return terms, nil
}

// Update updates an existing term
func (r *TermRepository) Update(ctx context.Context, term *models.Term) error {
	query := `
		UPDATE terms
		SET name = $1, start_date = $2, end_date = $3, updated_at = now()
		WHERE id = $4
	`

	cmdTag, err := r.db.Exec(ctx, query, term.Name, term.StartDate, term.EndDate, term.ID)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "terms_name_key") {
			return apperrors.ErrTermAlreadyExists
		}
		return fmt.Errorf("error updating term: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrTermNotFound
	}

	return nil
}

// Delete deletes a term by ID. Deletion is restricted while courses
// reference the term.
func (r *TermRepository) Delete(ctx context.Context, id int64) error {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM terms WHERE id = $1`, id)
	if err != nil {
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.ErrTermHasCourses
		}
		return fmt.Errorf("error deleting term: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrTermNotFound
	}

	return nil
}
