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

// CourseRepository handles database operations for courses, their meetings
// and the prerequisite graph
type CourseRepository struct {
	db *pgxpool.Pool
}

// NewCourseRepository creates a new course repository
func NewCourseRepository(db *pgxpool.Pool) *CourseRepository {
	return &CourseRepository{
		db: db,
	}
}

const courseColumns = `id, code, title, description, units, capacity, professor_id, term_id, created_at, updated_at`

func scanCourse(row pgx.Row) (*models.Course, error) {
	var course models.Course
	err := row.Scan(
		&course.ID,
		&course.Code,
		&course.Title,
		&course.Description,
		&course.Units,
		&course.Capacity,
		&course.ProfessorID,
		&course.TermID,
		&course.CreatedAt,
		&course.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &course, nil
}

// Create inserts a course together with its meetings, prerequisite edges and
// department links in one transaction.
func (r *CourseRepository) Create(ctx context.Context, course *models.Course, departmentIDs []int64) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO courses (code, title, description, units, capacity, professor_id, term_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`

	err = tx.QueryRow(ctx, query,
		course.Code,
		course.Title,
		course.Description,
		course.Units,
		course.Capacity,
		course.ProfessorID,
		course.TermID,
	).Scan(&course.ID, &course.CreatedAt, &course.UpdatedAt)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "courses_code_term_id_key") {
			return apperrors.ErrCourseAlreadyExists
		}
		return fmt.Errorf("error creating course: %w", err)
	}

	if err := r.replaceMeetings(ctx, tx, course.ID, course.Meetings); err != nil {
		return err
	}
	if err := r.replacePrerequisites(ctx, tx, course.ID, course.PrerequisiteIDs); err != nil {
		return err
	}
	if err := r.replaceDepartments(ctx, tx, course.ID, departmentIDs); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// Update rewrites a course and its owned collections in one transaction.
func (r *CourseRepository) Update(ctx context.Context, course *models.Course, departmentIDs []int64) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		UPDATE courses
		SET title = $1, description = $2, units = $3, capacity = $4, professor_id = $5, updated_at = now()
		WHERE id = $6
	`

	cmdTag, err := tx.Exec(ctx, query,
		course.Title,
		course.Description,
		course.Units,
		course.Capacity,
		course.ProfessorID,
		course.ID,
	)
	if err != nil {
		return fmt.Errorf("error updating course: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrCourseNotFound
	}

	if err := r.replaceMeetings(ctx, tx, course.ID, course.Meetings); err != nil {
		return err
	}
	if err := r.replacePrerequisites(ctx, tx, course.ID, course.PrerequisiteIDs); err != nil {
		return err
	}
	if err := r.replaceDepartments(ctx, tx, course.ID, departmentIDs); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

func (r *CourseRepository) replaceMeetings(ctx context.Context, tx pgx.Tx, courseID int64, meetings []models.CourseMeeting) error {
	if _, err := tx.Exec(ctx, `DELETE FROM course_meetings WHERE course_id = $1`, courseID); err != nil {
		return fmt.Errorf("error clearing course meetings: %w", err)
	}

	for i := range meetings {
		m := &meetings[i]
		err := tx.QueryRow(ctx, `
			INSERT INTO course_meetings (course_id, day, start_time, end_time, location)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id`,
			courseID, m.Day, m.StartTime, m.EndTime, m.Location,
		).Scan(&m.ID)
		if err != nil {
			return fmt.Errorf("error creating course meeting: %w", err)
		}
		m.CourseID = courseID
	}

	return nil
}

func (r *CourseRepository) replacePrerequisites(ctx context.Context, tx pgx.Tx, courseID int64, prerequisiteIDs []int64) error {
	if _, err := tx.Exec(ctx, `DELETE FROM course_prerequisites WHERE course_id = $1`, courseID); err != nil {
		return fmt.Errorf("error clearing course prerequisites: %w", err)
	}

	for _, prereqID := range prerequisiteIDs {
		if _, err := tx.Exec(ctx, `
			INSERT INTO course_prerequisites (course_id, prerequisite_id)
			VALUES ($1, $2)`,
			courseID, prereqID,
		); err != nil {
			return fmt.Errorf("error creating course prerequisite: %w", err)
		}
	}

	return nil
}

func (r *CourseRepository) replaceDepartments(ctx context.Context, tx pgx.Tx, courseID int64, departmentIDs []int64) error {
	if _, err := tx.Exec(ctx, `DELETE FROM course_departments WHERE course_id = $1`, courseID); err != nil {
		return fmt.Errorf("error clearing course departments: %w", err)
	}

	for _, deptID := range departmentIDs {
		if _, err := tx.Exec(ctx, `
			INSERT INTO course_departments (course_id, department_id)
			VALUES ($1, $2)`,
			courseID, deptID,
		); err != nil {
			return fmt.Errorf("error linking course department: %w", err)
		}
	}

	return nil
}

// GetByID retrieves a course with its meetings and direct prerequisite IDs
func (r *CourseRepository) GetByID(ctx context.Context, id int64) (*models.Course, error) {
	course, err := scanCourse(r.db.QueryRow(ctx, `SELECT `+courseColumns+` FROM courses WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrCourseNotFound
		}
		return nil, fmt.Errorf("error retrieving course: %w", err)
	}

	meetings, err := r.MeetingsByCourse(ctx, r.db, id)
	if err != nil {
		return nil, err
	}
	course.Meetings = meetings

	prereqIDs, err := r.DirectPrerequisiteIDs(ctx, r.db, id)
	if err != nil {
		return nil, err
	}
	course.PrerequisiteIDs = prereqIDs

	return course, nil
}

// List retrieves courses, optionally filtered by term, ordered by code
func (r *CourseRepository) List(ctx context.Context, termID int64, offset uint64, limit int) ([]*models.Course, error) {
	query := `SELECT ` + courseColumns + ` FROM courses`
	args := []any{}
	if termID > 0 {
		query += ` WHERE term_id = $1`
		args = append(args, termID)
	}
	query += fmt.Sprintf(` ORDER BY code OFFSET %d LIMIT %d`, offset, limit)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var courses []*models.Course
	for rows.Next() {
		course, err := scanCourse(rows)
		if err != nil {
			return nil, err
		}
		courses = append(courses, course)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return courses, nil
}

// Count returns the number of courses, optionally filtered by term
func (r *CourseRepository) Count(ctx context.Context, termID int64) (int64, error) {
	var count int64
	var err error
	if termID > 0 {
		err = r.db.QueryRow(ctx, `SELECT COUNT(*) FROM courses WHERE term_id = $1`, termID).Scan(&count)
	} else {
		err = r.db.QueryRow(ctx, `SELECT COUNT(*) FROM courses`).Scan(&count)
	}
	if err != nil {
		return 0, fmt.Errorf("error counting courses: %w", err)
	}
	return count, nil
}

// Delete deletes a course; meetings and prerequisite edges go with it
func (r *CourseRepository) Delete(ctx context.Context, id int64) error {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM courses WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting course: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrCourseNotFound
	}

	return nil
}

// CountByIDs returns how many of the given course IDs exist
func (r *CourseRepository) CountByIDs(ctx context.Context, ids []int64) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	var count int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM courses WHERE id = ANY($1)`, ids).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("error counting courses by ids: %w", err)
	}

	return count, nil
}

// GetForUpdate loads a course under an exclusive row lock. Concurrent
// enrollment attempts against the same course block here until the holding
// transaction commits or rolls back, which is what keeps the capacity check
// race-free.
func (r *CourseRepository) GetForUpdate(ctx context.Context, q Querier, id int64) (*models.Course, error) {
	q = fallback(q, r.db)
	course, err := scanCourse(q.QueryRow(ctx, `SELECT `+courseColumns+` FROM courses WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrCourseNotFound
		}
		return nil, fmt.Errorf("error locking course: %w", err)
	}

	return course, nil
}

// MeetingsByCourse retrieves the weekly meetings of a course
func (r *CourseRepository) MeetingsByCourse(ctx context.Context, q Querier, courseID int64) ([]models.CourseMeeting, error) {
	q = fallback(q, r.db)
	rows, err := q.Query(ctx, `
		SELECT id, course_id, day, start_time, end_time, location
		FROM course_meetings
		WHERE course_id = $1
		ORDER BY day, start_time`, courseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var meetings []models.CourseMeeting
	for rows.Next() {
		var m models.CourseMeeting
		if err := rows.Scan(&m.ID, &m.CourseID, &m.Day, &m.StartTime, &m.EndTime, &m.Location); err != nil {
			return nil, err
		}
		meetings = append(meetings, m)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return meetings, nil
}

// DirectPrerequisiteIDs retrieves the direct prerequisite course IDs of a
// course. The transitive closure is computed by the enrollment service,
// which expands these edges iteratively.
func (r *CourseRepository) DirectPrerequisiteIDs(ctx context.Context, q Querier, courseID int64) ([]int64, error) {
	q = fallback(q, r.db)
	rows, err := q.Query(ctx, `
		SELECT prerequisite_id
		FROM course_prerequisites
		WHERE course_id = $1`, courseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return ids, nil
}
