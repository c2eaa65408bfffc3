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

// EnrollmentRepository is the enrollment ledger: the source of truth for who
// is in what course, and in what state. The engine-path methods take a
// Querier so every read and the final insert happen inside the transaction
// that holds the course row lock.
type EnrollmentRepository struct {
	db *pgxpool.Pool
}

// NewEnrollmentRepository creates a new enrollment repository
func NewEnrollmentRepository(db *pgxpool.Pool) *EnrollmentRepository {
	return &EnrollmentRepository{
		db: db,
	}
}

// FindByStudentAndCourse retrieves the enrollment row for a (student, course)
// pair regardless of status. Returns (nil, nil) when no row exists.
func (r *EnrollmentRepository) FindByStudentAndCourse(ctx context.Context, q Querier, studentID, courseID int64) (*models.Enrollment, error) {
	q = fallback(q, r.db)
	query := `
		SELECT id, student_id, course_id, term_id, status, enrolled_at, updated_at
		FROM enrollments
		WHERE student_id = $1 AND course_id = $2
	`

	var e models.Enrollment
	err := q.QueryRow(ctx, query, studentID, courseID).Scan(
		&e.ID,
		&e.StudentID,
		&e.CourseID,
		&e.TermID,
		&e.Status,
		&e.EnrolledAt,
		&e.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("error retrieving enrollment: %w", err)
	}

	return &e, nil
}

// CountEnrolled counts rows with status enrolled for a course. During an
// enrollment run this executes under the course row lock, so the value
// cannot move before the insert commits.
func (r *EnrollmentRepository) CountEnrolled(ctx context.Context, q Querier, courseID int64) (int, error) {
	q = fallback(q, r.db)
	var count int
	err := q.QueryRow(ctx, `
		SELECT COUNT(*) FROM enrollments WHERE course_id = $1 AND status = $2`,
		courseID, models.StatusEnrolled).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("error counting enrollments: %w", err)
	}

	return count, nil
}

// CompletedCourseIDs returns which of the candidate course IDs the student
// has a completed enrollment for.
func (r *EnrollmentRepository) CompletedCourseIDs(ctx context.Context, q Querier, studentID int64, candidateIDs []int64) ([]int64, error) {
	q = fallback(q, r.db)
	if len(candidateIDs) == 0 {
		return nil, nil
	}

	rows, err := q.Query(ctx, `
		SELECT course_id
		FROM enrollments
		WHERE student_id = $1 AND course_id = ANY($2) AND status = $3`,
		studentID, candidateIDs, models.StatusCompleted)
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

// ActiveCoursesWithMeetings returns every course the student holds an
// enrolled status in for the given term, each with its meetings loaded.
// Used by the schedule conflict check.
func (r *EnrollmentRepository) ActiveCoursesWithMeetings(ctx context.Context, q Querier, studentID, termID int64) ([]models.Course, error) {
	q = fallback(q, r.db)
	rows, err := q.Query(ctx, `
		SELECT c.id, c.code, c.title, c.capacity, c.term_id
		FROM enrollments e
		JOIN courses c ON c.id = e.course_id
		WHERE e.student_id = $1 AND e.term_id = $2 AND e.status = $3`,
		studentID, termID, models.StatusEnrolled)
	if err != nil {
		return nil, err
	}

	var courses []models.Course
	for rows.Next() {
		var c models.Course
		if err := rows.Scan(&c.ID, &c.Code, &c.Title, &c.Capacity, &c.TermID); err != nil {
			rows.Close()
			return nil, err
		}
		courses = append(courses, c)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	for i := range courses {
		meetings, err := meetingsForCourse(ctx, q, courses[i].ID)
		if err != nil {
			return nil, err
		}
		courses[i].Meetings = meetings
	}

	return courses, nil
}

func meetingsForCourse(ctx context.Context, q Querier, courseID int64) ([]models.CourseMeeting, error) {
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

// Insert appends a new enrollment row. The unique (student, course, term)
// constraint is the storage-level backstop for the duplicate check.
func (r *EnrollmentRepository) Insert(ctx context.Context, q Querier, e *models.Enrollment) error {
	q = fallback(q, r.db)
	query := `
		INSERT INTO enrollments (student_id, course_id, term_id, status)
		VALUES ($1, $2, $3, $4)
		RETURNING id, enrolled_at, updated_at
	`

	err := q.QueryRow(ctx, query, e.StudentID, e.CourseID, e.TermID, e.Status).
		Scan(&e.ID, &e.EnrolledAt, &e.UpdatedAt)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "enrollments_student_id_course_id_term_id_key") {
			return apperrors.ErrAlreadyEnrolled
		}
		return fmt.Errorf("error inserting enrollment: %w", err)
	}

	return nil
}

// Reactivate flips a previously dropped enrollment back to enrolled with a
// fresh timestamp.
func (r *EnrollmentRepository) Reactivate(ctx context.Context, q Querier, e *models.Enrollment) error {
	q = fallback(q, r.db)
	query := `
		UPDATE enrollments
		SET status = $1, enrolled_at = now(), updated_at = now()
		WHERE id = $2
		RETURNING enrolled_at, updated_at
	`

	err := q.QueryRow(ctx, query, models.StatusEnrolled, e.ID).Scan(&e.EnrolledAt, &e.UpdatedAt)
	if err != nil {
		return fmt.Errorf("error reactivating enrollment: %w", err)
	}

	e.Status = models.StatusEnrolled
	return nil
}

// GetByID retrieves an enrollment with its course attached
func (r *EnrollmentRepository) GetByID(ctx context.Context, id int64) (*models.Enrollment, error) {
	query := `
		SELECT e.id, e.student_id, e.course_id, e.term_id, e.status, e.enrolled_at, e.updated_at,
		       c.id, c.code, c.title, c.capacity, c.term_id
		FROM enrollments e
		JOIN courses c ON c.id = e.course_id
		WHERE e.id = $1
	`

	var e models.Enrollment
	var c models.Course
	err := r.db.QueryRow(ctx, query, id).Scan(
		&e.ID,
		&e.StudentID,
		&e.CourseID,
		&e.TermID,
		&e.Status,
		&e.EnrolledAt,
		&e.UpdatedAt,
		&c.ID,
		&c.Code,
		&c.Title,
		&c.Capacity,
		&c.TermID,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrEnrollmentNotFound
		}
		return nil, fmt.Errorf("error retrieving enrollment: %w", err)
	}

	e.Course = &c
	return &e, nil
}

// ListByStudent retrieves a student's enrollments, optionally filtered by
// term, newest first
func (r *EnrollmentRepository) ListByStudent(ctx context.Context, studentID, termID int64) ([]*models.Enrollment, error) {
	query := `
		SELECT e.id, e.student_id, e.course_id, e.term_id, e.status, e.enrolled_at, e.updated_at,
		       c.id, c.code, c.title, c.capacity, c.term_id
		FROM enrollments e
		JOIN courses c ON c.id = e.course_id
		WHERE e.student_id = $1
	`
	args := []any{studentID}
	if termID > 0 {
		query += ` AND e.term_id = $2`
		args = append(args, termID)
	}
	query += ` ORDER BY e.enrolled_at DESC`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var enrollments []*models.Enrollment
	for rows.Next() {
		var e models.Enrollment
		var c models.Course
		if err := rows.Scan(
			&e.ID,
			&e.StudentID,
			&e.CourseID,
			&e.TermID,
			&e.Status,
			&e.EnrolledAt,
			&e.UpdatedAt,
			&c.ID,
			&c.Code,
			&c.Title,
			&c.Capacity,
			&c.TermID,
		); err != nil {
			return nil, err
		}
		e.Course = &c
		enrollments = append(enrollments, &e)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return enrollments, nil
}

// UpdateStatus moves an enrollment to a new lifecycle state
func (r *EnrollmentRepository) UpdateStatus(ctx context.Context, id int64, status models.EnrollmentStatus) error {
	cmdTag, err := r.db.Exec(ctx, `
		UPDATE enrollments SET status = $1, updated_at = now() WHERE id = $2`,
		status, id)
	if err != nil {
		return fmt.Errorf("error updating enrollment status: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrEnrollmentNotFound
	}

	return nil
}

// CreateTermRegistration registers a student for a term
func (r *EnrollmentRepository) CreateTermRegistration(ctx context.Context, reg *models.TermRegistration) error {
	query := `
		INSERT INTO term_registrations (student_id, term_id)
		VALUES ($1, $2)
		RETURNING id, registered_at
	`

	err := r.db.QueryRow(ctx, query, reg.StudentID, reg.TermID).
		Scan(&reg.ID, &reg.RegisteredAt)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "term_registrations_student_id_term_id_key") {
			return apperrors.ErrAlreadyRegistered
		}
		return fmt.Errorf("error creating term registration: %w", err)
	}

	return nil
}

// ListTermRegistrations retrieves a student's term registrations, newest first
func (r *EnrollmentRepository) ListTermRegistrations(ctx context.Context, studentID int64) ([]*models.TermRegistration, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, student_id, term_id, registered_at
		FROM term_registrations
		WHERE student_id = $1
		ORDER BY registered_at DESC`, studentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var regs []*models.TermRegistration
	for rows.Next() {
		var reg models.TermRegistration
		if err := rows.Scan(&reg.ID, &reg.StudentID, &reg.TermID, &reg.RegisteredAt); err != nil {
			return nil, err
		}
		regs = append(regs, &reg)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return regs, nil
}
