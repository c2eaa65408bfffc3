package services

import (
	"context"
	"fmt"
	"sort"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/tolgad/registra/internal/app/models"
	"github.com/tolgad/registra/internal/app/repositories"
	"github.com/tolgad/registra/internal/db"
	"github.com/tolgad/registra/internal/pkg/apperrors"
)

// transactor runs a function inside a database transaction
type transactor interface {
	WithTransaction(ctx context.Context, fn db.TransactionFn) error
}

// enrollmentCourseStore is the slice of course data the engine needs. Every
// method takes a Querier so the reads happen on the engine's transaction.
type enrollmentCourseStore interface {
	GetForUpdate(ctx context.Context, q repositories.Querier, id int64) (*models.Course, error)
	MeetingsByCourse(ctx context.Context, q repositories.Querier, courseID int64) ([]models.CourseMeeting, error)
	DirectPrerequisiteIDs(ctx context.Context, q repositories.Querier, courseID int64) ([]int64, error)
}

// enrollmentStore is the enrollment ledger as seen by the engine
type enrollmentStore interface {
	FindByStudentAndCourse(ctx context.Context, q repositories.Querier, studentID, courseID int64) (*models.Enrollment, error)
	CountEnrolled(ctx context.Context, q repositories.Querier, courseID int64) (int, error)
	CompletedCourseIDs(ctx context.Context, q repositories.Querier, studentID int64, candidateIDs []int64) ([]int64, error)
	ActiveCoursesWithMeetings(ctx context.Context, q repositories.Querier, studentID, termID int64) ([]models.Course, error)
	Insert(ctx context.Context, q repositories.Querier, e *models.Enrollment) error
	Reactivate(ctx context.Context, q repositories.Querier, e *models.Enrollment) error
	GetByID(ctx context.Context, id int64) (*models.Enrollment, error)
	ListByStudent(ctx context.Context, studentID, termID int64) ([]*models.Enrollment, error)
	UpdateStatus(ctx context.Context, id int64, status models.EnrollmentStatus) error
	CreateTermRegistration(ctx context.Context, reg *models.TermRegistration) error
	ListTermRegistrations(ctx context.Context, studentID int64) ([]*models.TermRegistration, error)
}

type enrollmentTermStore interface {
	GetByID(ctx context.Context, id int64) (*models.Term, error)
}

// EnrollOptions selects which business checks an enrollment attempt runs.
// The duplicate check always runs; it cannot be bypassed.
type EnrollOptions struct {
	CheckPrerequisites bool
	CheckCapacity      bool
	CheckConflict      bool
}

// DefaultEnrollOptions returns the options for the normal student path:
// everything checked.
func DefaultEnrollOptions() EnrollOptions {
	return EnrollOptions{
		CheckPrerequisites: true,
		CheckCapacity:      true,
		CheckConflict:      true,
	}
}

// EnrollmentService runs the enrollment engine and the surrounding
// enrollment lifecycle operations.
type EnrollmentService struct {
	tx         transactor
	courseRepo enrollmentCourseStore
	enrollRepo enrollmentStore
	termRepo   enrollmentTermStore
	logger     zerolog.Logger
}

// NewEnrollmentService creates a new EnrollmentService
func NewEnrollmentService(
	tx transactor,
	courseRepo enrollmentCourseStore,
	enrollRepo enrollmentStore,
	termRepo enrollmentTermStore,
	logger zerolog.Logger,
) *EnrollmentService {
	return &EnrollmentService{
		tx:         tx,
		courseRepo: courseRepo,
		enrollRepo: enrollRepo,
		termRepo:   termRepo,
		logger:     logger,
	}
}

// Enroll attempts to enroll a student in a course. The whole attempt runs in
// one transaction that starts by locking the course row, so concurrent
// attempts against the same course serialize and the capacity check cannot
// oversell. requestedTermID of zero means "whatever term the course is in";
// a non-zero value must match the course's term.
//
// On failure the transaction is rolled back and one of the enrollment
// sentinels in apperrors comes back, possibly wrapped in a CustomError
// carrying details.
func (s *EnrollmentService) Enroll(ctx context.Context, studentID, courseID, requestedTermID int64, opts EnrollOptions) (*models.Enrollment, error) {
	var enrollment *models.Enrollment

	err := s.tx.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		course, err := s.courseRepo.GetForUpdate(ctx, tx, courseID)
		if err != nil {
			return err
		}

		if requestedTermID != 0 && requestedTermID != course.TermID {
			return apperrors.ErrTermMismatch
		}

		existing, err := s.enrollRepo.FindByStudentAndCourse(ctx, tx, studentID, courseID)
		if err != nil {
			return err
		}
		if existing != nil && existing.Status != models.StatusDropped {
			return apperrors.ErrAlreadyEnrolled
		}

		if opts.CheckPrerequisites {
			if err := s.checkPrerequisites(ctx, tx, studentID, course); err != nil {
				return err
			}
		}

		if opts.CheckCapacity {
			if err := s.checkCapacity(ctx, tx, course); err != nil {
				return err
			}
		}

		if opts.CheckConflict {
			if err := s.checkScheduleConflict(ctx, tx, studentID, course); err != nil {
				return err
			}
		}

		if existing != nil {
			// A previously dropped enrollment passes the same gauntlet and
			// is reactivated instead of inserted, keeping one row per
			// (student, course, term).
			if err := s.enrollRepo.Reactivate(ctx, tx, existing); err != nil {
				return err
			}
			enrollment = existing
			return nil
		}

		enrollment = &models.Enrollment{
			StudentID: studentID,
			CourseID:  course.ID,
			TermID:    course.TermID,
			Status:    models.StatusEnrolled,
		}
		return s.enrollRepo.Insert(ctx, tx, enrollment)
	})

	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Int64("studentId", studentID).
		Int64("courseId", courseID).
		Int64("enrollmentId", enrollment.ID).
		Msg("Student enrolled")

	return enrollment, nil
}

// checkPrerequisites verifies the student has completed every course in the
// transitive prerequisite closure of the target course.
func (s *EnrollmentService) checkPrerequisites(ctx context.Context, q repositories.Querier, studentID int64, course *models.Course) error {
	required, err := s.requiredCourseIDs(ctx, q, course.ID)
	if err != nil {
		return err
	}
	if len(required) == 0 {
		return nil
	}

	completed, err := s.enrollRepo.CompletedCourseIDs(ctx, q, studentID, required)
	if err != nil {
		return err
	}

	completedSet := make(map[int64]bool, len(completed))
	for _, id := range completed {
		completedSet[id] = true
	}

	var missing []int64
	for _, id := range required {
		if !completedSet[id] {
			missing = append(missing, id)
		}
	}
	if len(missing) > 0 {
		return apperrors.NewMissingPrerequisitesError(missing)
	}

	return nil
}

// requiredCourseIDs expands a course's direct prerequisite edges into the
// full transitive requirement set, sorted ascending. The walk is iterative
// with a visited set, so cyclic prerequisite data cannot loop it; when the
// walk reaches the origin course the cycle is logged and the origin itself is
// excluded from the requirements.
func (s *EnrollmentService) requiredCourseIDs(ctx context.Context, q repositories.Querier, courseID int64) ([]int64, error) {
	direct, err := s.courseRepo.DirectPrerequisiteIDs(ctx, q, courseID)
	if err != nil {
		return nil, err
	}

	visited := make(map[int64]bool)
	stack := append([]int64(nil), direct...)
	cyclic := false

	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if id == courseID {
			cyclic = true
			continue
		}
		if visited[id] {
			continue
		}
		visited[id] = true

		next, err := s.courseRepo.DirectPrerequisiteIDs(ctx, q, id)
		if err != nil {
			return nil, err
		}
		stack = append(stack, next...)
	}

	if cyclic {
		s.logger.Warn().
			Int64("courseId", courseID).
			Msg("Prerequisite graph contains a cycle through this course")
	}

	ids := make([]int64, 0, len(visited))
	for id := range visited {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	return ids, nil
}

// checkCapacity counts active enrollments under the course row lock. A
// capacity of zero means unlimited.
func (s *EnrollmentService) checkCapacity(ctx context.Context, q repositories.Querier, course *models.Course) error {
	if course.Capacity <= 0 {
		return nil
	}

	count, err := s.enrollRepo.CountEnrolled(ctx, q, course.ID)
	if err != nil {
		return err
	}
	if count >= course.Capacity {
		return apperrors.ErrCourseFull
	}

	return nil
}

// checkScheduleConflict compares the target course's weekly meetings against
// the meetings of every course the student is actively enrolled in for the
// same term. Intervals are half-open, so back-to-back meetings do not
// conflict.
func (s *EnrollmentService) checkScheduleConflict(ctx context.Context, q repositories.Querier, studentID int64, course *models.Course) error {
	meetings := course.Meetings
	if meetings == nil {
		var err error
		meetings, err = s.courseRepo.MeetingsByCourse(ctx, q, course.ID)
		if err != nil {
			return err
		}
	}
	if len(meetings) == 0 {
		return nil
	}

	enrolled, err := s.enrollRepo.ActiveCoursesWithMeetings(ctx, q, studentID, course.TermID)
	if err != nil {
		return err
	}

	for i := range enrolled {
		other := &enrolled[i]
		for j := range other.Meetings {
			om := &other.Meetings[j]
			for k := range meetings {
				if meetings[k].Overlaps(om) {
					return apperrors.NewScheduleConflictError(other.ID, other.Code, om.Window())
				}
			}
		}
	}

	return nil
}

// Drop moves a student's active enrollment to dropped. The seat opens up for
// the next enrollment attempt.
func (s *EnrollmentService) Drop(ctx context.Context, studentID, enrollmentID int64) (*models.Enrollment, error) {
	enrollment, err := s.enrollRepo.GetByID(ctx, enrollmentID)
	if err != nil {
		return nil, err
	}

	// Hide other students' enrollments rather than admitting they exist
	if enrollment.StudentID != studentID {
		return nil, apperrors.ErrEnrollmentNotFound
	}

	if enrollment.Status != models.StatusEnrolled {
		return nil, apperrors.NewConflictError(
			fmt.Sprintf("enrollment is %s, only active enrollments can be dropped", enrollment.Status))
	}

	if err := s.enrollRepo.UpdateStatus(ctx, enrollment.ID, models.StatusDropped); err != nil {
		return nil, err
	}
	enrollment.Status = models.StatusDropped

	s.logger.Info().
		Int64("studentId", studentID).
		Int64("enrollmentId", enrollmentID).
		Msg("Enrollment dropped")

	return enrollment, nil
}

// GetEnrollment retrieves a single enrollment. Admins pass studentID zero to
// skip the ownership check.
func (s *EnrollmentService) GetEnrollment(ctx context.Context, studentID, enrollmentID int64) (*models.Enrollment, error) {
	enrollment, err := s.enrollRepo.GetByID(ctx, enrollmentID)
	if err != nil {
		return nil, err
	}

	if studentID != 0 && enrollment.StudentID != studentID {
		return nil, apperrors.ErrEnrollmentNotFound
	}

	// The denormalized term on the enrollment must agree with the course
	if enrollment.Course != nil && enrollment.TermID != enrollment.Course.TermID {
		s.logger.Error().
			Int64("enrollmentId", enrollment.ID).
			Int64("enrollmentTermId", enrollment.TermID).
			Int64("courseTermId", enrollment.Course.TermID).
			Msg("Enrollment term disagrees with course term")
		return nil, apperrors.ErrInvalidTermLink
	}

	return enrollment, nil
}

// ListStudentEnrollments retrieves a student's enrollments, optionally
// filtered to one term
func (s *EnrollmentService) ListStudentEnrollments(ctx context.Context, studentID, termID int64) ([]*models.Enrollment, error) {
	return s.enrollRepo.ListByStudent(ctx, studentID, termID)
}

// RegisterForTerm records a student's registration for an academic term
func (s *EnrollmentService) RegisterForTerm(ctx context.Context, studentID, termID int64) (*models.TermRegistration, error) {
	if _, err := s.termRepo.GetByID(ctx, termID); err != nil {
		return nil, err
	}

	reg := &models.TermRegistration{
		StudentID: studentID,
		TermID:    termID,
	}
	if err := s.enrollRepo.CreateTermRegistration(ctx, reg); err != nil {
		return nil, err
	}

	return reg, nil
}

// ListTermRegistrations retrieves a student's term registrations
func (s *EnrollmentService) ListTermRegistrations(ctx context.Context, studentID int64) ([]*models.TermRegistration, error) {
	return s.enrollRepo.ListTermRegistrations(ctx, studentID)
}
