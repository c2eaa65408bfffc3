package services

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/tolgad/registra/internal/app/models"
	"github.com/tolgad/registra/internal/app/models/dto"
	"github.com/tolgad/registra/internal/pkg/apperrors"
)

type gradeStore interface {
	Create(ctx context.Context, grade *models.Grade) error
	GetByEnrollmentID(ctx context.Context, enrollmentID int64) (*models.Grade, error)
}

type gradeEnrollmentStore interface {
	GetByID(ctx context.Context, id int64) (*models.Enrollment, error)
	UpdateStatus(ctx context.Context, id int64, status models.EnrollmentStatus) error
}

type gradeCourseStore interface {
	GetByID(ctx context.Context, id int64) (*models.Course, error)
}

// GradeService records course outcomes. A passing grade is what feeds the
// prerequisite check: it moves the enrollment to completed.
type GradeService struct {
	gradeRepo  gradeStore
	enrollRepo gradeEnrollmentStore
	courseRepo gradeCourseStore
	logger     zerolog.Logger
}

// NewGradeService creates a new GradeService
func NewGradeService(
	gradeRepo gradeStore,
	enrollRepo gradeEnrollmentStore,
	courseRepo gradeCourseStore,
	logger zerolog.Logger,
) *GradeService {
	return &GradeService{
		gradeRepo:  gradeRepo,
		enrollRepo: enrollRepo,
		courseRepo: courseRepo,
		logger:     logger,
	}
}

// RecordGrade records a grade for an enrollment. Professors may only grade
// their own courses; admins may grade any. A passing grade completes the
// enrollment.
func (s *GradeService) RecordGrade(ctx context.Context, callerID int64, callerRole models.Role, req *dto.RecordGradeRequest) (*models.Grade, error) {
	enrollment, err := s.enrollRepo.GetByID(ctx, req.EnrollmentID)
	if err != nil {
		return nil, err
	}

	if enrollment.Status == models.StatusDropped {
		return nil, apperrors.NewConflictError("cannot grade a dropped enrollment")
	}

	if callerRole == models.RoleProfessor {
		course, err := s.courseRepo.GetByID(ctx, enrollment.CourseID)
		if err != nil {
			return nil, err
		}
		if course.ProfessorID == nil || *course.ProfessorID != callerID {
			return nil, apperrors.NewForbiddenError("only the course's professor can record grades for it")
		}
	}

	grade := &models.Grade{
		EnrollmentID: enrollment.ID,
		Value:        req.Value,
		Status:       models.GradeStatus(req.Status),
	}

	if err := s.gradeRepo.Create(ctx, grade); err != nil {
		return nil, err
	}

	if grade.Status == models.GradePassed && enrollment.Status != models.StatusCompleted {
		if err := s.enrollRepo.UpdateStatus(ctx, enrollment.ID, models.StatusCompleted); err != nil {
			return nil, err
		}
	}

	s.logger.Info().
		Int64("enrollmentId", enrollment.ID).
		Str("status", string(grade.Status)).
		Msg("Grade recorded")

	return grade, nil
}

// GetGrade retrieves the grade recorded for an enrollment. Students can only
// see their own.
func (s *GradeService) GetGrade(ctx context.Context, callerID int64, callerRole models.Role, enrollmentID int64) (*models.Grade, error) {
	enrollment, err := s.enrollRepo.GetByID(ctx, enrollmentID)
	if err != nil {
		return nil, err
	}

	if callerRole == models.RoleStudent && enrollment.StudentID != callerID {
		return nil, apperrors.ErrEnrollmentNotFound
	}

	return s.gradeRepo.GetByEnrollmentID(ctx, enrollmentID)
}
