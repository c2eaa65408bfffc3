package services

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tolgad/registra/internal/app/models"
	"github.com/tolgad/registra/internal/app/models/dto"
	"github.com/tolgad/registra/internal/pkg/apperrors"
)

// fakeGradeStore keeps one grade per enrollment in memory.
type fakeGradeStore struct {
	grades map[int64]*models.Grade
	nextID int64
}

func newFakeGradeStore() *fakeGradeStore {
	return &fakeGradeStore{grades: make(map[int64]*models.Grade), nextID: 1}
}

func (s *fakeGradeStore) Create(ctx context.Context, grade *models.Grade) error {
	if _, ok := s.grades[grade.EnrollmentID]; ok {
		return apperrors.ErrGradeAlreadyExists
	}
	grade.ID = s.nextID
	s.nextID++
	cp := *grade
	s.grades[grade.EnrollmentID] = &cp
	return nil
}

func (s *fakeGradeStore) GetByEnrollmentID(ctx context.Context, enrollmentID int64) (*models.Grade, error) {
	g, ok := s.grades[enrollmentID]
	if !ok {
		return nil, apperrors.ErrGradeNotFound
	}
	cp := *g
	return &cp, nil
}

type gradeFixture struct {
	svc     *GradeService
	grades  *fakeGradeStore
	courses *fakeCourseStore
	enrolls *fakeEnrollmentStore
}

func newGradeFixture() *gradeFixture {
	courses := newFakeCourseStore()
	enrolls := newFakeEnrollmentStore(courses)
	grades := newFakeGradeStore()
	svc := NewGradeService(grades, enrolls, &gradeCourseAdapter{courses}, zerolog.Nop())
	return &gradeFixture{svc: svc, grades: grades, courses: courses, enrolls: enrolls}
}

// gradeCourseAdapter exposes the fake course store without a Querier, the way
// the grading path reads courses.
type gradeCourseAdapter struct {
	courses *fakeCourseStore
}

func (a *gradeCourseAdapter) GetByID(ctx context.Context, id int64) (*models.Course, error) {
	return a.courses.GetForUpdate(ctx, nil, id)
}

func passedGradeRequest(enrollmentID int64) *dto.RecordGradeRequest {
	value := 92.5
	return &dto.RecordGradeRequest{
		EnrollmentID: enrollmentID,
		Value:        &value,
		Status:       "passed",
	}
}

func TestRecordGrade_PassedCompletesEnrollment(t *testing.T) {
	f := newGradeFixture()
	professorID := int64(7)
	f.courses.add(&models.Course{ID: 10, Code: "CS101", TermID: fallTermID, ProfessorID: &professorID})
	seeded := f.enrolls.seed(5, 10, fallTermID, models.StatusEnrolled)

	grade, err := f.svc.RecordGrade(context.Background(), professorID, models.RoleProfessor, passedGradeRequest(seeded.ID))

	require.NoError(t, err)
	assert.Equal(t, models.GradePassed, grade.Status)
	assert.NotZero(t, grade.ID)

	updated, err := f.enrolls.GetByID(context.Background(), seeded.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, updated.Status)
}

func TestRecordGrade_FailedLeavesEnrollmentActive(t *testing.T) {
	f := newGradeFixture()
	f.courses.add(&models.Course{ID: 10, Code: "CS101", TermID: fallTermID})
	seeded := f.enrolls.seed(5, 10, fallTermID, models.StatusEnrolled)

	req := &dto.RecordGradeRequest{EnrollmentID: seeded.ID, Status: "failed"}
	grade, err := f.svc.RecordGrade(context.Background(), 1, models.RoleAdmin, req)

	require.NoError(t, err)
	assert.Equal(t, models.GradeFailed, grade.Status)
	assert.Nil(t, grade.Value)

	updated, err := f.enrolls.GetByID(context.Background(), seeded.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusEnrolled, updated.Status)
}

func TestRecordGrade_DroppedEnrollmentRejected(t *testing.T) {
	f := newGradeFixture()
	f.courses.add(&models.Course{ID: 10, Code: "CS101", TermID: fallTermID})
	seeded := f.enrolls.seed(5, 10, fallTermID, models.StatusDropped)

	_, err := f.svc.RecordGrade(context.Background(), 1, models.RoleAdmin, passedGradeRequest(seeded.ID))

	assert.ErrorIs(t, err, apperrors.ErrConflict)
}

func TestRecordGrade_ProfessorMustOwnCourse(t *testing.T) {
	f := newGradeFixture()
	owner := int64(7)
	f.courses.add(&models.Course{ID: 10, Code: "CS101", TermID: fallTermID, ProfessorID: &owner})
	seeded := f.enrolls.seed(5, 10, fallTermID, models.StatusEnrolled)

	_, err := f.svc.RecordGrade(context.Background(), 8, models.RoleProfessor, passedGradeRequest(seeded.ID))
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	// Admins are not bound to course ownership
	_, err = f.svc.RecordGrade(context.Background(), 8, models.RoleAdmin, passedGradeRequest(seeded.ID))
	assert.NoError(t, err)
}

func TestRecordGrade_UnassignedCourseRejectsProfessor(t *testing.T) {
	f := newGradeFixture()
	f.courses.add(&models.Course{ID: 10, Code: "CS101", TermID: fallTermID})
	seeded := f.enrolls.seed(5, 10, fallTermID, models.StatusEnrolled)

	_, err := f.svc.RecordGrade(context.Background(), 7, models.RoleProfessor, passedGradeRequest(seeded.ID))

	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
}

func TestRecordGrade_OnePerEnrollment(t *testing.T) {
	f := newGradeFixture()
	f.courses.add(&models.Course{ID: 10, Code: "CS101", TermID: fallTermID})
	seeded := f.enrolls.seed(5, 10, fallTermID, models.StatusEnrolled)

	_, err := f.svc.RecordGrade(context.Background(), 1, models.RoleAdmin, passedGradeRequest(seeded.ID))
	require.NoError(t, err)

	_, err = f.svc.RecordGrade(context.Background(), 1, models.RoleAdmin, passedGradeRequest(seeded.ID))
	assert.ErrorIs(t, err, apperrors.ErrGradeAlreadyExists)
}

func TestGetGrade_StudentOwnershipOnly(t *testing.T) {
	f := newGradeFixture()
	f.courses.add(&models.Course{ID: 10, Code: "CS101", TermID: fallTermID})
	seeded := f.enrolls.seed(5, 10, fallTermID, models.StatusEnrolled)

	_, err := f.svc.RecordGrade(context.Background(), 1, models.RoleAdmin, passedGradeRequest(seeded.ID))
	require.NoError(t, err)

	grade, err := f.svc.GetGrade(context.Background(), 5, models.RoleStudent, seeded.ID)
	require.NoError(t, err)
	assert.Equal(t, models.GradePassed, grade.Status)

	_, err = f.svc.GetGrade(context.Background(), 6, models.RoleStudent, seeded.ID)
	assert.ErrorIs(t, err, apperrors.ErrEnrollmentNotFound)

	_, err = f.svc.GetGrade(context.Background(), 99, models.RoleAdmin, seeded.ID)
	assert.NoError(t, err)
}

func TestGetGrade_NotRecorded(t *testing.T) {
	f := newGradeFixture()
	f.courses.add(&models.Course{ID: 10, Code: "CS101", TermID: fallTermID})
	seeded := f.enrolls.seed(5, 10, fallTermID, models.StatusEnrolled)

	_, err := f.svc.GetGrade(context.Background(), 5, models.RoleStudent, seeded.ID)

	assert.ErrorIs(t, err, apperrors.ErrGradeNotFound)
}
