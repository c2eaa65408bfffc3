package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tolgad/registra/internal/app/models"
	"github.com/tolgad/registra/internal/pkg/apperrors"
)

type enrollmentFixture struct {
	svc     *EnrollmentService
	tx      *fakeTransactor
	courses *fakeCourseStore
	enrolls *fakeEnrollmentStore
	terms   *fakeTermStore
}

func newEnrollmentFixture() *enrollmentFixture {
	courses := newFakeCourseStore()
	enrolls := newFakeEnrollmentStore(courses)
	terms := newFakeTermStore()
	tx := &fakeTransactor{}
	svc := NewEnrollmentService(tx, courses, enrolls, terms, zerolog.Nop())
	return &enrollmentFixture{svc: svc, tx: tx, courses: courses, enrolls: enrolls, terms: terms}
}

const fallTermID = int64(1)

func (f *enrollmentFixture) addCourse(id int64, code string, capacity int, meetings ...models.CourseMeeting) *models.Course {
	c := &models.Course{
		ID:       id,
		Code:     code,
		Title:    code,
		Units:    3,
		Capacity: capacity,
		TermID:   fallTermID,
		Meetings: meetings,
	}
	f.courses.add(c)
	return c
}

func TestEnroll_Success(t *testing.T) {
	f := newEnrollmentFixture()
	f.addCourse(10, "CS101", 30)

	enrollment, err := f.svc.Enroll(context.Background(), 5, 10, 0, DefaultEnrollOptions())

	require.NoError(t, err)
	require.NotNil(t, enrollment)
	assert.Equal(t, int64(5), enrollment.StudentID)
	assert.Equal(t, int64(10), enrollment.CourseID)
	assert.Equal(t, fallTermID, enrollment.TermID)
	assert.Equal(t, models.StatusEnrolled, enrollment.Status)
	assert.NotZero(t, enrollment.ID)
}

func TestEnroll_CourseNotFound(t *testing.T) {
	f := newEnrollmentFixture()

	_, err := f.svc.Enroll(context.Background(), 5, 999, 0, DefaultEnrollOptions())

	assert.ErrorIs(t, err, apperrors.ErrCourseNotFound)
}

func TestEnroll_TermMismatch(t *testing.T) {
	f := newEnrollmentFixture()
	f.addCourse(10, "CS101", 30)

	_, err := f.svc.Enroll(context.Background(), 5, 10, 42, DefaultEnrollOptions())
	assert.ErrorIs(t, err, apperrors.ErrTermMismatch)

	// Matching term and zero (any term) both pass
	_, err = f.svc.Enroll(context.Background(), 5, 10, fallTermID, DefaultEnrollOptions())
	assert.NoError(t, err)
}

func TestEnroll_AlreadyEnrolled(t *testing.T) {
	f := newEnrollmentFixture()
	f.addCourse(10, "CS101", 30)
	f.enrolls.seed(5, 10, fallTermID, models.StatusEnrolled)

	_, err := f.svc.Enroll(context.Background(), 5, 10, 0, DefaultEnrollOptions())

	assert.ErrorIs(t, err, apperrors.ErrAlreadyEnrolled)
}

func TestEnroll_CompletedCountsAsDuplicate(t *testing.T) {
	f := newEnrollmentFixture()
	f.addCourse(10, "CS101", 30)
	f.enrolls.seed(5, 10, fallTermID, models.StatusCompleted)

	_, err := f.svc.Enroll(context.Background(), 5, 10, 0, DefaultEnrollOptions())

	assert.ErrorIs(t, err, apperrors.ErrAlreadyEnrolled)
}

func TestEnroll_DuplicateCheckCannotBeBypassed(t *testing.T) {
	f := newEnrollmentFixture()
	f.addCourse(10, "CS101", 30)
	f.enrolls.seed(5, 10, fallTermID, models.StatusEnrolled)

	_, err := f.svc.Enroll(context.Background(), 5, 10, 0, EnrollOptions{})

	assert.ErrorIs(t, err, apperrors.ErrAlreadyEnrolled)
}

func TestEnroll_ReactivatesDroppedEnrollment(t *testing.T) {
	f := newEnrollmentFixture()
	f.addCourse(10, "CS101", 30)
	dropped := f.enrolls.seed(5, 10, fallTermID, models.StatusDropped)

	enrollment, err := f.svc.Enroll(context.Background(), 5, 10, 0, DefaultEnrollOptions())

	require.NoError(t, err)
	assert.Equal(t, dropped.ID, enrollment.ID)
	assert.Equal(t, models.StatusEnrolled, enrollment.Status)

	count, err := f.enrolls.CountEnrolled(context.Background(), nil, 10)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestEnroll_ReactivationRunsChecks(t *testing.T) {
	f := newEnrollmentFixture()
	f.addCourse(10, "CS101", 1)
	f.enrolls.seed(5, 10, fallTermID, models.StatusDropped)
	f.enrolls.seed(6, 10, fallTermID, models.StatusEnrolled)

	// The seat freed by the drop was taken by someone else
	_, err := f.svc.Enroll(context.Background(), 5, 10, 0, DefaultEnrollOptions())

	assert.ErrorIs(t, err, apperrors.ErrCourseFull)
}

func TestEnroll_MissingPrerequisites(t *testing.T) {
	f := newEnrollmentFixture()
	f.addCourse(10, "CS201", 30)
	f.addCourse(1, "CS101", 30)
	f.addCourse(2, "MATH100", 30)
	f.courses.setPrereqs(10, 1, 2)
	f.enrolls.seed(5, 1, fallTermID, models.StatusCompleted)

	_, err := f.svc.Enroll(context.Background(), 5, 10, 0, DefaultEnrollOptions())

	require.ErrorIs(t, err, apperrors.ErrMissingPrerequisites)

	var custom *apperrors.CustomError
	require.ErrorAs(t, err, &custom)
	assert.Equal(t, []int64{2}, custom.Details["missingCourseIds"])
}

func TestEnroll_TransitivePrerequisites(t *testing.T) {
	f := newEnrollmentFixture()
	f.addCourse(30, "CS301", 30)
	f.addCourse(20, "CS201", 30)
	f.addCourse(10, "CS101", 30)
	f.courses.setPrereqs(30, 20)
	f.courses.setPrereqs(20, 10)

	// Completed the direct prerequisite but not the one behind it
	f.enrolls.seed(5, 20, fallTermID, models.StatusCompleted)

	_, err := f.svc.Enroll(context.Background(), 5, 30, 0, DefaultEnrollOptions())

	require.ErrorIs(t, err, apperrors.ErrMissingPrerequisites)

	var custom *apperrors.CustomError
	require.ErrorAs(t, err, &custom)
	assert.Equal(t, []int64{10}, custom.Details["missingCourseIds"])
}

func TestEnroll_DiamondPrerequisitesListedOnce(t *testing.T) {
	f := newEnrollmentFixture()
	f.addCourse(40, "CS401", 30)
	f.addCourse(20, "CS210", 30)
	f.addCourse(21, "CS220", 30)
	f.addCourse(10, "CS101", 30)
	f.courses.setPrereqs(40, 20, 21)
	f.courses.setPrereqs(20, 10)
	f.courses.setPrereqs(21, 10)

	_, err := f.svc.Enroll(context.Background(), 5, 40, 0, DefaultEnrollOptions())

	require.ErrorIs(t, err, apperrors.ErrMissingPrerequisites)

	var custom *apperrors.CustomError
	require.ErrorAs(t, err, &custom)
	assert.Equal(t, []int64{10, 20, 21}, custom.Details["missingCourseIds"])
}

func TestEnroll_PrerequisiteCycleTolerated(t *testing.T) {
	f := newEnrollmentFixture()
	f.addCourse(10, "CS101", 30)
	f.addCourse(20, "CS201", 30)
	f.courses.setPrereqs(10, 20)
	f.courses.setPrereqs(20, 10)
	f.enrolls.seed(5, 20, fallTermID, models.StatusCompleted)

	// The cycle back to the target course is ignored, not an infinite loop
	enrollment, err := f.svc.Enroll(context.Background(), 5, 10, 0, DefaultEnrollOptions())

	require.NoError(t, err)
	assert.Equal(t, models.StatusEnrolled, enrollment.Status)
}

func TestEnroll_CourseFull(t *testing.T) {
	f := newEnrollmentFixture()
	f.addCourse(10, "CS101", 2)
	f.enrolls.seed(1, 10, fallTermID, models.StatusEnrolled)
	f.enrolls.seed(2, 10, fallTermID, models.StatusEnrolled)

	_, err := f.svc.Enroll(context.Background(), 5, 10, 0, DefaultEnrollOptions())

	assert.ErrorIs(t, err, apperrors.ErrCourseFull)
}

func TestEnroll_DroppedSeatsDoNotCount(t *testing.T) {
	f := newEnrollmentFixture()
	f.addCourse(10, "CS101", 2)
	f.enrolls.seed(1, 10, fallTermID, models.StatusEnrolled)
	f.enrolls.seed(2, 10, fallTermID, models.StatusDropped)

	_, err := f.svc.Enroll(context.Background(), 5, 10, 0, DefaultEnrollOptions())

	assert.NoError(t, err)
}

func TestEnroll_ZeroCapacityIsUnlimited(t *testing.T) {
	f := newEnrollmentFixture()
	f.addCourse(10, "SEM500", 0)
	for i := int64(1); i <= 50; i++ {
		f.enrolls.seed(i, 10, fallTermID, models.StatusEnrolled)
	}

	_, err := f.svc.Enroll(context.Background(), 100, 10, 0, DefaultEnrollOptions())

	assert.NoError(t, err)
}

func TestEnroll_ScheduleConflict(t *testing.T) {
	f := newEnrollmentFixture()
	f.addCourse(10, "CS101", 30, models.CourseMeeting{Day: 0, StartTime: 540, EndTime: 630})
	f.addCourse(20, "MATH100", 30, models.CourseMeeting{Day: 0, StartTime: 600, EndTime: 690})
	f.enrolls.seed(5, 10, fallTermID, models.StatusEnrolled)

	_, err := f.svc.Enroll(context.Background(), 5, 20, 0, DefaultEnrollOptions())

	require.ErrorIs(t, err, apperrors.ErrScheduleConflict)

	var custom *apperrors.CustomError
	require.ErrorAs(t, err, &custom)
	assert.Equal(t, int64(10), custom.Details["conflictWithCourseId"])
	assert.Equal(t, "Monday 09:00-10:30", custom.Details["window"])
}

func TestEnroll_BackToBackMeetingsDoNotConflict(t *testing.T) {
	f := newEnrollmentFixture()
	f.addCourse(10, "CS101", 30, models.CourseMeeting{Day: 0, StartTime: 540, EndTime: 630})
	f.addCourse(20, "MATH100", 30, models.CourseMeeting{Day: 0, StartTime: 630, EndTime: 720})
	f.enrolls.seed(5, 10, fallTermID, models.StatusEnrolled)

	_, err := f.svc.Enroll(context.Background(), 5, 20, 0, DefaultEnrollOptions())

	assert.NoError(t, err)
}

func TestEnroll_SameWindowDifferentDay(t *testing.T) {
	f := newEnrollmentFixture()
	f.addCourse(10, "CS101", 30, models.CourseMeeting{Day: 0, StartTime: 540, EndTime: 630})
	f.addCourse(20, "MATH100", 30, models.CourseMeeting{Day: 2, StartTime: 540, EndTime: 630})
	f.enrolls.seed(5, 10, fallTermID, models.StatusEnrolled)

	_, err := f.svc.Enroll(context.Background(), 5, 20, 0, DefaultEnrollOptions())

	assert.NoError(t, err)
}

func TestEnroll_DroppedCoursesIgnoredInConflictCheck(t *testing.T) {
	f := newEnrollmentFixture()
	f.addCourse(10, "CS101", 30, models.CourseMeeting{Day: 0, StartTime: 540, EndTime: 630})
	f.addCourse(20, "MATH100", 30, models.CourseMeeting{Day: 0, StartTime: 540, EndTime: 630})
	f.enrolls.seed(5, 10, fallTermID, models.StatusDropped)

	_, err := f.svc.Enroll(context.Background(), 5, 20, 0, DefaultEnrollOptions())

	assert.NoError(t, err)
}

func TestEnroll_OptionBypasses(t *testing.T) {
	tests := []struct {
		name  string
		setup func(f *enrollmentFixture)
		opts  EnrollOptions
	}{
		{
			name: "skip prerequisites",
			setup: func(f *enrollmentFixture) {
				f.addCourse(10, "CS201", 30)
				f.addCourse(1, "CS101", 30)
				f.courses.setPrereqs(10, 1)
			},
			opts: EnrollOptions{CheckCapacity: true, CheckConflict: true},
		},
		{
			name: "skip capacity",
			setup: func(f *enrollmentFixture) {
				f.addCourse(10, "CS201", 1)
				f.enrolls.seed(1, 10, fallTermID, models.StatusEnrolled)
			},
			opts: EnrollOptions{CheckPrerequisites: true, CheckConflict: true},
		},
		{
			name: "skip conflict",
			setup: func(f *enrollmentFixture) {
				f.addCourse(10, "CS201", 30, models.CourseMeeting{Day: 0, StartTime: 540, EndTime: 630})
				f.addCourse(20, "MATH100", 30, models.CourseMeeting{Day: 0, StartTime: 540, EndTime: 630})
				f.enrolls.seed(5, 20, fallTermID, models.StatusEnrolled)
			},
			opts: EnrollOptions{CheckPrerequisites: true, CheckCapacity: true},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := newEnrollmentFixture()
			tc.setup(f)

			enrollment, err := f.svc.Enroll(context.Background(), 5, 10, 0, tc.opts)

			require.NoError(t, err)
			assert.Equal(t, models.StatusEnrolled, enrollment.Status)
		})
	}
}

func TestEnroll_ConcurrentAttemptsDoNotOversell(t *testing.T) {
	f := newEnrollmentFixture()
	f.addCourse(10, "CS101", 2)

	const attempts = 8
	var wg sync.WaitGroup
	errs := make([]error, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			studentID := int64(100 + i)
			_, errs[i] = f.svc.Enroll(context.Background(), studentID, 10, 0, DefaultEnrollOptions())
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else {
			assert.ErrorIs(t, err, apperrors.ErrCourseFull)
		}
	}
	assert.Equal(t, 2, succeeded)

	count, err := f.enrolls.CountEnrolled(context.Background(), nil, 10)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestDrop_Success(t *testing.T) {
	f := newEnrollmentFixture()
	f.addCourse(10, "CS101", 30)
	seeded := f.enrolls.seed(5, 10, fallTermID, models.StatusEnrolled)

	enrollment, err := f.svc.Drop(context.Background(), 5, seeded.ID)

	require.NoError(t, err)
	assert.Equal(t, models.StatusDropped, enrollment.Status)

	count, err := f.enrolls.CountEnrolled(context.Background(), nil, 10)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestDrop_OtherStudentsEnrollmentHidden(t *testing.T) {
	f := newEnrollmentFixture()
	f.addCourse(10, "CS101", 30)
	seeded := f.enrolls.seed(5, 10, fallTermID, models.StatusEnrolled)

	_, err := f.svc.Drop(context.Background(), 6, seeded.ID)

	assert.ErrorIs(t, err, apperrors.ErrEnrollmentNotFound)
}

func TestDrop_OnlyActiveEnrollments(t *testing.T) {
	f := newEnrollmentFixture()
	f.addCourse(10, "CS101", 30)

	for _, status := range []models.EnrollmentStatus{models.StatusDropped, models.StatusCompleted} {
		seeded := f.enrolls.seed(5, 10, fallTermID, status)
		_, err := f.svc.Drop(context.Background(), 5, seeded.ID)
		assert.ErrorIs(t, err, apperrors.ErrConflict, "status %s", status)

		f = newEnrollmentFixture()
		f.addCourse(10, "CS101", 30)
	}
}

func TestGetEnrollment_Ownership(t *testing.T) {
	f := newEnrollmentFixture()
	f.addCourse(10, "CS101", 30)
	seeded := f.enrolls.seed(5, 10, fallTermID, models.StatusEnrolled)

	got, err := f.svc.GetEnrollment(context.Background(), 5, seeded.ID)
	require.NoError(t, err)
	assert.Equal(t, seeded.ID, got.ID)

	_, err = f.svc.GetEnrollment(context.Background(), 6, seeded.ID)
	assert.ErrorIs(t, err, apperrors.ErrEnrollmentNotFound)

	// studentID zero is the admin path, no ownership check
	got, err = f.svc.GetEnrollment(context.Background(), 0, seeded.ID)
	require.NoError(t, err)
	assert.Equal(t, seeded.ID, got.ID)
}

func TestGetEnrollment_TermDisagreementIsAnError(t *testing.T) {
	f := newEnrollmentFixture()
	f.addCourse(10, "CS101", 30)
	seeded := f.enrolls.seed(5, 10, 99, models.StatusEnrolled)

	_, err := f.svc.GetEnrollment(context.Background(), 5, seeded.ID)

	assert.ErrorIs(t, err, apperrors.ErrInvalidTermLink)
}

func TestRegisterForTerm(t *testing.T) {
	f := newEnrollmentFixture()
	f.terms.add(&models.Term{ID: fallTermID, Name: "Fall 2026"})

	reg, err := f.svc.RegisterForTerm(context.Background(), 5, fallTermID)
	require.NoError(t, err)
	assert.Equal(t, fallTermID, reg.TermID)
	assert.NotZero(t, reg.ID)

	_, err = f.svc.RegisterForTerm(context.Background(), 5, fallTermID)
	assert.ErrorIs(t, err, apperrors.ErrAlreadyRegistered)

	_, err = f.svc.RegisterForTerm(context.Background(), 5, 999)
	assert.ErrorIs(t, err, apperrors.ErrTermNotFound)

	regs, err := f.svc.ListTermRegistrations(context.Background(), 5)
	require.NoError(t, err)
	assert.Len(t, regs, 1)
}

func TestListStudentEnrollments_TermFilter(t *testing.T) {
	f := newEnrollmentFixture()
	f.enrolls.seed(5, 10, fallTermID, models.StatusEnrolled)
	f.enrolls.seed(5, 20, 2, models.StatusCompleted)
	f.enrolls.seed(6, 10, fallTermID, models.StatusEnrolled)

	all, err := f.svc.ListStudentEnrollments(context.Background(), 5, 0)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	fall, err := f.svc.ListStudentEnrollments(context.Background(), 5, fallTermID)
	require.NoError(t, err)
	require.Len(t, fall, 1)
	assert.Equal(t, int64(10), fall[0].CourseID)
}

func TestEnroll_SkippedChecksStillHonorTermMismatch(t *testing.T) {
	f := newEnrollmentFixture()
	f.addCourse(10, "CS101", 30)

	_, err := f.svc.Enroll(context.Background(), 5, 10, 42, EnrollOptions{})

	assert.ErrorIs(t, err, apperrors.ErrTermMismatch)
}

func TestEnroll_ErrorsAreSentinelWrapped(t *testing.T) {
	f := newEnrollmentFixture()
	f.addCourse(10, "CS201", 30)
	f.addCourse(1, "CS101", 30)
	f.courses.setPrereqs(10, 1)

	_, err := f.svc.Enroll(context.Background(), 5, 10, 0, DefaultEnrollOptions())

	// Callers dispatch on the sentinel, not the concrete type
	assert.True(t, errors.Is(err, apperrors.ErrMissingPrerequisites))
}
