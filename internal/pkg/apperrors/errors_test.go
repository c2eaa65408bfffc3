package apperrors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCustomErrorUnwrap(t *testing.T) {
	err := NewCustomError(ErrCourseNotFound, "course 42 not found")

	assert.Equal(t, "course 42 not found", err.Error())
	assert.ErrorIs(t, err, ErrCourseNotFound)
	assert.NotErrorIs(t, err, ErrTermNotFound)
}

func TestCustomErrorFallsBackToWrappedMessage(t *testing.T) {
	err := &CustomError{Err: ErrCourseFull}
	assert.Equal(t, ErrCourseFull.Error(), err.Error())
}

func TestMissingPrerequisitesError(t *testing.T) {
	err := NewMissingPrerequisitesError([]int64{3, 7})

	require.ErrorIs(t, err, ErrMissingPrerequisites)
	assert.Equal(t, []int64{3, 7}, err.Details["missingCourseIds"])
}

func TestScheduleConflictError(t *testing.T) {
	err := NewScheduleConflictError(10, "CS101", "Monday 09:00-10:30")

	require.ErrorIs(t, err, ErrScheduleConflict)
	assert.Equal(t, int64(10), err.Details["conflictWithCourseId"])
	assert.Equal(t, "Monday 09:00-10:30", err.Details["window"])
	assert.Contains(t, err.Error(), "CS101")
	assert.Contains(t, err.Error(), "Monday 09:00-10:30")
}

func TestConflictAndForbiddenHelpers(t *testing.T) {
	assert.ErrorIs(t, NewConflictError("busy"), ErrConflict)
	assert.ErrorIs(t, NewForbiddenError("nope"), ErrPermissionDenied)
	assert.ErrorIs(t, NewBadRequestError("bad"), ErrBadRequest)
	assert.ErrorIs(t, NewResourceNotFoundError("gone"), ErrResourceNotFound)
}

func TestIsMatchesAnyTarget(t *testing.T) {
	wrapped := NewCustomError(ErrCourseFull, "no seats")

	assert.True(t, Is(wrapped, ErrCourseFull))
	assert.True(t, Is(wrapped, ErrTermNotFound, ErrCourseFull))
	assert.False(t, Is(wrapped, ErrTermNotFound))
}

func TestErrorsAsRecoversCustomError(t *testing.T) {
	var err error = NewMissingPrerequisitesError([]int64{1})

	var custom *CustomError
	require.True(t, errors.As(err, &custom))
	assert.NotNil(t, custom.Details)
}
