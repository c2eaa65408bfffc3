package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tolgad/registra/internal/app/models/dto"
	"github.com/tolgad/registra/internal/pkg/apperrors"
)

func respondWith(t *testing.T, err error) (int, *dto.ErrorResponse) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	HandleAPIError(c, err)

	var body dto.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec.Code, &body
}

func TestHandleAPIError_StatusAndCodeMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   dto.ErrorCode
	}{
		{"already enrolled", apperrors.ErrAlreadyEnrolled, http.StatusConflict, dto.ErrorCodeAlreadyEnrolled},
		{"missing prerequisites", apperrors.ErrMissingPrerequisites, http.StatusUnprocessableEntity, dto.ErrorCodeMissingPrerequisites},
		{"course full", apperrors.ErrCourseFull, http.StatusConflict, dto.ErrorCodeCourseFull},
		{"schedule conflict", apperrors.ErrScheduleConflict, http.StatusConflict, dto.ErrorCodeScheduleConflict},
		{"term mismatch", apperrors.ErrTermMismatch, http.StatusBadRequest, dto.ErrorCodeTermMismatch},
		{"course not found", apperrors.ErrCourseNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound},
		{"enrollment not found", apperrors.ErrEnrollmentNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound},
		{"term exists", apperrors.ErrTermAlreadyExists, http.StatusConflict, dto.ErrorCodeResourceAlreadyExists},
		{"already registered", apperrors.ErrAlreadyRegistered, http.StatusConflict, dto.ErrorCodeResourceAlreadyExists},
		{"term has courses", apperrors.ErrTermHasCourses, http.StatusConflict, dto.ErrorCodeResourceInvalid},
		{"conflict", apperrors.ErrConflict, http.StatusConflict, dto.ErrorCodeResourceInvalid},
		{"invalid credentials", apperrors.ErrInvalidCredentials, http.StatusUnauthorized, dto.ErrorCodeInvalidCredentials},
		{"expired token", apperrors.ErrTokenExpired, http.StatusUnauthorized, dto.ErrorCodeExpiredToken},
		{"revoked token", apperrors.ErrTokenRevoked, http.StatusUnauthorized, dto.ErrorCodeInvalidToken},
		{"account disabled", apperrors.ErrAccountDisabled, http.StatusForbidden, dto.ErrorCodeForbidden},
		{"permission denied", apperrors.ErrPermissionDenied, http.StatusForbidden, dto.ErrorCodeForbidden},
		{"bad request", apperrors.ErrBadRequest, http.StatusBadRequest, dto.ErrorCodeValidationFailed},
		{"invalid term link", apperrors.ErrInvalidTermLink, http.StatusInternalServerError, dto.ErrorCodeDatabaseError},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, dto.ErrorCodeInternalServer},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			status, body := respondWith(t, tc.err)

			assert.Equal(t, tc.wantStatus, status)
			require.NotNil(t, body.Error)
			assert.Equal(t, tc.wantCode, body.Error.Code)
			assert.False(t, body.Success)
		})
	}
}

func TestHandleAPIError_WrappedSentinelsStillMap(t *testing.T) {
	wrapped := apperrors.NewCustomError(apperrors.ErrCourseFull, "no seats left in CS101")

	status, body := respondWith(t, wrapped)

	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, dto.ErrorCodeCourseFull, body.Error.Code)
	assert.Equal(t, "no seats left in CS101", body.Error.Message)
}

func TestHandleAPIError_DetailsPropagated(t *testing.T) {
	status, body := respondWith(t, apperrors.NewMissingPrerequisitesError([]int64{3, 7}))

	assert.Equal(t, http.StatusUnprocessableEntity, status)
	require.NotNil(t, body.Error.Details)

	details, ok := body.Error.Details.(map[string]interface{})
	require.True(t, ok)
	assert.Contains(t, details, "missingCourseIds")
}

func TestHandleAPIError_ConflictWindowDetails(t *testing.T) {
	err := apperrors.NewScheduleConflictError(10, "CS101", "Monday 09:00-10:30")

	status, body := respondWith(t, err)

	assert.Equal(t, http.StatusConflict, status)
	details, ok := body.Error.Details.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "Monday 09:00-10:30", details["window"])
}

func TestHandleAPIError_UnknownErrorDoesNotLeakMessage(t *testing.T) {
	_, body := respondWith(t, errors.New("pq: connection reset"))

	assert.Equal(t, "Internal server error", body.Error.Message)
}
