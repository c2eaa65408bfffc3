package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tolgad/registra/internal/app/models/dto"
	"github.com/tolgad/registra/internal/pkg/apperrors"
)

// HandleAPIError translates service errors into HTTP responses. Every
// controller funnels its error paths through here so status codes and
// error codes stay consistent across the API.
func HandleAPIError(c *gin.Context, err error) {
	// CustomError may carry structured details (missing prerequisite IDs,
	// the conflicting meeting window) that belong in the response body.
	var details interface{}
	var customErr *apperrors.CustomError
	if errors.As(err, &customErr) {
		details = customErr.Details
	}

	respond := func(status int, code dto.ErrorCode, message string) {
		detail := dto.NewErrorDetail(code, message)
		if details != nil {
			detail = detail.WithDetails(details)
		}
		c.JSON(status, dto.NewErrorResponse(detail))
	}

	switch {
	// Enrollment engine failures
	case errors.Is(err, apperrors.ErrAlreadyEnrolled):
		respond(http.StatusConflict, dto.ErrorCodeAlreadyEnrolled, err.Error())
	case errors.Is(err, apperrors.ErrMissingPrerequisites):
		respond(http.StatusUnprocessableEntity, dto.ErrorCodeMissingPrerequisites, err.Error())
	case errors.Is(err, apperrors.ErrCourseFull):
		respond(http.StatusConflict, dto.ErrorCodeCourseFull, err.Error())
	case errors.Is(err, apperrors.ErrScheduleConflict):
		respond(http.StatusConflict, dto.ErrorCodeScheduleConflict, err.Error())
	case errors.Is(err, apperrors.ErrTermMismatch):
		respond(http.StatusBadRequest, dto.ErrorCodeTermMismatch, err.Error())

	// Missing resources
	case errors.Is(err, apperrors.ErrResourceNotFound),
		errors.Is(err, apperrors.ErrUserNotFound),
		errors.Is(err, apperrors.ErrTermNotFound),
		errors.Is(err, apperrors.ErrCourseNotFound),
		errors.Is(err, apperrors.ErrDepartmentNotFound),
		errors.Is(err, apperrors.ErrMeetingNotFound),
		errors.Is(err, apperrors.ErrEnrollmentNotFound),
		errors.Is(err, apperrors.ErrGradeNotFound):
		respond(http.StatusNotFound, dto.ErrorCodeResourceNotFound, err.Error())

	// Duplicates and conflicting state
	case errors.Is(err, apperrors.ErrResourceAlreadyExists),
		errors.Is(err, apperrors.ErrEmailAlreadyExists),
		errors.Is(err, apperrors.ErrUsernameExists),
		errors.Is(err, apperrors.ErrTermAlreadyExists),
		errors.Is(err, apperrors.ErrCourseAlreadyExists),
		errors.Is(err, apperrors.ErrDepartmentAlreadyExists),
		errors.Is(err, apperrors.ErrGradeAlreadyExists),
		errors.Is(err, apperrors.ErrAlreadyRegistered):
		respond(http.StatusConflict, dto.ErrorCodeResourceAlreadyExists, err.Error())
	case errors.Is(err, apperrors.ErrTermHasCourses),
		errors.Is(err, apperrors.ErrConflict):
		respond(http.StatusConflict, dto.ErrorCodeResourceInvalid, err.Error())

	// Authentication and authorization
	case errors.Is(err, apperrors.ErrInvalidCredentials):
		respond(http.StatusUnauthorized, dto.ErrorCodeInvalidCredentials, "Invalid credentials")
	case errors.Is(err, apperrors.ErrTokenExpired):
		respond(http.StatusUnauthorized, dto.ErrorCodeExpiredToken, "Token expired")
	case errors.Is(err, apperrors.ErrTokenNotFound):
		respond(http.StatusUnauthorized, dto.ErrorCodeTokenNotFound, "Token not found")
	case errors.Is(err, apperrors.ErrTokenInvalid),
		errors.Is(err, apperrors.ErrTokenRevoked),
		errors.Is(err, apperrors.ErrInvalidFormat):
		respond(http.StatusUnauthorized, dto.ErrorCodeInvalidToken, "Invalid token")
	case errors.Is(err, apperrors.ErrAccountDisabled),
		errors.Is(err, apperrors.ErrPermissionDenied):
		respond(http.StatusForbidden, dto.ErrorCodeForbidden, err.Error())

	// Bad input
	case errors.Is(err, apperrors.ErrValidationFailed),
		errors.Is(err, apperrors.ErrBadRequest):
		respond(http.StatusBadRequest, dto.ErrorCodeValidationFailed, err.Error())

	// Data integrity problems surface as server errors
	case errors.Is(err, apperrors.ErrInvalidTermLink):
		respond(http.StatusInternalServerError, dto.ErrorCodeDatabaseError, err.Error())

	default:
		respond(http.StatusInternalServerError, dto.ErrorCodeInternalServer, "Internal server error")
	}
}
