package apperrors

import "errors"

// Common errors
var (
	// Resource errors
	ErrResourceNotFound      = errors.New("resource not found")
	ErrResourceAlreadyExists = errors.New("resource already exists")
	ErrConflict              = errors.New("conflict")

	// Authentication errors
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("invalid token")
	ErrTokenNotFound      = errors.New("token not found")
	ErrTokenRevoked       = errors.New("token revoked")
	ErrAccountDisabled    = errors.New("account is disabled")
	ErrInvalidFormat      = errors.New("invalid token format")

	// Authorization errors
	ErrPermissionDenied = errors.New("permission denied")

	// Validation errors
	ErrValidationFailed = errors.New("validation failed")
	ErrBadRequest       = errors.New("bad request")

	// User errors
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrUsernameExists     = errors.New("username already exists")
)

// Catalog errors
var (
	ErrTermNotFound            = errors.New("term not found")
	ErrTermAlreadyExists       = errors.New("term with this name already exists")
	ErrTermHasCourses          = errors.New("term has courses and cannot be deleted")
	ErrCourseNotFound          = errors.New("course not found")
	ErrCourseAlreadyExists     = errors.New("course with this code already exists for the term")
	ErrDepartmentNotFound      = errors.New("department not found")
	ErrDepartmentAlreadyExists = errors.New("department with this name or code already exists")
	ErrMeetingNotFound         = errors.New("course meeting not found")
)

// Enrollment errors. These are the business-rule failures the enrollment
// engine can surface; each one aborts the enrollment transaction before
// any row is written.
var (
	ErrAlreadyEnrolled      = errors.New("student is already enrolled in this course for the term")
	ErrMissingPrerequisites = errors.New("missing prerequisite courses")
	ErrCourseFull           = errors.New("course is full")
	ErrScheduleConflict     = errors.New("schedule conflict with another enrolled course")
	ErrTermMismatch         = errors.New("requested term does not match the course term")
	ErrInvalidTermLink      = errors.New("enrollment term does not match the course term")
	ErrEnrollmentNotFound   = errors.New("enrollment not found")
	ErrAlreadyRegistered    = errors.New("student is already registered for this term")
)

// Grade errors
var (
	ErrGradeNotFound      = errors.New("grade not found")
	ErrGradeAlreadyExists = errors.New("grade already recorded for this enrollment")
)

// NewResourceNotFoundError creates a new custom error for resource not found with a message
func NewResourceNotFoundError(message string) error {
	return &CustomError{
		Err:     ErrResourceNotFound,
		Message: message,
	}
}

// NewConflictError creates a new custom error for conflict situations with a message
func NewConflictError(message string) error {
	return &CustomError{
		Err:     ErrConflict,
		Message: message,
	}
}

// NewForbiddenError creates a new custom error for permission denied with a message
func NewForbiddenError(message string) error {
	return &CustomError{
		Err:     ErrPermissionDenied,
		Message: message,
	}
}

// NewBadRequestError creates a new custom error for bad request with a message
func NewBadRequestError(message string) error {
	return &CustomError{
		Err:     ErrBadRequest,
		Message: message,
	}
}

// NewMissingPrerequisitesError creates an enrollment failure carrying the
// prerequisite course IDs the student has not completed.
func NewMissingPrerequisitesError(missingIDs []int64) *CustomError {
	return &CustomError{
		Err:     ErrMissingPrerequisites,
		Message: "missing prerequisite courses",
		Details: map[string]interface{}{"missingCourseIds": missingIDs},
	}
}

// NewScheduleConflictError creates an enrollment failure carrying the
// conflicting course and the overlapping meeting window.
func NewScheduleConflictError(courseID int64, courseCode, window string) *CustomError {
	return &CustomError{
		Err:     ErrScheduleConflict,
		Message: "time conflict with " + courseCode + " (" + window + ")",
		Details: map[string]interface{}{
			"conflictWithCourseId": courseID,
			"window":               window,
		},
	}
}

// Is returns whether target matches any of the errors in errList
func Is(err, target error, errList ...error) bool {
	if errors.Is(err, target) {
		return true
	}

	for _, e := range errList {
		if errors.Is(err, e) {
			return true
		}
	}

	return false
}

// CustomError represents application-specific errors with additional context
type CustomError struct {
	Err       error
	Message   string
	StatusMsg string
	Code      string
	Details   map[string]interface{}
}

// Error implements error interface
func (e *CustomError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

// Unwrap implements errors.Unwrap interface
func (e *CustomError) Unwrap() error {
	return e.Err
}

// NewCustomError creates a CustomError with underlying error
func NewCustomError(err error, message string) *CustomError {
	return &CustomError{
		Err:     err,
		Message: message,
	}
}

// WithDetails adds context details to the error
func (e *CustomError) WithDetails(details map[string]interface{}) *CustomError {
	e.Details = details
	return e
}

// WithCode adds an error code
func (e *CustomError) WithCode(code string) *CustomError {
	e.Code = code
	return e
}

// WithStatusMsg adds a user-friendly status message
func (e *CustomError) WithStatusMsg(msg string) *CustomError {
	e.StatusMsg = msg
	return e
}
