package models

import "errors"

// Model invariant violations, checked at write time by the services.
var (
	ErrTermDatesInvalid    = errors.New("term start_date must be before end_date")
	ErrMeetingTimesInvalid = errors.New("meeting start_time must be before end_time")
	ErrMeetingDayInvalid   = errors.New("meeting day must be between 0 (Monday) and 6 (Sunday)")
	ErrStudentIDRequired   = errors.New("student must have a student_id")
	ErrProfessorIDRequired = errors.New("professor must have a professor_id")
	ErrAdminHasIdentifier  = errors.New("admin cannot have a student_id or professor_id")
)
