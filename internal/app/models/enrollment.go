package models

import (
	"time"
)

// EnrollmentStatus is the lifecycle state of an enrollment
type EnrollmentStatus string

// Enrollment lifecycle states
const (
	StatusEnrolled  EnrollmentStatus = "enrolled"
	StatusDropped   EnrollmentStatus = "dropped"
	StatusCompleted EnrollmentStatus = "completed"
)

// Enrollment is the record of a student's participation in a course for a
// term. Identity is the (student, course, term) triple; the term reference
// is denormalized and must always agree with the course's own term.
type Enrollment struct {
	ID         int64            `json:"id" db:"id" example:"1"`
	StudentID  int64            `json:"studentId" db:"student_id" example:"5"`
	CourseID   int64            `json:"courseId" db:"course_id" example:"1"`
	TermID     int64            `json:"termId" db:"term_id" example:"1"`
	Status     EnrollmentStatus `json:"status" db:"status" example:"enrolled"`
	EnrolledAt time.Time        `json:"enrolledAt" db:"enrolled_at"`
	UpdatedAt  time.Time        `json:"updatedAt" db:"updated_at"`

	// Relations (populated when needed)
	Course *Course `json:"course,omitempty"`
	Term   *Term   `json:"term,omitempty"`
}

// TermRegistration records that a student registered for a term.
// One registration per (student, term).
type TermRegistration struct {
	ID           int64     `json:"id" db:"id"`
	StudentID    int64     `json:"studentId" db:"student_id"`
	TermID       int64     `json:"termId" db:"term_id"`
	RegisteredAt time.Time `json:"registeredAt" db:"registered_at"`

	Term *Term `json:"term,omitempty"`
}
