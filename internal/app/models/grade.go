package models

import (
	"time"
)

// GradeStatus is the outcome recorded for a graded enrollment
type GradeStatus string

// Grade outcomes
const (
	GradePassed     GradeStatus = "passed"
	GradeFailed     GradeStatus = "failed"
	GradeIncomplete GradeStatus = "incomplete"
)

// Grade is the one-to-one grade record for an enrollment. Recording a
// passing grade moves the enrollment to completed, which is the status the
// prerequisite check reads.
type Grade struct {
	ID           int64       `json:"id" db:"id"`
	EnrollmentID int64       `json:"enrollmentId" db:"enrollment_id"`
	Value        *float64    `json:"value,omitempty" db:"grade_value"`
	Status       GradeStatus `json:"status" db:"status" example:"passed"`
	CreatedAt    time.Time   `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time   `json:"updatedAt" db:"updated_at"`
}
