package dto

import (
	"time"

	"github.com/tolgad/registra/internal/app/models"
)

// EnrollRequest represents a student's enrollment attempt
type EnrollRequest struct {
	CourseID int64 `json:"courseId" binding:"required,min=1"`
	// TermID is optional; when set it must match the course's own term.
	TermID int64 `json:"termId,omitempty"`
}

// AdminEnrollRequest is the administrative override path: any check can be
// bypassed independently.
type AdminEnrollRequest struct {
	StudentID         int64 `json:"studentId" binding:"required,min=1"`
	CourseID          int64 `json:"courseId" binding:"required,min=1"`
	TermID            int64 `json:"termId,omitempty"`
	SkipPrerequisites bool  `json:"skipPrerequisites"`
	SkipCapacityCheck bool  `json:"skipCapacityCheck"`
	SkipConflictCheck bool  `json:"skipConflictCheck"`
}

// EnrollmentResponse represents an enrollment record
type EnrollmentResponse struct {
	ID         int64     `json:"id"`
	StudentID  int64     `json:"studentId"`
	CourseID   int64     `json:"courseId"`
	CourseCode string    `json:"courseCode,omitempty"`
	TermID     int64     `json:"termId"`
	TermName   string    `json:"termName,omitempty"`
	Status     string    `json:"status"`
	EnrolledAt time.Time `json:"enrolledAt"`
}

// NewEnrollmentResponse converts a model enrollment to its response form
func NewEnrollmentResponse(e *models.Enrollment) EnrollmentResponse {
	resp := EnrollmentResponse{
		ID:         e.ID,
		StudentID:  e.StudentID,
		CourseID:   e.CourseID,
		TermID:     e.TermID,
		Status:     string(e.Status),
		EnrolledAt: e.EnrolledAt,
	}
	if e.Course != nil {
		resp.CourseCode = e.Course.Code
	}
	if e.Term != nil {
		resp.TermName = e.Term.Name
	}
	return resp
}
