package dto

// RecordGradeRequest represents a grade recording request for an enrollment
type RecordGradeRequest struct {
	EnrollmentID int64    `json:"enrollmentId" binding:"required,min=1"`
	Value        *float64 `json:"value,omitempty"`
	Status       string   `json:"status" binding:"required,oneof=passed failed incomplete"`
}
