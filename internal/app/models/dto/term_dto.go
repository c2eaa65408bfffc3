package dto

// CreateTermRequest represents a request to create a term
type CreateTermRequest struct {
	Name      string `json:"name" binding:"required,max=64"`
	StartDate string `json:"startDate" binding:"required"` // YYYY-MM-DD
	EndDate   string `json:"endDate" binding:"required"`   // YYYY-MM-DD
}

// UpdateTermRequest represents a request to update a term
type UpdateTermRequest struct {
	Name      string `json:"name" binding:"required,max=64"`
	StartDate string `json:"startDate" binding:"required"`
	EndDate   string `json:"endDate" binding:"required"`
}

// TermRegistrationRequest registers the calling student for a term
type TermRegistrationRequest struct {
	TermID int64 `json:"termId" binding:"required,min=1"`
}
