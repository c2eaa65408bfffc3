package dto

// CreateDepartmentRequest represents a request to create a department
type CreateDepartmentRequest struct {
	Name        string `json:"name" binding:"required,max=100"`
	Code        string `json:"code" binding:"required,max=10"`
	Description string `json:"description,omitempty"`
}

// UpdateDepartmentRequest represents a request to update a department
type UpdateDepartmentRequest struct {
	Name        string `json:"name" binding:"required,max=100"`
	Code        string `json:"code" binding:"required,max=10"`
	Description string `json:"description,omitempty"`
}
