package models

// Department represents an academic department
type Department struct {
	ID          int64  `json:"id" db:"id" example:"1"`
	Name        string `json:"name" db:"name" example:"Computer Science"`
	Code        string `json:"code" db:"code" example:"CS"`
	Description string `json:"description,omitempty" db:"description"`
}
