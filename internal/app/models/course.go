package models

import (
	"time"
)

// Course represents a unit of instruction offered within exactly one term.
// Identity is the (code, term) pair. Capacity bounds the number of
// simultaneously enrolled students.
type Course struct {
	ID          int64     `json:"id" db:"id" example:"1"`
	Code        string    `json:"code" db:"code" example:"CS101"`
	Title       string    `json:"title" db:"title" example:"Introduction to Programming"`
	Description string    `json:"description,omitempty" db:"description"`
	Units       int       `json:"units" db:"units" example:"3"`
	Capacity    int       `json:"capacity" db:"capacity" example:"30"`
	ProfessorID *int64    `json:"professorId,omitempty" db:"professor_id"`
	TermID      int64     `json:"termId" db:"term_id" example:"1"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`

	// Relations (populated when needed)
	Term     *Term           `json:"term,omitempty"`
	Meetings []CourseMeeting `json:"meetings,omitempty"`
	// PrerequisiteIDs are the direct edges of the prerequisite graph.
	// Nothing prevents cycles at this level; the resolver tolerates them.
	PrerequisiteIDs []int64      `json:"prerequisiteIds,omitempty"`
	Departments     []Department `json:"departments,omitempty"`
}
