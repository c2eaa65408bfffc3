package models

import (
	"time"
)

// Term represents an academic scheduling period bounding when courses run.
// A term cannot be deleted while courses reference it.
type Term struct {
	ID        int64     `json:"id" db:"id" example:"1"`
	Name      string    `json:"name" db:"name" example:"Fall 2025"`
	StartDate time.Time `json:"startDate" db:"start_date"`
	EndDate   time.Time `json:"endDate" db:"end_date"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// Validate checks the term date invariant.
func (t *Term) Validate() error {
	if !t.StartDate.Before(t.EndDate) {
		return ErrTermDatesInvalid
	}
	return nil
}
