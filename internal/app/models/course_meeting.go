package models

import (
	"fmt"
)

// CourseMeeting is one weekly class session of a course: day of week plus a
// start/end window, stored as minutes since midnight. A course with zero
// meetings never conflicts with anything.
type CourseMeeting struct {
	ID        int64  `json:"id" db:"id"`
	CourseID  int64  `json:"courseId" db:"course_id"`
	Day       int    `json:"day" db:"day" example:"0"` // 0 = Monday ... 6 = Sunday
	StartTime int    `json:"startTime" db:"start_time" example:"540"`
	EndTime   int    `json:"endTime" db:"end_time" example:"630"`
	Location  string `json:"location,omitempty" db:"location"`
}

// Validate checks the meeting invariants.
func (m *CourseMeeting) Validate() error {
	if m.Day < 0 || m.Day > 6 {
		return ErrMeetingDayInvalid
	}
	if m.StartTime >= m.EndTime {
		return ErrMeetingTimesInvalid
	}
	return nil
}

// Overlaps reports whether two meetings conflict: same day and overlapping
// half-open intervals. Back-to-back meetings (endA == startB) do not
// conflict.
func (m *CourseMeeting) Overlaps(other *CourseMeeting) bool {
	if m.Day != other.Day {
		return false
	}
	return m.StartTime < other.EndTime && other.StartTime < m.EndTime
}

// Window renders the meeting as "Monday 09:00-10:30" for diagnostics.
func (m *CourseMeeting) Window() string {
	return fmt.Sprintf("%s %02d:%02d-%02d:%02d",
		DayName(m.Day),
		m.StartTime/60, m.StartTime%60,
		m.EndTime/60, m.EndTime%60,
	)
}
