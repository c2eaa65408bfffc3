package dto

import (
	"fmt"

	"github.com/tolgad/registra/internal/app/models"
)

// MeetingRequest is one weekly meeting in a course create/update request.
// Times use "HH:MM".
type MeetingRequest struct {
	Day       int    `json:"day" binding:"min=0,max=6"`
	StartTime string `json:"startTime" binding:"required"`
	EndTime   string `json:"endTime" binding:"required"`
	Location  string `json:"location,omitempty"`
}

// CreateCourseRequest represents a request to create a course
type CreateCourseRequest struct {
	Code            string           `json:"code" binding:"required,max=16"`
	Title           string           `json:"title" binding:"required,max=200"`
	Description     string           `json:"description,omitempty"`
	Units           int              `json:"units" binding:"required,min=1,max=4"`
	Capacity        int              `json:"capacity" binding:"required,min=1"`
	TermID          int64            `json:"termId" binding:"required,min=1"`
	ProfessorID     *int64           `json:"professorId,omitempty"`
	DepartmentIDs   []int64          `json:"departmentIds,omitempty"`
	PrerequisiteIDs []int64          `json:"prerequisiteIds,omitempty"`
	Meetings        []MeetingRequest `json:"meetings,omitempty" binding:"dive"`
}

// UpdateCourseRequest represents a request to update a course
type UpdateCourseRequest struct {
	Title           string           `json:"title" binding:"required,max=200"`
	Description     string           `json:"description,omitempty"`
	Units           int              `json:"units" binding:"required,min=1,max=4"`
	Capacity        int              `json:"capacity" binding:"required,min=1"`
	ProfessorID     *int64           `json:"professorId,omitempty"`
	DepartmentIDs   []int64          `json:"departmentIds,omitempty"`
	PrerequisiteIDs []int64          `json:"prerequisiteIds,omitempty"`
	Meetings        []MeetingRequest `json:"meetings,omitempty" binding:"dive"`
}

// MeetingResponse is a meeting rendered with "HH:MM" times
type MeetingResponse struct {
	ID        int64  `json:"id"`
	Day       int    `json:"day"`
	DayName   string `json:"dayName"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	Location  string `json:"location,omitempty"`
}

// CourseResponse represents a course with derived seat information
type CourseResponse struct {
	ID              int64             `json:"id"`
	Code            string            `json:"code"`
	Title           string            `json:"title"`
	Description     string            `json:"description,omitempty"`
	Units           int               `json:"units"`
	Capacity        int               `json:"capacity"`
	TermID          int64             `json:"termId"`
	TermName        string            `json:"termName,omitempty"`
	ProfessorID     *int64            `json:"professorId,omitempty"`
	EnrolledCount   int               `json:"enrolledCount"`
	SeatsAvailable  int               `json:"seatsAvailable"`
	PrerequisiteIDs []int64           `json:"prerequisiteIds,omitempty"`
	Meetings        []MeetingResponse `json:"meetings,omitempty"`
}

// CourseListResponse represents a paginated list of courses
type CourseListResponse struct {
	Courses    []CourseResponse `json:"courses"`
	Pagination PaginationInfo   `json:"pagination"`
}

// NewMeetingResponse converts a model meeting to its response form
func NewMeetingResponse(m models.CourseMeeting) MeetingResponse {
	return MeetingResponse{
		ID:        m.ID,
		Day:       m.Day,
		DayName:   models.DayName(m.Day),
		StartTime: formatClock(m.StartTime),
		EndTime:   formatClock(m.EndTime),
		Location:  m.Location,
	}
}

func formatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}
