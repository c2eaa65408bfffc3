package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/tolgad/registra/internal/app/models"
	"github.com/tolgad/registra/internal/app/models/dto"
	"github.com/tolgad/registra/internal/app/repositories"
	"github.com/tolgad/registra/internal/pkg/apperrors"
	"github.com/tolgad/registra/internal/pkg/helpers"
)

// CourseService handles the course catalog: courses, their weekly meetings
// and the prerequisite graph
type CourseService struct {
	courseRepo     *repositories.CourseRepository
	termRepo       *repositories.TermRepository
	departmentRepo *repositories.DepartmentRepository
	enrollRepo     *repositories.EnrollmentRepository
	logger         zerolog.Logger
}

// NewCourseService creates a new CourseService
func NewCourseService(
	courseRepo *repositories.CourseRepository,
	termRepo *repositories.TermRepository,
	departmentRepo *repositories.DepartmentRepository,
	enrollRepo *repositories.EnrollmentRepository,
	logger zerolog.Logger,
) *CourseService {
	return &CourseService{
		courseRepo:     courseRepo,
		termRepo:       termRepo,
		departmentRepo: departmentRepo,
		enrollRepo:     enrollRepo,
		logger:         logger,
	}
}

// buildMeetings parses the "HH:MM" request form into stored meetings and
// validates each one.
func buildMeetings(reqs []dto.MeetingRequest) ([]models.CourseMeeting, error) {
	meetings := make([]models.CourseMeeting, 0, len(reqs))
	for _, mr := range reqs {
		start, err := helpers.ParseClock(mr.StartTime)
		if err != nil {
			return nil, apperrors.NewBadRequestError(err.Error())
		}
		end, err := helpers.ParseClock(mr.EndTime)
		if err != nil {
			return nil, apperrors.NewBadRequestError(err.Error())
		}

		meeting := models.CourseMeeting{
			Day:       mr.Day,
			StartTime: start,
			EndTime:   end,
			Location:  mr.Location,
		}
		if err := meeting.Validate(); err != nil {
			return nil, apperrors.NewBadRequestError(err.Error())
		}
		meetings = append(meetings, meeting)
	}
	return meetings, nil
}

// validatePrerequisiteIDs checks that every listed prerequisite exists and
// that a course is not its own prerequisite. Longer cycles are legal here;
// the enrollment engine tolerates them.
func (s *CourseService) validatePrerequisiteIDs(ctx context.Context, courseID int64, prereqIDs []int64) error {
	seen := make(map[int64]bool, len(prereqIDs))
	for _, id := range prereqIDs {
		if id == courseID {
			return apperrors.NewBadRequestError("a course cannot be its own prerequisite")
		}
		if seen[id] {
			return apperrors.NewBadRequestError(fmt.Sprintf("duplicate prerequisite course %d", id))
		}
		seen[id] = true
	}

	count, err := s.courseRepo.CountByIDs(ctx, prereqIDs)
	if err != nil {
		return err
	}
	if count != len(prereqIDs) {
		return apperrors.NewBadRequestError("one or more prerequisite courses do not exist")
	}

	return nil
}

func (s *CourseService) validateDepartmentIDs(ctx context.Context, departmentIDs []int64) error {
	for _, id := range departmentIDs {
		if _, err := s.departmentRepo.GetByID(ctx, id); err != nil {
			return err
		}
	}
	return nil
}

// CreateCourse creates a course within a term
func (s *CourseService) CreateCourse(ctx context.Context, req *dto.CreateCourseRequest) (*dto.CourseResponse, error) {
	term, err := s.termRepo.GetByID(ctx, req.TermID)
	if err != nil {
		return nil, err
	}

	meetings, err := buildMeetings(req.Meetings)
	if err != nil {
		return nil, err
	}

	if err := s.validatePrerequisiteIDs(ctx, 0, req.PrerequisiteIDs); err != nil {
		return nil, err
	}
	if err := s.validateDepartmentIDs(ctx, req.DepartmentIDs); err != nil {
		return nil, err
	}

	course := &models.Course{
		Code:            req.Code,
		Title:           req.Title,
		Description:     req.Description,
		Units:           req.Units,
		Capacity:        req.Capacity,
		ProfessorID:     req.ProfessorID,
		TermID:          req.TermID,
		Meetings:        meetings,
		PrerequisiteIDs: req.PrerequisiteIDs,
	}

	if err := s.courseRepo.Create(ctx, course, req.DepartmentIDs); err != nil {
		return nil, err
	}

	s.logger.Info().
		Int64("courseId", course.ID).
		Str("code", course.Code).
		Int64("termId", course.TermID).
		Msg("Course created")

	resp := s.toCourseResponse(ctx, course, term.Name)
	return &resp, nil
}

// UpdateCourse updates a course. Code and term are fixed at creation.
func (s *CourseService) UpdateCourse(ctx context.Context, id int64, req *dto.UpdateCourseRequest) (*dto.CourseResponse, error) {
	course, err := s.courseRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	meetings, err := buildMeetings(req.Meetings)
	if err != nil {
		return nil, err
	}

	if err := s.validatePrerequisiteIDs(ctx, id, req.PrerequisiteIDs); err != nil {
		return nil, err
	}
	if err := s.validateDepartmentIDs(ctx, req.DepartmentIDs); err != nil {
		return nil, err
	}

	course.Title = req.Title
	course.Description = req.Description
	course.Units = req.Units
	course.Capacity = req.Capacity
	course.ProfessorID = req.ProfessorID
	course.Meetings = meetings
	course.PrerequisiteIDs = req.PrerequisiteIDs

	if err := s.courseRepo.Update(ctx, course, req.DepartmentIDs); err != nil {
		return nil, err
	}

	resp := s.toCourseResponse(ctx, course, "")
	return &resp, nil
}

// GetCourse retrieves a course with its meetings, prerequisites and seat
// information
func (s *CourseService) GetCourse(ctx context.Context, id int64) (*dto.CourseResponse, error) {
	course, err := s.courseRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	termName := ""
	if term, err := s.termRepo.GetByID(ctx, course.TermID); err == nil {
		termName = term.Name
	}

	resp := s.toCourseResponse(ctx, course, termName)
	return &resp, nil
}

// ListCourses retrieves a page of courses, optionally filtered by term
func (s *CourseService) ListCourses(ctx context.Context, termID int64, page, size int) (*dto.CourseListResponse, error) {
	offset, limit := helpers.CalculateOffsetLimit(page, size)

	courses, err := s.courseRepo.List(ctx, termID, offset, limit)
	if err != nil {
		return nil, err
	}

	total, err := s.courseRepo.Count(ctx, termID)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.CourseResponse, 0, len(courses))
	for _, course := range courses {
		responses = append(responses, s.toCourseResponse(ctx, course, ""))
	}

	return &dto.CourseListResponse{
		Courses:    responses,
		Pagination: helpers.NewPaginationInfo(total, page, size),
	}, nil
}

// DeleteCourse deletes a course
func (s *CourseService) DeleteCourse(ctx context.Context, id int64) error {
	return s.courseRepo.Delete(ctx, id)
}

func (s *CourseService) toCourseResponse(ctx context.Context, course *models.Course, termName string) dto.CourseResponse {
	enrolled, err := s.enrollRepo.CountEnrolled(ctx, nil, course.ID)
	if err != nil {
		s.logger.Warn().Err(err).Int64("courseId", course.ID).Msg("Could not count enrollments for course")
	}

	seats := course.Capacity - enrolled
	if seats < 0 {
		seats = 0
	}

	meetings := make([]dto.MeetingResponse, 0, len(course.Meetings))
	for _, m := range course.Meetings {
		meetings = append(meetings, dto.NewMeetingResponse(m))
	}

	return dto.CourseResponse{
		ID:              course.ID,
		Code:            course.Code,
		Title:           course.Title,
		Description:     course.Description,
		Units:           course.Units,
		Capacity:        course.Capacity,
		TermID:          course.TermID,
		TermName:        termName,
		ProfessorID:     course.ProfessorID,
		EnrolledCount:   enrolled,
		SeatsAvailable:  seats,
		PrerequisiteIDs: course.PrerequisiteIDs,
		Meetings:        meetings,
	}
}
