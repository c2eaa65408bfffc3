package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/tolgad/registra/internal/app/models/dto"
	"github.com/tolgad/registra/internal/app/services"
	"github.com/tolgad/registra/internal/middleware"
)

// EnrollmentController exposes the enrollment engine and the enrollment
// lifecycle over HTTP
type EnrollmentController struct {
	enrollmentService *services.EnrollmentService
}

// NewEnrollmentController creates a new EnrollmentController
func NewEnrollmentController(enrollmentService *services.EnrollmentService) *EnrollmentController {
	return &EnrollmentController{
		enrollmentService: enrollmentService,
	}
}

// Enroll enrolls the calling student in a course
// @Summary Enroll in a course
// @Description Attempts to enroll the authenticated student. All checks run: duplicate, prerequisites, capacity, schedule conflict.
// @Tags enrollments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.EnrollRequest true "Enrollment request"
// @Success 201 {object} dto.APIResponse{data=dto.EnrollmentResponse} "Enrolled successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data or term mismatch"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Failure 409 {object} dto.ErrorResponse "Already enrolled, course full, or schedule conflict"
// @Failure 422 {object} dto.ErrorResponse "Missing prerequisites"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /enrollments [post]
func (c *EnrollmentController) Enroll(ctx *gin.Context) {
	var req dto.EnrollRequest
	if !bindJSON(ctx, &req) {
		return
	}

	enrollment, err := c.enrollmentService.Enroll(ctx,
		middleware.CallerID(ctx), req.CourseID, req.TermID, services.DefaultEnrollOptions())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewAPIResponse(dto.NewEnrollmentResponse(enrollment), "Enrolled successfully"))
}

// AdminEnroll enrolls a student on their behalf, optionally bypassing checks
// @Summary Enroll a student (admin)
// @Description Enrolls the given student in a course. Prerequisite, capacity and conflict checks can each be bypassed independently; the duplicate check always runs.
// @Tags enrollments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.AdminEnrollRequest true "Administrative enrollment request"
// @Success 201 {object} dto.APIResponse{data=dto.EnrollmentResponse} "Enrolled successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data or term mismatch"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Failure 409 {object} dto.ErrorResponse "Already enrolled, course full, or schedule conflict"
// @Failure 422 {object} dto.ErrorResponse "Missing prerequisites"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/enrollments [post]
func (c *EnrollmentController) AdminEnroll(ctx *gin.Context) {
	var req dto.AdminEnrollRequest
	if !bindJSON(ctx, &req) {
		return
	}

	opts := services.EnrollOptions{
		CheckPrerequisites: !req.SkipPrerequisites,
		CheckCapacity:      !req.SkipCapacityCheck,
		CheckConflict:      !req.SkipConflictCheck,
	}

	enrollment, err := c.enrollmentService.Enroll(ctx, req.StudentID, req.CourseID, req.TermID, opts)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewAPIResponse(dto.NewEnrollmentResponse(enrollment), "Enrolled successfully"))
}

// Drop drops the calling student's enrollment
// @Summary Drop an enrollment
// @Description Moves the authenticated student's active enrollment to dropped, opening the seat
// @Tags enrollments
// @Produce json
// @Security BearerAuth
// @Param id path int true "Enrollment ID"
// @Success 200 {object} dto.APIResponse{data=dto.EnrollmentResponse} "Enrollment dropped successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid enrollment ID"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Enrollment not found"
// @Failure 409 {object} dto.ErrorResponse "Enrollment is not active"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /enrollments/{id} [delete]
func (c *EnrollmentController) Drop(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id", "enrollment ID")
	if !ok {
		return
	}

	enrollment, err := c.enrollmentService.Drop(ctx, middleware.CallerID(ctx), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.NewEnrollmentResponse(enrollment), "Enrollment dropped successfully"))
}

// GetEnrollment retrieves one of the calling student's enrollments
// @Summary Get enrollment by ID
// @Description Retrieves a single enrollment belonging to the authenticated student
// @Tags enrollments
// @Produce json
// @Security BearerAuth
// @Param id path int true "Enrollment ID"
// @Success 200 {object} dto.APIResponse{data=dto.EnrollmentResponse} "Enrollment retrieved successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid enrollment ID"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Enrollment not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /enrollments/{id} [get]
func (c *EnrollmentController) GetEnrollment(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id", "enrollment ID")
	if !ok {
		return
	}

	enrollment, err := c.enrollmentService.GetEnrollment(ctx, middleware.CallerID(ctx), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.NewEnrollmentResponse(enrollment), "Enrollment retrieved successfully"))
}

// ListMyEnrollments retrieves the calling student's enrollments
// @Summary List own enrollments
// @Description Retrieves the authenticated student's enrollments, optionally filtered by term
// @Tags enrollments
// @Produce json
// @Security BearerAuth
// @Param termId query int false "Filter by term ID"
// @Success 200 {object} dto.APIResponse{data=[]dto.EnrollmentResponse} "Enrollments retrieved successfully"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /enrollments [get]
func (c *EnrollmentController) ListMyEnrollments(ctx *gin.Context) {
	termID, _ := strconv.ParseInt(ctx.DefaultQuery("termId", "0"), 10, 64)

	enrollments, err := c.enrollmentService.ListStudentEnrollments(ctx, middleware.CallerID(ctx), termID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	responses := make([]dto.EnrollmentResponse, 0, len(enrollments))
	for _, e := range enrollments {
		responses = append(responses, dto.NewEnrollmentResponse(e))
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(responses, "Enrollments retrieved successfully"))
}

// RegisterForTerm registers the calling student for a term
// @Summary Register for a term
// @Description Records the authenticated student's registration for an academic term
// @Tags enrollments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.TermRegistrationRequest true "Term registration request"
// @Success 201 {object} dto.APIResponse{data=models.TermRegistration} "Registered for term successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Term not found"
// @Failure 409 {object} dto.ErrorResponse "Already registered for this term"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /term-registrations [post]
func (c *EnrollmentController) RegisterForTerm(ctx *gin.Context) {
	var req dto.TermRegistrationRequest
	if !bindJSON(ctx, &req) {
		return
	}

	reg, err := c.enrollmentService.RegisterForTerm(ctx, middleware.CallerID(ctx), req.TermID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewAPIResponse(reg, "Registered for term successfully"))
}

// ListMyTermRegistrations retrieves the calling student's term registrations
// @Summary List own term registrations
// @Description Retrieves the authenticated student's term registrations, newest first
// @Tags enrollments
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]models.TermRegistration} "Term registrations retrieved successfully"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /term-registrations [get]
func (c *EnrollmentController) ListMyTermRegistrations(ctx *gin.Context) {
	regs, err := c.enrollmentService.ListTermRegistrations(ctx, middleware.CallerID(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(regs, "Term registrations retrieved successfully"))
}
