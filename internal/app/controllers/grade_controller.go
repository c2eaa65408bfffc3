package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tolgad/registra/internal/app/models/dto"
	"github.com/tolgad/registra/internal/app/services"
	"github.com/tolgad/registra/internal/middleware"
)

// GradeController handles grade recording and retrieval
type GradeController struct {
	gradeService *services.GradeService
}

// NewGradeController creates a new GradeController
func NewGradeController(gradeService *services.GradeService) *GradeController {
	return &GradeController{
		gradeService: gradeService,
	}
}

// RecordGrade records a grade for an enrollment
// @Summary Record a grade
// @Description Records a grade for an enrollment. A passing grade completes the enrollment, which is what satisfies prerequisite checks. Professors may only grade their own courses.
// @Tags grades
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.RecordGradeRequest true "Grade information"
// @Success 201 {object} dto.APIResponse{data=models.Grade} "Grade recorded successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Not the course's professor"
// @Failure 404 {object} dto.ErrorResponse "Enrollment not found"
// @Failure 409 {object} dto.ErrorResponse "Grade already recorded or enrollment dropped"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /grades [post]
func (c *GradeController) RecordGrade(ctx *gin.Context) {
	var req dto.RecordGradeRequest
	if !bindJSON(ctx, &req) {
		return
	}

	grade, err := c.gradeService.RecordGrade(ctx, middleware.CallerID(ctx), middleware.CallerRole(ctx), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewAPIResponse(grade, "Grade recorded successfully"))
}

// GetGrade retrieves the grade for an enrollment
// @Summary Get grade by enrollment
// @Description Retrieves the grade recorded for an enrollment. Students can only see their own.
// @Tags grades
// @Produce json
// @Security BearerAuth
// @Param enrollmentId path int true "Enrollment ID"
// @Success 200 {object} dto.APIResponse{data=models.Grade} "Grade retrieved successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid enrollment ID"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Grade or enrollment not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /grades/{enrollmentId} [get]
func (c *GradeController) GetGrade(ctx *gin.Context) {
	enrollmentID, ok := parseIDParam(ctx, "enrollmentId", "enrollment ID")
	if !ok {
		return
	}

	grade, err := c.gradeService.GetGrade(ctx, middleware.CallerID(ctx), middleware.CallerRole(ctx), enrollmentID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(grade, "Grade retrieved successfully"))
}
