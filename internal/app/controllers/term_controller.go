package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tolgad/registra/internal/app/models/dto"
	"github.com/tolgad/registra/internal/app/services"
	"github.com/tolgad/registra/internal/middleware"
)

// TermController handles academic term operations
type TermController struct {
	termService *services.TermService
}

// NewTermController creates a new TermController
func NewTermController(termService *services.TermService) *TermController {
	return &TermController{
		termService: termService,
	}
}

// CreateTerm handles term creation
// @Summary Create a new term
// @Description Creates a new academic term. Start date must precede end date.
// @Tags terms
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateTermRequest true "Term information"
// @Success 201 {object} dto.APIResponse{data=models.Term} "Term created successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Failure 409 {object} dto.ErrorResponse "Term already exists"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /terms [post]
func (c *TermController) CreateTerm(ctx *gin.Context) {
	var req dto.CreateTermRequest
	if !bindJSON(ctx, &req) {
		return
	}

	term, err := c.termService.CreateTerm(ctx, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewAPIResponse(term, "Term created successfully"))
}

// GetTermByID retrieves a term by ID
// @Summary Get term by ID
// @Description Retrieves a specific academic term
// @Tags terms
// @Produce json
// @Security BearerAuth
// @Param id path int true "Term ID"
// @Success 200 {object} dto.APIResponse{data=models.Term} "Term retrieved successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid term ID"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Term not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /terms/{id} [get]
func (c *TermController) GetTermByID(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id", "term ID")
	if !ok {
		return
	}

	term, err := c.termService.GetTerm(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(term, "Term retrieved successfully"))
}

// GetAllTerms retrieves all terms
// @Summary Get all terms
// @Description Retrieves all academic terms, newest first
// @Tags terms
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]models.Term} "Terms retrieved successfully"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /terms [get]
func (c *TermController) GetAllTerms(ctx *gin.Context) {
	terms, err := c.termService.GetAllTerms(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(terms, "Terms retrieved successfully"))
}

// UpdateTerm updates an existing term
// @Summary Update a term
// @Description Updates an existing academic term
// @Tags terms
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Term ID"
// @Param request body dto.UpdateTermRequest true "Updated term information"
// @Success 200 {object} dto.APIResponse{data=models.Term} "Term updated successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Failure 404 {object} dto.ErrorResponse "Term not found"
// @Failure 409 {object} dto.ErrorResponse "Term name already exists"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /terms/{id} [put]
func (c *TermController) UpdateTerm(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id", "term ID")
	if !ok {
		return
	}

	var req dto.UpdateTermRequest
	if !bindJSON(ctx, &req) {
		return
	}

	term, err := c.termService.UpdateTerm(ctx, id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(term, "Term updated successfully"))
}

// DeleteTerm deletes a term
// @Summary Delete a term
// @Description Deletes an academic term. Fails while courses still reference it.
// @Tags terms
// @Produce json
// @Security BearerAuth
// @Param id path int true "Term ID"
// @Success 204 "Term deleted successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid term ID"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Failure 404 {object} dto.ErrorResponse "Term not found"
// @Failure 409 {object} dto.ErrorResponse "Term has courses"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /terms/{id} [delete]
func (c *TermController) DeleteTerm(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id", "term ID")
	if !ok {
		return
	}

	if err := c.termService.DeleteTerm(ctx, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}
