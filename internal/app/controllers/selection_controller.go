package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ozgur/courseselect/internal/app/models"
	"github.com/ozgur/courseselect/internal/app/models/dto"
	"github.com/ozgur/courseselect/internal/app/services"
	"github.com/ozgur/courseselect/internal/middleware"
	"github.com/ozgur/courseselect/internal/pkg/helpers"
)

// SelectionController handles the selection ledger endpoints.
type SelectionController struct {
	selectionService *services.SelectionService
}

// NewSelectionController creates a new SelectionController.
func NewSelectionController(selectionService *services.SelectionService) *SelectionController {
	return &SelectionController{
		selectionService: selectionService,
	}
}

// CreateSelection enrolls the current user into a course
// @Summary Select a course
// @Description Creates a PENDING selection, atomically claiming a seat on the course
// @Tags selections
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateSelectionRequest true "Selection payload"
// @Success 201 {object} dto.APIResponse{data=models.Selection} "Selection created"
// @Failure 400 {object} dto.ErrorResponse "Invalid payload"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Failure 409 {object} dto.ErrorResponse "Course full, not open, or already selected"
// @Router /selections [post]
func (c *SelectionController) CreateSelection(ctx *gin.Context) {
	var req dto.CreateSelectionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid selection data").WithDetails(err.Error())))
		return
	}

	selection, err := c.selectionService.CreateSelection(ctx, middleware.CurrentUserID(ctx), req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{
		Data:      selection,
		Timestamp: time.Now(),
	})
}

// GetSelectionByID retrieves one selection
// @Summary Get selection by ID
// @Tags selections
// @Produce json
// @Security BearerAuth
// @Param id path int true "Selection ID"
// @Success 200 {object} dto.APIResponse{data=models.Selection} "Selection retrieved"
// @Failure 404 {object} dto.ErrorResponse "Selection not found"
// @Router /selections/{id} [get]
func (c *SelectionController) GetSelectionByID(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	selection, err := c.selectionService.GetSelection(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	if !c.canAccess(ctx, selection.UserID) {
		ctx.JSON(http.StatusForbidden, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeForbidden, "You cannot access this selection")))
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      selection,
		Timestamp: time.Now(),
	})
}

// ListSelections retrieves a filtered page of selections
// @Summary List selections
// @Description Students see their own selections. Admins may filter by any user with the userId parameter.
// @Tags selections
// @Produce json
// @Security BearerAuth
// @Param userId query int false "Filter by user (admin only)"
// @Param courseId query int false "Filter by course"
// @Param status query string false "Selection status filter"
// @Param sortBy query string false "Sort key (selectedAt, status)"
// @Param sortDir query string false "ASC or DESC"
// @Param page query int false "1-based page number"
// @Param size query int false "Page size, max 100"
// @Success 200 {object} dto.APIResponse{data=dto.SelectionListResponse} "Selections retrieved"
// @Router /selections [get]
func (c *SelectionController) ListSelections(ctx *gin.Context) {
	var filter models.SelectionFilter

	userID := middleware.CurrentUserID(ctx)
	if idStr := ctx.Query("userId"); idStr != "" && c.isAdmin(ctx) {
		if id, err := strconv.ParseInt(idStr, 10, 64); err == nil {
			userID = id
		}
	}
	filter.UserID = &userID

	if idStr := ctx.Query("courseId"); idStr != "" {
		if id, err := strconv.ParseInt(idStr, 10, 64); err == nil {
			filter.CourseID = &id
		}
	}
	if statusStr := ctx.Query("status"); statusStr != "" {
		status := models.SelectionStatus(statusStr)
		if !status.IsValid() {
			ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(
				dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Unknown selection status").WithField("status")))
			return
		}
		filter.Status = &status
	}

	page, size := helpers.ParsePaginationParams(ctx)
	sortBy := ctx.Query("sortBy")
	sortDir := models.SortDirection(ctx.Query("sortDir"))

	selections, total, err := c.selectionService.ListSelections(ctx, filter, sortBy, sortDir, page, size)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data: dto.SelectionListResponse{
			Selections: selections,
			Pagination: helpers.NewPaginationInfo(total, page, size),
		},
		Timestamp: time.Now(),
	})
}

// ConfirmSelection moves a pending selection to CONFIRMED
// @Summary Confirm selection
// @Tags selections
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Selection ID"
// @Param request body dto.ConfirmSelectionRequest false "Optional notes"
// @Success 200 {object} dto.APIResponse{data=models.Selection} "Selection confirmed"
// @Failure 404 {object} dto.ErrorResponse "Selection not found"
// @Failure 409 {object} dto.ErrorResponse "Selection is not pending"
// @Router /selections/{id}/confirm [post]
func (c *SelectionController) ConfirmSelection(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.ConfirmSelectionRequest
	if ctx.Request.ContentLength > 0 {
		if err := ctx.ShouldBindJSON(&req); err != nil {
			ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(
				dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid payload").WithDetails(err.Error())))
			return
		}
	}

	if _, err := c.withOwnership(ctx, id); err != nil {
		return
	}

	updated, err := c.selectionService.ConfirmSelection(ctx, id, req.Notes)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      updated,
		Timestamp: time.Now(),
	})
}

// CancelSelection cancels an active selection and releases its seat
// @Summary Cancel selection
// @Description Cancels a PENDING or CONFIRMED selection. The course seat is released atomically.
// @Tags selections
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Selection ID"
// @Param request body dto.CancelSelectionRequest true "Cancellation reason"
// @Success 200 {object} dto.APIResponse{data=models.Selection} "Selection cancelled"
// @Failure 404 {object} dto.ErrorResponse "Selection not found"
// @Failure 409 {object} dto.ErrorResponse "Selection already finalized"
// @Router /selections/{id}/cancel [post]
func (c *SelectionController) CancelSelection(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.CancelSelectionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Cancellation reason is required").WithDetails(err.Error())))
		return
	}

	if _, err := c.withOwnership(ctx, id); err != nil {
		return
	}

	updated, err := c.selectionService.CancelSelection(ctx, id, req.Reason)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      updated,
		Timestamp: time.Now(),
	})
}

// UpdateSelection applies a status or notes patch to a selection
// @Summary Update selection
// @Description Admin endpoint for direct state transitions, including COMPLETED
// @Tags selections
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Selection ID"
// @Param request body dto.UpdateSelectionRequest true "Patch payload"
// @Success 200 {object} dto.APIResponse{data=models.Selection} "Selection updated"
// @Failure 404 {object} dto.ErrorResponse "Selection not found"
// @Failure 409 {object} dto.ErrorResponse "Invalid state transition"
// @Router /selections/{id} [put]
func (c *SelectionController) UpdateSelection(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.UpdateSelectionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid selection data").WithDetails(err.Error())))
		return
	}

	selection, err := c.selectionService.UpdateSelection(ctx, id, req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      selection,
		Timestamp: time.Now(),
	})
}

// DeleteSelection removes a selection record
// @Summary Delete selection
// @Description Removes a selection. Confirmed selections must be cancelled first.
// @Tags selections
// @Produce json
// @Security BearerAuth
// @Param id path int true "Selection ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Selection deleted"
// @Failure 404 {object} dto.ErrorResponse "Selection not found"
// @Failure 409 {object} dto.ErrorResponse "Selection is confirmed"
// @Router /selections/{id} [delete]
func (c *SelectionController) DeleteSelection(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if _, err := c.withOwnership(ctx, id); err != nil {
		return
	}

	if err := c.selectionService.DeleteSelection(ctx, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.SuccessResponse{Message: "Selection deleted"},
		Timestamp: time.Now(),
	})
}

// GetMyStats aggregates the current user's selections
// @Summary My selection statistics
// @Tags selections
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=models.UserSelectionStats} "Statistics retrieved"
// @Router /selections/stats [get]
func (c *SelectionController) GetMyStats(ctx *gin.Context) {
	stats, err := c.selectionService.GetUserStats(ctx, middleware.CurrentUserID(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      stats,
		Timestamp: time.Now(),
	})
}

func (c *SelectionController) isAdmin(ctx *gin.Context) bool {
	role, ok := ctx.Get(middleware.ContextRoleType)
	return ok && role == string(models.RoleAdmin)
}

func (c *SelectionController) canAccess(ctx *gin.Context, ownerID int64) bool {
	return c.isAdmin(ctx) || middleware.CurrentUserID(ctx) == ownerID
}

// withOwnership loads a selection and rejects the request when it belongs to
// another user and the caller is not an admin. It writes the response itself.
func (c *SelectionController) withOwnership(ctx *gin.Context, id int64) (*models.Selection, error) {
	selection, err := c.selectionService.GetSelection(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return nil, err
	}
	if !c.canAccess(ctx, selection.UserID) {
		ctx.JSON(http.StatusForbidden, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeForbidden, "You cannot access this selection")))
		return nil, services.ErrSelectionValidation
	}
	return selection, nil
}
