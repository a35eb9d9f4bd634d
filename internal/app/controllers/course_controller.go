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

// CourseController handles course registry endpoints.
type CourseController struct {
	courseService *services.CourseService
}

// NewCourseController creates a new CourseController.
func NewCourseController(courseService *services.CourseService) *CourseController {
	return &CourseController{
		courseService: courseService,
	}
}

func parseIDParam(ctx *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Param(name), 10, 64)
	if err != nil || id <= 0 {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid ID").
				WithField(name).WithDetails("ID must be a positive number")))
		return 0, false
	}
	return id, true
}

// CreateCourse handles course creation
// @Summary Create a new course
// @Description Creates a course with optional schedules and prerequisite codes in one transaction
// @Tags courses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateCourseRequest true "Course payload"
// @Success 201 {object} dto.APIResponse{data=models.Course} "Course created"
// @Failure 400 {object} dto.ErrorResponse "Invalid payload"
// @Failure 409 {object} dto.ErrorResponse "Course code already exists"
// @Router /courses [post]
func (c *CourseController) CreateCourse(ctx *gin.Context) {
	var req dto.CreateCourseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid course data").WithDetails(err.Error())))
		return
	}

	course, err := c.courseService.CreateCourse(ctx, middleware.CurrentUserID(ctx), req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{
		Data:      course,
		Timestamp: time.Now(),
	})
}

// GetCourseByID retrieves a course with relations
// @Summary Get course by ID
// @Tags courses
// @Produce json
// @Param id path int true "Course ID"
// @Success 200 {object} dto.APIResponse{data=models.Course} "Course retrieved"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Router /courses/{id} [get]
func (c *CourseController) GetCourseByID(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	course, err := c.courseService.GetCourse(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      course,
		Timestamp: time.Now(),
	})
}

// ListCourses retrieves a filtered page of courses
// @Summary List courses
// @Description Lists courses with filtering, sorting and pagination. Status defaults to PUBLISHED.
// @Tags courses
// @Produce json
// @Param search query string false "Substring over code, name, description, teacher"
// @Param teacher query string false "Teacher substring"
// @Param status query string false "Course status filter"
// @Param minCredits query int false "Minimum credits"
// @Param maxCredits query int false "Maximum credits"
// @Param sortBy query string false "Sort key (code, name, credits, capacity, enrolled, createdAt)"
// @Param sortDir query string false "ASC or DESC"
// @Param page query int false "1-based page number"
// @Param size query int false "Page size, max 100"
// @Success 200 {object} dto.APIResponse{data=dto.CourseListResponse} "Courses retrieved"
// @Router /courses [get]
func (c *CourseController) ListCourses(ctx *gin.Context) {
	var filter models.CourseFilter
	if search := ctx.Query("search"); search != "" {
		filter.Search = &search
	}
	if teacher := ctx.Query("teacher"); teacher != "" {
		filter.Teacher = &teacher
	}
	if statusStr := ctx.Query("status"); statusStr != "" {
		status := models.CourseStatus(statusStr)
		if !status.IsValid() {
			ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(
				dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Unknown course status").WithField("status")))
			return
		}
		filter.Status = &status
	}
	if minStr := ctx.Query("minCredits"); minStr != "" {
		if min, err := strconv.Atoi(minStr); err == nil {
			filter.MinCredits = &min
		}
	}
	if maxStr := ctx.Query("maxCredits"); maxStr != "" {
		if max, err := strconv.Atoi(maxStr); err == nil {
			filter.MaxCredits = &max
		}
	}

	page, size := helpers.ParsePaginationParams(ctx)
	sortBy := ctx.Query("sortBy")
	sortDir := models.SortDirection(ctx.Query("sortDir"))

	courses, total, err := c.courseService.ListCourses(ctx, filter, sortBy, sortDir, page, size)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data: dto.CourseListResponse{
			Courses:    courses,
			Pagination: helpers.NewPaginationInfo(total, page, size),
		},
		Timestamp: time.Now(),
	})
}

// UpdateCourse applies a patch to a course
// @Summary Update course
// @Description Patches course fields. Supplying schedules or prerequisites (even empty) replaces them wholesale.
// @Tags courses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Param request body dto.UpdateCourseRequest true "Patch payload"
// @Success 200 {object} dto.APIResponse{data=models.Course} "Course updated"
// @Failure 400 {object} dto.ErrorResponse "Validation failed"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Failure 409 {object} dto.ErrorResponse "Course code already exists"
// @Router /courses/{id} [put]
func (c *CourseController) UpdateCourse(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.UpdateCourseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid course data").WithDetails(err.Error())))
		return
	}

	course, err := c.courseService.UpdateCourse(ctx, middleware.CurrentUserID(ctx), id, req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      course,
		Timestamp: time.Now(),
	})
}

// DeleteCourse removes a course
// @Summary Delete course
// @Description Deletes a course and its relation rows. Rejected while the course has active enrollments.
// @Tags courses
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Course deleted"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Failure 409 {object} dto.ErrorResponse "Course has active enrollments"
// @Router /courses/{id} [delete]
func (c *CourseController) DeleteCourse(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.courseService.DeleteCourse(ctx, middleware.CurrentUserID(ctx), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.SuccessResponse{Message: "Course deleted"},
		Timestamp: time.Now(),
	})
}

// BatchCreateCourses creates several courses in one call
// @Summary Batch create courses
// @Description Applies each item independently and reports per-item failures. Fails only when every item failed.
// @Tags courses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body []dto.CreateCourseRequest true "Course payloads"
// @Success 200 {object} dto.APIResponse{data=dto.BatchCourseResponse} "Batch report"
// @Failure 400 {object} dto.ErrorResponse "All items failed"
// @Router /courses/batch [post]
func (c *CourseController) BatchCreateCourses(ctx *gin.Context) {
	var reqs []dto.CreateCourseRequest
	if err := ctx.ShouldBindJSON(&reqs); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid batch payload").WithDetails(err.Error())))
		return
	}

	report, err := c.courseService.BatchCreateCourses(ctx, middleware.CurrentUserID(ctx), reqs)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      report,
		Timestamp: time.Now(),
	})
}

// BatchUpdateCourses patches several courses in one call
// @Summary Batch update courses
// @Tags courses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body []dto.BatchUpdateCourseItem true "Patch items"
// @Success 200 {object} dto.APIResponse{data=dto.BatchCourseResponse} "Batch report"
// @Failure 400 {object} dto.ErrorResponse "All items failed"
// @Router /courses/batch [put]
func (c *CourseController) BatchUpdateCourses(ctx *gin.Context) {
	var items []dto.BatchUpdateCourseItem
	if err := ctx.ShouldBindJSON(&items); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid batch payload").WithDetails(err.Error())))
		return
	}

	report, err := c.courseService.BatchUpdateCourses(ctx, middleware.CurrentUserID(ctx), items)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      report,
		Timestamp: time.Now(),
	})
}

// BatchDeleteCourses deletes several courses in one call
// @Summary Batch delete courses
// @Tags courses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.BatchCourseIDsRequest true "Course IDs"
// @Success 200 {object} dto.APIResponse{data=dto.BatchCourseResponse} "Batch report"
// @Failure 400 {object} dto.ErrorResponse "All items failed"
// @Router /courses/batch [delete]
func (c *CourseController) BatchDeleteCourses(ctx *gin.Context) {
	var req dto.BatchCourseIDsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid batch payload").WithDetails(err.Error())))
		return
	}

	report, err := c.courseService.BatchDeleteCourses(ctx, middleware.CurrentUserID(ctx), req.IDs)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      report,
		Timestamp: time.Now(),
	})
}

// GetCourseStats aggregates the selections held against a course
// @Summary Course selection statistics
// @Tags courses
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Success 200 {object} dto.APIResponse{data=models.CourseSelectionStats} "Statistics retrieved"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Router /courses/{id}/stats [get]
func (c *CourseController) GetCourseStats(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	stats, err := c.courseService.GetCourseStats(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      stats,
		Timestamp: time.Now(),
	})
}
