package dto

import (
	"github.com/ozgur/courseselect/internal/app/models"
)

// ScheduleInput is one weekly meeting slot in a course payload.
type ScheduleInput struct {
	DayOfWeek int    `json:"dayOfWeek" binding:"required,min=1,max=7" example:"1"`
	StartTime string `json:"startTime" binding:"required" example:"09:00"`
	EndTime   string `json:"endTime" binding:"required" example:"10:50"`
	Location  string `json:"location" binding:"required" example:"B-204"`
	Weeks     []int  `json:"weeks,omitempty"`
}

// CreateCourseRequest is the payload for course creation. Prerequisites are
// given as course codes; codes that do not resolve are skipped. The enrolled
// counter cannot be set through the payload.
type CreateCourseRequest struct {
	Code          string               `json:"code" binding:"required" example:"CS101"`
	Name          string               `json:"name" binding:"required" example:"Introduction to Computer Science"`
	Description   *string              `json:"description,omitempty"`
	Credits       int                  `json:"credits" binding:"required,min=1" example:"4"`
	Teacher       string               `json:"teacher" binding:"required" example:"Prof. Aydin"`
	Capacity      int                  `json:"capacity" binding:"required,min=1" example:"60"`
	Status        *models.CourseStatus `json:"status,omitempty" example:"DRAFT"`
	Schedules     []ScheduleInput      `json:"schedules,omitempty"`
	Prerequisites []string             `json:"prerequisites,omitempty"` // Course codes
}

// UpdateCourseRequest is the patch payload for course updates. Nil fields are
// left untouched; a non-nil empty Schedules or Prerequisites slice clears the
// corresponding rows.
type UpdateCourseRequest struct {
	Code          *string              `json:"code,omitempty"`
	Name          *string              `json:"name,omitempty"`
	Description   *string              `json:"description,omitempty"`
	Credits       *int                 `json:"credits,omitempty" binding:"omitempty,min=1"`
	Teacher       *string              `json:"teacher,omitempty"`
	Capacity      *int                 `json:"capacity,omitempty" binding:"omitempty,min=1"`
	Status        *models.CourseStatus `json:"status,omitempty"`
	Schedules     *[]ScheduleInput     `json:"schedules,omitempty"`
	Prerequisites *[]string            `json:"prerequisites,omitempty"` // Course codes
}

// BatchUpdateCourseItem pairs a course ID with its patch for batch updates.
type BatchUpdateCourseItem struct {
	ID    int64               `json:"id" binding:"required"`
	Patch UpdateCourseRequest `json:"patch"`
}

// BatchCourseIDsRequest is the payload for batch deletion.
type BatchCourseIDsRequest struct {
	IDs []int64 `json:"ids" binding:"required,min=1"`
}

// CourseListResponse is a page of courses.
type CourseListResponse struct {
	Courses    []*models.Course `json:"courses"`
	Pagination PaginationInfo   `json:"pagination"`
}
