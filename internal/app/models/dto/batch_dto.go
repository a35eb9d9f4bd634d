package dto

import (
	"github.com/ozgur/courseselect/internal/app/models"
)

// BatchItemError reports one failed item of a batch call by its position in
// the request payload.
type BatchItemError struct {
	Index   int    `json:"index" example:"1"`
	Message string `json:"message" example:"course with this code already exists"`
}

// BatchCourseResponse reports the outcome of a batch course operation.
// Succeeded and Failed always sum to the request item count; the call itself
// only fails when every item failed.
type BatchCourseResponse struct {
	Succeeded int              `json:"succeeded" example:"2"`
	Failed    int              `json:"failed" example:"1"`
	Courses   []*models.Course `json:"courses,omitempty"` // Created/updated courses; empty on delete
	Errors    []BatchItemError `json:"errors,omitempty"`
}
