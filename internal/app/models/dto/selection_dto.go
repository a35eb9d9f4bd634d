package dto

import (
	"github.com/ozgur/courseselect/internal/app/models"
)

// CreateSelectionRequest is the payload for selecting a course. The user
// identity comes from the authenticated request, not the body.
type CreateSelectionRequest struct {
	CourseID int64   `json:"courseId" binding:"required" example:"3"`
	Notes    *string `json:"notes,omitempty"`
}

// ConfirmSelectionRequest optionally replaces the notes while confirming.
type ConfirmSelectionRequest struct {
	Notes *string `json:"notes,omitempty"`
}

// CancelSelectionRequest carries the cancellation reason, stored as notes.
type CancelSelectionRequest struct {
	Reason string `json:"reason" binding:"required" example:"Schedule conflict"`
}

// UpdateSelectionRequest is the generic status-transition payload.
type UpdateSelectionRequest struct {
	Status *models.SelectionStatus `json:"status,omitempty" example:"CONFIRMED"`
	Notes  *string                 `json:"notes,omitempty"`
}

// SelectionListResponse is a page of selections.
type SelectionListResponse struct {
	Selections []*models.Selection `json:"selections"`
	Pagination PaginationInfo      `json:"pagination"`
}
