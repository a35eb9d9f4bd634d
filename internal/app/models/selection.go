package models

import (
	"time"
)

// Selection defines a student's selection of a course, based on the
// 'selections' table. The (user, course) pair is unique: a user holds
// at most one selection row per course at any time.
type Selection struct {
	ID          int64           `json:"id" db:"id" example:"1"`
	UserID      int64           `json:"userId" db:"user_id" example:"7"`
	CourseID    int64           `json:"courseId" db:"course_id" example:"3"`
	Status      SelectionStatus `json:"status" db:"status" example:"PENDING"`
	Notes       *string         `json:"notes,omitempty" db:"notes"` // Nullable
	SelectedAt  time.Time       `json:"selectedAt" db:"selected_at"`
	ConfirmedAt *time.Time      `json:"confirmedAt,omitempty" db:"confirmed_at"` // Nullable
	CancelledAt *time.Time      `json:"cancelledAt,omitempty" db:"cancelled_at"` // Nullable

	// Relations (populated when needed)
	User   *User   `json:"user,omitempty"`
	Course *Course `json:"course,omitempty"`
}

// SelectionFilter holds the optional predicates for selection listing queries.
type SelectionFilter struct {
	UserID   *int64
	CourseID *int64
	Status   *SelectionStatus
	From     *time.Time // SelectedAt lower bound, inclusive
	To       *time.Time // SelectedAt upper bound, inclusive
}

// UserSelectionStats aggregates a user's selections across courses.
type UserSelectionStats struct {
	UserID       int64 `json:"userId"`
	Pending      int   `json:"pending"`
	Confirmed    int   `json:"confirmed"`
	Cancelled    int   `json:"cancelled"`
	Completed    int   `json:"completed"`
	TotalCredits int   `json:"totalCredits"` // Credits of confirmed + completed selections
}

// CourseSelectionStats aggregates the selections held against one course.
type CourseSelectionStats struct {
	CourseID       int64   `json:"courseId"`
	Pending        int     `json:"pending"`
	Confirmed      int     `json:"confirmed"`
	Cancelled      int     `json:"cancelled"`
	Completed      int     `json:"completed"`
	CompletionRate float64 `json:"completionRate"` // completed / (confirmed + completed)
}
