package models

// RoleType defines the user role type
type RoleType string

const (
	RoleStudent RoleType = "STUDENT"
	RoleAdmin   RoleType = "ADMIN"
)

// CourseStatus defines the lifecycle state of a course
type CourseStatus string

const (
	CourseStatusDraft     CourseStatus = "DRAFT"
	CourseStatusPublished CourseStatus = "PUBLISHED"
	CourseStatusCancelled CourseStatus = "CANCELLED"
	CourseStatusCompleted CourseStatus = "COMPLETED"
)

// IsValid reports whether the value is one of the known course statuses.
func (s CourseStatus) IsValid() bool {
	switch s {
	case CourseStatusDraft, CourseStatusPublished, CourseStatusCancelled, CourseStatusCompleted:
		return true
	}
	return false
}

// SelectionStatus defines the lifecycle state of a course selection
type SelectionStatus string

const (
	SelectionStatusPending   SelectionStatus = "PENDING"
	SelectionStatusConfirmed SelectionStatus = "CONFIRMED"
	SelectionStatusCancelled SelectionStatus = "CANCELLED"
	SelectionStatusCompleted SelectionStatus = "COMPLETED"
)

// IsValid reports whether the value is one of the known selection statuses.
func (s SelectionStatus) IsValid() bool {
	switch s {
	case SelectionStatusPending, SelectionStatusConfirmed, SelectionStatusCancelled, SelectionStatusCompleted:
		return true
	}
	return false
}

// IsTerminal reports whether no further transition is permitted from s.
func (s SelectionStatus) IsTerminal() bool {
	return s == SelectionStatusCancelled || s == SelectionStatusCompleted
}

// IsActive reports whether the selection counts toward a course's enrolled counter.
func (s SelectionStatus) IsActive() bool {
	return s == SelectionStatusPending || s == SelectionStatusConfirmed
}

// CanTransitionTo reports whether the state machine permits moving from s to target.
// Permitted transitions: PENDING→CONFIRMED, PENDING→CANCELLED, CONFIRMED→CANCELLED,
// CONFIRMED→COMPLETED. Terminal states accept nothing; CONFIRMED never regresses
// to PENDING.
func (s SelectionStatus) CanTransitionTo(target SelectionStatus) bool {
	switch s {
	case SelectionStatusPending:
		return target == SelectionStatusConfirmed || target == SelectionStatusCancelled
	case SelectionStatusConfirmed:
		return target == SelectionStatusCancelled || target == SelectionStatusCompleted
	}
	return false
}

// SortDirection is the direction of an ORDER BY clause
type SortDirection string

const (
	SortAsc  SortDirection = "ASC"
	SortDesc SortDirection = "DESC"
)

// Normalize maps arbitrary input to a valid direction, defaulting to ASC.
func (d SortDirection) Normalize() SortDirection {
	if d == SortDesc || d == "desc" {
		return SortDesc
	}
	return SortAsc
}
