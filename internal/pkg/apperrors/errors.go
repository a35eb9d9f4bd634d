package apperrors

import "errors"

// Common errors
var (
	// Resource errors
	ErrResourceNotFound = errors.New("resource not found")
	ErrConflict         = errors.New("conflict")

	// Authentication errors
	ErrTokenExpired     = errors.New("token expired")
	ErrTokenInvalid     = errors.New("invalid token")
	ErrInvalidFormat    = errors.New("invalid token format")
	ErrTokenNotFound    = errors.New("token not found")
	ErrPermissionDenied = errors.New("permission denied")

	// Validation errors
	ErrValidationFailed = errors.New("validation failed")
	ErrBadRequest       = errors.New("bad request")
)

// Course errors
var (
	ErrCourseNotFound        = errors.New("course not found")
	ErrCourseCodeExists      = errors.New("course with this code already exists")
	ErrCourseNotPublished    = errors.New("course is not open for selection")
	ErrCourseHasEnrollments  = errors.New("course has active enrollments and cannot be deleted")
	ErrCapacityBelowEnrolled = errors.New("capacity cannot be lowered below current enrollment")
)

// Selection errors
var (
	ErrSelectionNotFound      = errors.New("selection not found")
	ErrSelectionExists        = errors.New("selection for this user and course already exists")
	ErrCapacityExceeded       = errors.New("course capacity exceeded")
	ErrInvalidStateTransition = errors.New("invalid selection state transition")
	ErrSelectionConfirmed     = errors.New("confirmed selection must be cancelled before deletion")
)

// User errors
var (
	ErrUserNotFound = errors.New("user not found")
)

// Batch errors
var (
	ErrBatchAllFailed = errors.New("all batch items failed")
)

// NewResourceNotFoundError creates a custom error wrapping ErrResourceNotFound.
func NewResourceNotFoundError(message string) error {
	return &CustomError{
		Err:     ErrResourceNotFound,
		Message: message,
	}
}

// NewConflictError creates a custom error wrapping ErrConflict.
func NewConflictError(message string) error {
	return &CustomError{
		Err:     ErrConflict,
		Message: message,
	}
}

// NewValidationError creates a custom error wrapping ErrValidationFailed.
func NewValidationError(message string) error {
	return &CustomError{
		Err:     ErrValidationFailed,
		Message: message,
	}
}

// NewInvalidTransitionError creates a custom error wrapping ErrInvalidStateTransition.
func NewInvalidTransitionError(message string) error {
	return &CustomError{
		Err:     ErrInvalidStateTransition,
		Message: message,
	}
}

// CustomError represents application-specific errors with additional context
type CustomError struct {
	Err     error
	Message string
	Code    string
	Details map[string]interface{}
}

// Error implements the error interface
func (e *CustomError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

// Unwrap implements errors.Unwrap
func (e *CustomError) Unwrap() error {
	return e.Err
}

// NewCustomError creates a CustomError with an underlying error
func NewCustomError(err error, message string) *CustomError {
	return &CustomError{
		Err:     err,
		Message: message,
	}
}

// WithDetails adds context details to the error
func (e *CustomError) WithDetails(details map[string]interface{}) *CustomError {
	e.Details = details
	return e
}

// WithCode adds an error code
func (e *CustomError) WithCode(code string) *CustomError {
	e.Code = code
	return e
}
