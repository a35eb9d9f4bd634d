package repositories

import (
	"context"
	"fmt"

	"github.com/ozgur/courseselect/internal/app/models"
	"github.com/ozgur/courseselect/internal/pkg/apperrors"
)

// Enrollment counter synchronizer. These two statements are the only write
// paths to courses.enrolled in the whole codebase.
//
// The capacity check and the increment happen in one conditional UPDATE, so
// two concurrent selections racing for the last seat cannot both pass a
// read-then-write check: the row lock taken by the first UPDATE serializes
// them, and the loser's WHERE clause no longer matches.

// TryIncrementEnrolled acquires one seat on a published course. It returns
// false without error when no seat is available or the course is not
// published; the caller maps that to its own error kind.
func (r *CourseRepository) TryIncrementEnrolled(ctx context.Context, courseID int64) (bool, error) {
	cmdTag, err := r.db.Exec(ctx, `
		UPDATE courses
		SET enrolled = enrolled + 1, updated_at = NOW()
		WHERE id = $1 AND status = $2 AND enrolled < capacity`,
		courseID, models.CourseStatusPublished,
	)
	if err != nil {
		return false, fmt.Errorf("error incrementing enrolled counter: %w", err)
	}

	return cmdTag.RowsAffected() == 1, nil
}

// DecrementEnrolled releases one seat. The enrolled > 0 guard keeps the
// counter from going negative even if a cancellation is replayed.
func (r *CourseRepository) DecrementEnrolled(ctx context.Context, courseID int64) error {
	cmdTag, err := r.db.Exec(ctx, `
		UPDATE courses
		SET enrolled = enrolled - 1, updated_at = NOW()
		WHERE id = $1 AND enrolled > 0`,
		courseID,
	)
	if err != nil {
		return fmt.Errorf("error decrementing enrolled counter: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		var exists bool
		if err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM courses WHERE id = $1)`, courseID).Scan(&exists); err != nil {
			return fmt.Errorf("error checking course existence: %w", err)
		}
		if !exists {
			return apperrors.ErrCourseNotFound
		}
		// Counter already at zero. The selection state machine should make
		// this unreachable; log-worthy but not fatal for the cancellation.
	}

	return nil
}
