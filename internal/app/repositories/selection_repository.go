package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/ozgur/courseselect/internal/app/models"
	"github.com/ozgur/courseselect/internal/pkg/apperrors"
	"github.com/ozgur/courseselect/internal/pkg/dberrors"
	"github.com/ozgur/courseselect/internal/pkg/helpers"
)

const selectionColumns = "id, user_id, course_id, status, notes, selected_at, confirmed_at, cancelled_at"

// SelectionRepository handles database operations for selections.
type SelectionRepository struct {
	db DBTX
}

// NewSelectionRepository creates a new selection repository bound to db.
func NewSelectionRepository(db DBTX) *SelectionRepository {
	return &SelectionRepository{
		db: db,
	}
}

func scanSelection(row pgx.Row) (*models.Selection, error) {
	var selection models.Selection
	err := row.Scan(
		&selection.ID,
		&selection.UserID,
		&selection.CourseID,
		&selection.Status,
		&selection.Notes,
		&selection.SelectedAt,
		&selection.ConfirmedAt,
		&selection.CancelledAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrSelectionNotFound
		}
		return nil, fmt.Errorf("error scanning selection: %w", err)
	}
	return &selection, nil
}

// Create inserts a new selection row. The unique (user_id, course_id)
// constraint is the authoritative duplicate guard; a violation surfaces as
// ErrSelectionExists even when two requests race past the service check.
func (r *SelectionRepository) Create(ctx context.Context, selection *models.Selection) error {
	query := `
		INSERT INTO selections (user_id, course_id, status, notes)
		VALUES ($1, $2, $3, $4)
		RETURNING id, selected_at
	`

	err := r.db.QueryRow(ctx, query,
		selection.UserID,
		selection.CourseID,
		selection.Status,
		selection.Notes,
	).Scan(&selection.ID, &selection.SelectedAt)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "selections_user_id_course_id_key") {
			return apperrors.ErrSelectionExists
		}
		return fmt.Errorf("error creating selection: %w", err)
	}

	return nil
}

// GetByID retrieves a selection by ID.
func (r *SelectionRepository) GetByID(ctx context.Context, id int64) (*models.Selection, error) {
	query := fmt.Sprintf("SELECT %s FROM selections WHERE id = $1", selectionColumns)
	return scanSelection(r.db.QueryRow(ctx, query, id))
}

// GetByUserAndCourse retrieves the selection a user holds on a course.
func (r *SelectionRepository) GetByUserAndCourse(ctx context.Context, userID, courseID int64) (*models.Selection, error) {
	query := fmt.Sprintf("SELECT %s FROM selections WHERE user_id = $1 AND course_id = $2", selectionColumns)
	return scanSelection(r.db.QueryRow(ctx, query, userID, courseID))
}

// Update writes status, notes and the lifecycle timestamps. The expected
// status is part of the WHERE clause, making every transition a
// compare-and-swap: a concurrent writer that moved the row first leaves
// zero rows affected here, the same shape as the conditional counter
// increment. Zero rows resolves to not-found or to a transition conflict.
func (r *SelectionRepository) Update(ctx context.Context, selection *models.Selection, expected models.SelectionStatus) error {
	query := `
		UPDATE selections
		SET status = $1, notes = $2, confirmed_at = $3, cancelled_at = $4
		WHERE id = $5 AND status = $6
	`

	cmdTag, err := r.db.Exec(ctx, query,
		selection.Status,
		selection.Notes,
		selection.ConfirmedAt,
		selection.CancelledAt,
		selection.ID,
		expected,
	)
	if err != nil {
		return fmt.Errorf("error updating selection: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return r.transitionConflict(ctx, selection.ID, expected)
	}

	return nil
}

// Delete hard-deletes a selection row, guarded by the expected current
// status like Update. Counter bookkeeping is the caller's concern.
func (r *SelectionRepository) Delete(ctx context.Context, id int64, expected models.SelectionStatus) error {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM selections WHERE id = $1 AND status = $2`, id, expected)
	if err != nil {
		return fmt.Errorf("error deleting selection: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return r.transitionConflict(ctx, id, expected)
	}

	return nil
}

// transitionConflict classifies a guarded write that affected zero rows:
// either the selection is gone, or its status no longer matches what the
// caller read.
func (r *SelectionRepository) transitionConflict(ctx context.Context, id int64, expected models.SelectionStatus) error {
	var current models.SelectionStatus
	err := r.db.QueryRow(ctx, `SELECT status FROM selections WHERE id = $1`, id).Scan(&current)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.ErrSelectionNotFound
		}
		return fmt.Errorf("error checking selection status: %w", err)
	}
	return apperrors.NewInvalidTransitionError(
		fmt.Sprintf("selection status changed from %s to %s by a concurrent update", expected, current))
}

// List retrieves selections matching the filter, sorted and paginated, with
// the course relation attached.
func (r *SelectionRepository) List(ctx context.Context, filter models.SelectionFilter, sortBy string, dir models.SortDirection, page, size int) ([]*models.Selection, error) {
	offset, limit := helpers.CalculateOffsetLimit(page, size)
	column := resolveSortColumn(selectionSortColumns, sortBy, defaultSelectionSort)

	builder := applySelectionFilter(
		psql.Select(
			"s.id", "s.user_id", "s.course_id", "s.status", "s.notes",
			"s.selected_at", "s.confirmed_at", "s.cancelled_at",
			"c.id", "c.code", "c.name", "c.description", "c.credits",
			"c.teacher", "c.capacity", "c.enrolled", "c.status",
			"c.created_at", "c.updated_at",
		).
			From("selections s").
			Join("courses c ON c.id = s.course_id"),
		filter,
		"s.",
	).
		OrderBy(fmt.Sprintf("s.%s %s", column, dir.Normalize())).
		Limit(uint64(limit)).
		Offset(offset)

	sql, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building selection list query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing selections: %w", err)
	}
	defer rows.Close()

	var selections []*models.Selection
	for rows.Next() {
		var selection models.Selection
		var course models.Course
		if err := rows.Scan(
			&selection.ID,
			&selection.UserID,
			&selection.CourseID,
			&selection.Status,
			&selection.Notes,
			&selection.SelectedAt,
			&selection.ConfirmedAt,
			&selection.CancelledAt,
			&course.ID,
			&course.Code,
			&course.Name,
			&course.Description,
			&course.Credits,
			&course.Teacher,
			&course.Capacity,
			&course.Enrolled,
			&course.Status,
			&course.CreatedAt,
			&course.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("error scanning selection: %w", err)
		}
		selection.Course = &course
		selections = append(selections, &selection)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return selections, nil
}

// Count returns the number of selections matching the filter.
func (r *SelectionRepository) Count(ctx context.Context, filter models.SelectionFilter) (int64, error) {
	builder := applySelectionFilter(psql.Select("COUNT(*)").From("selections"), filter, "")

	sql, args, err := builder.ToSql()
	if err != nil {
		return 0, fmt.Errorf("error building selection count query: %w", err)
	}

	var total int64
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("error counting selections: %w", err)
	}

	return total, nil
}

// UserStats aggregates a user's selections: per-status counts plus the
// credits of confirmed and completed selections.
func (r *SelectionRepository) UserStats(ctx context.Context, userID int64) (*models.UserSelectionStats, error) {
	query := `
		SELECT
			COUNT(*) FILTER (WHERE s.status = 'PENDING'),
			COUNT(*) FILTER (WHERE s.status = 'CONFIRMED'),
			COUNT(*) FILTER (WHERE s.status = 'CANCELLED'),
			COUNT(*) FILTER (WHERE s.status = 'COMPLETED'),
			COALESCE(SUM(c.credits) FILTER (WHERE s.status IN ('CONFIRMED', 'COMPLETED')), 0)
		FROM selections s
		JOIN courses c ON c.id = s.course_id
		WHERE s.user_id = $1
	`

	stats := models.UserSelectionStats{UserID: userID}
	err := r.db.QueryRow(ctx, query, userID).Scan(
		&stats.Pending,
		&stats.Confirmed,
		&stats.Cancelled,
		&stats.Completed,
		&stats.TotalCredits,
	)
	if err != nil {
		return nil, fmt.Errorf("error aggregating user selections: %w", err)
	}

	return &stats, nil
}

// CourseStats aggregates the selections held against a course. Completion
// rate is completed / (confirmed + completed), zero when the denominator is.
func (r *SelectionRepository) CourseStats(ctx context.Context, courseID int64) (*models.CourseSelectionStats, error) {
	query := `
		SELECT
			COUNT(*) FILTER (WHERE status = 'PENDING'),
			COUNT(*) FILTER (WHERE status = 'CONFIRMED'),
			COUNT(*) FILTER (WHERE status = 'CANCELLED'),
			COUNT(*) FILTER (WHERE status = 'COMPLETED')
		FROM selections
		WHERE course_id = $1
	`

	stats := models.CourseSelectionStats{CourseID: courseID}
	err := r.db.QueryRow(ctx, query, courseID).Scan(
		&stats.Pending,
		&stats.Confirmed,
		&stats.Cancelled,
		&stats.Completed,
	)
	if err != nil {
		return nil, fmt.Errorf("error aggregating course selections: %w", err)
	}

	if denominator := stats.Confirmed + stats.Completed; denominator > 0 {
		stats.CompletionRate = float64(stats.Completed) / float64(denominator)
	}

	return &stats, nil
}
