package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ozgur/courseselect/internal/app/models"
	"github.com/ozgur/courseselect/internal/pkg/logger"
)

// DBTX is the subset of pgx operations the repositories need. Both
// *pgxpool.Pool and pgx.Tx satisfy it, so the same repository code runs
// inside and outside a transaction.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// CourseStore is the persistence contract for courses, their schedules and
// prerequisite edges, and the enrolled counter.
type CourseStore interface {
	Create(ctx context.Context, course *models.Course) error
	GetByID(ctx context.Context, id int64) (*models.Course, error)
	GetByIDWithRelations(ctx context.Context, id int64) (*models.Course, error)
	GetByCode(ctx context.Context, code string) (*models.Course, error)
	ExistsByCode(ctx context.Context, code string, excludeID int64) (bool, error)
	Update(ctx context.Context, course *models.Course) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, filter models.CourseFilter, sortBy string, dir models.SortDirection, page, size int) ([]*models.Course, error)
	Count(ctx context.Context, filter models.CourseFilter) (int64, error)

	GetSchedules(ctx context.Context, courseID int64) ([]models.CourseSchedule, error)
	GetPrerequisites(ctx context.Context, courseID int64) ([]models.CoursePrerequisite, error)
	ReplaceSchedules(ctx context.Context, courseID int64, schedules []models.CourseSchedule) error
	ReplacePrerequisites(ctx context.Context, courseID int64, prerequisiteIDs []int64) error
	ResolveCodes(ctx context.Context, codes []string) ([]int64, error)

	// Enrollment counter synchronizer. TryIncrementEnrolled performs the
	// seat acquisition as one conditional write; false means no seat.
	TryIncrementEnrolled(ctx context.Context, courseID int64) (bool, error)
	DecrementEnrolled(ctx context.Context, courseID int64) error
}

// SelectionStore is the persistence contract for selection records. Update
// and Delete are compare-and-swap writes: they take the status the caller
// observed and fail with an invalid-transition error when the row moved on
// concurrently, so a seat is never released twice.
type SelectionStore interface {
	Create(ctx context.Context, selection *models.Selection) error
	GetByID(ctx context.Context, id int64) (*models.Selection, error)
	GetByUserAndCourse(ctx context.Context, userID, courseID int64) (*models.Selection, error)
	Update(ctx context.Context, selection *models.Selection, expected models.SelectionStatus) error
	Delete(ctx context.Context, id int64, expected models.SelectionStatus) error
	List(ctx context.Context, filter models.SelectionFilter, sortBy string, dir models.SortDirection, page, size int) ([]*models.Selection, error)
	Count(ctx context.Context, filter models.SelectionFilter) (int64, error)
	UserStats(ctx context.Context, userID int64) (*models.UserSelectionStats, error)
	CourseStats(ctx context.Context, courseID int64) (*models.CourseSelectionStats, error)
}

// UserStore is the persistence contract for user identities.
type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Exists(ctx context.Context, id int64) (bool, error)
}

// Store bundles the repositories with a transaction scope. WithTransaction
// hands the callback a Store whose repositories are bound to one open
// transaction: every write inside the callback commits or rolls back as a
// unit.
type Store interface {
	Courses() CourseStore
	Selections() SelectionStore
	Users() UserStore
	WithTransaction(ctx context.Context, fn func(Store) error) error
}

// SQLStore implements Store on top of a pgx connection pool.
type SQLStore struct {
	pool       *pgxpool.Pool // nil when the store is bound to a transaction
	courses    *CourseRepository
	selections *SelectionRepository
	users      *UserRepository
}

// NewStore creates a Store backed by the given pool.
func NewStore(pool *pgxpool.Pool) *SQLStore {
	return &SQLStore{
		pool:       pool,
		courses:    NewCourseRepository(pool),
		selections: NewSelectionRepository(pool),
		users:      NewUserRepository(pool),
	}
}

// Courses returns the course repository.
func (s *SQLStore) Courses() CourseStore { return s.courses }

// Selections returns the selection repository.
func (s *SQLStore) Selections() SelectionStore { return s.selections }

// Users returns the user repository.
func (s *SQLStore) Users() UserStore { return s.users }

// WithTransaction runs fn inside a transaction. The callback receives a Store
// bound to the transaction; commit happens on nil return, rollback on error
// and on panic. Nested calls join the surrounding transaction.
func (s *SQLStore) WithTransaction(ctx context.Context, fn func(Store) error) error {
	if s.pool == nil {
		return fn(s)
	}

	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, 30*time.Second)
		defer cancel()
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	txStore := &SQLStore{
		courses:    NewCourseRepository(tx),
		selections: NewSelectionRepository(tx),
		users:      NewUserRepository(tx),
	}

	defer func() {
		if r := recover(); r != nil {
			_ = tx.Rollback(ctx)
			panic(r)
		}
	}()

	if err := fn(txStore); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			logger.Error().Err(rbErr).Msg("Failed to rollback transaction")
			return fmt.Errorf("error: %v, rollback error: %w", err, rbErr)
		}
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
