package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ozgur/courseselect/internal/app/models"
	"github.com/ozgur/courseselect/internal/app/models/dto"
	"github.com/ozgur/courseselect/internal/app/repositories"
	"github.com/ozgur/courseselect/internal/pkg/apperrors"
	"github.com/ozgur/courseselect/internal/pkg/events"
)

// ErrSelectionValidation wraps selection payload validation failures.
var ErrSelectionValidation = errors.New("selection validation failed")

// SelectionService implements the selection lifecycle:
//
//	pending → confirmed → completed
//	pending/confirmed → cancelled
//
// Creation counts a seat, cancellation releases it; confirmation and
// completion leave the counter alone. Every counter mutation shares a
// transaction with the selection write it belongs to.
type SelectionService struct {
	store     repositories.Store
	publisher events.Publisher
}

// NewSelectionService creates a new selection service instance.
func NewSelectionService(store repositories.Store, publisher events.Publisher) *SelectionService {
	return &SelectionService{
		store:     store,
		publisher: publisher,
	}
}

// CreateSelection registers a pending selection for the user on a published
// course with a free seat. The seat is acquired through the conditional
// counter increment, so concurrent requests for the last seat cannot both
// succeed; the selection insert and the increment commit together or not at
// all.
func (s *SelectionService) CreateSelection(ctx context.Context, userID int64, req dto.CreateSelectionRequest) (*models.Selection, error) {
	if userID <= 0 {
		return nil, fmt.Errorf("%w: invalid user ID", ErrSelectionValidation)
	}
	if req.CourseID <= 0 {
		return nil, fmt.Errorf("%w: invalid course ID", ErrSelectionValidation)
	}

	exists, err := s.store.Users().Exists(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, apperrors.ErrUserNotFound
	}

	selection := &models.Selection{
		UserID:   userID,
		CourseID: req.CourseID,
		Status:   models.SelectionStatusPending,
		Notes:    req.Notes,
	}

	err = s.store.WithTransaction(ctx, func(tx repositories.Store) error {
		course, err := tx.Courses().GetByID(ctx, req.CourseID)
		if err != nil {
			return err
		}
		if course.Status != models.CourseStatusPublished {
			return apperrors.ErrCourseNotPublished
		}

		if _, err := tx.Selections().GetByUserAndCourse(ctx, userID, req.CourseID); err == nil {
			return apperrors.ErrSelectionExists
		} else if !errors.Is(err, apperrors.ErrSelectionNotFound) {
			return err
		}

		acquired, err := tx.Courses().TryIncrementEnrolled(ctx, req.CourseID)
		if err != nil {
			return err
		}
		if !acquired {
			return apperrors.ErrCapacityExceeded
		}

		// The unique (user, course) constraint backstops the read above;
		// a racing duplicate rolls the increment back with the insert.
		return tx.Selections().Create(ctx, selection)
	})
	if err != nil {
		return nil, err
	}

	s.publisher.Publish(ctx, events.New(events.SelectionCreated, userID, selection.ID).
		WithAfter(map[string]interface{}{"courseId": selection.CourseID, "status": selection.Status}))

	return selection, nil
}

// GetSelection retrieves a selection by ID.
func (s *SelectionService) GetSelection(ctx context.Context, id int64) (*models.Selection, error) {
	if id <= 0 {
		return nil, fmt.Errorf("%w: invalid selection ID", ErrSelectionValidation)
	}
	return s.store.Selections().GetByID(ctx, id)
}

// ListSelections retrieves a filtered, sorted page of selections plus the
// total match count.
func (s *SelectionService) ListSelections(ctx context.Context, filter models.SelectionFilter, sortBy string, dir models.SortDirection, page, size int) ([]*models.Selection, int64, error) {
	selections, err := s.store.Selections().List(ctx, filter, sortBy, dir, page, size)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.store.Selections().Count(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	return selections, total, nil
}

// ConfirmSelection moves a pending selection to confirmed. The counter was
// already charged at creation, so only status and timestamp change.
func (s *SelectionService) ConfirmSelection(ctx context.Context, id int64, notes *string) (*models.Selection, error) {
	if id <= 0 {
		return nil, fmt.Errorf("%w: invalid selection ID", ErrSelectionValidation)
	}

	var selection *models.Selection
	err := s.store.WithTransaction(ctx, func(tx repositories.Store) error {
		var err error
		selection, err = tx.Selections().GetByID(ctx, id)
		if err != nil {
			return err
		}
		if selection.Status != models.SelectionStatusPending {
			return apperrors.NewInvalidTransitionError(
				fmt.Sprintf("cannot confirm selection in status %s", selection.Status))
		}

		now := time.Now()
		selection.Status = models.SelectionStatusConfirmed
		selection.ConfirmedAt = &now
		if notes != nil {
			selection.Notes = notes
		}
		return tx.Selections().Update(ctx, selection, models.SelectionStatusPending)
	})
	if err != nil {
		return nil, err
	}

	s.publisher.Publish(ctx, events.New(events.SelectionConfirmed, selection.UserID, selection.ID).
		WithBefore(map[string]interface{}{"status": models.SelectionStatusPending}).
		WithAfter(map[string]interface{}{"status": selection.Status}))

	return selection, nil
}

// CancelSelection moves an active selection to cancelled, stores the reason
// as notes, and releases the seat. The decrement fires for every
// active-to-cancelled transition, pending or confirmed alike, mirroring the
// unconditional increment at creation.
func (s *SelectionService) CancelSelection(ctx context.Context, id int64, reason string) (*models.Selection, error) {
	if id <= 0 {
		return nil, fmt.Errorf("%w: invalid selection ID", ErrSelectionValidation)
	}

	var selection *models.Selection
	var previousStatus models.SelectionStatus

	err := s.store.WithTransaction(ctx, func(tx repositories.Store) error {
		var err error
		selection, err = tx.Selections().GetByID(ctx, id)
		if err != nil {
			return err
		}
		if selection.Status.IsTerminal() {
			return apperrors.NewInvalidTransitionError(
				fmt.Sprintf("cannot cancel selection in status %s", selection.Status))
		}
		previousStatus = selection.Status

		now := time.Now()
		selection.Status = models.SelectionStatusCancelled
		selection.CancelledAt = &now
		if reason != "" {
			selection.Notes = &reason
		}

		// The guarded update is what decides the race: when a concurrent
		// cancel (or delete) moved the row first, it fails and the
		// decrement below never runs, so the seat is released exactly once.
		if err := tx.Selections().Update(ctx, selection, previousStatus); err != nil {
			return err
		}

		return tx.Courses().DecrementEnrolled(ctx, selection.CourseID)
	})
	if err != nil {
		return nil, err
	}

	s.publisher.Publish(ctx, events.New(events.SelectionCancelled, selection.UserID, selection.ID).
		WithBefore(map[string]interface{}{"status": previousStatus}).
		WithAfter(map[string]interface{}{"status": selection.Status}))

	return selection, nil
}

// UpdateSelection is the generic transition entry point. It enforces the same
// state machine as the dedicated operations and stamps the lifecycle
// timestamps when entering confirmed or cancelled. Completion is reached only
// through here, as an administrative action on a confirmed selection.
func (s *SelectionService) UpdateSelection(ctx context.Context, id int64, req dto.UpdateSelectionRequest) (*models.Selection, error) {
	if id <= 0 {
		return nil, fmt.Errorf("%w: invalid selection ID", ErrSelectionValidation)
	}
	if req.Status != nil && !req.Status.IsValid() {
		return nil, fmt.Errorf("%w: unknown selection status %q", ErrSelectionValidation, *req.Status)
	}

	var selection *models.Selection
	var previousStatus models.SelectionStatus
	var eventType events.EventType

	err := s.store.WithTransaction(ctx, func(tx repositories.Store) error {
		var err error
		selection, err = tx.Selections().GetByID(ctx, id)
		if err != nil {
			return err
		}
		previousStatus = selection.Status

		if selection.Status == models.SelectionStatusCompleted {
			return apperrors.NewInvalidTransitionError("completed selections cannot be modified")
		}

		if req.Status != nil && *req.Status != selection.Status {
			if !selection.Status.CanTransitionTo(*req.Status) {
				return apperrors.NewInvalidTransitionError(
					fmt.Sprintf("cannot transition selection from %s to %s", selection.Status, *req.Status))
			}

			now := time.Now()
			selection.Status = *req.Status
			switch *req.Status {
			case models.SelectionStatusConfirmed:
				selection.ConfirmedAt = &now
				eventType = events.SelectionConfirmed
			case models.SelectionStatusCancelled:
				selection.CancelledAt = &now
				eventType = events.SelectionCancelled
			}
		}

		if req.Notes != nil {
			selection.Notes = req.Notes
		}

		if err := tx.Selections().Update(ctx, selection, previousStatus); err != nil {
			return err
		}

		// Cancellation releases the seat regardless of whether the
		// selection had been confirmed. The decrement is reached only when
		// the guarded update above actually transitioned the row.
		if selection.Status == models.SelectionStatusCancelled && previousStatus.IsActive() {
			return tx.Courses().DecrementEnrolled(ctx, selection.CourseID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if eventType != "" {
		s.publisher.Publish(ctx, events.New(eventType, selection.UserID, selection.ID).
			WithBefore(map[string]interface{}{"status": previousStatus}).
			WithAfter(map[string]interface{}{"status": selection.Status}))
	}

	return selection, nil
}

// DeleteSelection hard-deletes a selection row. Confirmed selections must be
// cancelled first. Deleting a still-pending selection releases its seat in
// the same transaction, keeping the counter aligned with the remaining
// active selections.
func (s *SelectionService) DeleteSelection(ctx context.Context, id int64) error {
	if id <= 0 {
		return fmt.Errorf("%w: invalid selection ID", ErrSelectionValidation)
	}

	var userID int64
	err := s.store.WithTransaction(ctx, func(tx repositories.Store) error {
		selection, err := tx.Selections().GetByID(ctx, id)
		if err != nil {
			return err
		}
		if selection.Status == models.SelectionStatusConfirmed {
			return apperrors.ErrSelectionConfirmed
		}
		userID = selection.UserID

		if err := tx.Selections().Delete(ctx, id, selection.Status); err != nil {
			return err
		}

		if selection.Status == models.SelectionStatusPending {
			return tx.Courses().DecrementEnrolled(ctx, selection.CourseID)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.publisher.Publish(ctx, events.New(events.SelectionDeleted, userID, id))
	return nil
}

// GetUserStats aggregates a user's selections.
func (s *SelectionService) GetUserStats(ctx context.Context, userID int64) (*models.UserSelectionStats, error) {
	if userID <= 0 {
		return nil, fmt.Errorf("%w: invalid user ID", ErrSelectionValidation)
	}
	return s.store.Selections().UserStats(ctx, userID)
}
