package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ozgur/courseselect/internal/app/models"
	"github.com/ozgur/courseselect/internal/app/models/dto"
	"github.com/ozgur/courseselect/internal/app/repositories"
	"github.com/ozgur/courseselect/internal/pkg/apperrors"
	"github.com/ozgur/courseselect/internal/pkg/events"
	"github.com/ozgur/courseselect/internal/pkg/validation"
)

// ErrCourseValidation wraps course payload validation failures.
var ErrCourseValidation = errors.New("course validation failed")

// CourseService handles course registry operations.
type CourseService struct {
	store     repositories.Store
	publisher events.Publisher
}

// NewCourseService creates a new course service instance.
func NewCourseService(store repositories.Store, publisher events.Publisher) *CourseService {
	return &CourseService{
		store:     store,
		publisher: publisher,
	}
}

// validateSchedules checks every schedule slot of a payload.
func validateSchedules(schedules []dto.ScheduleInput) error {
	for i, schedule := range schedules {
		if !validation.IsValidDayOfWeek(schedule.DayOfWeek) {
			return fmt.Errorf("%w: schedule %d day of week must be 1-7", ErrCourseValidation, i)
		}
		if !validation.IsValidClockTime(schedule.StartTime) || !validation.IsValidClockTime(schedule.EndTime) {
			return fmt.Errorf("%w: schedule %d times must be HH:MM", ErrCourseValidation, i)
		}
		if schedule.StartTime >= schedule.EndTime {
			return fmt.Errorf("%w: schedule %d start must precede end", ErrCourseValidation, i)
		}
		for _, week := range schedule.Weeks {
			if week < 1 {
				return fmt.Errorf("%w: schedule %d week numbers must be positive", ErrCourseValidation, i)
			}
		}
	}
	return nil
}

func scheduleModels(inputs []dto.ScheduleInput) []models.CourseSchedule {
	schedules := make([]models.CourseSchedule, 0, len(inputs))
	for _, input := range inputs {
		schedules = append(schedules, models.CourseSchedule{
			DayOfWeek: input.DayOfWeek,
			StartTime: input.StartTime,
			EndTime:   input.EndTime,
			Location:  input.Location,
			Weeks:     input.Weeks,
		})
	}
	return schedules
}

// resolvePrerequisites maps codes to IDs, dropping codes that do not resolve
// and any self-reference.
func resolvePrerequisites(ctx context.Context, tx repositories.Store, courseID int64, codes []string) ([]int64, error) {
	resolved, err := tx.Courses().ResolveCodes(ctx, codes)
	if err != nil {
		return nil, err
	}
	ids := resolved[:0]
	for _, id := range resolved {
		if id != courseID {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// CreateCourse creates a course together with its schedules and prerequisite
// edges in one transaction.
func (s *CourseService) CreateCourse(ctx context.Context, actorID int64, req dto.CreateCourseRequest) (*models.Course, error) {
	code := strings.ToUpper(strings.TrimSpace(req.Code))
	if !validation.IsValidCourseCode(code) {
		return nil, fmt.Errorf("%w: code must look like CS101", ErrCourseValidation)
	}
	if !validation.IsValidName(req.Name) {
		return nil, fmt.Errorf("%w: name length out of bounds", ErrCourseValidation)
	}
	if req.Credits <= 0 {
		return nil, fmt.Errorf("%w: credits must be positive", ErrCourseValidation)
	}
	if req.Capacity <= 0 {
		return nil, fmt.Errorf("%w: capacity must be positive", ErrCourseValidation)
	}
	if err := validateSchedules(req.Schedules); err != nil {
		return nil, err
	}

	status := models.CourseStatusDraft
	if req.Status != nil {
		if !req.Status.IsValid() {
			return nil, fmt.Errorf("%w: unknown course status %q", ErrCourseValidation, *req.Status)
		}
		status = *req.Status
	}

	course := &models.Course{
		Code:        code,
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		Credits:     req.Credits,
		Teacher:     strings.TrimSpace(req.Teacher),
		Capacity:    req.Capacity,
		Status:      status,
	}

	err := s.store.WithTransaction(ctx, func(tx repositories.Store) error {
		exists, err := tx.Courses().ExistsByCode(ctx, course.Code, 0)
		if err != nil {
			return err
		}
		if exists {
			return apperrors.ErrCourseCodeExists
		}

		if err := tx.Courses().Create(ctx, course); err != nil {
			return err
		}

		if len(req.Schedules) > 0 {
			if err := tx.Courses().ReplaceSchedules(ctx, course.ID, scheduleModels(req.Schedules)); err != nil {
				return err
			}
		}

		if len(req.Prerequisites) > 0 {
			ids, err := resolvePrerequisites(ctx, tx, course.ID, req.Prerequisites)
			if err != nil {
				return err
			}
			if err := tx.Courses().ReplacePrerequisites(ctx, course.ID, ids); err != nil {
				return err
			}
		}

		reloaded, err := tx.Courses().GetByIDWithRelations(ctx, course.ID)
		if err != nil {
			return err
		}
		*course = *reloaded
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publisher.Publish(ctx, events.New(events.CourseCreated, actorID, course.ID).
		WithAfter(map[string]interface{}{"code": course.Code, "status": course.Status}))

	return course, nil
}

// GetCourse retrieves a course with its schedules and prerequisites.
func (s *CourseService) GetCourse(ctx context.Context, id int64) (*models.Course, error) {
	if id <= 0 {
		return nil, fmt.Errorf("%w: invalid course ID", ErrCourseValidation)
	}
	return s.store.Courses().GetByIDWithRelations(ctx, id)
}

// ListCourses retrieves a filtered, sorted page of courses plus the total
// match count.
func (s *CourseService) ListCourses(ctx context.Context, filter models.CourseFilter, sortBy string, dir models.SortDirection, page, size int) ([]*models.Course, int64, error) {
	courses, err := s.store.Courses().List(ctx, filter, sortBy, dir, page, size)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.store.Courses().Count(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	return courses, total, nil
}

// UpdateCourse applies a patch to a course. Schedules and prerequisites are
// replaced wholesale when present in the patch, independently of each other;
// an empty slice clears the rows. Lowering capacity below the current
// enrollment is rejected. The enrolled counter cannot be written through this
// path at all.
func (s *CourseService) UpdateCourse(ctx context.Context, actorID, id int64, req dto.UpdateCourseRequest) (*models.Course, error) {
	if id <= 0 {
		return nil, fmt.Errorf("%w: invalid course ID", ErrCourseValidation)
	}
	if req.Schedules != nil {
		if err := validateSchedules(*req.Schedules); err != nil {
			return nil, err
		}
	}

	var updated *models.Course
	var previousStatus models.CourseStatus

	err := s.store.WithTransaction(ctx, func(tx repositories.Store) error {
		course, err := tx.Courses().GetByID(ctx, id)
		if err != nil {
			return err
		}
		previousStatus = course.Status

		if req.Code != nil {
			code := strings.ToUpper(strings.TrimSpace(*req.Code))
			if !validation.IsValidCourseCode(code) {
				return fmt.Errorf("%w: code must look like CS101", ErrCourseValidation)
			}
			if code != course.Code {
				exists, err := tx.Courses().ExistsByCode(ctx, code, course.ID)
				if err != nil {
					return err
				}
				if exists {
					return apperrors.ErrCourseCodeExists
				}
				course.Code = code
			}
		}
		if req.Name != nil {
			if !validation.IsValidName(*req.Name) {
				return fmt.Errorf("%w: name length out of bounds", ErrCourseValidation)
			}
			course.Name = strings.TrimSpace(*req.Name)
		}
		if req.Description != nil {
			course.Description = req.Description
		}
		if req.Credits != nil {
			if *req.Credits <= 0 {
				return fmt.Errorf("%w: credits must be positive", ErrCourseValidation)
			}
			course.Credits = *req.Credits
		}
		if req.Teacher != nil {
			course.Teacher = strings.TrimSpace(*req.Teacher)
		}
		if req.Capacity != nil {
			if *req.Capacity <= 0 {
				return fmt.Errorf("%w: capacity must be positive", ErrCourseValidation)
			}
			if *req.Capacity < course.Enrolled {
				return apperrors.ErrCapacityBelowEnrolled
			}
			course.Capacity = *req.Capacity
		}
		if req.Status != nil {
			if !req.Status.IsValid() {
				return fmt.Errorf("%w: unknown course status %q", ErrCourseValidation, *req.Status)
			}
			course.Status = *req.Status
		}

		if err := tx.Courses().Update(ctx, course); err != nil {
			return err
		}

		if req.Schedules != nil {
			if err := tx.Courses().ReplaceSchedules(ctx, course.ID, scheduleModels(*req.Schedules)); err != nil {
				return err
			}
		}

		if req.Prerequisites != nil {
			ids, err := resolvePrerequisites(ctx, tx, course.ID, *req.Prerequisites)
			if err != nil {
				return err
			}
			if err := tx.Courses().ReplacePrerequisites(ctx, course.ID, ids); err != nil {
				return err
			}
		}

		updated, err = tx.Courses().GetByIDWithRelations(ctx, course.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.publisher.Publish(ctx, events.New(events.CourseUpdated, actorID, updated.ID).
		WithBefore(map[string]interface{}{"status": previousStatus}).
		WithAfter(map[string]interface{}{"code": updated.Code, "status": updated.Status}))

	return updated, nil
}

// DeleteCourse removes a course with its schedules and prerequisite edges.
// Courses holding active enrollments cannot be deleted.
func (s *CourseService) DeleteCourse(ctx context.Context, actorID, id int64) error {
	if id <= 0 {
		return fmt.Errorf("%w: invalid course ID", ErrCourseValidation)
	}

	var code string
	err := s.store.WithTransaction(ctx, func(tx repositories.Store) error {
		course, err := tx.Courses().GetByID(ctx, id)
		if err != nil {
			return err
		}
		if course.Enrolled > 0 {
			return apperrors.ErrCourseHasEnrollments
		}
		code = course.Code
		return tx.Courses().Delete(ctx, id)
	})
	if err != nil {
		return err
	}

	s.publisher.Publish(ctx, events.New(events.CourseDeleted, actorID, id).
		WithBefore(map[string]interface{}{"code": code}))

	return nil
}

// BatchCreateCourses applies each create independently: one item's failure
// never rolls back its neighbours. The call errors only when every item
// failed.
func (s *CourseService) BatchCreateCourses(ctx context.Context, actorID int64, reqs []dto.CreateCourseRequest) (*dto.BatchCourseResponse, error) {
	response := &dto.BatchCourseResponse{}
	for i, req := range reqs {
		course, err := s.CreateCourse(ctx, actorID, req)
		if err != nil {
			response.Failed++
			response.Errors = append(response.Errors, dto.BatchItemError{Index: i, Message: err.Error()})
			continue
		}
		response.Succeeded++
		response.Courses = append(response.Courses, course)
	}

	if len(reqs) > 0 && response.Succeeded == 0 {
		return response, apperrors.ErrBatchAllFailed
	}
	return response, nil
}

// BatchUpdateCourses applies each patch independently, collecting failures.
func (s *CourseService) BatchUpdateCourses(ctx context.Context, actorID int64, items []dto.BatchUpdateCourseItem) (*dto.BatchCourseResponse, error) {
	response := &dto.BatchCourseResponse{}
	for i, item := range items {
		course, err := s.UpdateCourse(ctx, actorID, item.ID, item.Patch)
		if err != nil {
			response.Failed++
			response.Errors = append(response.Errors, dto.BatchItemError{Index: i, Message: err.Error()})
			continue
		}
		response.Succeeded++
		response.Courses = append(response.Courses, course)
	}

	if len(items) > 0 && response.Succeeded == 0 {
		return response, apperrors.ErrBatchAllFailed
	}
	return response, nil
}

// BatchDeleteCourses deletes each course independently, collecting failures.
func (s *CourseService) BatchDeleteCourses(ctx context.Context, actorID int64, ids []int64) (*dto.BatchCourseResponse, error) {
	response := &dto.BatchCourseResponse{}
	for i, id := range ids {
		if err := s.DeleteCourse(ctx, actorID, id); err != nil {
			response.Failed++
			response.Errors = append(response.Errors, dto.BatchItemError{Index: i, Message: err.Error()})
			continue
		}
		response.Succeeded++
	}

	if len(ids) > 0 && response.Succeeded == 0 {
		return response, apperrors.ErrBatchAllFailed
	}
	return response, nil
}

// GetCourseStats aggregates the selections held against a course.
func (s *CourseService) GetCourseStats(ctx context.Context, courseID int64) (*models.CourseSelectionStats, error) {
	if courseID <= 0 {
		return nil, fmt.Errorf("%w: invalid course ID", ErrCourseValidation)
	}
	if _, err := s.store.Courses().GetByID(ctx, courseID); err != nil {
		return nil, err
	}
	return s.store.Selections().CourseStats(ctx, courseID)
}
