package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/ozgur/courseselect/internal/app/models"
	"github.com/ozgur/courseselect/internal/app/repositories"
	"github.com/ozgur/courseselect/internal/pkg/apperrors"
)

// fakeStore is an in-memory repositories.Store. Transactions serialize on a
// mutex and roll back by restoring a snapshot, so the service-level atomicity
// guarantees can be exercised without a database.
type fakeStore struct {
	mu   sync.Mutex
	txMu sync.Mutex

	courses    map[int64]models.Course
	schedules  map[int64][]models.CourseSchedule
	prereqs    map[int64][]int64
	selections map[int64]models.Selection
	users      map[int64]models.User

	nextCourseID    int64
	nextScheduleID  int64
	nextSelectionID int64
	nextUserID      int64
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		courses:    make(map[int64]models.Course),
		schedules:  make(map[int64][]models.CourseSchedule),
		prereqs:    make(map[int64][]int64),
		selections: make(map[int64]models.Selection),
		users:      make(map[int64]models.User),
	}
}

func (f *fakeStore) Courses() repositories.CourseStore       { return (*fakeCourseStore)(f) }
func (f *fakeStore) Selections() repositories.SelectionStore { return (*fakeSelectionStore)(f) }
func (f *fakeStore) Users() repositories.UserStore           { return (*fakeUserStore)(f) }

type fakeSnapshot struct {
	courses    map[int64]models.Course
	schedules  map[int64][]models.CourseSchedule
	prereqs    map[int64][]int64
	selections map[int64]models.Selection
	users      map[int64]models.User
}

func (f *fakeStore) snapshot() fakeSnapshot {
	f.mu.Lock()
	defer f.mu.Unlock()

	snap := fakeSnapshot{
		courses:    make(map[int64]models.Course, len(f.courses)),
		schedules:  make(map[int64][]models.CourseSchedule, len(f.schedules)),
		prereqs:    make(map[int64][]int64, len(f.prereqs)),
		selections: make(map[int64]models.Selection, len(f.selections)),
		users:      make(map[int64]models.User, len(f.users)),
	}
	for id, c := range f.courses {
		snap.courses[id] = c
	}
	for id, s := range f.schedules {
		snap.schedules[id] = append([]models.CourseSchedule(nil), s...)
	}
	for id, p := range f.prereqs {
		snap.prereqs[id] = append([]int64(nil), p...)
	}
	for id, s := range f.selections {
		snap.selections[id] = s
	}
	for id, u := range f.users {
		snap.users[id] = u
	}
	return snap
}

func (f *fakeStore) restore(snap fakeSnapshot) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.courses = snap.courses
	f.schedules = snap.schedules
	f.prereqs = snap.prereqs
	f.selections = snap.selections
	f.users = snap.users
}

func (f *fakeStore) WithTransaction(ctx context.Context, fn func(repositories.Store) error) error {
	f.txMu.Lock()
	defer f.txMu.Unlock()

	snap := f.snapshot()
	if err := fn(f); err != nil {
		f.restore(snap)
		return err
	}
	return nil
}

// --- courses ---

type fakeCourseStore fakeStore

func (f *fakeCourseStore) Create(ctx context.Context, course *models.Course) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, c := range f.courses {
		if c.Code == course.Code {
			return apperrors.ErrCourseCodeExists
		}
	}
	f.nextCourseID++
	course.ID = f.nextCourseID
	course.Enrolled = 0
	course.CreatedAt = time.Now()
	course.UpdatedAt = course.CreatedAt
	f.courses[course.ID] = *course
	return nil
}

func (f *fakeCourseStore) GetByID(ctx context.Context, id int64) (*models.Course, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	course, ok := f.courses[id]
	if !ok {
		return nil, apperrors.ErrCourseNotFound
	}
	return &course, nil
}

func (f *fakeCourseStore) GetByIDWithRelations(ctx context.Context, id int64) (*models.Course, error) {
	course, err := f.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	course.Schedules = append([]models.CourseSchedule(nil), f.schedules[id]...)
	for _, prereqID := range f.prereqs[id] {
		course.Prerequisites = append(course.Prerequisites, models.CoursePrerequisite{
			CourseID:             id,
			PrerequisiteCourseID: prereqID,
		})
	}
	return course, nil
}

func (f *fakeCourseStore) GetByCode(ctx context.Context, code string) (*models.Course, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, c := range f.courses {
		if c.Code == code {
			course := c
			return &course, nil
		}
	}
	return nil, apperrors.ErrCourseNotFound
}

func (f *fakeCourseStore) ExistsByCode(ctx context.Context, code string, excludeID int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, c := range f.courses {
		if c.Code == code && c.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeCourseStore) Update(ctx context.Context, course *models.Course) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	existing, ok := f.courses[course.ID]
	if !ok {
		return apperrors.ErrCourseNotFound
	}
	updated := *course
	updated.Enrolled = existing.Enrolled // counter is owned by the synchronizer
	updated.UpdatedAt = time.Now()
	f.courses[course.ID] = updated
	return nil
}

func (f *fakeCourseStore) Delete(ctx context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	course, ok := f.courses[id]
	if !ok {
		return apperrors.ErrCourseNotFound
	}
	if course.Enrolled > 0 {
		return apperrors.ErrCourseHasEnrollments
	}
	delete(f.courses, id)
	delete(f.schedules, id)
	delete(f.prereqs, id)
	return nil
}

func (f *fakeCourseStore) matches(c models.Course, filter models.CourseFilter) bool {
	status := models.CourseStatusPublished
	if filter.Status != nil {
		status = *filter.Status
	}
	if c.Status != status {
		return false
	}
	if filter.Search != nil {
		needle := strings.ToLower(*filter.Search)
		desc := ""
		if c.Description != nil {
			desc = *c.Description
		}
		haystack := strings.ToLower(c.Code + " " + c.Name + " " + desc + " " + c.Teacher)
		if !strings.Contains(haystack, needle) {
			return false
		}
	}
	if filter.Teacher != nil && !strings.Contains(strings.ToLower(c.Teacher), strings.ToLower(*filter.Teacher)) {
		return false
	}
	if filter.MinCredits != nil && c.Credits < *filter.MinCredits {
		return false
	}
	if filter.MaxCredits != nil && c.Credits > *filter.MaxCredits {
		return false
	}
	return true
}

func (f *fakeCourseStore) List(ctx context.Context, filter models.CourseFilter, sortBy string, dir models.SortDirection, page, size int) ([]*models.Course, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []*models.Course
	for _, c := range f.courses {
		if f.matches(c, filter) {
			course := c
			out = append(out, &course)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	if size > 0 {
		offset := (page - 1) * size
		if offset < 0 {
			offset = 0
		}
		if offset >= len(out) {
			return nil, nil
		}
		end := offset + size
		if end > len(out) {
			end = len(out)
		}
		out = out[offset:end]
	}
	return out, nil
}

func (f *fakeCourseStore) Count(ctx context.Context, filter models.CourseFilter) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var n int64
	for _, c := range f.courses {
		if f.matches(c, filter) {
			n++
		}
	}
	return n, nil
}

func (f *fakeCourseStore) GetSchedules(ctx context.Context, courseID int64) ([]models.CourseSchedule, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.CourseSchedule(nil), f.schedules[courseID]...), nil
}

func (f *fakeCourseStore) GetPrerequisites(ctx context.Context, courseID int64) ([]models.CoursePrerequisite, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []models.CoursePrerequisite
	for _, prereqID := range f.prereqs[courseID] {
		out = append(out, models.CoursePrerequisite{CourseID: courseID, PrerequisiteCourseID: prereqID})
	}
	return out, nil
}

func (f *fakeCourseStore) ReplaceSchedules(ctx context.Context, courseID int64, schedules []models.CourseSchedule) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	replaced := make([]models.CourseSchedule, 0, len(schedules))
	for _, s := range schedules {
		f.nextScheduleID++
		s.ID = f.nextScheduleID
		s.CourseID = courseID
		replaced = append(replaced, s)
	}
	f.schedules[courseID] = replaced
	return nil
}

func (f *fakeCourseStore) ReplacePrerequisites(ctx context.Context, courseID int64, prerequisiteIDs []int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prereqs[courseID] = append([]int64(nil), prerequisiteIDs...)
	return nil
}

func (f *fakeCourseStore) ResolveCodes(ctx context.Context, codes []string) ([]int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var ids []int64
	for _, code := range codes {
		for _, c := range f.courses {
			if c.Code == code {
				ids = append(ids, c.ID)
				break
			}
		}
	}
	return ids, nil
}

func (f *fakeCourseStore) TryIncrementEnrolled(ctx context.Context, courseID int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	course, ok := f.courses[courseID]
	if !ok {
		return false, nil
	}
	if course.Status != models.CourseStatusPublished || course.Enrolled >= course.Capacity {
		return false, nil
	}
	course.Enrolled++
	f.courses[courseID] = course
	return true, nil
}

func (f *fakeCourseStore) DecrementEnrolled(ctx context.Context, courseID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	course, ok := f.courses[courseID]
	if !ok {
		return apperrors.ErrCourseNotFound
	}
	if course.Enrolled > 0 {
		course.Enrolled--
		f.courses[courseID] = course
	}
	return nil
}

// --- selections ---

type fakeSelectionStore fakeStore

func (f *fakeSelectionStore) Create(ctx context.Context, selection *models.Selection) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, s := range f.selections {
		if s.UserID == selection.UserID && s.CourseID == selection.CourseID {
			return apperrors.ErrSelectionExists
		}
	}
	f.nextSelectionID++
	selection.ID = f.nextSelectionID
	selection.SelectedAt = time.Now()
	f.selections[selection.ID] = *selection
	return nil
}

func (f *fakeSelectionStore) GetByID(ctx context.Context, id int64) (*models.Selection, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	selection, ok := f.selections[id]
	if !ok {
		return nil, apperrors.ErrSelectionNotFound
	}
	return &selection, nil
}

func (f *fakeSelectionStore) GetByUserAndCourse(ctx context.Context, userID, courseID int64) (*models.Selection, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, s := range f.selections {
		if s.UserID == userID && s.CourseID == courseID {
			selection := s
			return &selection, nil
		}
	}
	return nil, apperrors.ErrSelectionNotFound
}

func (f *fakeSelectionStore) Update(ctx context.Context, selection *models.Selection, expected models.SelectionStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	stored, ok := f.selections[selection.ID]
	if !ok {
		return apperrors.ErrSelectionNotFound
	}
	if stored.Status != expected {
		return apperrors.NewInvalidTransitionError(
			fmt.Sprintf("selection status changed from %s to %s by a concurrent update", expected, stored.Status))
	}
	f.selections[selection.ID] = *selection
	return nil
}

func (f *fakeSelectionStore) Delete(ctx context.Context, id int64, expected models.SelectionStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	stored, ok := f.selections[id]
	if !ok {
		return apperrors.ErrSelectionNotFound
	}
	if stored.Status != expected {
		return apperrors.NewInvalidTransitionError(
			fmt.Sprintf("selection status changed from %s to %s by a concurrent update", expected, stored.Status))
	}
	delete(f.selections, id)
	return nil
}

func (f *fakeSelectionStore) matches(s models.Selection, filter models.SelectionFilter) bool {
	if filter.UserID != nil && s.UserID != *filter.UserID {
		return false
	}
	if filter.CourseID != nil && s.CourseID != *filter.CourseID {
		return false
	}
	if filter.Status != nil && s.Status != *filter.Status {
		return false
	}
	if filter.From != nil && s.SelectedAt.Before(*filter.From) {
		return false
	}
	if filter.To != nil && s.SelectedAt.After(*filter.To) {
		return false
	}
	return true
}

func (f *fakeSelectionStore) List(ctx context.Context, filter models.SelectionFilter, sortBy string, dir models.SortDirection, page, size int) ([]*models.Selection, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []*models.Selection
	for _, s := range f.selections {
		if f.matches(s, filter) {
			selection := s
			out = append(out, &selection)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	if size > 0 {
		offset := (page - 1) * size
		if offset < 0 {
			offset = 0
		}
		if offset >= len(out) {
			return nil, nil
		}
		end := offset + size
		if end > len(out) {
			end = len(out)
		}
		out = out[offset:end]
	}
	return out, nil
}

func (f *fakeSelectionStore) Count(ctx context.Context, filter models.SelectionFilter) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var n int64
	for _, s := range f.selections {
		if f.matches(s, filter) {
			n++
		}
	}
	return n, nil
}

func (f *fakeSelectionStore) UserStats(ctx context.Context, userID int64) (*models.UserSelectionStats, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	stats := &models.UserSelectionStats{UserID: userID}
	for _, s := range f.selections {
		if s.UserID != userID {
			continue
		}
		switch s.Status {
		case models.SelectionStatusPending:
			stats.Pending++
		case models.SelectionStatusConfirmed:
			stats.Confirmed++
		case models.SelectionStatusCancelled:
			stats.Cancelled++
		case models.SelectionStatusCompleted:
			stats.Completed++
		}
		if s.Status == models.SelectionStatusConfirmed || s.Status == models.SelectionStatusCompleted {
			if course, ok := f.courses[s.CourseID]; ok {
				stats.TotalCredits += course.Credits
			}
		}
	}
	return stats, nil
}

func (f *fakeSelectionStore) CourseStats(ctx context.Context, courseID int64) (*models.CourseSelectionStats, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	stats := &models.CourseSelectionStats{CourseID: courseID}
	for _, s := range f.selections {
		if s.CourseID != courseID {
			continue
		}
		switch s.Status {
		case models.SelectionStatusPending:
			stats.Pending++
		case models.SelectionStatusConfirmed:
			stats.Confirmed++
		case models.SelectionStatusCancelled:
			stats.Cancelled++
		case models.SelectionStatusCompleted:
			stats.Completed++
		}
	}
	if stats.Confirmed+stats.Completed > 0 {
		stats.CompletionRate = float64(stats.Completed) / float64(stats.Confirmed+stats.Completed)
	}
	return stats, nil
}

// --- users ---

type fakeUserStore fakeStore

func (f *fakeUserStore) Create(ctx context.Context, user *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, u := range f.users {
		if u.Email == user.Email {
			return apperrors.NewConflictError("email already exists")
		}
	}
	f.nextUserID++
	user.ID = f.nextUserID
	f.users[user.ID] = *user
	return nil
}

func (f *fakeUserStore) GetByID(ctx context.Context, id int64) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	user, ok := f.users[id]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	return &user, nil
}

func (f *fakeUserStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, u := range f.users {
		if u.Email == email {
			user := u
			return &user, nil
		}
	}
	return nil, apperrors.ErrUserNotFound
}

func (f *fakeUserStore) Exists(ctx context.Context, id int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	user, ok := f.users[id]
	return ok && user.IsActive, nil
}
