package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ozgur/courseselect/internal/app/models"
	"github.com/ozgur/courseselect/internal/app/models/dto"
	"github.com/ozgur/courseselect/internal/pkg/apperrors"
	"github.com/ozgur/courseselect/internal/pkg/events"
)

func ptr[T any](v T) *T { return &v }

func newCourseFixture(t *testing.T) (*CourseService, *fakeStore) {
	t.Helper()
	store := newFakeStore()
	return NewCourseService(store, events.NopPublisher{}), store
}

func mustCreateCourse(t *testing.T, svc *CourseService, req dto.CreateCourseRequest) *models.Course {
	t.Helper()
	course, err := svc.CreateCourse(context.Background(), 1, req)
	require.NoError(t, err)
	return course
}

func publishedCourseReq(code string, capacity int) dto.CreateCourseRequest {
	return dto.CreateCourseRequest{
		Code:     code,
		Name:     "Course " + code,
		Credits:  4,
		Teacher:  "Prof. Aydin",
		Capacity: capacity,
		Status:   ptr(models.CourseStatusPublished),
	}
}

func TestCreateCourse(t *testing.T) {
	svc, _ := newCourseFixture(t)

	course := mustCreateCourse(t, svc, dto.CreateCourseRequest{
		Code:     "cs101",
		Name:     "  Introduction to Computer Science  ",
		Credits:  4,
		Teacher:  "Prof. Aydin",
		Capacity: 60,
		Schedules: []dto.ScheduleInput{
			{DayOfWeek: 1, StartTime: "09:00", EndTime: "10:50", Location: "B-204"},
		},
	})

	assert.Equal(t, "CS101", course.Code, "code should be normalized to upper case")
	assert.Equal(t, "Introduction to Computer Science", course.Name)
	assert.Equal(t, models.CourseStatusDraft, course.Status, "status defaults to draft")
	assert.Equal(t, 0, course.Enrolled)
	require.Len(t, course.Schedules, 1)
	assert.Equal(t, "B-204", course.Schedules[0].Location)
}

func TestCreateCourseWithPrerequisites(t *testing.T) {
	svc, _ := newCourseFixture(t)

	base := mustCreateCourse(t, svc, publishedCourseReq("CS101", 60))

	req := publishedCourseReq("CS201", 40)
	req.Prerequisites = []string{"CS101", "NOPE999", "CS201"}
	course := mustCreateCourse(t, svc, req)

	require.Len(t, course.Prerequisites, 1, "unknown codes and self-references are dropped")
	assert.Equal(t, base.ID, course.Prerequisites[0].PrerequisiteCourseID)
}

func TestCreateCourseDuplicateCode(t *testing.T) {
	svc, _ := newCourseFixture(t)
	mustCreateCourse(t, svc, publishedCourseReq("CS101", 60))

	_, err := svc.CreateCourse(context.Background(), 1, publishedCourseReq("CS101", 30))
	assert.ErrorIs(t, err, apperrors.ErrCourseCodeExists)
}

func TestCreateCourseValidation(t *testing.T) {
	svc, _ := newCourseFixture(t)

	tests := []struct {
		name string
		req  dto.CreateCourseRequest
	}{
		{
			name: "malformed code",
			req:  dto.CreateCourseRequest{Code: "c-1", Name: "X Course", Credits: 4, Teacher: "T", Capacity: 10},
		},
		{
			name: "zero capacity",
			req:  dto.CreateCourseRequest{Code: "CS101", Name: "X Course", Credits: 4, Teacher: "T", Capacity: 0},
		},
		{
			name: "zero credits",
			req:  dto.CreateCourseRequest{Code: "CS101", Name: "X Course", Credits: 0, Teacher: "T", Capacity: 10},
		},
		{
			name: "bad schedule day",
			req: dto.CreateCourseRequest{
				Code: "CS101", Name: "X Course", Credits: 4, Teacher: "T", Capacity: 10,
				Schedules: []dto.ScheduleInput{{DayOfWeek: 8, StartTime: "09:00", EndTime: "10:00", Location: "A"}},
			},
		},
		{
			name: "schedule start after end",
			req: dto.CreateCourseRequest{
				Code: "CS101", Name: "X Course", Credits: 4, Teacher: "T", Capacity: 10,
				Schedules: []dto.ScheduleInput{{DayOfWeek: 1, StartTime: "11:00", EndTime: "10:00", Location: "A"}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateCourse(context.Background(), 1, tt.req)
			assert.ErrorIs(t, err, ErrCourseValidation)
		})
	}
}

func TestUpdateCoursePatchSemantics(t *testing.T) {
	svc, _ := newCourseFixture(t)

	req := publishedCourseReq("CS101", 60)
	req.Schedules = []dto.ScheduleInput{
		{DayOfWeek: 1, StartTime: "09:00", EndTime: "10:50", Location: "B-204"},
		{DayOfWeek: 3, StartTime: "13:00", EndTime: "14:50", Location: "B-204"},
	}
	course := mustCreateCourse(t, svc, req)

	// Nil schedules leave the existing rows untouched
	updated, err := svc.UpdateCourse(context.Background(), 1, course.ID, dto.UpdateCourseRequest{
		Name: ptr("Renamed Course"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Renamed Course", updated.Name)
	assert.Len(t, updated.Schedules, 2)

	// A non-nil slice replaces them wholesale
	updated, err = svc.UpdateCourse(context.Background(), 1, course.ID, dto.UpdateCourseRequest{
		Schedules: &[]dto.ScheduleInput{
			{DayOfWeek: 5, StartTime: "10:00", EndTime: "11:50", Location: "C-100"},
		},
	})
	require.NoError(t, err)
	require.Len(t, updated.Schedules, 1)
	assert.Equal(t, 5, updated.Schedules[0].DayOfWeek)

	// An empty slice clears them
	updated, err = svc.UpdateCourse(context.Background(), 1, course.ID, dto.UpdateCourseRequest{
		Schedules: &[]dto.ScheduleInput{},
	})
	require.NoError(t, err)
	assert.Empty(t, updated.Schedules)
}

func TestUpdateCoursePrerequisitesIndependentOfSchedules(t *testing.T) {
	svc, _ := newCourseFixture(t)

	mustCreateCourse(t, svc, publishedCourseReq("CS100", 60))
	req := publishedCourseReq("CS200", 40)
	req.Schedules = []dto.ScheduleInput{{DayOfWeek: 2, StartTime: "10:00", EndTime: "11:50", Location: "A-101"}}
	course := mustCreateCourse(t, svc, req)

	// Replacing prerequisites must not disturb schedules
	updated, err := svc.UpdateCourse(context.Background(), 1, course.ID, dto.UpdateCourseRequest{
		Prerequisites: &[]string{"CS100"},
	})
	require.NoError(t, err)
	assert.Len(t, updated.Schedules, 1)
	assert.Len(t, updated.Prerequisites, 1)

	// Clearing prerequisites with an empty slice
	updated, err = svc.UpdateCourse(context.Background(), 1, course.ID, dto.UpdateCourseRequest{
		Prerequisites: &[]string{},
	})
	require.NoError(t, err)
	assert.Empty(t, updated.Prerequisites)
	assert.Len(t, updated.Schedules, 1)
}

func TestUpdateCourseCapacityBelowEnrolled(t *testing.T) {
	svc, store := newCourseFixture(t)
	course := mustCreateCourse(t, svc, publishedCourseReq("CS101", 10))

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		acquired, err := store.Courses().TryIncrementEnrolled(ctx, course.ID)
		require.NoError(t, err)
		require.True(t, acquired)
	}

	_, err := svc.UpdateCourse(ctx, 1, course.ID, dto.UpdateCourseRequest{Capacity: ptr(2)})
	assert.ErrorIs(t, err, apperrors.ErrCapacityBelowEnrolled)

	// Lowering to exactly the current enrollment is allowed
	updated, err := svc.UpdateCourse(ctx, 1, course.ID, dto.UpdateCourseRequest{Capacity: ptr(3)})
	require.NoError(t, err)
	assert.Equal(t, 3, updated.Capacity)
	assert.Equal(t, 3, updated.Enrolled)
}

func TestUpdateCourseDuplicateCode(t *testing.T) {
	svc, _ := newCourseFixture(t)
	mustCreateCourse(t, svc, publishedCourseReq("CS101", 60))
	course := mustCreateCourse(t, svc, publishedCourseReq("CS102", 60))

	_, err := svc.UpdateCourse(context.Background(), 1, course.ID, dto.UpdateCourseRequest{Code: ptr("CS101")})
	assert.ErrorIs(t, err, apperrors.ErrCourseCodeExists)

	// Re-submitting the course's own code is not a conflict
	_, err = svc.UpdateCourse(context.Background(), 1, course.ID, dto.UpdateCourseRequest{Code: ptr("CS102")})
	assert.NoError(t, err)
}

func TestDeleteCourse(t *testing.T) {
	svc, store := newCourseFixture(t)
	course := mustCreateCourse(t, svc, publishedCourseReq("CS101", 10))

	ctx := context.Background()
	acquired, err := store.Courses().TryIncrementEnrolled(ctx, course.ID)
	require.NoError(t, err)
	require.True(t, acquired)

	err = svc.DeleteCourse(ctx, 1, course.ID)
	assert.ErrorIs(t, err, apperrors.ErrCourseHasEnrollments)

	require.NoError(t, store.Courses().DecrementEnrolled(ctx, course.ID))
	require.NoError(t, svc.DeleteCourse(ctx, 1, course.ID))

	_, err = svc.GetCourse(ctx, course.ID)
	assert.ErrorIs(t, err, apperrors.ErrCourseNotFound)
}

func TestBatchCreateCoursesPartialFailure(t *testing.T) {
	svc, _ := newCourseFixture(t)

	reqs := []dto.CreateCourseRequest{
		publishedCourseReq("CS101", 60),
		publishedCourseReq("CS101", 30), // duplicate code
		publishedCourseReq("CS102", 40),
	}

	report, err := svc.BatchCreateCourses(context.Background(), 1, reqs)
	require.NoError(t, err, "partial failure is not an error")
	assert.Equal(t, 2, report.Succeeded)
	assert.Equal(t, 1, report.Failed)
	require.Len(t, report.Errors, 1)
	assert.Equal(t, 1, report.Errors[0].Index)
	assert.Len(t, report.Courses, 2)
}

func TestBatchCreateCoursesAllFailed(t *testing.T) {
	svc, _ := newCourseFixture(t)
	mustCreateCourse(t, svc, publishedCourseReq("CS101", 60))

	report, err := svc.BatchCreateCourses(context.Background(), 1, []dto.CreateCourseRequest{
		publishedCourseReq("CS101", 10),
		{Code: "bad", Name: "X", Credits: 1, Teacher: "T", Capacity: 1},
	})
	assert.ErrorIs(t, err, apperrors.ErrBatchAllFailed)
	assert.Equal(t, 0, report.Succeeded)
	assert.Equal(t, 2, report.Failed)
}

func TestBatchUpdateCourses(t *testing.T) {
	svc, _ := newCourseFixture(t)
	a := mustCreateCourse(t, svc, publishedCourseReq("CS101", 60))
	b := mustCreateCourse(t, svc, publishedCourseReq("CS102", 60))

	report, err := svc.BatchUpdateCourses(context.Background(), 1, []dto.BatchUpdateCourseItem{
		{ID: a.ID, Patch: dto.UpdateCourseRequest{Credits: ptr(6)}},
		{ID: 9999, Patch: dto.UpdateCourseRequest{Credits: ptr(6)}},
		{ID: b.ID, Patch: dto.UpdateCourseRequest{Teacher: ptr("Prof. Demir")}},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, report.Succeeded)
	assert.Equal(t, 1, report.Failed)
	require.Len(t, report.Errors, 1)
	assert.Equal(t, 1, report.Errors[0].Index)
}

func TestListCoursesDefaultsToPublished(t *testing.T) {
	svc, _ := newCourseFixture(t)

	mustCreateCourse(t, svc, publishedCourseReq("CS101", 60))
	draft := publishedCourseReq("CS900", 60)
	draft.Status = ptr(models.CourseStatusDraft)
	mustCreateCourse(t, svc, draft)

	courses, total, err := svc.ListCourses(context.Background(), models.CourseFilter{}, "", "", 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, courses, 1)
	assert.Equal(t, "CS101", courses[0].Code)

	// Explicit status surfaces the drafts
	courses, total, err = svc.ListCourses(context.Background(),
		models.CourseFilter{Status: ptr(models.CourseStatusDraft)}, "", "", 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, courses, 1)
	assert.Equal(t, "CS900", courses[0].Code)
}

func TestGetCourseStats(t *testing.T) {
	svc, store := newCourseFixture(t)
	selSvc := NewSelectionService(store, events.NopPublisher{})
	course := mustCreateCourse(t, svc, publishedCourseReq("CS101", 10))

	ctx := context.Background()
	for i := int64(1); i <= 3; i++ {
		require.NoError(t, store.Users().Create(ctx, &models.User{Email: userEmail(i), IsActive: true}))
	}

	s1, err := selSvc.CreateSelection(ctx, 1, dto.CreateSelectionRequest{CourseID: course.ID})
	require.NoError(t, err)
	s2, err := selSvc.CreateSelection(ctx, 2, dto.CreateSelectionRequest{CourseID: course.ID})
	require.NoError(t, err)
	_, err = selSvc.CreateSelection(ctx, 3, dto.CreateSelectionRequest{CourseID: course.ID})
	require.NoError(t, err)

	_, err = selSvc.ConfirmSelection(ctx, s1.ID, nil)
	require.NoError(t, err)
	_, err = selSvc.ConfirmSelection(ctx, s2.ID, nil)
	require.NoError(t, err)
	_, err = selSvc.UpdateSelection(ctx, s1.ID, dto.UpdateSelectionRequest{Status: ptr(models.SelectionStatusCompleted)})
	require.NoError(t, err)

	stats, err := svc.GetCourseStats(ctx, course.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Pending)
	assert.Equal(t, 1, stats.Confirmed)
	assert.Equal(t, 1, stats.Completed)
	assert.InDelta(t, 0.5, stats.CompletionRate, 1e-9)

	_, err = svc.GetCourseStats(ctx, 9999)
	assert.ErrorIs(t, err, apperrors.ErrCourseNotFound)
}
