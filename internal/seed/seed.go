package seed

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	appModels "github.com/ozgur/courseselect/internal/app/models"
	"github.com/ozgur/courseselect/internal/app/models/dto"
	appRepos "github.com/ozgur/courseselect/internal/app/repositories"
	appServices "github.com/ozgur/courseselect/internal/app/services"
	"github.com/ozgur/courseselect/internal/pkg/apperrors"
	"github.com/ozgur/courseselect/internal/pkg/events"
)

func strPtr(s string) *string { return &s }

func statusPtr(s appModels.CourseStatus) *appModels.CourseStatus { return &s }

// CreateDefaultData seeds a demo admin, a demo student and a small published
// course catalog. Existing rows are left alone, so the seed is safe to run on
// every startup.
func CreateDefaultData(ctx context.Context, dbPool *pgxpool.Pool, lgr zerolog.Logger) error {
	store := appRepos.NewStore(dbPool)
	courseService := appServices.NewCourseService(store, events.NopPublisher{})

	lgr.Info().Msg("Checking/Creating default data (users and courses)...")
	var finalErr error

	adminID, err := seedUser(ctx, store, &appModels.User{
		Email:     "admin@courseselect.local",
		FirstName: "Demo",
		LastName:  "Admin",
		RoleType:  appModels.RoleAdmin,
		IsActive:  true,
	}, "admin123")
	if err != nil {
		lgr.Error().Err(err).Msg("Error creating demo admin")
		finalErr = errors.Join(finalErr, err)
	}

	if _, err := seedUser(ctx, store, &appModels.User{
		Email:     "student@courseselect.local",
		FirstName: "Demo",
		LastName:  "Student",
		RoleType:  appModels.RoleStudent,
		IsActive:  true,
	}, "student123"); err != nil {
		lgr.Error().Err(err).Msg("Error creating demo student")
		finalErr = errors.Join(finalErr, err)
	}

	courses := []dto.CreateCourseRequest{
		{
			Code:        "CS101",
			Name:        "Introduction to Computer Science",
			Description: strPtr("Foundations of programming and computational thinking."),
			Credits:     4,
			Teacher:     "Prof. Aydin",
			Capacity:    60,
			Status:      statusPtr(appModels.CourseStatusPublished),
			Schedules: []dto.ScheduleInput{
				{DayOfWeek: 1, StartTime: "09:00", EndTime: "10:50", Location: "B-204"},
				{DayOfWeek: 3, StartTime: "13:00", EndTime: "14:50", Location: "B-204"},
			},
		},
		{
			Code:        "CS201",
			Name:        "Data Structures",
			Description: strPtr("Lists, trees, graphs and the algorithms that use them."),
			Credits:     4,
			Teacher:     "Prof. Demir",
			Capacity:    40,
			Status:      statusPtr(appModels.CourseStatusPublished),
			Schedules: []dto.ScheduleInput{
				{DayOfWeek: 2, StartTime: "10:00", EndTime: "11:50", Location: "A-101"},
			},
			Prerequisites: []string{"CS101"},
		},
		{
			Code:     "MATH150",
			Name:     "Calculus I",
			Credits:  5,
			Teacher:  "Prof. Kaya",
			Capacity: 120,
			Status:   statusPtr(appModels.CourseStatusPublished),
			Schedules: []dto.ScheduleInput{
				{DayOfWeek: 1, StartTime: "11:00", EndTime: "12:50", Location: "C-301"},
				{DayOfWeek: 4, StartTime: "11:00", EndTime: "12:50", Location: "C-301"},
			},
		},
	}

	for _, req := range courses {
		if _, err := courseService.CreateCourse(ctx, adminID, req); err != nil {
			if errors.Is(err, apperrors.ErrCourseCodeExists) {
				continue
			}
			lgr.Error().Err(err).Str("code", req.Code).Msg("Error creating demo course")
			finalErr = errors.Join(finalErr, err)
		}
	}

	lgr.Info().Msg("Default data check complete.")
	return finalErr
}

// seedUser creates the user if the email is free and returns its ID either way.
func seedUser(ctx context.Context, store appRepos.Store, user *appModels.User, password string) (int64, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return 0, err
	}
	user.Password = string(hashed)

	if err := store.Users().Create(ctx, user); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			existing, getErr := store.Users().GetByEmail(ctx, user.Email)
			if getErr != nil {
				return 0, getErr
			}
			return existing.ID, nil
		}
		return 0, err
	}

	return user.ID, nil
}
