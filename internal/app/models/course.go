package models

import (
	"time"
)

// Course defines the course model based on the 'courses' table.
// Enrolled is maintained exclusively by the enrollment counter synchronizer;
// no other write path may touch it.
type Course struct {
	ID          int64        `json:"id" db:"id" example:"1"`
	Code        string       `json:"code" db:"code" example:"CS101"` // Unique human-readable code
	Name        string       `json:"name" db:"name" example:"Introduction to Computer Science"`
	Description *string      `json:"description,omitempty" db:"description"` // Nullable
	Credits     int          `json:"credits" db:"credits" example:"4"`
	Teacher     string       `json:"teacher" db:"teacher" example:"Prof. Aydin"`
	Capacity    int          `json:"capacity" db:"capacity" example:"60"`
	Enrolled    int          `json:"enrolled" db:"enrolled" example:"42"`
	Status      CourseStatus `json:"status" db:"status" example:"PUBLISHED"`
	CreatedAt   time.Time    `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time    `json:"updatedAt" db:"updated_at"`

	// Relations (populated when needed)
	Schedules     []CourseSchedule     `json:"schedules,omitempty"`
	Prerequisites []CoursePrerequisite `json:"prerequisites,omitempty"`
}

// HasAvailableSeat reports whether at least one seat remains.
func (c *Course) HasAvailableSeat() bool {
	return c.Enrolled < c.Capacity
}

// CourseSchedule defines one weekly meeting slot of a course,
// based on the 'course_schedules' table.
type CourseSchedule struct {
	ID        int64  `json:"id" db:"id"`
	CourseID  int64  `json:"courseId" db:"course_id"`
	DayOfWeek int    `json:"dayOfWeek" db:"day_of_week" example:"1"` // 1=Monday .. 7=Sunday
	StartTime string `json:"startTime" db:"start_time" example:"09:00"`
	EndTime   string `json:"endTime" db:"end_time" example:"10:50"`
	Location  string `json:"location" db:"location" example:"B-204"`
	Weeks     []int  `json:"weeks,omitempty" db:"weeks"` // Active week numbers within the term
}

// CoursePrerequisite defines a prerequisite edge between two courses,
// based on the 'course_prerequisites' table. The (course, prerequisite)
// pair is unique; cycles are not detected.
type CoursePrerequisite struct {
	ID                   int64 `json:"id" db:"id"`
	CourseID             int64 `json:"courseId" db:"course_id"`
	PrerequisiteCourseID int64 `json:"prerequisiteCourseId" db:"prerequisite_course_id"`

	// Relation (populated when needed)
	PrerequisiteCourse *Course `json:"prerequisiteCourse,omitempty"`
}

// CourseFilter holds the optional predicates for course listing queries.
type CourseFilter struct {
	Search     *string       // Substring over code, name, description, teacher
	Teacher    *string       // Substring over teacher
	Status     *CourseStatus // Defaults to PUBLISHED when nil
	MinCredits *int
	MaxCredits *int
}
