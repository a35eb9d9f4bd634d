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

const courseColumns = "id, code, name, description, credits, teacher, capacity, enrolled, status, created_at, updated_at"

// CourseRepository handles database operations for courses, their schedules
// and prerequisite edges.
type CourseRepository struct {
	db DBTX
}

// NewCourseRepository creates a new course repository bound to db.
func NewCourseRepository(db DBTX) *CourseRepository {
	return &CourseRepository{
		db: db,
	}
}

func scanCourse(row pgx.Row) (*models.Course, error) {
	var course models.Course
	err := row.Scan(
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
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrCourseNotFound
		}
		return nil, fmt.Errorf("error scanning course: %w", err)
	}
	return &course, nil
}

// Create inserts a new course row. Enrolled always starts at zero regardless
// of the struct value.
func (r *CourseRepository) Create(ctx context.Context, course *models.Course) error {
	query := `
		INSERT INTO courses (code, name, description, credits, teacher, capacity, enrolled, status)
		VALUES ($1, $2, $3, $4, $5, $6, 0, $7)
		RETURNING id, enrolled, created_at, updated_at
	`

	err := r.db.QueryRow(ctx, query,
		course.Code,
		course.Name,
		course.Description,
		course.Credits,
		course.Teacher,
		course.Capacity,
		course.Status,
	).Scan(&course.ID, &course.Enrolled, &course.CreatedAt, &course.UpdatedAt)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "courses_code_key") {
			return apperrors.ErrCourseCodeExists
		}
		return fmt.Errorf("error creating course: %w", err)
	}

	return nil
}

// GetByID retrieves a course by ID.
func (r *CourseRepository) GetByID(ctx context.Context, id int64) (*models.Course, error) {
	query := fmt.Sprintf("SELECT %s FROM courses WHERE id = $1", courseColumns)
	return scanCourse(r.db.QueryRow(ctx, query, id))
}

// GetByCode retrieves a course by its unique code.
func (r *CourseRepository) GetByCode(ctx context.Context, code string) (*models.Course, error) {
	query := fmt.Sprintf("SELECT %s FROM courses WHERE code = $1", courseColumns)
	return scanCourse(r.db.QueryRow(ctx, query, code))
}

// GetByIDWithRelations retrieves a course along with its schedules and
// prerequisite edges.
func (r *CourseRepository) GetByIDWithRelations(ctx context.Context, id int64) (*models.Course, error) {
	course, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	course.Schedules, err = r.GetSchedules(ctx, id)
	if err != nil {
		return nil, err
	}

	course.Prerequisites, err = r.GetPrerequisites(ctx, id)
	if err != nil {
		return nil, err
	}

	return course, nil
}

// ExistsByCode checks whether another course already uses the code.
// excludeID is ignored when zero.
func (r *CourseRepository) ExistsByCode(ctx context.Context, code string, excludeID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM courses WHERE code = $1 AND id != $2)`,
		code, excludeID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking course code: %w", err)
	}
	return exists, nil
}

// Update writes the mutable course fields. The enrolled counter is
// deliberately absent from the statement; it belongs to the enrollment
// counter synchronizer alone.
func (r *CourseRepository) Update(ctx context.Context, course *models.Course) error {
	query := `
		UPDATE courses
		SET code = $1, name = $2, description = $3, credits = $4, teacher = $5,
		    capacity = $6, status = $7, updated_at = NOW()
		WHERE id = $8
	`

	cmdTag, err := r.db.Exec(ctx, query,
		course.Code,
		course.Name,
		course.Description,
		course.Credits,
		course.Teacher,
		course.Capacity,
		course.Status,
		course.ID,
	)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "courses_code_key") {
			return apperrors.ErrCourseCodeExists
		}
		return fmt.Errorf("error updating course: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrCourseNotFound
	}

	return nil
}

// Delete removes a course and its relation rows. Callers are expected to have
// verified the enrolled counter; the statement is still guarded so a racing
// enrollment cannot slip through between check and delete.
func (r *CourseRepository) Delete(ctx context.Context, id int64) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM course_schedules WHERE course_id = $1`, id); err != nil {
		return fmt.Errorf("error deleting course schedules: %w", err)
	}

	if _, err := r.db.Exec(ctx, `DELETE FROM course_prerequisites WHERE course_id = $1 OR prerequisite_course_id = $1`, id); err != nil {
		return fmt.Errorf("error deleting course prerequisites: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, `DELETE FROM courses WHERE id = $1 AND enrolled = 0`, id)
	if err != nil {
		return fmt.Errorf("error deleting course: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		var exists bool
		if err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM courses WHERE id = $1)`, id).Scan(&exists); err != nil {
			return fmt.Errorf("error checking course existence: %w", err)
		}
		if exists {
			return apperrors.ErrCourseHasEnrollments
		}
		return apperrors.ErrCourseNotFound
	}

	return nil
}

// List retrieves courses matching the filter, sorted and paginated.
func (r *CourseRepository) List(ctx context.Context, filter models.CourseFilter, sortBy string, dir models.SortDirection, page, size int) ([]*models.Course, error) {
	// Clamp here as well: the repository takes raw ints, and an
	// unclamped page would wrap the unsigned offset.
	offset, limit := helpers.CalculateOffsetLimit(page, size)
	column := resolveSortColumn(courseSortColumns, sortBy, defaultCourseSort)

	builder := applyCourseFilter(psql.Select(courseColumns).From("courses"), filter).
		OrderBy(fmt.Sprintf("%s %s", column, dir.Normalize())).
		Limit(uint64(limit)).
		Offset(offset)

	sql, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building course list query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing courses: %w", err)
	}
	defer rows.Close()

	var courses []*models.Course
	for rows.Next() {
		course, err := scanCourse(rows)
		if err != nil {
			return nil, err
		}
		courses = append(courses, course)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return courses, nil
}

// Count returns the number of courses matching the filter.
func (r *CourseRepository) Count(ctx context.Context, filter models.CourseFilter) (int64, error) {
	builder := applyCourseFilter(psql.Select("COUNT(*)").From("courses"), filter)

	sql, args, err := builder.ToSql()
	if err != nil {
		return 0, fmt.Errorf("error building course count query: %w", err)
	}

	var total int64
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("error counting courses: %w", err)
	}

	return total, nil
}

// GetSchedules retrieves the schedule rows of a course ordered by day and time.
func (r *CourseRepository) GetSchedules(ctx context.Context, courseID int64) ([]models.CourseSchedule, error) {
	query := `
		SELECT id, course_id, day_of_week, start_time, end_time, location, weeks
		FROM course_schedules
		WHERE course_id = $1
		ORDER BY day_of_week, start_time
	`

	rows, err := r.db.Query(ctx, query, courseID)
	if err != nil {
		return nil, fmt.Errorf("error retrieving course schedules: %w", err)
	}
	defer rows.Close()

	var schedules []models.CourseSchedule
	for rows.Next() {
		var schedule models.CourseSchedule
		if err := rows.Scan(
			&schedule.ID,
			&schedule.CourseID,
			&schedule.DayOfWeek,
			&schedule.StartTime,
			&schedule.EndTime,
			&schedule.Location,
			&schedule.Weeks,
		); err != nil {
			return nil, fmt.Errorf("error scanning course schedule: %w", err)
		}
		schedules = append(schedules, schedule)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return schedules, nil
}

// GetPrerequisites retrieves the prerequisite edges of a course with the
// prerequisite course attached.
func (r *CourseRepository) GetPrerequisites(ctx context.Context, courseID int64) ([]models.CoursePrerequisite, error) {
	query := fmt.Sprintf(`
		SELECT p.id, p.course_id, p.prerequisite_course_id, %s
		FROM course_prerequisites p
		JOIN courses c ON c.id = p.prerequisite_course_id
		WHERE p.course_id = $1
		ORDER BY p.id
	`, prefixedCourseColumns("c"))

	rows, err := r.db.Query(ctx, query, courseID)
	if err != nil {
		return nil, fmt.Errorf("error retrieving course prerequisites: %w", err)
	}
	defer rows.Close()

	var prerequisites []models.CoursePrerequisite
	for rows.Next() {
		var edge models.CoursePrerequisite
		var course models.Course
		if err := rows.Scan(
			&edge.ID,
			&edge.CourseID,
			&edge.PrerequisiteCourseID,
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
			return nil, fmt.Errorf("error scanning course prerequisite: %w", err)
		}
		edge.PrerequisiteCourse = &course
		prerequisites = append(prerequisites, edge)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return prerequisites, nil
}

// ReplaceSchedules deletes every schedule row of the course and inserts the
// given set. An empty slice clears the schedules.
func (r *CourseRepository) ReplaceSchedules(ctx context.Context, courseID int64, schedules []models.CourseSchedule) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM course_schedules WHERE course_id = $1`, courseID); err != nil {
		return fmt.Errorf("error clearing course schedules: %w", err)
	}

	for i := range schedules {
		schedule := &schedules[i]
		err := r.db.QueryRow(ctx, `
			INSERT INTO course_schedules (course_id, day_of_week, start_time, end_time, location, weeks)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id`,
			courseID,
			schedule.DayOfWeek,
			schedule.StartTime,
			schedule.EndTime,
			schedule.Location,
			schedule.Weeks,
		).Scan(&schedule.ID)
		if err != nil {
			return fmt.Errorf("error inserting course schedule: %w", err)
		}
		schedule.CourseID = courseID
	}

	return nil
}

// ReplacePrerequisites deletes every prerequisite edge of the course and
// inserts edges to the given course IDs. An empty slice clears the edges.
func (r *CourseRepository) ReplacePrerequisites(ctx context.Context, courseID int64, prerequisiteIDs []int64) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM course_prerequisites WHERE course_id = $1`, courseID); err != nil {
		return fmt.Errorf("error clearing course prerequisites: %w", err)
	}

	for _, prerequisiteID := range prerequisiteIDs {
		_, err := r.db.Exec(ctx, `
			INSERT INTO course_prerequisites (course_id, prerequisite_course_id)
			VALUES ($1, $2)`,
			courseID, prerequisiteID,
		)
		if err != nil {
			if dberrors.IsDuplicateConstraintError(err, "course_prerequisites_course_id_prerequisite_course_id_key") {
				return apperrors.NewConflictError("duplicate prerequisite edge")
			}
			return fmt.Errorf("error inserting course prerequisite: %w", err)
		}
	}

	return nil
}

// ResolveCodes maps course codes to IDs, silently skipping codes that do not
// resolve. The result preserves no particular order.
func (r *CourseRepository) ResolveCodes(ctx context.Context, codes []string) ([]int64, error) {
	if len(codes) == 0 {
		return nil, nil
	}

	rows, err := r.db.Query(ctx, `SELECT id FROM courses WHERE code = ANY($1)`, codes)
	if err != nil {
		return nil, fmt.Errorf("error resolving course codes: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("error scanning course id: %w", err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return ids, nil
}

// prefixedCourseColumns qualifies the course column list with a table alias.
func prefixedCourseColumns(alias string) string {
	return fmt.Sprintf("%[1]s.id, %[1]s.code, %[1]s.name, %[1]s.description, %[1]s.credits, %[1]s.teacher, %[1]s.capacity, %[1]s.enrolled, %[1]s.status, %[1]s.created_at, %[1]s.updated_at", alias)
}
