package repositories

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ozgur/courseselect/internal/app/models"
)

func strFilter(s string) *string { return &s }

func TestApplyCourseFilterDefaultsToPublished(t *testing.T) {
	builder := psql.Select("id").From("courses")

	sql, args, err := applyCourseFilter(builder, models.CourseFilter{}).ToSql()
	require.NoError(t, err)
	assert.Contains(t, sql, "status = $1")
	assert.Equal(t, []interface{}{string(models.CourseStatusPublished)}, args)
}

func TestApplyCourseFilterSearch(t *testing.T) {
	builder := psql.Select("id").From("courses")
	filter := models.CourseFilter{Search: strFilter("algo")}

	sql, args, err := applyCourseFilter(builder, filter).ToSql()
	require.NoError(t, err)
	assert.Contains(t, sql, "code ILIKE")
	assert.Contains(t, sql, "name ILIKE")
	assert.Contains(t, sql, "description ILIKE")
	assert.Contains(t, sql, "teacher ILIKE")
	assert.Contains(t, args, "%algo%")
}

func TestApplyCourseFilterCreditRange(t *testing.T) {
	min, max := 3, 6
	status := models.CourseStatusDraft
	builder := psql.Select("id").From("courses")
	filter := models.CourseFilter{Status: &status, MinCredits: &min, MaxCredits: &max}

	sql, args, err := applyCourseFilter(builder, filter).ToSql()
	require.NoError(t, err)
	assert.Contains(t, sql, "credits >= $2")
	assert.Contains(t, sql, "credits <= $3")
	assert.Equal(t, []interface{}{string(models.CourseStatusDraft), 3, 6}, args)
}

func TestApplySelectionFilterPrefix(t *testing.T) {
	userID := int64(7)
	status := models.SelectionStatusPending
	filter := models.SelectionFilter{UserID: &userID, Status: &status}

	// Joined listing qualifies the selection columns
	builder := psql.Select("s.id").From("selections s").Join("courses c ON c.id = s.course_id")
	sql, args, err := applySelectionFilter(builder, filter, "s.").ToSql()
	require.NoError(t, err)
	assert.Contains(t, sql, "s.user_id = $1")
	assert.Contains(t, sql, "s.status = $2")
	assert.Equal(t, []interface{}{int64(7), string(models.SelectionStatusPending)}, args)

	// Plain count leaves them unqualified
	builder = psql.Select("COUNT(*)").From("selections")
	sql, _, err = applySelectionFilter(builder, filter, "").ToSql()
	require.NoError(t, err)
	assert.Contains(t, sql, "user_id = $1")
	assert.NotContains(t, sql, "s.user_id")
}

func TestResolveSortColumn(t *testing.T) {
	assert.Equal(t, "created_at", resolveSortColumn(courseSortColumns, "createdAt", defaultCourseSort))
	assert.Equal(t, "enrolled", resolveSortColumn(courseSortColumns, "enrolled", defaultCourseSort))

	// Unknown keys fall back instead of reaching the query
	assert.Equal(t, defaultCourseSort, resolveSortColumn(courseSortColumns, "password", defaultCourseSort))
	assert.Equal(t, defaultSelectionSort, resolveSortColumn(selectionSortColumns, "", defaultSelectionSort))
}
