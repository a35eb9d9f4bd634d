package repositories

import (
	"github.com/Masterminds/squirrel"

	"github.com/ozgur/courseselect/internal/app/models"
)

// psql builds queries with PostgreSQL placeholders.
var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// Sort keys accepted from callers, mapped to real columns. Anything not in
// the map falls back to the entity's default ordering.
var courseSortColumns = map[string]string{
	"code":      "code",
	"name":      "name",
	"credits":   "credits",
	"capacity":  "capacity",
	"enrolled":  "enrolled",
	"createdAt": "created_at",
}

var selectionSortColumns = map[string]string{
	"status":     "status",
	"selectedAt": "selected_at",
}

const (
	defaultCourseSort    = "created_at"
	defaultSelectionSort = "selected_at"
)

// resolveSortColumn maps a requested sort key through an allow-list.
func resolveSortColumn(allowed map[string]string, key, fallback string) string {
	if column, ok := allowed[key]; ok {
		return column
	}
	return fallback
}

// applyCourseFilter adds the optional course predicates to a select builder.
// An absent status filter defaults to PUBLISHED: unauthenticated listings must
// not leak draft or cancelled courses.
func applyCourseFilter(builder squirrel.SelectBuilder, filter models.CourseFilter) squirrel.SelectBuilder {
	if filter.Search != nil && *filter.Search != "" {
		pattern := "%" + *filter.Search + "%"
		builder = builder.Where(squirrel.Or{
			squirrel.ILike{"code": pattern},
			squirrel.ILike{"name": pattern},
			squirrel.ILike{"description": pattern},
			squirrel.ILike{"teacher": pattern},
		})
	}
	if filter.Teacher != nil && *filter.Teacher != "" {
		builder = builder.Where(squirrel.ILike{"teacher": "%" + *filter.Teacher + "%"})
	}
	if filter.Status != nil {
		builder = builder.Where(squirrel.Eq{"status": string(*filter.Status)})
	} else {
		builder = builder.Where(squirrel.Eq{"status": string(models.CourseStatusPublished)})
	}
	if filter.MinCredits != nil {
		builder = builder.Where(squirrel.GtOrEq{"credits": *filter.MinCredits})
	}
	if filter.MaxCredits != nil {
		builder = builder.Where(squirrel.LtOrEq{"credits": *filter.MaxCredits})
	}
	return builder
}

// applySelectionFilter adds the optional selection predicates to a select
// builder. prefix qualifies the selection columns ("s." in joined queries,
// empty otherwise).
func applySelectionFilter(builder squirrel.SelectBuilder, filter models.SelectionFilter, prefix string) squirrel.SelectBuilder {
	if filter.UserID != nil {
		builder = builder.Where(squirrel.Eq{prefix + "user_id": *filter.UserID})
	}
	if filter.CourseID != nil {
		builder = builder.Where(squirrel.Eq{prefix + "course_id": *filter.CourseID})
	}
	if filter.Status != nil {
		builder = builder.Where(squirrel.Eq{prefix + "status": string(*filter.Status)})
	}
	if filter.From != nil {
		builder = builder.Where(squirrel.GtOrEq{prefix + "selected_at": *filter.From})
	}
	if filter.To != nil {
		builder = builder.Where(squirrel.LtOrEq{prefix + "selected_at": *filter.To})
	}
	return builder
}
