// Package services holds the business logic of the course-selection engine.
//
// Services defined in this package:
//   - CourseService: course registry CRUD, batch operations, listing
//   - SelectionService: the selection state machine and its enrollment
//     counter bookkeeping
//
// All writes that span more than one row go through the store's transaction
// scope; callers are assumed to be authenticated and authorized before any
// method here is invoked.
package services
