// Package catalog holds the course-review data model and its SQL store.
//
// # Entities
//
// Users write Reviews of Courses. Comments hang off a review (thread root)
// or off another comment (reply). Edits propose changes to a course or a
// review. Tags label courses through TagLinks. Votes are up/down signals
// from one user on one review or comment.
//
// # Store
//
// SQLService implements Service on database/sql and runs unchanged against
// PostgreSQL and SQLite. Dialect supplies the DDL differences and the
// driver-specific unique-violation check:
//
//	svc := catalog.NewSQLService(db, dialect)
//	if err := catalog.Migrate(ctx, db, dialect); err != nil {
//		return err
//	}
//
// # Errors
//
// Failures wrap ErrNotFound, ErrForbidden, ErrInvalid or ErrIntegrity.
// Duplicate rows are reported as *ConflictError, which matches ErrConflict
// and carries the id of the row already present.
package catalog
