package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// Service is the persistence surface used by the HTTP handlers.
// Operations that act on behalf of a user take that user's id as actorID.
type Service interface {
	// Users
	CreateUser(ctx context.Context, in NewUser) (*UserDetail, error)
	GetUser(ctx context.Context, id int64) (*UserDetail, error)
	GetUserByUsername(ctx context.Context, username string) (*User, error)
	ListUsers(ctx context.Context) ([]*UserDetail, error)
	UpdateUser(ctx context.Context, actorID, id int64, in UserUpdate) (*UserDetail, error)

	// Courses
	ListCourses(ctx context.Context) ([]*CourseDetail, error)
	GetCourse(ctx context.Context, id int64) (*CourseDetail, error)
	FindCourseByURL(ctx context.Context, url string) (*Course, error)
	CreateCourse(ctx context.Context, title, url string) (*CourseDetail, error)
	UpdateCourse(ctx context.Context, id int64, title, url string) (*CourseDetail, error)
	DeleteCourse(ctx context.Context, id int64) error

	// Reviews
	ListReviews(ctx context.Context) ([]*ReviewDetail, error)
	GetReview(ctx context.Context, id int64) (*ReviewDetail, error)
	CreateReview(ctx context.Context, actorID int64, in ReviewInput) (*ReviewDetail, error)
	UpdateReview(ctx context.Context, actorID, id int64, in ReviewInput) (*ReviewDetail, error)
	DeleteReview(ctx context.Context, actorID, id int64) error

	// Comments
	ListComments(ctx context.Context) ([]*CommentDetail, error)
	GetComment(ctx context.Context, id int64) (*CommentDetail, error)
	CreateComment(ctx context.Context, actorID int64, in CommentInput) (*CommentDetail, error)
	UpdateComment(ctx context.Context, actorID, id int64, in CommentInput) (*CommentDetail, error)
	DeleteComment(ctx context.Context, actorID, id int64) error

	// Edits
	ListEdits(ctx context.Context) ([]*Edit, error)
	GetEdit(ctx context.Context, id int64) (*Edit, error)
	CreateEdit(ctx context.Context, actorID int64, in EditInput) (*Edit, error)
	UpdateEdit(ctx context.Context, actorID, id int64, in EditInput) (*Edit, error)
	DeleteEdit(ctx context.Context, actorID, id int64) error

	// Tags
	ListTags(ctx context.Context) ([]*Tag, error)
	TagCourse(ctx context.Context, tag string, courseID int64) (*TagLink, error)

	// Votes
	CastVote(ctx context.Context, actorID int64, target VoteTarget, dir Direction) (*Vote, error)
}

// querier is satisfied by both *sql.DB and *sql.Tx
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// SQLService implements Service over database/sql
type SQLService struct {
	db      *sql.DB
	dialect Dialect
}

var _ Service = (*SQLService)(nil)

// NewSQLService creates a new SQLService
func NewSQLService(db *sql.DB, dialect Dialect) *SQLService {
	return &SQLService{db: db, dialect: dialect}
}

// inTx runs fn in a transaction, rolling back when fn fails
func (s *SQLService) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// writeErr classifies a failed write
func (s *SQLService) writeErr(op string, err error) error {
	if s.dialect.IsUniqueViolation != nil && s.dialect.IsUniqueViolation(err) {
		return fmt.Errorf("%s: %w: %v", op, ErrIntegrity, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func collectIDs(ctx context.Context, q querier, query string, args ...any) ([]int64, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := []int64{}
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// exists reports whether a row with id is present in table
func exists(ctx context.Context, q querier, table string, id int64) (bool, error) {
	var found int64
	err := q.QueryRowContext(ctx, fmt.Sprintf("SELECT id FROM %s WHERE id = $1", table), id).Scan(&found)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to look up %s %d: %w", table, id, err)
	}
	return true, nil
}

// deleteOwned removes a row created by actorID, telling apart a missing
// row from one owned by somebody else
func (s *SQLService) deleteOwned(ctx context.Context, table, resource string, actorID, id int64) error {
	res, err := s.db.ExecContext(ctx,
		fmt.Sprintf("DELETE FROM %s WHERE id = $1 AND created_by = $2", table), id, actorID)
	if err != nil {
		return fmt.Errorf("failed to delete %s: %w", resource, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete %s: %w", resource, err)
	}
	if n > 0 {
		return nil
	}

	found, err := exists(ctx, s.db, table, id)
	if err != nil {
		return err
	}
	if !found {
		return notFound(resource, id)
	}
	return forbidden("only the creator may delete %s %d", resource, id)
}

func nullableID(v sql.NullInt64) *int64 {
	if !v.Valid {
		return nil
	}
	id := v.Int64
	return &id
}
