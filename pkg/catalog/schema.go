package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// Dialect captures the differences between supported SQL engines.
// Queries use $n placeholders, which both supported drivers accept.
type Dialect struct {
	// Name is the database/sql driver name
	Name string
	// PrimaryKey is the column definition for auto-incrementing ids
	PrimaryKey string
	// Timestamp is the column type for creation times
	Timestamp string
	// IsUniqueViolation reports whether err came from a unique constraint
	IsUniqueViolation func(error) bool
}

// Statements returns the DDL that creates the schema, in dependency order
func (d Dialect) Statements() []string {
	r := strings.NewReplacer("{{pk}}", d.PrimaryKey, "{{ts}}", d.Timestamp)
	stmts := make([]string, len(schema))
	for i, s := range schema {
		stmts[i] = r.Replace(s)
	}
	return stmts
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id {{pk}},
		username TEXT NOT NULL,
		email TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		created_at {{ts}} NOT NULL
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS users_username_lower ON users (lower(username))`,

	`CREATE TABLE IF NOT EXISTS courses (
		id {{pk}},
		title TEXT NOT NULL,
		url TEXT NOT NULL UNIQUE,
		created_at {{ts}} NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS reviews (
		id {{pk}},
		course_id BIGINT NOT NULL REFERENCES courses (id) ON DELETE CASCADE,
		created_by BIGINT NOT NULL REFERENCES users (id),
		rating INTEGER NOT NULL CHECK (rating BETWEEN 1 AND 5),
		comment TEXT NOT NULL DEFAULT '',
		created_at {{ts}} NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS reviews_course ON reviews (course_id)`,
	`CREATE INDEX IF NOT EXISTS reviews_created_by ON reviews (created_by)`,

	`CREATE TABLE IF NOT EXISTS comments (
		id {{pk}},
		review_id BIGINT REFERENCES reviews (id) ON DELETE CASCADE,
		parent_comment_id BIGINT REFERENCES comments (id) ON DELETE CASCADE,
		created_by BIGINT NOT NULL REFERENCES users (id),
		comment TEXT NOT NULL DEFAULT '',
		created_at {{ts}} NOT NULL,
		CHECK ((review_id IS NULL) <> (parent_comment_id IS NULL))
	)`,
	`CREATE INDEX IF NOT EXISTS comments_review ON comments (review_id)`,
	`CREATE INDEX IF NOT EXISTS comments_parent ON comments (parent_comment_id)`,

	`CREATE TABLE IF NOT EXISTS edits (
		id {{pk}},
		course_id BIGINT REFERENCES courses (id) ON DELETE CASCADE,
		review_id BIGINT REFERENCES reviews (id) ON DELETE CASCADE,
		created_by BIGINT NOT NULL REFERENCES users (id),
		entry TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'pending' CHECK (status IN ('pending', 'approved', 'denied')),
		created_at {{ts}} NOT NULL,
		CHECK ((course_id IS NULL) <> (review_id IS NULL))
	)`,

	`CREATE TABLE IF NOT EXISTS tags (
		id {{pk}},
		tag TEXT NOT NULL UNIQUE,
		alternatives TEXT NOT NULL DEFAULT ''
	)`,

	`CREATE TABLE IF NOT EXISTS tag_links (
		id {{pk}},
		tag_id BIGINT NOT NULL REFERENCES tags (id) ON DELETE CASCADE,
		course_id BIGINT NOT NULL REFERENCES courses (id) ON DELETE CASCADE,
		UNIQUE (tag_id, course_id)
	)`,

	`CREATE TABLE IF NOT EXISTS votes (
		id {{pk}},
		user_id BIGINT NOT NULL REFERENCES users (id),
		review_id BIGINT REFERENCES reviews (id) ON DELETE CASCADE,
		comment_id BIGINT REFERENCES comments (id) ON DELETE CASCADE,
		upvote INTEGER NOT NULL DEFAULT 0 CHECK (upvote IN (0, 1)),
		downvote INTEGER NOT NULL DEFAULT 0 CHECK (downvote IN (0, 1)),
		CHECK (upvote + downvote <= 1),
		CHECK ((review_id IS NULL) <> (comment_id IS NULL))
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS votes_user_review ON votes (user_id, review_id) WHERE review_id IS NOT NULL`,
	`CREATE UNIQUE INDEX IF NOT EXISTS votes_user_comment ON votes (user_id, comment_id) WHERE comment_id IS NOT NULL`,
}

// Migrate creates any missing tables and indexes
func Migrate(ctx context.Context, db *sql.DB, dialect Dialect) error {
	for i, stmt := range dialect.Statements() {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema statement %d: %w", i, err)
		}
	}
	return nil
}
