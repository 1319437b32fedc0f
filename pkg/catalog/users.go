package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

const userColumns = `id, username, email, password_hash, created_at`

func scanUser(row interface{ Scan(...any) error }) (*User, error) {
	u := &User{}
	if err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.CreatedAt); err != nil {
		return nil, err
	}
	return u, nil
}

// CreateUser registers a user. Usernames are unique regardless of case and
// emails are stored lowercased.
func (s *SQLService) CreateUser(ctx context.Context, in NewUser) (*UserDetail, error) {
	username := strings.TrimSpace(in.Username)
	email := NormalizeEmail(in.Email)
	if username == "" || email == "" || in.PasswordHash == "" {
		return nil, invalid("username, email and password are required")
	}

	var existing int64
	err := s.db.QueryRowContext(ctx,
		`SELECT id FROM users WHERE lower(username) = lower($1) OR email = $2 LIMIT 1`,
		username, email).Scan(&existing)
	if err == nil {
		return nil, &ConflictError{Resource: "user", ExistingID: existing}
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("failed to check existing users: %w", err)
	}

	u := &User{
		Username:     username,
		Email:        email,
		PasswordHash: in.PasswordHash,
		CreatedAt:    time.Now().UTC(),
	}
	err = s.db.QueryRowContext(ctx, `
		INSERT INTO users (username, email, password_hash, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, u.Username, u.Email, u.PasswordHash, u.CreatedAt).Scan(&u.ID)
	if err != nil {
		return nil, s.writeErr("failed to create user", err)
	}

	return &UserDetail{User: *u, ReviewIDs: []int64{}}, nil
}

// GetUser retrieves a user with their review ids and karma
func (s *SQLService) GetUser(ctx context.Context, id int64) (*UserDetail, error) {
	u, err := scanUser(s.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("user", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return s.userDetail(ctx, u)
}

// GetUserByUsername looks a user up by username, ignoring case
func (s *SQLService) GetUserByUsername(ctx context.Context, username string) (*User, error) {
	u, err := scanUser(s.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE lower(username) = lower($1)`, username))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: user %q", ErrNotFound, username)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return u, nil
}

// ListUsers lists every user in id order
func (s *SQLService) ListUsers(ctx context.Context) ([]*UserDetail, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+userColumns+` FROM users ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	var users []*User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, u)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	details := make([]*UserDetail, 0, len(users))
	for _, u := range users {
		d, err := s.userDetail(ctx, u)
		if err != nil {
			return nil, err
		}
		details = append(details, d)
	}
	return details, nil
}

// UpdateUser replaces a user's profile. Users may only update themselves.
func (s *SQLService) UpdateUser(ctx context.Context, actorID, id int64, in UserUpdate) (*UserDetail, error) {
	username := strings.TrimSpace(in.Username)
	email := NormalizeEmail(in.Email)
	if username == "" || email == "" || in.PasswordHash == "" {
		return nil, invalid("username, email and password are required")
	}

	found, err := exists(ctx, s.db, "users", id)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, notFound("user", id)
	}
	if actorID != id {
		return nil, forbidden("users may only update their own profile")
	}

	var existing int64
	err = s.db.QueryRowContext(ctx,
		`SELECT id FROM users WHERE (lower(username) = lower($1) OR email = $2) AND id <> $3 LIMIT 1`,
		username, email, id).Scan(&existing)
	if err == nil {
		return nil, &ConflictError{Resource: "user", ExistingID: existing}
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("failed to check existing users: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`UPDATE users SET username = $1, email = $2, password_hash = $3 WHERE id = $4`,
		username, email, in.PasswordHash, id)
	if err != nil {
		return nil, s.writeErr("failed to update user", err)
	}

	return s.GetUser(ctx, id)
}

func (s *SQLService) userDetail(ctx context.Context, u *User) (*UserDetail, error) {
	reviewIDs, err := collectIDs(ctx, s.db,
		`SELECT id FROM reviews WHERE created_by = $1 ORDER BY id`, u.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews for user %d: %w", u.ID, err)
	}
	karma, err := s.karma(ctx, u.ID)
	if err != nil {
		return nil, err
	}
	return &UserDetail{User: *u, ReviewIDs: reviewIDs, Karma: karma}, nil
}

// karma sums net votes over everything the user wrote
func (s *SQLService) karma(ctx context.Context, userID int64) (int64, error) {
	var karma int64
	err := s.db.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(v.upvote - v.downvote), 0)
		FROM votes v
		LEFT JOIN reviews r ON v.review_id = r.id
		LEFT JOIN comments c ON v.comment_id = c.id
		WHERE r.created_by = $1 OR c.created_by = $1
	`, userID).Scan(&karma)
	if err != nil {
		return 0, fmt.Errorf("failed to compute karma for user %d: %w", userID, err)
	}
	return karma, nil
}
