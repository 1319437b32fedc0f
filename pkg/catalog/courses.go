package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

const courseColumns = `id, title, url, created_at`

func scanCourse(row interface{ Scan(...any) error }) (*Course, error) {
	c := &Course{}
	if err := row.Scan(&c.ID, &c.Title, &c.URL, &c.CreatedAt); err != nil {
		return nil, err
	}
	return c, nil
}

// ListCourses lists every course with its reviews and tags
func (s *SQLService) ListCourses(ctx context.Context) ([]*CourseDetail, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+courseColumns+` FROM courses ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list courses: %w", err)
	}
	var courses []*Course
	for rows.Next() {
		c, err := scanCourse(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan course: %w", err)
		}
		courses = append(courses, c)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list courses: %w", err)
	}

	details := make([]*CourseDetail, 0, len(courses))
	for _, c := range courses {
		d, err := s.courseDetail(ctx, c)
		if err != nil {
			return nil, err
		}
		details = append(details, d)
	}
	return details, nil
}

// GetCourse retrieves a course by ID
func (s *SQLService) GetCourse(ctx context.Context, id int64) (*CourseDetail, error) {
	c, err := scanCourse(s.db.QueryRowContext(ctx,
		`SELECT `+courseColumns+` FROM courses WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("course", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get course: %w", err)
	}
	return s.courseDetail(ctx, c)
}

// FindCourseByURL retrieves a course by its unique URL
func (s *SQLService) FindCourseByURL(ctx context.Context, url string) (*Course, error) {
	c, err := scanCourse(s.db.QueryRowContext(ctx,
		`SELECT `+courseColumns+` FROM courses WHERE url = $1`, url))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: course with url %q", ErrNotFound, url)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get course: %w", err)
	}
	return c, nil
}

// CreateCourse creates a course. A course with the same URL is reported as
// a *ConflictError carrying the existing id.
func (s *SQLService) CreateCourse(ctx context.Context, title, url string) (*CourseDetail, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, invalid("course title is required")
	}
	if err := ValidateCourseURL(url); err != nil {
		return nil, err
	}

	if id, err := s.courseIDByURL(ctx, url, 0); err != nil {
		return nil, err
	} else if id != 0 {
		return nil, &ConflictError{Resource: "course", ExistingID: id}
	}

	c := &Course{Title: title, URL: url, CreatedAt: time.Now().UTC()}
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO courses (title, url, created_at)
		VALUES ($1, $2, $3)
		RETURNING id
	`, c.Title, c.URL, c.CreatedAt).Scan(&c.ID)
	if err != nil {
		return nil, s.writeErr("failed to create course", err)
	}

	return &CourseDetail{Course: *c, ReviewIDs: []int64{}, Tags: []string{}}, nil
}

// UpdateCourse replaces a course's title and URL
func (s *SQLService) UpdateCourse(ctx context.Context, id int64, title, url string) (*CourseDetail, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, invalid("course title is required")
	}
	if err := ValidateCourseURL(url); err != nil {
		return nil, err
	}

	found, err := exists(ctx, s.db, "courses", id)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, notFound("course", id)
	}

	if other, err := s.courseIDByURL(ctx, url, id); err != nil {
		return nil, err
	} else if other != 0 {
		return nil, &ConflictError{Resource: "course", ExistingID: other}
	}

	_, err = s.db.ExecContext(ctx,
		`UPDATE courses SET title = $1, url = $2 WHERE id = $3`, title, url, id)
	if err != nil {
		return nil, s.writeErr("failed to update course", err)
	}

	return s.GetCourse(ctx, id)
}

// DeleteCourse deletes a course. Its reviews, edits and tag links go with it.
func (s *SQLService) DeleteCourse(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM courses WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete course: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete course: %w", err)
	}
	if n == 0 {
		return notFound("course", id)
	}
	return nil
}

// courseIDByURL returns the id of the course using url other than exclude,
// or zero when there is none
func (s *SQLService) courseIDByURL(ctx context.Context, url string, exclude int64) (int64, error) {
	var id int64
	err := s.db.QueryRowContext(ctx,
		`SELECT id FROM courses WHERE url = $1 AND id <> $2`, url, exclude).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to check course url: %w", err)
	}
	return id, nil
}

func (s *SQLService) courseDetail(ctx context.Context, c *Course) (*CourseDetail, error) {
	reviewIDs, err := collectIDs(ctx, s.db,
		`SELECT id FROM reviews WHERE course_id = $1 ORDER BY id`, c.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews for course %d: %w", c.ID, err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT t.tag FROM tags t
		JOIN tag_links l ON l.tag_id = t.id
		WHERE l.course_id = $1
		ORDER BY t.tag
	`, c.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tags for course %d: %w", c.ID, err)
	}
	defer rows.Close()

	tags := []string{}
	for rows.Next() {
		var tag string
		if err := rows.Scan(&tag); err != nil {
			return nil, fmt.Errorf("failed to scan tag: %w", err)
		}
		tags = append(tags, tag)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list tags for course %d: %w", c.ID, err)
	}

	return &CourseDetail{Course: *c, ReviewIDs: reviewIDs, Tags: tags}, nil
}
