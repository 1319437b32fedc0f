package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// ListTags lists every tag ordered by label
func (s *SQLService) ListTags(ctx context.Context) ([]*Tag, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, tag, alternatives FROM tags ORDER BY tag`)
	if err != nil {
		return nil, fmt.Errorf("failed to list tags: %w", err)
	}
	defer rows.Close()

	tags := []*Tag{}
	for rows.Next() {
		t := &Tag{}
		if err := rows.Scan(&t.ID, &t.Name, &t.Alternatives); err != nil {
			return nil, fmt.Errorf("failed to scan tag: %w", err)
		}
		tags = append(tags, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list tags: %w", err)
	}
	return tags, nil
}

// TagCourse links a tag to a course, creating the tag if it is new.
// Linking an already linked pair returns the existing link.
func (s *SQLService) TagCourse(ctx context.Context, tag string, courseID int64) (*TagLink, error) {
	name := NormalizeTag(tag)
	if name == "" {
		return nil, invalid("tag is required")
	}

	link := &TagLink{CourseID: courseID}
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		found, err := exists(ctx, tx, "courses", courseID)
		if err != nil {
			return err
		}
		if !found {
			return notFound("course", courseID)
		}

		err = tx.QueryRowContext(ctx, `SELECT id FROM tags WHERE tag = $1`, name).Scan(&link.TagID)
		if errors.Is(err, sql.ErrNoRows) {
			err = tx.QueryRowContext(ctx,
				`INSERT INTO tags (tag, alternatives) VALUES ($1, $2) RETURNING id`,
				name, "").Scan(&link.TagID)
			if err != nil {
				return s.writeErr("failed to create tag", err)
			}
		} else if err != nil {
			return fmt.Errorf("failed to get tag: %w", err)
		}

		err = tx.QueryRowContext(ctx,
			`SELECT id FROM tag_links WHERE tag_id = $1 AND course_id = $2`,
			link.TagID, courseID).Scan(&link.ID)
		if err == nil {
			return nil
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("failed to get tag link: %w", err)
		}
		err = tx.QueryRowContext(ctx,
			`INSERT INTO tag_links (tag_id, course_id) VALUES ($1, $2) RETURNING id`,
			link.TagID, courseID).Scan(&link.ID)
		if err != nil {
			return s.writeErr("failed to link tag", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return link, nil
}
