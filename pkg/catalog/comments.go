package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

const commentColumns = `id, review_id, parent_comment_id, created_by, comment, created_at`

func scanComment(row interface{ Scan(...any) error }) (*Comment, error) {
	c := &Comment{}
	var reviewID, parentID sql.NullInt64
	if err := row.Scan(&c.ID, &reviewID, &parentID, &c.CreatedBy, &c.Body, &c.CreatedAt); err != nil {
		return nil, err
	}
	c.ReviewID = nullableID(reviewID)
	c.ParentID = nullableID(parentID)
	return c, nil
}

// ListComments lists every comment with its replies and votes
func (s *SQLService) ListComments(ctx context.Context) ([]*CommentDetail, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+commentColumns+` FROM comments ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	var comments []*Comment
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan comment: %w", err)
		}
		comments = append(comments, c)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}

	details := make([]*CommentDetail, 0, len(comments))
	for _, c := range comments {
		d, err := s.commentDetail(ctx, c)
		if err != nil {
			return nil, err
		}
		details = append(details, d)
	}
	return details, nil
}

// GetComment retrieves a comment by ID
func (s *SQLService) GetComment(ctx context.Context, id int64) (*CommentDetail, error) {
	c, err := s.getComment(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.commentDetail(ctx, c)
}

func (s *SQLService) getComment(ctx context.Context, id int64) (*Comment, error) {
	c, err := scanComment(s.db.QueryRowContext(ctx,
		`SELECT `+commentColumns+` FROM comments WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("comment", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get comment: %w", err)
	}
	return c, nil
}

// CreateComment adds a thread root to a review or a reply to a comment
func (s *SQLService) CreateComment(ctx context.Context, actorID int64, in CommentInput) (*CommentDetail, error) {
	body := strings.TrimSpace(in.Body)
	if body == "" {
		return nil, invalid("comment text is required")
	}
	if err := ValidateCommentParent(in.ReviewID, in.ParentID); err != nil {
		return nil, err
	}

	if in.ReviewID != nil {
		found, err := exists(ctx, s.db, "reviews", *in.ReviewID)
		if err != nil {
			return nil, err
		}
		if !found {
			return nil, invalid("review %d does not exist", *in.ReviewID)
		}
	} else if err := s.checkAncestry(ctx, *in.ParentID); err != nil {
		return nil, err
	}

	c := &Comment{
		ReviewID:  in.ReviewID,
		ParentID:  in.ParentID,
		CreatedBy: actorID,
		Body:      body,
		CreatedAt: time.Now().UTC(),
	}
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO comments (review_id, parent_comment_id, created_by, comment, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`, c.ReviewID, c.ParentID, c.CreatedBy, c.Body, c.CreatedAt).Scan(&c.ID)
	if err != nil {
		return nil, s.writeErr("failed to create comment", err)
	}

	return &CommentDetail{Comment: *c, ChildIDs: []int64{}, Votes: []*Vote{}}, nil
}

// UpdateComment changes the text of a comment. Only the creator may update
// it and its parent reference is fixed at creation.
func (s *SQLService) UpdateComment(ctx context.Context, actorID, id int64, in CommentInput) (*CommentDetail, error) {
	body := strings.TrimSpace(in.Body)
	if body == "" {
		return nil, invalid("comment text is required")
	}

	c, err := s.getComment(ctx, id)
	if err != nil {
		return nil, err
	}
	if c.CreatedBy != actorID {
		return nil, forbidden("only the creator may update comment %d", id)
	}
	if (in.ReviewID != nil && !sameRef(in.ReviewID, c.ReviewID)) ||
		(in.ParentID != nil && !sameRef(in.ParentID, c.ParentID)) {
		return nil, forbidden("only the comment field of a comment may be updated")
	}
	_, err = s.db.ExecContext(ctx, `UPDATE comments SET comment = $1 WHERE id = $2`, body, id)
	if err != nil {
		return nil, fmt.Errorf("failed to update comment: %w", err)
	}

	c.Body = body
	return s.commentDetail(ctx, c)
}

// DeleteComment deletes a comment created by actorID, along with its replies
func (s *SQLService) DeleteComment(ctx context.Context, actorID, id int64) error {
	return s.deleteOwned(ctx, "comments", "comment", actorID, id)
}

// checkAncestry walks up from parentID to the thread root. It fails when
// parentID does not exist or when a comment is visited twice. Parents are
// fixed at creation, so only CreateComment walks the chain.
func (s *SQLService) checkAncestry(ctx context.Context, parentID int64) error {
	seen := make(map[int64]bool)
	for cur, first := parentID, true; ; first = false {
		if seen[cur] {
			return invalid("comment thread through %d contains a cycle", cur)
		}
		seen[cur] = true

		var next sql.NullInt64
		err := s.db.QueryRowContext(ctx,
			`SELECT parent_comment_id FROM comments WHERE id = $1`, cur).Scan(&next)
		if errors.Is(err, sql.ErrNoRows) {
			if first {
				return invalid("parent comment %d does not exist", parentID)
			}
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to walk comment thread: %w", err)
		}
		if !next.Valid {
			return nil
		}
		cur = next.Int64
	}
}

func (s *SQLService) commentDetail(ctx context.Context, c *Comment) (*CommentDetail, error) {
	children, err := collectIDs(ctx, s.db,
		`SELECT id FROM comments WHERE parent_comment_id = $1 ORDER BY id`, c.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list replies to comment %d: %w", c.ID, err)
	}
	votes, err := s.votesFor(ctx, VoteTarget{Kind: TargetComment, ID: c.ID})
	if err != nil {
		return nil, err
	}
	return &CommentDetail{Comment: *c, ChildIDs: children, Votes: votes}, nil
}
