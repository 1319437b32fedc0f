package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

const reviewColumns = `id, course_id, created_by, rating, comment, created_at`

func scanReview(row interface{ Scan(...any) error }) (*Review, error) {
	r := &Review{}
	if err := row.Scan(&r.ID, &r.CourseID, &r.CreatedBy, &r.Rating, &r.Comment, &r.CreatedAt); err != nil {
		return nil, err
	}
	return r, nil
}

// ListReviews lists every review with its comments and votes
func (s *SQLService) ListReviews(ctx context.Context) ([]*ReviewDetail, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+reviewColumns+` FROM reviews ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}
	var reviews []*Review
	for rows.Next() {
		r, err := scanReview(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan review: %w", err)
		}
		reviews = append(reviews, r)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}

	details := make([]*ReviewDetail, 0, len(reviews))
	for _, r := range reviews {
		d, err := s.reviewDetail(ctx, r)
		if err != nil {
			return nil, err
		}
		details = append(details, d)
	}
	return details, nil
}

// GetReview retrieves a review by ID
func (s *SQLService) GetReview(ctx context.Context, id int64) (*ReviewDetail, error) {
	r, err := s.getReview(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.reviewDetail(ctx, r)
}

func (s *SQLService) getReview(ctx context.Context, id int64) (*Review, error) {
	r, err := scanReview(s.db.QueryRowContext(ctx,
		`SELECT `+reviewColumns+` FROM reviews WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("review", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get review: %w", err)
	}
	return r, nil
}

// CreateReview records actorID's review of a course. Each user may review
// a course once; a second attempt returns a *ConflictError.
func (s *SQLService) CreateReview(ctx context.Context, actorID int64, in ReviewInput) (*ReviewDetail, error) {
	if err := ValidateRating(in.Rating); err != nil {
		return nil, err
	}

	found, err := exists(ctx, s.db, "courses", in.CourseID)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, invalid("course %d does not exist", in.CourseID)
	}

	var existing int64
	err = s.db.QueryRowContext(ctx,
		`SELECT id FROM reviews WHERE course_id = $1 AND created_by = $2`,
		in.CourseID, actorID).Scan(&existing)
	if err == nil {
		return nil, &ConflictError{Resource: "review", ExistingID: existing}
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("failed to check existing reviews: %w", err)
	}

	r := &Review{
		CourseID:  in.CourseID,
		CreatedBy: actorID,
		Rating:    in.Rating,
		Comment:   in.Comment,
		CreatedAt: time.Now().UTC(),
	}
	err = s.db.QueryRowContext(ctx, `
		INSERT INTO reviews (course_id, created_by, rating, comment, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`, r.CourseID, r.CreatedBy, r.Rating, r.Comment, r.CreatedAt).Scan(&r.ID)
	if err != nil {
		return nil, s.writeErr("failed to create review", err)
	}

	return &ReviewDetail{Review: *r, CommentIDs: []int64{}, Votes: []*Vote{}}, nil
}

// UpdateReview changes the rating and comment of a review. Only the creator
// may update it and the course cannot change.
func (s *SQLService) UpdateReview(ctx context.Context, actorID, id int64, in ReviewInput) (*ReviewDetail, error) {
	if err := ValidateRating(in.Rating); err != nil {
		return nil, err
	}

	r, err := s.getReview(ctx, id)
	if err != nil {
		return nil, err
	}
	if r.CreatedBy != actorID {
		return nil, forbidden("only the creator may update review %d", id)
	}
	if in.CourseID != 0 && in.CourseID != r.CourseID {
		return nil, forbidden("the course of a review cannot be changed")
	}

	_, err = s.db.ExecContext(ctx,
		`UPDATE reviews SET rating = $1, comment = $2 WHERE id = $3`, in.Rating, in.Comment, id)
	if err != nil {
		return nil, fmt.Errorf("failed to update review: %w", err)
	}

	r.Rating = in.Rating
	r.Comment = in.Comment
	return s.reviewDetail(ctx, r)
}

// DeleteReview deletes a review created by actorID
func (s *SQLService) DeleteReview(ctx context.Context, actorID, id int64) error {
	return s.deleteOwned(ctx, "reviews", "review", actorID, id)
}

func (s *SQLService) reviewDetail(ctx context.Context, r *Review) (*ReviewDetail, error) {
	commentIDs, err := collectIDs(ctx, s.db,
		`SELECT id FROM comments WHERE review_id = $1 ORDER BY id`, r.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments for review %d: %w", r.ID, err)
	}
	votes, err := s.votesFor(ctx, VoteTarget{Kind: TargetReview, ID: r.ID})
	if err != nil {
		return nil, err
	}
	return &ReviewDetail{Review: *r, CommentIDs: commentIDs, Votes: votes}, nil
}
