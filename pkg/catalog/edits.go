package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

const editColumns = `id, course_id, review_id, created_by, entry, status, created_at`

func scanEdit(row interface{ Scan(...any) error }) (*Edit, error) {
	e := &Edit{}
	var courseID, reviewID sql.NullInt64
	if err := row.Scan(&e.ID, &courseID, &reviewID, &e.CreatedBy, &e.Entry, &e.Status, &e.CreatedAt); err != nil {
		return nil, err
	}
	e.CourseID = nullableID(courseID)
	e.ReviewID = nullableID(reviewID)
	return e, nil
}

// ListEdits lists every edit in id order
func (s *SQLService) ListEdits(ctx context.Context) ([]*Edit, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+editColumns+` FROM edits ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list edits: %w", err)
	}
	defer rows.Close()

	edits := []*Edit{}
	for rows.Next() {
		e, err := scanEdit(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan edit: %w", err)
		}
		edits = append(edits, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list edits: %w", err)
	}
	return edits, nil
}

// GetEdit retrieves an edit by ID
func (s *SQLService) GetEdit(ctx context.Context, id int64) (*Edit, error) {
	e, err := scanEdit(s.db.QueryRowContext(ctx,
		`SELECT `+editColumns+` FROM edits WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("edit", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get edit: %w", err)
	}
	return e, nil
}

// CreateEdit proposes a change to a course or a review. New edits are pending.
func (s *SQLService) CreateEdit(ctx context.Context, actorID int64, in EditInput) (*Edit, error) {
	if err := ValidateEditTarget(in.CourseID, in.ReviewID); err != nil {
		return nil, err
	}
	if err := ValidateEditEntry(in.Entry); err != nil {
		return nil, err
	}

	table, resource, id := "courses", "course", in.CourseID
	if in.ReviewID != nil {
		table, resource, id = "reviews", "review", in.ReviewID
	}
	found, err := exists(ctx, s.db, table, *id)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, invalid("%s %d does not exist", resource, *id)
	}

	e := &Edit{
		CourseID:  in.CourseID,
		ReviewID:  in.ReviewID,
		CreatedBy: actorID,
		Entry:     in.Entry,
		Status:    EditPending,
		CreatedAt: time.Now().UTC(),
	}
	err = s.db.QueryRowContext(ctx, `
		INSERT INTO edits (course_id, review_id, created_by, entry, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`, e.CourseID, e.ReviewID, e.CreatedBy, e.Entry, e.Status, e.CreatedAt).Scan(&e.ID)
	if err != nil {
		return nil, s.writeErr("failed to create edit", err)
	}
	return e, nil
}

// UpdateEdit replaces the entry of an edit and returns it to pending.
// Only the creator may update it and the target cannot change.
func (s *SQLService) UpdateEdit(ctx context.Context, actorID, id int64, in EditInput) (*Edit, error) {
	if err := ValidateEditEntry(in.Entry); err != nil {
		return nil, err
	}

	e, err := s.GetEdit(ctx, id)
	if err != nil {
		return nil, err
	}
	if e.CreatedBy != actorID {
		return nil, forbidden("only the creator may update edit %d", id)
	}
	if (in.CourseID != nil && !sameRef(in.CourseID, e.CourseID)) ||
		(in.ReviewID != nil && !sameRef(in.ReviewID, e.ReviewID)) {
		return nil, forbidden("the target of an edit cannot be changed")
	}

	_, err = s.db.ExecContext(ctx,
		`UPDATE edits SET entry = $1, status = $2 WHERE id = $3`, in.Entry, EditPending, id)
	if err != nil {
		return nil, fmt.Errorf("failed to update edit: %w", err)
	}

	e.Entry = in.Entry
	e.Status = EditPending
	return e, nil
}

// DeleteEdit deletes an edit created by actorID
func (s *SQLService) DeleteEdit(ctx context.Context, actorID, id int64) error {
	return s.deleteOwned(ctx, "edits", "edit", actorID, id)
}
