package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

func targetTable(kind TargetKind) (table, column string) {
	if kind == TargetComment {
		return "comments", "comment_id"
	}
	return "reviews", "review_id"
}

// CastVote records actorID's vote on target. A user holds at most one vote
// per target: recasting rewrites the flags of the existing row.
func (s *SQLService) CastVote(ctx context.Context, actorID int64, target VoteTarget, dir Direction) (*Vote, error) {
	if err := ValidateVoteTarget(target); err != nil {
		return nil, err
	}
	up, down := dir.Flags()
	if up == 0 && down == 0 {
		return nil, invalid("unknown vote direction %d", dir)
	}
	if err := ValidateVoteFlags(up, down); err != nil {
		return nil, err
	}

	table, column := targetTable(target.Kind)
	vote := &Vote{UserID: actorID, Upvote: up, Downvote: down}
	id := target.ID
	if target.Kind == TargetComment {
		vote.CommentID = &id
	} else {
		vote.ReviewID = &id
	}

	err := s.inTx(ctx, func(tx *sql.Tx) error {
		found, err := exists(ctx, tx, table, target.ID)
		if err != nil {
			return err
		}
		if !found {
			return notFound(string(target.Kind), target.ID)
		}

		var curUp, curDown int
		err = tx.QueryRowContext(ctx,
			fmt.Sprintf(`SELECT id, upvote, downvote FROM votes WHERE user_id = $1 AND %s = $2`, column),
			actorID, target.ID).Scan(&vote.ID, &curUp, &curDown)
		if errors.Is(err, sql.ErrNoRows) {
			err = tx.QueryRowContext(ctx, `
				INSERT INTO votes (user_id, review_id, comment_id, upvote, downvote)
				VALUES ($1, $2, $3, $4, $5)
				RETURNING id
			`, actorID, vote.ReviewID, vote.CommentID, up, down).Scan(&vote.ID)
			if err != nil {
				return s.writeErr("failed to cast vote", err)
			}
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to get vote: %w", err)
		}

		if curUp == up && curDown == down {
			return nil
		}
		_, err = tx.ExecContext(ctx,
			`UPDATE votes SET upvote = $1, downvote = $2 WHERE id = $3`, up, down, vote.ID)
		if err != nil {
			return fmt.Errorf("failed to update vote: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return vote, nil
}

// votesFor returns every vote cast on target
func (s *SQLService) votesFor(ctx context.Context, target VoteTarget) ([]*Vote, error) {
	_, column := targetTable(target.Kind)
	rows, err := s.db.QueryContext(ctx,
		fmt.Sprintf(`SELECT id, user_id, review_id, comment_id, upvote, downvote FROM votes WHERE %s = $1 ORDER BY id`, column),
		target.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list votes for %s %d: %w", target.Kind, target.ID, err)
	}
	defer rows.Close()

	votes := []*Vote{}
	for rows.Next() {
		v := &Vote{}
		var reviewID, commentID sql.NullInt64
		if err := rows.Scan(&v.ID, &v.UserID, &reviewID, &commentID, &v.Upvote, &v.Downvote); err != nil {
			return nil, fmt.Errorf("failed to scan vote: %w", err)
		}
		v.ReviewID = nullableID(reviewID)
		v.CommentID = nullableID(commentID)
		votes = append(votes, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list votes for %s %d: %w", target.Kind, target.ID, err)
	}
	return votes, nil
}

// Tally counts the up and down flags over votes
func Tally(votes []*Vote) (up, down int) {
	for _, v := range votes {
		up += v.Upvote
		down += v.Downvote
	}
	return up, down
}
