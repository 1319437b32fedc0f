package catalog

import (
	"encoding/json"
	"net/url"
	"strings"
)

const (
	MinRating = 1
	MaxRating = 5
)

// ValidateRating checks that a rating lies in [MinRating, MaxRating]
func ValidateRating(rating int) error {
	if rating < MinRating || rating > MaxRating {
		return invalid("rating must be between %d and %d", MinRating, MaxRating)
	}
	return nil
}

// ValidateCourseURL checks that raw is an absolute http or https URL
func ValidateCourseURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return invalid("%q is not a valid course URL", raw)
	}
	return nil
}

// ValidateCommentParent checks that exactly one parent reference is set
func ValidateCommentParent(reviewID, parentID *int64) error {
	switch {
	case reviewID != nil && parentID != nil:
		return invalid("a comment may reference a review or a parent comment, not both")
	case reviewID == nil && parentID == nil:
		return invalid("a comment must reference a review or a parent comment")
	}
	return nil
}

// ValidateEditTarget checks that exactly one edit target is set
func ValidateEditTarget(courseID, reviewID *int64) error {
	switch {
	case courseID != nil && reviewID != nil:
		return invalid("an edit may target a course or a review, not both")
	case courseID == nil && reviewID == nil:
		return invalid("an edit must target a course or a review")
	}
	return nil
}

// ValidateEditEntry checks that entry is a JSON document
func ValidateEditEntry(entry string) error {
	if strings.TrimSpace(entry) == "" {
		return invalid("edit entry is empty")
	}
	if !json.Valid([]byte(entry)) {
		return invalid("edit entry is not valid JSON")
	}
	return nil
}

// ValidateVoteFlags checks that the flags are 0 or 1 and not both set
func ValidateVoteFlags(upvote, downvote int) error {
	if (upvote != 0 && upvote != 1) || (downvote != 0 && downvote != 1) {
		return invalid("vote flags must be 0 or 1")
	}
	if upvote == 1 && downvote == 1 {
		return invalid("a vote cannot be both up and down")
	}
	return nil
}

// ValidateVoteTarget checks the target kind and id
func ValidateVoteTarget(target VoteTarget) error {
	if target.Kind != TargetReview && target.Kind != TargetComment {
		return invalid("cannot vote on %q", target.Kind)
	}
	if target.ID <= 0 {
		return invalid("vote target id must be positive")
	}
	return nil
}

// NormalizeEmail lowercases and trims an email address
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// NormalizeTag lowercases and trims a tag label
func NormalizeTag(tag string) string {
	return strings.ToLower(strings.TrimSpace(tag))
}

func sameRef(a, b *int64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
