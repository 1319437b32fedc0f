package catalog

import (
	"time"
)

// User is a registered account. Karma is derived and never stored.
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// UserDetail is a user with the ids of the reviews they wrote and their karma
type UserDetail struct {
	User
	ReviewIDs []int64 `json:"review_ids"`
	Karma     int64   `json:"karma"`
}

// Course is a reviewable course identified by its unique URL
type Course struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	URL       string    `json:"url"`
	CreatedAt time.Time `json:"created_at"`
}

// CourseDetail is a course with its review ids and tag labels
type CourseDetail struct {
	Course
	ReviewIDs []int64  `json:"review_ids"`
	Tags      []string `json:"tags"`
}

// Review is a user's rating of a course
type Review struct {
	ID        int64     `json:"id"`
	CourseID  int64     `json:"course_id"`
	CreatedBy int64     `json:"created_by"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
}

// ReviewDetail is a review with its root comment ids and the votes cast on it
type ReviewDetail struct {
	Review
	CommentIDs []int64 `json:"comment_ids"`
	Votes      []*Vote `json:"votes"`
}

// Comment is either a thread root on a review or a reply to another comment.
// Exactly one of ReviewID and ParentID is set.
type Comment struct {
	ID        int64     `json:"id"`
	ReviewID  *int64    `json:"review_id,omitempty"`
	ParentID  *int64    `json:"parent_comment_id,omitempty"`
	CreatedBy int64     `json:"created_by"`
	Body      string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
}

// CommentDetail is a comment with the ids of its direct replies and its votes
type CommentDetail struct {
	Comment
	ChildIDs []int64 `json:"child_ids"`
	Votes    []*Vote `json:"votes"`
}

// EditStatus is the moderation state of an edit
type EditStatus string

const (
	EditPending  EditStatus = "pending"
	EditApproved EditStatus = "approved"
	EditDenied   EditStatus = "denied"
)

// Valid reports whether s is a known status
func (s EditStatus) Valid() bool {
	switch s {
	case EditPending, EditApproved, EditDenied:
		return true
	}
	return false
}

// Edit is a proposed change to a course or a review.
// Exactly one of CourseID and ReviewID is set.
type Edit struct {
	ID        int64      `json:"id"`
	CourseID  *int64     `json:"course_id,omitempty"`
	ReviewID  *int64     `json:"review_id,omitempty"`
	CreatedBy int64      `json:"created_by"`
	Entry     string     `json:"entry"`
	Status    EditStatus `json:"status"`
	CreatedAt time.Time  `json:"created_at"`
}

// Tag is a unique lowercase label
type Tag struct {
	ID           int64  `json:"id"`
	Name         string `json:"tag"`
	Alternatives string `json:"alternatives"`
}

// TagLink associates a tag with a course
type TagLink struct {
	ID       int64 `json:"id"`
	TagID    int64 `json:"tag_id"`
	CourseID int64 `json:"course_id"`
}

// TargetKind names the kind of entity a vote applies to
type TargetKind string

const (
	TargetReview  TargetKind = "review"
	TargetComment TargetKind = "comment"
)

// VoteTarget identifies a votable entity
type VoteTarget struct {
	Kind TargetKind
	ID   int64
}

// Direction is the sign of a vote
type Direction int

const (
	Up Direction = iota + 1
	Down
)

func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Down:
		return "down"
	}
	return "unknown"
}

// Flags returns the upvote and downvote column values for d
func (d Direction) Flags() (upvote, downvote int) {
	switch d {
	case Up:
		return 1, 0
	case Down:
		return 0, 1
	}
	return 0, 0
}

// Vote is one user's signal on one review or comment.
// Exactly one of ReviewID and CommentID is set.
type Vote struct {
	ID        int64  `json:"id"`
	UserID    int64  `json:"user_id"`
	ReviewID  *int64 `json:"review_id,omitempty"`
	CommentID *int64 `json:"comment_id,omitempty"`
	Upvote    int    `json:"upvote"`
	Downvote  int    `json:"downvote"`
}

// Target returns the entity the vote applies to
func (v *Vote) Target() VoteTarget {
	if v.ReviewID != nil {
		return VoteTarget{Kind: TargetReview, ID: *v.ReviewID}
	}
	if v.CommentID != nil {
		return VoteTarget{Kind: TargetComment, ID: *v.CommentID}
	}
	return VoteTarget{}
}

// NewUser holds the fields required to register a user
type NewUser struct {
	Username     string
	Email        string
	PasswordHash string
}

// UserUpdate replaces a user's profile fields
type UserUpdate struct {
	Username     string
	Email        string
	PasswordHash string
}

// ReviewInput carries the writable review fields
type ReviewInput struct {
	CourseID int64
	Rating   int
	Comment  string
}

// CommentInput carries the writable comment fields.
// On update only Body may differ from the stored comment.
type CommentInput struct {
	ReviewID *int64
	ParentID *int64
	Body     string
}

// EditInput carries the writable edit fields.
// On update only Entry may differ from the stored edit.
type EditInput struct {
	CourseID *int64
	ReviewID *int64
	Entry    string
}
