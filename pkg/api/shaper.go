package api

import (
	"encoding/json"
	"time"

	"github.com/platinummonkey/courserev/pkg/catalog"
)

// CourseResponse is the public form of a course
type CourseResponse struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	URL       string    `json:"url"`
	CreatedAt time.Time `json:"created_at"`
	Reviews   []string  `json:"reviews"`
	Tags      []string  `json:"tags"`
}

// ReviewResponse is the public form of a review
type ReviewResponse struct {
	ID        int64     `json:"id"`
	ForCourse string    `json:"for_course"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	ByUser    string    `json:"by_user"`
	CreatedAt time.Time `json:"created_at"`
	Comments  []string  `json:"comments"`
	UpVotes   int       `json:"up_votes"`
	DownVotes int       `json:"down_votes"`
}

// CommentResponse is the public form of a comment. Only one of Review and
// ParentComment is set.
type CommentResponse struct {
	ID            int64     `json:"id"`
	By            string    `json:"by"`
	Date          time.Time `json:"date"`
	Review        string    `json:"review,omitempty"`
	ParentComment string    `json:"parent_comment,omitempty"`
	Comment       string    `json:"comment"`
	Children      []string  `json:"children"`
	UpVotes       int       `json:"up_votes"`
	DownVotes     int       `json:"down_votes"`
}

// EditResponse is the public form of an edit. Entry is the stored JSON
// document, inlined.
type EditResponse struct {
	ID        int64           `json:"id"`
	EditFor   string          `json:"edit_for"`
	Entry     json.RawMessage `json:"entry"`
	Status    string          `json:"status"`
	CreatedAt time.Time       `json:"created_at"`
	CreatedBy string          `json:"created_by"`
}

// UserResponse is the public form of a user. Email is only shown to the
// user themself.
type UserResponse struct {
	ID             int64    `json:"id"`
	Username       string   `json:"username"`
	Email          string   `json:"email,omitempty"`
	ReviewsWritten []string `json:"reviews_written"`
	Karma          int64    `json:"karma"`
}

// VoteResponse is the public form of a vote
type VoteResponse struct {
	User     string `json:"user"`
	Target   string `json:"target"`
	Upvote   int    `json:"upvote"`
	Downvote int    `json:"downvote"`
}

// TokenResponse is returned by GET /users/token
type TokenResponse struct {
	Token     string `json:"token"`
	ExpiresIn int64  `json:"expires_in"`
}

// Shaper turns catalog rows into response documents
type Shaper struct {
	links *Linker
}

// NewShaper creates a Shaper resolving URLs with links
func NewShaper(links *Linker) *Shaper {
	return &Shaper{links: links}
}

// Course shapes a course
func (s *Shaper) Course(c *catalog.CourseDetail) *CourseResponse {
	tags := c.Tags
	if tags == nil {
		tags = []string{}
	}
	return &CourseResponse{
		ID:        c.ID,
		Title:     c.Title,
		URL:       c.URL,
		CreatedAt: c.CreatedAt,
		Reviews:   s.links.items(RouteReview, c.ReviewIDs),
		Tags:      tags,
	}
}

// Review shapes a review
func (s *Shaper) Review(r *catalog.ReviewDetail) *ReviewResponse {
	up, down := catalog.Tally(r.Votes)
	return &ReviewResponse{
		ID:        r.ID,
		ForCourse: s.links.Course(r.CourseID),
		Rating:    r.Rating,
		Comment:   r.Comment,
		ByUser:    s.links.User(r.CreatedBy),
		CreatedAt: r.CreatedAt,
		Comments:  s.links.items(RouteComment, r.CommentIDs),
		UpVotes:   up,
		DownVotes: down,
	}
}

// Comment shapes a comment
func (s *Shaper) Comment(c *catalog.CommentDetail) *CommentResponse {
	up, down := catalog.Tally(c.Votes)
	resp := &CommentResponse{
		ID:        c.ID,
		By:        s.links.User(c.CreatedBy),
		Date:      c.CreatedAt,
		Comment:   c.Body,
		Children:  s.links.items(RouteComment, c.ChildIDs),
		UpVotes:   up,
		DownVotes: down,
	}
	if c.ReviewID != nil {
		resp.Review = s.links.Review(*c.ReviewID)
	}
	if c.ParentID != nil {
		resp.ParentComment = s.links.Comment(*c.ParentID)
	}
	return resp
}

// Edit shapes an edit
func (s *Shaper) Edit(e *catalog.Edit) *EditResponse {
	resp := &EditResponse{
		ID:        e.ID,
		Entry:     rawEntry(e.Entry),
		Status:    string(e.Status),
		CreatedAt: e.CreatedAt,
		CreatedBy: s.links.User(e.CreatedBy),
	}
	switch {
	case e.CourseID != nil:
		resp.EditFor = s.links.Course(*e.CourseID)
	case e.ReviewID != nil:
		resp.EditFor = s.links.Review(*e.ReviewID)
	}
	return resp
}

// rawEntry inlines a stored entry, quoting it when it is not JSON
func rawEntry(entry string) json.RawMessage {
	if json.Valid([]byte(entry)) {
		return json.RawMessage(entry)
	}
	quoted, _ := json.Marshal(entry)
	return quoted
}

// User shapes a user as seen by viewerID. A viewerID of 0 is anonymous.
func (s *Shaper) User(u *catalog.UserDetail, viewerID int64) *UserResponse {
	resp := &UserResponse{
		ID:             u.ID,
		Username:       u.Username,
		ReviewsWritten: s.links.items(RouteReview, u.ReviewIDs),
		Karma:          u.Karma,
	}
	if viewerID != 0 && viewerID == u.ID {
		resp.Email = u.Email
	}
	return resp
}

// Vote shapes a vote
func (s *Shaper) Vote(v *catalog.Vote) *VoteResponse {
	return &VoteResponse{
		User:     s.links.User(v.UserID),
		Target:   s.links.Target(v.Target()),
		Upvote:   v.Upvote,
		Downvote: v.Downvote,
	}
}
