package api

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// userRequest is the body of POST /users and PUT /users/{id}
type userRequest struct {
	Username       string `json:"username" validate:"required,max=64" help:"username is required"`
	Email          string `json:"email" validate:"required,email,max=254" help:"a valid email is required"`
	Password       string `json:"password" validate:"required,max=72" help:"password is required and must be at most 72 bytes"`
	VerifyPassword string `json:"verify_password" validate:"required,max=72" help:"verify_password is required and must be at most 72 bytes"`
}

// courseRequest is the body of POST /courses and PUT /courses/{id}
type courseRequest struct {
	Title string `json:"title" validate:"required,max=255" help:"title is required"`
	URL   string `json:"url" validate:"required,url" help:"url must be an absolute http(s) URL"`
}

type createReviewRequest struct {
	Course  int64  `json:"course" validate:"required,gt=0" help:"course must be a positive course id"`
	Rating  int    `json:"rating" validate:"required,min=1,max=5" help:"rating must be between 1 and 5"`
	Comment string `json:"comment"`
}

// updateReviewRequest may name the course, but only the one the review
// already belongs to
type updateReviewRequest struct {
	Course  int64  `json:"course" validate:"omitempty,gt=0" help:"course must be a positive course id"`
	Rating  int    `json:"rating" validate:"required,min=1,max=5" help:"rating must be between 1 and 5"`
	Comment string `json:"comment"`
}

type createCommentRequest struct {
	Review        *int64 `json:"review" validate:"required_without=ParentComment,excluded_with=ParentComment,omitempty,gt=0" help:"exactly one of review or parent_comment is required"`
	ParentComment *int64 `json:"parent_comment" validate:"omitempty,gt=0" help:"parent_comment must be a positive comment id"`
	Comment       string `json:"comment" validate:"required" help:"comment text is required"`
}

type updateCommentRequest struct {
	Review        *int64 `json:"review"`
	ParentComment *int64 `json:"parent_comment"`
	Comment       string `json:"comment" validate:"required" help:"comment text is required"`
}

type createEditRequest struct {
	Course *int64 `json:"course" validate:"required_without=Review,excluded_with=Review,omitempty,gt=0" help:"exactly one of course or review is required"`
	Review *int64 `json:"review" validate:"omitempty,gt=0" help:"review must be a positive review id"`
	Entry  string `json:"entry" validate:"required,json" help:"entry must be a JSON document"`
}

type updateEditRequest struct {
	Course *int64 `json:"course"`
	Review *int64 `json:"review"`
	Entry  string `json:"entry" validate:"required,json" help:"entry must be a JSON document"`
}

// tagRequest is the body of POST /tags and POST /addtag
type tagRequest struct {
	Tag    string    `json:"tag" validate:"required,max=64" help:"No tag provided"`
	Course courseRef `json:"course" validate:"required" help:"course must be a course id or url"`
}

// courseRef is a course id, a course resource URL or the course's own URL.
// JSON bodies may send it as a number or a string.
type courseRef string

func (c *courseRef) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*c = courseRef(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("course must be a number or a string: %w", err)
	}
	*c = courseRef(n.String())
	return nil
}

// voteRequest is the body of POST /upvote and POST /downvote
type voteRequest struct {
	URL string `json:"url" validate:"required" help:"url must be a url target for vote in the form of a string"`
}
