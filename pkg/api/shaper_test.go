package api

import (
	"encoding/json"
	"testing"

	"github.com/gorilla/mux"
	"github.com/platinummonkey/courserev/pkg/catalog"
	"github.com/stretchr/testify/assert"
)

func newTestShaper() *Shaper {
	router := mux.NewRouter()
	router.HandleFunc("/courses/{id:[0-9]+}", nil).Name(RouteCourse)
	router.HandleFunc("/reviews/{id:[0-9]+}", nil).Name(RouteReview)
	router.HandleFunc("/comments/{id:[0-9]+}", nil).Name(RouteComment)
	router.HandleFunc("/users/{id:[0-9]+}", nil).Name(RouteUser)
	return NewShaper(NewLinker(router, ""))
}

func TestShaper_Review(t *testing.T) {
	shape := newTestShaper()
	rid := int64(1)

	resp := shape.Review(&catalog.ReviewDetail{
		Review:     catalog.Review{ID: 1, CourseID: 2, CreatedBy: 3, Rating: 4},
		CommentIDs: []int64{5},
		Votes: []*catalog.Vote{
			{UserID: 7, ReviewID: &rid, Upvote: 1},
			{UserID: 8, ReviewID: &rid, Downvote: 1},
			{UserID: 9, ReviewID: &rid, Downvote: 1},
		},
	})

	assert.Equal(t, "/courses/2", resp.ForCourse)
	assert.Equal(t, "/users/3", resp.ByUser)
	assert.Equal(t, []string{"/comments/5"}, resp.Comments)
	assert.Equal(t, 1, resp.UpVotes)
	assert.Equal(t, 2, resp.DownVotes)
}

func TestShaper_UserEmailOnlyForSelf(t *testing.T) {
	shape := newTestShaper()
	user := &catalog.UserDetail{User: catalog.User{ID: 4, Username: "ada", Email: "ada@example.com"}}

	assert.Empty(t, shape.User(user, 0).Email)
	assert.Empty(t, shape.User(user, 5).Email)
	assert.Equal(t, "ada@example.com", shape.User(user, 4).Email)
	assert.Equal(t, []string{}, shape.User(user, 0).ReviewsWritten)
}

func TestShaper_EditEntry(t *testing.T) {
	shape := newTestShaper()
	rid := int64(6)

	resp := shape.Edit(&catalog.Edit{ID: 1, ReviewID: &rid, CreatedBy: 2, Entry: `{"rating": 5}`, Status: catalog.EditPending})
	assert.Equal(t, "/reviews/6", resp.EditFor)
	assert.JSONEq(t, `{"rating": 5}`, string(resp.Entry))

	// rows written before entries were validated still encode
	legacy := shape.Edit(&catalog.Edit{ID: 2, ReviewID: &rid, Entry: "plain text"})
	out, err := json.Marshal(legacy)
	assert.NoError(t, err)
	assert.Contains(t, string(out), `"entry":"plain text"`)
}

func TestShaper_Vote(t *testing.T) {
	shape := newTestShaper()
	cid := int64(3)

	resp := shape.Vote(&catalog.Vote{UserID: 1, CommentID: &cid, Downvote: 1})

	assert.Equal(t, &VoteResponse{User: "/users/1", Target: "/comments/3", Downvote: 1}, resp)
}
