package api

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/platinummonkey/courserev/pkg/catalog"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateCourse_Success(t *testing.T) {
	svc := &mockService{
		createCourseFunc: func(ctx context.Context, title, url string) (*catalog.CourseDetail, error) {
			assert.Equal(t, "Go", title)
			assert.Equal(t, "https://example.com/go", url)
			return &catalog.CourseDetail{Course: catalog.Course{ID: 7, Title: title, URL: url}}, nil
		},
	}
	env := newTestEnv(t, svc, nil)

	w := env.do("POST", "/api/v1/courses", `{"title":"Go","url":"https://example.com/go"}`, env.token(t, 1))

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, "/api/v1/courses/7", w.Header().Get("Location"))
	body := decodeBody(t, w)
	assert.Equal(t, "Go", body["title"])
	assert.Equal(t, []interface{}{}, body["reviews"])
	assert.Equal(t, 1.0, testutil.ToFloat64(env.metrics.EntitiesCreatedTotal.WithLabelValues("course")))
}

func TestCreateCourse_DuplicateURL(t *testing.T) {
	svc := &mockService{
		createCourseFunc: func(ctx context.Context, title, url string) (*catalog.CourseDetail, error) {
			return nil, &catalog.ConflictError{Resource: "course", ExistingID: 3}
		},
	}
	env := newTestEnv(t, svc, nil)

	w := env.do("POST", "/api/v1/courses", `{"title":"Go","url":"https://example.com/go"}`, env.token(t, 1))

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "/api/v1/courses/3", w.Header().Get("Location"))
	assert.Contains(t, decodeBody(t, w)["error"], "already exists")
}

func TestCreateCourse_Validation(t *testing.T) {
	called := false
	svc := &mockService{
		createCourseFunc: func(ctx context.Context, title, url string) (*catalog.CourseDetail, error) {
			called = true
			return nil, nil
		},
	}
	env := newTestEnv(t, svc, nil)
	token := env.token(t, 1)

	tests := []struct {
		name string
		body string
		want string
	}{
		{"missing title", `{"url":"https://example.com/go"}`, "title is required"},
		{"relative url", `{"title":"Go","url":"/go"}`, "url must be an absolute http(s) URL"},
		{"malformed", `{"title":`, "malformed JSON body"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.do("POST", "/api/v1/courses", tt.body, token)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, tt.want, decodeBody(t, w)["error"])
		})
	}
	assert.False(t, called)
}

func TestCreateCourse_Unauthenticated(t *testing.T) {
	called := false
	svc := &mockService{
		createCourseFunc: func(ctx context.Context, title, url string) (*catalog.CourseDetail, error) {
			called = true
			return nil, nil
		},
	}
	env := newTestEnv(t, svc, nil)

	w := env.do("POST", "/api/v1/courses", `{"title":"Go","url":"https://example.com/go"}`, "")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.NotEmpty(t, w.Header().Get("WWW-Authenticate"))
	assert.False(t, called)
}

func TestGetCourse(t *testing.T) {
	svc := &mockService{
		getCourseFunc: func(ctx context.Context, id int64) (*catalog.CourseDetail, error) {
			if id != 4 {
				return nil, fmt.Errorf("%w: course %d", catalog.ErrNotFound, id)
			}
			return &catalog.CourseDetail{
				Course:    catalog.Course{ID: 4, Title: "Go", URL: "https://example.com/go"},
				ReviewIDs: []int64{1, 2},
				Tags:      []string{"go"},
			}, nil
		},
	}
	env := newTestEnv(t, svc, nil)

	t.Run("found", func(t *testing.T) {
		w := env.do("GET", "/api/v1/courses/4", "", "")
		require.Equal(t, http.StatusOK, w.Code)
		body := decodeBody(t, w)
		assert.Equal(t, []interface{}{"/api/v1/reviews/1", "/api/v1/reviews/2"}, body["reviews"])
		assert.Equal(t, []interface{}{"go"}, body["tags"])
	})

	t.Run("missing id is 404", func(t *testing.T) {
		w := env.do("GET", "/api/v1/courses/99", "", "")
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "course 99 not found", decodeBody(t, w)["error"])
	})
}

func TestListCourses(t *testing.T) {
	svc := &mockService{
		listCoursesFunc: func(ctx context.Context) ([]*catalog.CourseDetail, error) {
			return []*catalog.CourseDetail{
				{Course: catalog.Course{ID: 1, Title: "A"}},
				{Course: catalog.Course{ID: 2, Title: "B"}},
			}, nil
		},
	}
	env := newTestEnv(t, svc, nil)

	w := env.do("GET", "/api/v1/courses", "", "")

	require.Equal(t, http.StatusOK, w.Code)
	courses, ok := decodeBody(t, w)["courses"].([]interface{})
	require.True(t, ok)
	assert.Len(t, courses, 2)
}

func TestDeleteCourse(t *testing.T) {
	var deleted int64
	svc := &mockService{
		deleteCourseFunc: func(ctx context.Context, id int64) error {
			deleted = id
			return nil
		},
	}
	env := newTestEnv(t, svc, nil)

	w := env.do("DELETE", "/api/v1/courses/6", "", env.token(t, 1))

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "/api/v1/courses", w.Header().Get("Location"))
	assert.Equal(t, int64(6), deleted)
}

func TestCreateReview_RatingRange(t *testing.T) {
	calls := 0
	svc := &mockService{
		createReviewFunc: func(ctx context.Context, actorID int64, in catalog.ReviewInput) (*catalog.ReviewDetail, error) {
			calls++
			return &catalog.ReviewDetail{Review: catalog.Review{
				ID: 11, CourseID: in.CourseID, CreatedBy: actorID, Rating: in.Rating, Comment: in.Comment,
			}}, nil
		},
	}
	env := newTestEnv(t, svc, nil)
	token := env.token(t, 2)

	for _, rating := range []int{0, 6, -1} {
		w := env.do("POST", "/api/v1/reviews", fmt.Sprintf(`{"course":1,"rating":%d}`, rating), token)
		assert.Equal(t, http.StatusBadRequest, w.Code, "rating %d", rating)
		assert.Equal(t, "rating must be between 1 and 5", decodeBody(t, w)["error"])
	}
	assert.Equal(t, 0, calls)

	w := env.do("POST", "/api/v1/reviews", `{"course":1,"rating":5,"comment":"great"}`, token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, "/api/v1/reviews/11", w.Header().Get("Location"))
	body := decodeBody(t, w)
	assert.Equal(t, "/api/v1/courses/1", body["for_course"])
	assert.Equal(t, "/api/v1/users/2", body["by_user"])
	assert.Equal(t, "great", body["comment"])
	assert.Equal(t, 1, calls)
}

func TestCreateReview_FormBody(t *testing.T) {
	var got catalog.ReviewInput
	svc := &mockService{
		createReviewFunc: func(ctx context.Context, actorID int64, in catalog.ReviewInput) (*catalog.ReviewDetail, error) {
			got = in
			return &catalog.ReviewDetail{Review: catalog.Review{ID: 1, CourseID: in.CourseID, Rating: in.Rating}}, nil
		},
	}
	env := newTestEnv(t, svc, nil)

	form := url.Values{"course": {"3"}, "rating": {"4"}, "comment": {"solid"}}
	req := httptest.NewRequest("POST", "/api/v1/reviews", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := env.send(req, env.token(t, 2))

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, catalog.ReviewInput{CourseID: 3, Rating: 4, Comment: "solid"}, got)
}

func TestCreateReview_Duplicate(t *testing.T) {
	svc := &mockService{
		createReviewFunc: func(ctx context.Context, actorID int64, in catalog.ReviewInput) (*catalog.ReviewDetail, error) {
			return nil, &catalog.ConflictError{Resource: "review", ExistingID: 8}
		},
	}
	env := newTestEnv(t, svc, nil)

	w := env.do("POST", "/api/v1/reviews", `{"course":1,"rating":3}`, env.token(t, 2))

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "/api/v1/reviews/8", w.Header().Get("Location"))
}

func TestUpdateReview(t *testing.T) {
	svc := &mockService{
		updateReviewFunc: func(ctx context.Context, actorID, id int64, in catalog.ReviewInput) (*catalog.ReviewDetail, error) {
			if actorID != 2 {
				return nil, fmt.Errorf("%w: only the creator may update review %d", catalog.ErrForbidden, id)
			}
			return &catalog.ReviewDetail{Review: catalog.Review{ID: id, CourseID: 1, CreatedBy: actorID, Rating: in.Rating}}, nil
		},
	}
	env := newTestEnv(t, svc, nil)

	t.Run("creator", func(t *testing.T) {
		w := env.do("PUT", "/api/v1/reviews/4", `{"rating":2}`, env.token(t, 2))
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Equal(t, "/api/v1/reviews/4", w.Header().Get("Location"))
		assert.Equal(t, float64(2), decodeBody(t, w)["rating"])
	})

	t.Run("someone else", func(t *testing.T) {
		w := env.do("PUT", "/api/v1/reviews/4", `{"rating":2}`, env.token(t, 3))
		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Equal(t, "only the creator may update review 4", decodeBody(t, w)["error"])
	})

	t.Run("rating out of range", func(t *testing.T) {
		w := env.do("PUT", "/api/v1/reviews/4", `{"rating":9}`, env.token(t, 2))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestDeleteReview_Forbidden(t *testing.T) {
	svc := &mockService{
		deleteReviewFunc: func(ctx context.Context, actorID, id int64) error {
			return fmt.Errorf("%w: only the creator may delete review %d", catalog.ErrForbidden, id)
		},
	}
	env := newTestEnv(t, svc, nil)

	w := env.do("DELETE", "/api/v1/reviews/4", "", env.token(t, 3))

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestCreateComment_ParentRules(t *testing.T) {
	env := newTestEnv(t, &mockService{}, nil)
	token := env.token(t, 2)

	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantField  string
		wantValue  string
	}{
		{"both", `{"review":1,"parent_comment":2,"comment":"x"}`, http.StatusBadRequest, "error", "exactly one of review or parent_comment is required"},
		{"neither", `{"comment":"x"}`, http.StatusBadRequest, "error", "exactly one of review or parent_comment is required"},
		{"empty text", `{"review":1}`, http.StatusBadRequest, "error", "comment text is required"},
		{"thread root", `{"review":1,"comment":"x"}`, http.StatusCreated, "review", "/api/v1/reviews/1"},
		{"reply", `{"parent_comment":2,"comment":"x"}`, http.StatusCreated, "parent_comment", "/api/v1/comments/2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.do("POST", "/api/v1/comments", tt.body, token)
			require.Equal(t, tt.wantStatus, w.Code, w.Body.String())
			assert.Equal(t, tt.wantValue, decodeBody(t, w)[tt.wantField])
		})
	}
}

func TestGetComment_Shape(t *testing.T) {
	parent := int64(3)
	svc := &mockService{
		getCommentFunc: func(ctx context.Context, id int64) (*catalog.CommentDetail, error) {
			return &catalog.CommentDetail{
				Comment:  catalog.Comment{ID: id, ParentID: &parent, CreatedBy: 2, Body: "because"},
				ChildIDs: []int64{9},
				Votes: []*catalog.Vote{
					{UserID: 4, Upvote: 1},
					{UserID: 5, Upvote: 1},
					{UserID: 6, Downvote: 1},
				},
			}, nil
		},
	}
	env := newTestEnv(t, svc, nil)

	w := env.do("GET", "/api/v1/comments/5", "", "")

	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "/api/v1/users/2", body["by"])
	assert.Equal(t, "/api/v1/comments/3", body["parent_comment"])
	assert.NotContains(t, body, "review")
	assert.Equal(t, []interface{}{"/api/v1/comments/9"}, body["children"])
	assert.Equal(t, float64(2), body["up_votes"])
	assert.Equal(t, float64(1), body["down_votes"])
}

func TestUpdateComment_ParentChange(t *testing.T) {
	svc := &mockService{
		updateCommentFunc: func(ctx context.Context, actorID, id int64, in catalog.CommentInput) (*catalog.CommentDetail, error) {
			require.NotNil(t, in.ParentID)
			return nil, fmt.Errorf("%w: only the comment field of a comment may be updated", catalog.ErrForbidden)
		},
	}
	env := newTestEnv(t, svc, nil)

	w := env.do("PUT", "/api/v1/comments/5", `{"parent_comment":7,"comment":"edited"}`, env.token(t, 2))

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestEdits(t *testing.T) {
	env := newTestEnv(t, &mockService{}, nil)
	token := env.token(t, 2)

	t.Run("create", func(t *testing.T) {
		w := env.do("POST", "/api/v1/edits", `{"course":1,"entry":"{\"title\":\"New\"}"}`, token)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		assert.Equal(t, "/api/v1/edits/1", w.Header().Get("Location"))

		body := decodeBody(t, w)
		assert.Equal(t, "/api/v1/courses/1", body["edit_for"])
		assert.Equal(t, "pending", body["status"])
		assert.Equal(t, "/api/v1/users/2", body["created_by"])
		assert.Equal(t, map[string]interface{}{"title": "New"}, body["entry"])
	})

	t.Run("two targets", func(t *testing.T) {
		w := env.do("POST", "/api/v1/edits", `{"course":1,"review":2,"entry":"{}"}`, token)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("entry is not json", func(t *testing.T) {
		w := env.do("POST", "/api/v1/edits", `{"review":2,"entry":"not json"}`, token)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "entry must be a JSON document", decodeBody(t, w)["error"])
	})

	t.Run("delete", func(t *testing.T) {
		w := env.do("DELETE", "/api/v1/edits/1", "", token)
		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Equal(t, "/api/v1/edits", w.Header().Get("Location"))
	})
}

func TestCreateUser(t *testing.T) {
	t.Run("passwords must match", func(t *testing.T) {
		svc := &mockService{
			createUserFunc: func(ctx context.Context, in catalog.NewUser) (*catalog.UserDetail, error) {
				t.Fatal("user should not be created")
				return nil, nil
			},
		}
		env := newTestEnv(t, svc, nil)

		w := env.do("POST", "/api/v1/users",
			`{"username":"ada","email":"ada@example.com","password":"a","verify_password":"b"}`, "")

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "password and verify_password do not match", decodeBody(t, w)["error"])
	})

	t.Run("duplicate is a bad request", func(t *testing.T) {
		svc := &mockService{
			createUserFunc: func(ctx context.Context, in catalog.NewUser) (*catalog.UserDetail, error) {
				return nil, &catalog.ConflictError{Resource: "user", ExistingID: 3}
			},
		}
		env := newTestEnv(t, svc, nil)

		w := env.do("POST", "/api/v1/users",
			`{"username":"ada","email":"ada@example.com","password":"pw","verify_password":"pw"}`, "")

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Empty(t, w.Header().Get("Location"))
	})

	t.Run("invalid email", func(t *testing.T) {
		env := newTestEnv(t, &mockService{}, nil)

		w := env.do("POST", "/api/v1/users",
			`{"username":"ada","email":"nope","password":"pw","verify_password":"pw"}`, "")

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "a valid email is required", decodeBody(t, w)["error"])
	})

	t.Run("created", func(t *testing.T) {
		var env *testEnv
		svc := &mockService{
			createUserFunc: func(ctx context.Context, in catalog.NewUser) (*catalog.UserDetail, error) {
				assert.NotEqual(t, "pw", in.PasswordHash)
				assert.NoError(t, env.hasher.Check(in.PasswordHash, "pw"))
				return &catalog.UserDetail{User: catalog.User{ID: 9, Username: in.Username, Email: in.Email}}, nil
			},
		}
		env = newTestEnv(t, svc, nil)

		w := env.do("POST", "/api/v1/users",
			`{"username":"ada","email":"ada@example.com","password":"pw","verify_password":"pw"}`, "")

		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		assert.Equal(t, "/api/v1/users/9", w.Header().Get("Location"))
		body := decodeBody(t, w)
		assert.Equal(t, "ada@example.com", body["email"])
		assert.NotContains(t, body, "password")
	})
}

func TestUserPassword_TooLong(t *testing.T) {
	svc := &mockService{
		createUserFunc: func(ctx context.Context, in catalog.NewUser) (*catalog.UserDetail, error) {
			t.Fatal("user should not be created")
			return nil, nil
		},
		updateUserFunc: func(ctx context.Context, actorID, id int64, in catalog.UserUpdate) (*catalog.UserDetail, error) {
			t.Fatal("user should not be updated")
			return nil, nil
		},
	}
	env := newTestEnv(t, svc, nil)
	userBody := func(password string) string {
		return fmt.Sprintf(`{"username":"ada","email":"ada@example.com","password":%q,"verify_password":%q}`, password, password)
	}

	tests := []struct {
		name     string
		method   string
		path     string
		token    string
		password string
		wantErr  string
	}{
		{"create 73 bytes", "POST", "/api/v1/users", "", strings.Repeat("p", 73),
			"password is required and must be at most 72 bytes"},
		{"update 73 bytes", "PUT", "/api/v1/users/2", env.token(t, 2), strings.Repeat("p", 73),
			"password is required and must be at most 72 bytes"},
		// 37 two-byte runes pass the length tag but not bcrypt
		{"create multibyte", "POST", "/api/v1/users", "", strings.Repeat("é", 37),
			"password must be at most 72 bytes"},
		{"update multibyte", "PUT", "/api/v1/users/2", env.token(t, 2), strings.Repeat("é", 37),
			"password must be at most 72 bytes"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.do(tt.method, tt.path, userBody(tt.password), tt.token)

			assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
			assert.Equal(t, tt.wantErr, decodeBody(t, w)["error"])
		})
	}
}

func TestGetUser_HidesEmail(t *testing.T) {
	svc := &mockService{
		getUserFunc: func(ctx context.Context, id int64) (*catalog.UserDetail, error) {
			return &catalog.UserDetail{
				User:      catalog.User{ID: id, Username: "ada", Email: "ada@example.com"},
				ReviewIDs: []int64{4},
				Karma:     3,
			}, nil
		},
	}
	env := newTestEnv(t, svc, nil)

	w := env.do("GET", "/api/v1/users/1", "", "")

	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.NotContains(t, body, "email")
	assert.Equal(t, []interface{}{"/api/v1/reviews/4"}, body["reviews_written"])
	assert.Equal(t, float64(3), body["karma"])
}

func TestUpdateUser(t *testing.T) {
	svc := &mockService{
		updateUserFunc: func(ctx context.Context, actorID, id int64, in catalog.UserUpdate) (*catalog.UserDetail, error) {
			if actorID != id {
				return nil, fmt.Errorf("%w: users may only update their own profile", catalog.ErrForbidden)
			}
			return &catalog.UserDetail{User: catalog.User{ID: id, Username: in.Username, Email: in.Email}}, nil
		},
	}
	env := newTestEnv(t, svc, nil)
	body := `{"username":"ada","email":"ada@example.com","password":"pw","verify_password":"pw"}`

	w := env.do("PUT", "/api/v1/users/3", body, env.token(t, 2))
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = env.do("PUT", "/api/v1/users/2", body, env.token(t, 2))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "ada@example.com", decodeBody(t, w)["email"])
}

func TestVotes(t *testing.T) {
	type cast struct {
		actor  int64
		target catalog.VoteTarget
		dir    catalog.Direction
	}
	var got cast
	svc := &mockService{}
	svc.castVoteFunc = func(ctx context.Context, actorID int64, target catalog.VoteTarget, dir catalog.Direction) (*catalog.Vote, error) {
		got = cast{actorID, target, dir}
		if target.ID == 404 {
			return nil, fmt.Errorf("%w: review %d", catalog.ErrNotFound, target.ID)
		}
		return (&mockService{}).CastVote(ctx, actorID, target, dir)
	}
	env := newTestEnv(t, svc, nil)
	token := env.token(t, 2)

	t.Run("upvote review", func(t *testing.T) {
		w := env.do("POST", "/api/v1/upvote", `{"url":"/api/v1/reviews/4"}`, token)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Equal(t, "/api/v1/reviews/4", w.Header().Get("Location"))
		assert.Equal(t, cast{2, catalog.VoteTarget{Kind: catalog.TargetReview, ID: 4}, catalog.Up}, got)

		body := decodeBody(t, w)
		assert.Equal(t, "/api/v1/users/2", body["user"])
		assert.Equal(t, "/api/v1/reviews/4", body["target"])
		assert.Equal(t, float64(1), body["upvote"])
		assert.Equal(t, 1.0, testutil.ToFloat64(env.metrics.VotesCastTotal.WithLabelValues("review", "up")))
	})

	t.Run("downvote comment by absolute url", func(t *testing.T) {
		w := env.do("POST", "/api/v1/downvote", `{"url":"https://courserev.example.com/api/v1/comments/9"}`, token)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Equal(t, cast{2, catalog.VoteTarget{Kind: catalog.TargetComment, ID: 9}, catalog.Down}, got)
		assert.Equal(t, float64(1), decodeBody(t, w)["downvote"])
	})

	t.Run("bad target", func(t *testing.T) {
		for _, u := range []string{"/api/v1/courses/4", "garbage"} {
			w := env.do("POST", "/api/v1/upvote", fmt.Sprintf(`{"url":%q}`, u), token)
			assert.Equal(t, http.StatusBadRequest, w.Code, u)
			assert.Equal(t, "invalid url/uri", decodeBody(t, w)["error"])
		}
	})

	t.Run("missing url", func(t *testing.T) {
		w := env.do("POST", "/api/v1/upvote", `{}`, token)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("unknown target", func(t *testing.T) {
		w := env.do("POST", "/api/v1/upvote", `{"url":"/api/v1/reviews/404"}`, token)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("requires auth", func(t *testing.T) {
		w := env.do("POST", "/api/v1/upvote", `{"url":"/api/v1/reviews/4"}`, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestTags(t *testing.T) {
	var tagged []int64
	svc := &mockService{
		listTagsFunc: func(ctx context.Context) ([]*catalog.Tag, error) {
			return []*catalog.Tag{{ID: 1, Name: "go"}, {ID: 2, Name: "sql"}}, nil
		},
		findCourseByURLFunc: func(ctx context.Context, url string) (*catalog.Course, error) {
			if url == "https://example.com/go" {
				return &catalog.Course{ID: 3, URL: url}, nil
			}
			return nil, fmt.Errorf("%w: course %q", catalog.ErrNotFound, url)
		},
		tagCourseFunc: func(ctx context.Context, tag string, courseID int64) (*catalog.TagLink, error) {
			assert.Equal(t, "Go", tag)
			tagged = append(tagged, courseID)
			return &catalog.TagLink{ID: 1, TagID: 1, CourseID: courseID}, nil
		},
		getCourseFunc: func(ctx context.Context, id int64) (*catalog.CourseDetail, error) {
			return &catalog.CourseDetail{Course: catalog.Course{ID: id}, Tags: []string{"go"}}, nil
		},
	}
	env := newTestEnv(t, svc, nil)
	token := env.token(t, 2)

	t.Run("list", func(t *testing.T) {
		w := env.do("GET", "/api/v1/tags", "", "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, []interface{}{"go", "sql"}, decodeBody(t, w)["tags"])
	})

	t.Run("course references", func(t *testing.T) {
		tagged = nil
		w := env.do("POST", "/api/v1/tags", `{"tag":"Go","course":"https://example.com/go"}`, token)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Equal(t, "/api/v1/courses/3", w.Header().Get("Location"))
		assert.Equal(t, []interface{}{"go"}, decodeBody(t, w)["tags"])

		w = env.do("POST", "/api/v1/addtag", `{"tag":"Go","course":"/api/v1/courses/5"}`, token)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		w = env.do("POST", "/api/v1/addtag", `{"tag":"Go","course":6}`, token)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		assert.Equal(t, []int64{3, 5, 6}, tagged)
	})

	t.Run("unknown course url", func(t *testing.T) {
		w := env.do("POST", "/api/v1/tags", `{"tag":"Go","course":"https://nowhere.example/x"}`, token)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("missing tag", func(t *testing.T) {
		w := env.do("POST", "/api/v1/tags", `{"course":3}`, token)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "No tag provided", decodeBody(t, w)["error"])
	})
}
