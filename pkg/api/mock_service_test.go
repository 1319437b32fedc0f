package api

import (
	"context"
	"fmt"

	"github.com/platinummonkey/courserev/pkg/catalog"
)

// mockService is a mock implementation of catalog.Service for testing
type mockService struct {
	createUserFunc        func(ctx context.Context, in catalog.NewUser) (*catalog.UserDetail, error)
	getUserFunc           func(ctx context.Context, id int64) (*catalog.UserDetail, error)
	getUserByUsernameFunc func(ctx context.Context, username string) (*catalog.User, error)
	listUsersFunc         func(ctx context.Context) ([]*catalog.UserDetail, error)
	updateUserFunc        func(ctx context.Context, actorID, id int64, in catalog.UserUpdate) (*catalog.UserDetail, error)

	listCoursesFunc     func(ctx context.Context) ([]*catalog.CourseDetail, error)
	getCourseFunc       func(ctx context.Context, id int64) (*catalog.CourseDetail, error)
	findCourseByURLFunc func(ctx context.Context, url string) (*catalog.Course, error)
	createCourseFunc    func(ctx context.Context, title, url string) (*catalog.CourseDetail, error)
	updateCourseFunc    func(ctx context.Context, id int64, title, url string) (*catalog.CourseDetail, error)
	deleteCourseFunc    func(ctx context.Context, id int64) error

	listReviewsFunc  func(ctx context.Context) ([]*catalog.ReviewDetail, error)
	getReviewFunc    func(ctx context.Context, id int64) (*catalog.ReviewDetail, error)
	createReviewFunc func(ctx context.Context, actorID int64, in catalog.ReviewInput) (*catalog.ReviewDetail, error)
	updateReviewFunc func(ctx context.Context, actorID, id int64, in catalog.ReviewInput) (*catalog.ReviewDetail, error)
	deleteReviewFunc func(ctx context.Context, actorID, id int64) error

	listCommentsFunc  func(ctx context.Context) ([]*catalog.CommentDetail, error)
	getCommentFunc    func(ctx context.Context, id int64) (*catalog.CommentDetail, error)
	createCommentFunc func(ctx context.Context, actorID int64, in catalog.CommentInput) (*catalog.CommentDetail, error)
	updateCommentFunc func(ctx context.Context, actorID, id int64, in catalog.CommentInput) (*catalog.CommentDetail, error)
	deleteCommentFunc func(ctx context.Context, actorID, id int64) error

	listEditsFunc  func(ctx context.Context) ([]*catalog.Edit, error)
	getEditFunc    func(ctx context.Context, id int64) (*catalog.Edit, error)
	createEditFunc func(ctx context.Context, actorID int64, in catalog.EditInput) (*catalog.Edit, error)
	updateEditFunc func(ctx context.Context, actorID, id int64, in catalog.EditInput) (*catalog.Edit, error)
	deleteEditFunc func(ctx context.Context, actorID, id int64) error

	listTagsFunc  func(ctx context.Context) ([]*catalog.Tag, error)
	tagCourseFunc func(ctx context.Context, tag string, courseID int64) (*catalog.TagLink, error)

	castVoteFunc func(ctx context.Context, actorID int64, target catalog.VoteTarget, dir catalog.Direction) (*catalog.Vote, error)
}

var _ catalog.Service = (*mockService)(nil)

func (m *mockService) CreateUser(ctx context.Context, in catalog.NewUser) (*catalog.UserDetail, error) {
	if m.createUserFunc != nil {
		return m.createUserFunc(ctx, in)
	}
	return &catalog.UserDetail{User: catalog.User{ID: 1, Username: in.Username, Email: in.Email}}, nil
}

// GetUser resolves every id by default so bearer tokens authenticate
func (m *mockService) GetUser(ctx context.Context, id int64) (*catalog.UserDetail, error) {
	if m.getUserFunc != nil {
		return m.getUserFunc(ctx, id)
	}
	return &catalog.UserDetail{User: catalog.User{ID: id, Username: fmt.Sprintf("user%d", id)}}, nil
}

func (m *mockService) GetUserByUsername(ctx context.Context, username string) (*catalog.User, error) {
	if m.getUserByUsernameFunc != nil {
		return m.getUserByUsernameFunc(ctx, username)
	}
	return nil, fmt.Errorf("%w: user %q", catalog.ErrNotFound, username)
}

func (m *mockService) ListUsers(ctx context.Context) ([]*catalog.UserDetail, error) {
	if m.listUsersFunc != nil {
		return m.listUsersFunc(ctx)
	}
	return []*catalog.UserDetail{}, nil
}

func (m *mockService) UpdateUser(ctx context.Context, actorID, id int64, in catalog.UserUpdate) (*catalog.UserDetail, error) {
	if m.updateUserFunc != nil {
		return m.updateUserFunc(ctx, actorID, id, in)
	}
	return &catalog.UserDetail{User: catalog.User{ID: id, Username: in.Username, Email: in.Email}}, nil
}

func (m *mockService) ListCourses(ctx context.Context) ([]*catalog.CourseDetail, error) {
	if m.listCoursesFunc != nil {
		return m.listCoursesFunc(ctx)
	}
	return []*catalog.CourseDetail{}, nil
}

func (m *mockService) GetCourse(ctx context.Context, id int64) (*catalog.CourseDetail, error) {
	if m.getCourseFunc != nil {
		return m.getCourseFunc(ctx, id)
	}
	return &catalog.CourseDetail{Course: catalog.Course{ID: id}}, nil
}

func (m *mockService) FindCourseByURL(ctx context.Context, url string) (*catalog.Course, error) {
	if m.findCourseByURLFunc != nil {
		return m.findCourseByURLFunc(ctx, url)
	}
	return nil, fmt.Errorf("%w: course %q", catalog.ErrNotFound, url)
}

func (m *mockService) CreateCourse(ctx context.Context, title, url string) (*catalog.CourseDetail, error) {
	if m.createCourseFunc != nil {
		return m.createCourseFunc(ctx, title, url)
	}
	return &catalog.CourseDetail{Course: catalog.Course{ID: 1, Title: title, URL: url}}, nil
}

func (m *mockService) UpdateCourse(ctx context.Context, id int64, title, url string) (*catalog.CourseDetail, error) {
	if m.updateCourseFunc != nil {
		return m.updateCourseFunc(ctx, id, title, url)
	}
	return &catalog.CourseDetail{Course: catalog.Course{ID: id, Title: title, URL: url}}, nil
}

func (m *mockService) DeleteCourse(ctx context.Context, id int64) error {
	if m.deleteCourseFunc != nil {
		return m.deleteCourseFunc(ctx, id)
	}
	return nil
}

func (m *mockService) ListReviews(ctx context.Context) ([]*catalog.ReviewDetail, error) {
	if m.listReviewsFunc != nil {
		return m.listReviewsFunc(ctx)
	}
	return []*catalog.ReviewDetail{}, nil
}

func (m *mockService) GetReview(ctx context.Context, id int64) (*catalog.ReviewDetail, error) {
	if m.getReviewFunc != nil {
		return m.getReviewFunc(ctx, id)
	}
	return &catalog.ReviewDetail{Review: catalog.Review{ID: id}}, nil
}

func (m *mockService) CreateReview(ctx context.Context, actorID int64, in catalog.ReviewInput) (*catalog.ReviewDetail, error) {
	if m.createReviewFunc != nil {
		return m.createReviewFunc(ctx, actorID, in)
	}
	return &catalog.ReviewDetail{Review: catalog.Review{
		ID: 1, CourseID: in.CourseID, CreatedBy: actorID, Rating: in.Rating, Comment: in.Comment,
	}}, nil
}

func (m *mockService) UpdateReview(ctx context.Context, actorID, id int64, in catalog.ReviewInput) (*catalog.ReviewDetail, error) {
	if m.updateReviewFunc != nil {
		return m.updateReviewFunc(ctx, actorID, id, in)
	}
	return &catalog.ReviewDetail{Review: catalog.Review{
		ID: id, CourseID: in.CourseID, CreatedBy: actorID, Rating: in.Rating, Comment: in.Comment,
	}}, nil
}

func (m *mockService) DeleteReview(ctx context.Context, actorID, id int64) error {
	if m.deleteReviewFunc != nil {
		return m.deleteReviewFunc(ctx, actorID, id)
	}
	return nil
}

func (m *mockService) ListComments(ctx context.Context) ([]*catalog.CommentDetail, error) {
	if m.listCommentsFunc != nil {
		return m.listCommentsFunc(ctx)
	}
	return []*catalog.CommentDetail{}, nil
}

func (m *mockService) GetComment(ctx context.Context, id int64) (*catalog.CommentDetail, error) {
	if m.getCommentFunc != nil {
		return m.getCommentFunc(ctx, id)
	}
	return &catalog.CommentDetail{Comment: catalog.Comment{ID: id}}, nil
}

func (m *mockService) CreateComment(ctx context.Context, actorID int64, in catalog.CommentInput) (*catalog.CommentDetail, error) {
	if m.createCommentFunc != nil {
		return m.createCommentFunc(ctx, actorID, in)
	}
	return &catalog.CommentDetail{Comment: catalog.Comment{
		ID: 1, ReviewID: in.ReviewID, ParentID: in.ParentID, CreatedBy: actorID, Body: in.Body,
	}}, nil
}

func (m *mockService) UpdateComment(ctx context.Context, actorID, id int64, in catalog.CommentInput) (*catalog.CommentDetail, error) {
	if m.updateCommentFunc != nil {
		return m.updateCommentFunc(ctx, actorID, id, in)
	}
	return &catalog.CommentDetail{Comment: catalog.Comment{ID: id, CreatedBy: actorID, Body: in.Body}}, nil
}

func (m *mockService) DeleteComment(ctx context.Context, actorID, id int64) error {
	if m.deleteCommentFunc != nil {
		return m.deleteCommentFunc(ctx, actorID, id)
	}
	return nil
}

func (m *mockService) ListEdits(ctx context.Context) ([]*catalog.Edit, error) {
	if m.listEditsFunc != nil {
		return m.listEditsFunc(ctx)
	}
	return []*catalog.Edit{}, nil
}

func (m *mockService) GetEdit(ctx context.Context, id int64) (*catalog.Edit, error) {
	if m.getEditFunc != nil {
		return m.getEditFunc(ctx, id)
	}
	return &catalog.Edit{ID: id, Entry: "{}", Status: catalog.EditPending}, nil
}

func (m *mockService) CreateEdit(ctx context.Context, actorID int64, in catalog.EditInput) (*catalog.Edit, error) {
	if m.createEditFunc != nil {
		return m.createEditFunc(ctx, actorID, in)
	}
	return &catalog.Edit{
		ID: 1, CourseID: in.CourseID, ReviewID: in.ReviewID, CreatedBy: actorID, Entry: in.Entry, Status: catalog.EditPending,
	}, nil
}

func (m *mockService) UpdateEdit(ctx context.Context, actorID, id int64, in catalog.EditInput) (*catalog.Edit, error) {
	if m.updateEditFunc != nil {
		return m.updateEditFunc(ctx, actorID, id, in)
	}
	return &catalog.Edit{ID: id, CreatedBy: actorID, Entry: in.Entry, Status: catalog.EditPending}, nil
}

func (m *mockService) DeleteEdit(ctx context.Context, actorID, id int64) error {
	if m.deleteEditFunc != nil {
		return m.deleteEditFunc(ctx, actorID, id)
	}
	return nil
}

func (m *mockService) ListTags(ctx context.Context) ([]*catalog.Tag, error) {
	if m.listTagsFunc != nil {
		return m.listTagsFunc(ctx)
	}
	return []*catalog.Tag{}, nil
}

func (m *mockService) TagCourse(ctx context.Context, tag string, courseID int64) (*catalog.TagLink, error) {
	if m.tagCourseFunc != nil {
		return m.tagCourseFunc(ctx, tag, courseID)
	}
	return &catalog.TagLink{ID: 1, TagID: 1, CourseID: courseID}, nil
}

func (m *mockService) CastVote(ctx context.Context, actorID int64, target catalog.VoteTarget, dir catalog.Direction) (*catalog.Vote, error) {
	if m.castVoteFunc != nil {
		return m.castVoteFunc(ctx, actorID, target, dir)
	}
	up, down := dir.Flags()
	vote := &catalog.Vote{ID: 1, UserID: actorID, Upvote: up, Downvote: down}
	id := target.ID
	if target.Kind == catalog.TargetComment {
		vote.CommentID = &id
	} else {
		vote.ReviewID = &id
	}
	return vote, nil
}
