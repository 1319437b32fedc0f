package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/platinummonkey/courserev/pkg/catalog"
	"github.com/platinummonkey/courserev/pkg/httputil"
)

// CommentHandlers handles threaded comments on reviews
type CommentHandlers struct {
	handlerDeps
}

// NewCommentHandlers creates a new CommentHandlers
func NewCommentHandlers(deps handlerDeps) *CommentHandlers {
	return &CommentHandlers{handlerDeps: deps}
}

// RegisterRoutes registers comment routes on the /comments subrouter
func (h *CommentHandlers) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("", h.ListComments).Methods("GET").Name(RouteComments)
	router.Handle("", h.protect(h.CreateComment)).Methods("POST")
	router.HandleFunc(idPattern, h.GetComment).Methods("GET").Name(RouteComment)
	router.Handle(idPattern, h.protect(h.UpdateComment)).Methods("PUT")
	router.Handle(idPattern, h.protect(h.DeleteComment)).Methods("DELETE")
}

// ListComments handles GET /comments
func (h *CommentHandlers) ListComments(w http.ResponseWriter, r *http.Request) {
	comments, err := h.service.ListComments(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}

	resp := make([]*CommentResponse, 0, len(comments))
	for _, c := range comments {
		resp = append(resp, h.shape.Comment(c))
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]interface{}{"comments": resp})
}

// CreateComment handles POST /comments. The body names either a review
// (a new thread) or a parent comment (a reply).
func (h *CommentHandlers) CreateComment(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorID(w, r)
	if !ok {
		return
	}

	var req createCommentRequest
	if err := httputil.Bind(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	comment, err := h.service.CreateComment(r.Context(), actor, catalog.CommentInput{
		ReviewID: req.Review,
		ParentID: req.ParentComment,
		Body:     req.Comment,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}

	h.created(RouteComment)
	httputil.WriteCreated(w, h.links.Comment(comment.ID), h.shape.Comment(comment))
}

// GetComment handles GET /comments/{id}
func (h *CommentHandlers) GetComment(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParsePathInt64OrError(w, r, "id")
	if !ok {
		return
	}

	comment, err := h.service.GetComment(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, h.shape.Comment(comment))
}

// UpdateComment handles PUT /comments/{id}
func (h *CommentHandlers) UpdateComment(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorID(w, r)
	if !ok {
		return
	}
	id, ok := httputil.ParsePathInt64OrError(w, r, "id")
	if !ok {
		return
	}

	var req updateCommentRequest
	if err := httputil.Bind(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	comment, err := h.service.UpdateComment(r.Context(), actor, id, catalog.CommentInput{
		ReviewID: req.Review,
		ParentID: req.ParentComment,
		Body:     req.Comment,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httputil.WriteSuccess(w, h.links.Comment(comment.ID), h.shape.Comment(comment))
}

// DeleteComment handles DELETE /comments/{id}
func (h *CommentHandlers) DeleteComment(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorID(w, r)
	if !ok {
		return
	}
	id, ok := httputil.ParsePathInt64OrError(w, r, "id")
	if !ok {
		return
	}

	if err := h.service.DeleteComment(r.Context(), actor, id); err != nil {
		h.fail(w, r, err)
		return
	}
	httputil.WriteNoContent(w, h.links.Collection(RouteComments))
}
