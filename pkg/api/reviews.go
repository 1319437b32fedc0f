package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/platinummonkey/courserev/pkg/catalog"
	"github.com/platinummonkey/courserev/pkg/httputil"
)

// ReviewHandlers handles review HTTP requests
type ReviewHandlers struct {
	handlerDeps
}

// NewReviewHandlers creates a new ReviewHandlers
func NewReviewHandlers(deps handlerDeps) *ReviewHandlers {
	return &ReviewHandlers{handlerDeps: deps}
}

// RegisterRoutes registers review routes on the /reviews subrouter
func (h *ReviewHandlers) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("", h.ListReviews).Methods("GET").Name(RouteReviews)
	router.Handle("", h.protect(h.CreateReview)).Methods("POST")
	router.HandleFunc(idPattern, h.GetReview).Methods("GET").Name(RouteReview)
	router.Handle(idPattern, h.protect(h.UpdateReview)).Methods("PUT")
	router.Handle(idPattern, h.protect(h.DeleteReview)).Methods("DELETE")
}

// ListReviews handles GET /reviews
func (h *ReviewHandlers) ListReviews(w http.ResponseWriter, r *http.Request) {
	reviews, err := h.service.ListReviews(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}

	resp := make([]*ReviewResponse, 0, len(reviews))
	for _, rv := range reviews {
		resp = append(resp, h.shape.Review(rv))
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]interface{}{"reviews": resp})
}

// CreateReview handles POST /reviews
func (h *ReviewHandlers) CreateReview(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorID(w, r)
	if !ok {
		return
	}

	var req createReviewRequest
	if err := httputil.Bind(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	review, err := h.service.CreateReview(r.Context(), actor, catalog.ReviewInput{
		CourseID: req.Course,
		Rating:   req.Rating,
		Comment:  req.Comment,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}

	h.created(RouteReview)
	httputil.WriteCreated(w, h.links.Review(review.ID), h.shape.Review(review))
}

// GetReview handles GET /reviews/{id}
func (h *ReviewHandlers) GetReview(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParsePathInt64OrError(w, r, "id")
	if !ok {
		return
	}

	review, err := h.service.GetReview(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, h.shape.Review(review))
}

// UpdateReview handles PUT /reviews/{id}. Only the rating and the comment
// may change.
func (h *ReviewHandlers) UpdateReview(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorID(w, r)
	if !ok {
		return
	}
	id, ok := httputil.ParsePathInt64OrError(w, r, "id")
	if !ok {
		return
	}

	var req updateReviewRequest
	if err := httputil.Bind(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	review, err := h.service.UpdateReview(r.Context(), actor, id, catalog.ReviewInput{
		CourseID: req.Course,
		Rating:   req.Rating,
		Comment:  req.Comment,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httputil.WriteSuccess(w, h.links.Review(review.ID), h.shape.Review(review))
}

// DeleteReview handles DELETE /reviews/{id}
func (h *ReviewHandlers) DeleteReview(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorID(w, r)
	if !ok {
		return
	}
	id, ok := httputil.ParsePathInt64OrError(w, r, "id")
	if !ok {
		return
	}

	if err := h.service.DeleteReview(r.Context(), actor, id); err != nil {
		h.fail(w, r, err)
		return
	}
	httputil.WriteNoContent(w, h.links.Collection(RouteReviews))
}
