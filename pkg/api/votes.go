package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/platinummonkey/courserev/pkg/catalog"
	"github.com/platinummonkey/courserev/pkg/httputil"
)

// VoteHandlers handles up and down votes on reviews and comments
type VoteHandlers struct {
	handlerDeps
}

// NewVoteHandlers creates a new VoteHandlers
func NewVoteHandlers(deps handlerDeps) *VoteHandlers {
	return &VoteHandlers{handlerDeps: deps}
}

// RegisterRoutes registers vote routes on the API router
func (h *VoteHandlers) RegisterRoutes(router *mux.Router) {
	router.Handle("/upvote", h.protect(h.Upvote)).Methods("POST")
	router.Handle("/downvote", h.protect(h.Downvote)).Methods("POST")
}

// Upvote handles POST /upvote
func (h *VoteHandlers) Upvote(w http.ResponseWriter, r *http.Request) {
	h.cast(w, r, catalog.Up)
}

// Downvote handles POST /downvote
func (h *VoteHandlers) Downvote(w http.ResponseWriter, r *http.Request) {
	h.cast(w, r, catalog.Down)
}

func (h *VoteHandlers) cast(w http.ResponseWriter, r *http.Request, dir catalog.Direction) {
	actor, ok := actorID(w, r)
	if !ok {
		return
	}

	var req voteRequest
	if err := httputil.Bind(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	target, err := ParseTargetURL(req.URL)
	if err != nil {
		httputil.WriteBadRequest(w, err.Error())
		return
	}

	vote, err := h.service.CastVote(r.Context(), actor, target, dir)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	if h.metrics != nil {
		h.metrics.VotesCastTotal.WithLabelValues(string(target.Kind), dir.String()).Inc()
	}
	httputil.WriteSuccess(w, h.links.Target(target), h.shape.Vote(vote))
}
