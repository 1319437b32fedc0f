package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/platinummonkey/courserev/pkg/catalog"
	"github.com/platinummonkey/courserev/pkg/httputil"
)

// EditHandlers handles proposed edits to courses and reviews
type EditHandlers struct {
	handlerDeps
}

// NewEditHandlers creates a new EditHandlers
func NewEditHandlers(deps handlerDeps) *EditHandlers {
	return &EditHandlers{handlerDeps: deps}
}

// RegisterRoutes registers edit routes on the /edits subrouter
func (h *EditHandlers) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("", h.ListEdits).Methods("GET").Name(RouteEdits)
	router.Handle("", h.protect(h.CreateEdit)).Methods("POST")
	router.HandleFunc(idPattern, h.GetEdit).Methods("GET").Name(RouteEdit)
	router.Handle(idPattern, h.protect(h.UpdateEdit)).Methods("PUT")
	router.Handle(idPattern, h.protect(h.DeleteEdit)).Methods("DELETE")
}

// ListEdits handles GET /edits
func (h *EditHandlers) ListEdits(w http.ResponseWriter, r *http.Request) {
	edits, err := h.service.ListEdits(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}

	resp := make([]*EditResponse, 0, len(edits))
	for _, e := range edits {
		resp = append(resp, h.shape.Edit(e))
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]interface{}{"edits": resp})
}

// CreateEdit handles POST /edits
func (h *EditHandlers) CreateEdit(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorID(w, r)
	if !ok {
		return
	}

	var req createEditRequest
	if err := httputil.Bind(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	edit, err := h.service.CreateEdit(r.Context(), actor, catalog.EditInput{
		CourseID: req.Course,
		ReviewID: req.Review,
		Entry:    req.Entry,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}

	h.created(RouteEdit)
	httputil.WriteCreated(w, h.links.Edit(edit.ID), h.shape.Edit(edit))
}

// GetEdit handles GET /edits/{id}
func (h *EditHandlers) GetEdit(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParsePathInt64OrError(w, r, "id")
	if !ok {
		return
	}

	edit, err := h.service.GetEdit(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, h.shape.Edit(edit))
}

// UpdateEdit handles PUT /edits/{id}. The entry is replaced and the edit
// goes back to pending.
func (h *EditHandlers) UpdateEdit(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorID(w, r)
	if !ok {
		return
	}
	id, ok := httputil.ParsePathInt64OrError(w, r, "id")
	if !ok {
		return
	}

	var req updateEditRequest
	if err := httputil.Bind(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	edit, err := h.service.UpdateEdit(r.Context(), actor, id, catalog.EditInput{
		CourseID: req.Course,
		ReviewID: req.Review,
		Entry:    req.Entry,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httputil.WriteSuccess(w, h.links.Edit(edit.ID), h.shape.Edit(edit))
}

// DeleteEdit handles DELETE /edits/{id}
func (h *EditHandlers) DeleteEdit(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorID(w, r)
	if !ok {
		return
	}
	id, ok := httputil.ParsePathInt64OrError(w, r, "id")
	if !ok {
		return
	}

	if err := h.service.DeleteEdit(r.Context(), actor, id); err != nil {
		h.fail(w, r, err)
		return
	}
	httputil.WriteNoContent(w, h.links.Collection(RouteEdits))
}
