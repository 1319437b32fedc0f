package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"github.com/platinummonkey/courserev/pkg/catalog"
	"github.com/platinummonkey/courserev/pkg/httputil"
)

// TagHandlers handles course tags
type TagHandlers struct {
	handlerDeps
}

// NewTagHandlers creates a new TagHandlers
func NewTagHandlers(deps handlerDeps) *TagHandlers {
	return &TagHandlers{handlerDeps: deps}
}

// RegisterRoutes registers tag routes on the API router
func (h *TagHandlers) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/tags", h.ListTags).Methods("GET").Name(RouteTags)
	router.Handle("/tags", h.protect(h.TagCourse)).Methods("POST")
	router.Handle("/addtag", h.protect(h.TagCourse)).Methods("POST")
}

// ListTags handles GET /tags
func (h *TagHandlers) ListTags(w http.ResponseWriter, r *http.Request) {
	tags, err := h.service.ListTags(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}

	labels := make([]string, 0, len(tags))
	for _, t := range tags {
		labels = append(labels, t.Name)
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]interface{}{"tags": labels})
}

// TagCourse handles POST /tags and POST /addtag
func (h *TagHandlers) TagCourse(w http.ResponseWriter, r *http.Request) {
	if _, ok := actorID(w, r); !ok {
		return
	}

	var req tagRequest
	if err := httputil.Bind(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	courseID, err := h.resolveCourse(r.Context(), string(req.Course))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if _, err := h.service.TagCourse(r.Context(), req.Tag, courseID); err != nil {
		h.fail(w, r, err)
		return
	}

	course, err := h.service.GetCourse(r.Context(), courseID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httputil.WriteSuccess(w, h.links.Course(courseID), h.shape.Course(course))
}

// resolveCourse accepts a course id, the course's own url, or a course
// resource URL such as /api/v1/courses/3
func (h *TagHandlers) resolveCourse(ctx context.Context, ref string) (int64, error) {
	ref = strings.TrimSpace(ref)
	if id, err := strconv.ParseInt(ref, 10, 64); err == nil {
		return id, nil
	}

	course, err := h.service.FindCourseByURL(ctx, ref)
	if err == nil {
		return course.ID, nil
	}
	if !errors.Is(err, catalog.ErrNotFound) {
		return 0, err
	}

	kind, id, perr := ParseResourceURL(ref)
	if perr != nil || kind != RouteCourse {
		return 0, err
	}
	return id, nil
}
