package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/platinummonkey/courserev/pkg/httputil"
)

// CourseHandlers handles course HTTP requests
type CourseHandlers struct {
	handlerDeps
}

// NewCourseHandlers creates a new CourseHandlers
func NewCourseHandlers(deps handlerDeps) *CourseHandlers {
	return &CourseHandlers{handlerDeps: deps}
}

// RegisterRoutes registers course routes on the /courses subrouter
func (h *CourseHandlers) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("", h.ListCourses).Methods("GET").Name(RouteCourses)
	router.Handle("", h.protect(h.CreateCourse)).Methods("POST")
	router.HandleFunc(idPattern, h.GetCourse).Methods("GET").Name(RouteCourse)
	router.Handle(idPattern, h.protect(h.UpdateCourse)).Methods("PUT")
	router.Handle(idPattern, h.protect(h.DeleteCourse)).Methods("DELETE")
}

// ListCourses handles GET /courses
func (h *CourseHandlers) ListCourses(w http.ResponseWriter, r *http.Request) {
	courses, err := h.service.ListCourses(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}

	resp := make([]*CourseResponse, 0, len(courses))
	for _, c := range courses {
		resp = append(resp, h.shape.Course(c))
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]interface{}{"courses": resp})
}

// CreateCourse handles POST /courses. A course whose url is already known
// is rejected with a pointer to the existing one.
func (h *CourseHandlers) CreateCourse(w http.ResponseWriter, r *http.Request) {
	var req courseRequest
	if err := httputil.Bind(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	course, err := h.service.CreateCourse(r.Context(), req.Title, req.URL)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	h.created(RouteCourse)
	httputil.WriteCreated(w, h.links.Course(course.ID), h.shape.Course(course))
}

// GetCourse handles GET /courses/{id}
func (h *CourseHandlers) GetCourse(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParsePathInt64OrError(w, r, "id")
	if !ok {
		return
	}

	course, err := h.service.GetCourse(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, h.shape.Course(course))
}

// UpdateCourse handles PUT /courses/{id}
func (h *CourseHandlers) UpdateCourse(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParsePathInt64OrError(w, r, "id")
	if !ok {
		return
	}

	var req courseRequest
	if err := httputil.Bind(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	course, err := h.service.UpdateCourse(r.Context(), id, req.Title, req.URL)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httputil.WriteSuccess(w, h.links.Course(course.ID), h.shape.Course(course))
}

// DeleteCourse handles DELETE /courses/{id}
func (h *CourseHandlers) DeleteCourse(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParsePathInt64OrError(w, r, "id")
	if !ok {
		return
	}

	if err := h.service.DeleteCourse(r.Context(), id); err != nil {
		h.fail(w, r, err)
		return
	}
	httputil.WriteNoContent(w, h.links.Collection(RouteCourses))
}
