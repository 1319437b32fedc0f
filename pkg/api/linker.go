package api

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"github.com/platinummonkey/courserev/pkg/catalog"
)

// Route names. Collection routes are plural, item routes singular.
const (
	RouteUsers    = "users"
	RouteUser     = "user"
	RouteCourses  = "courses"
	RouteCourse   = "course"
	RouteReviews  = "reviews"
	RouteReview   = "review"
	RouteComments = "comments"
	RouteComment  = "comment"
	RouteEdits    = "edits"
	RouteEdit     = "edit"
	RouteTags     = "tags"
)

// Linker builds canonical resource URLs from the router's named routes.
// With an empty base the URLs are host-relative paths.
type Linker struct {
	router *mux.Router
	base   string
}

// NewLinker creates a Linker over router. base, when set, is prepended to
// every URL (for example "https://courserev.example.com").
func NewLinker(router *mux.Router, base string) *Linker {
	return &Linker{
		router: router,
		base:   strings.TrimRight(base, "/"),
	}
}

// Item returns the URL of the resource id under the named item route
func (l *Linker) Item(name string, id int64) string {
	return l.build(name, "id", strconv.FormatInt(id, 10))
}

// Collection returns the URL of the named collection route
func (l *Linker) Collection(name string) string {
	return l.build(name)
}

func (l *Linker) build(name string, pairs ...string) string {
	route := l.router.Get(name)
	if route == nil {
		return ""
	}
	u, err := route.URLPath(pairs...)
	if err != nil {
		return ""
	}
	return l.base + u.Path
}

func (l *Linker) User(id int64) string    { return l.Item(RouteUser, id) }
func (l *Linker) Course(id int64) string  { return l.Item(RouteCourse, id) }
func (l *Linker) Review(id int64) string  { return l.Item(RouteReview, id) }
func (l *Linker) Comment(id int64) string { return l.Item(RouteComment, id) }
func (l *Linker) Edit(id int64) string    { return l.Item(RouteEdit, id) }

// Target returns the URL of a vote target
func (l *Linker) Target(t catalog.VoteTarget) string {
	if t.Kind == catalog.TargetComment {
		return l.Comment(t.ID)
	}
	return l.Review(t.ID)
}

func (l *Linker) items(name string, ids []int64) []string {
	urls := make([]string, 0, len(ids))
	for _, id := range ids {
		urls = append(urls, l.Item(name, id))
	}
	return urls
}

// resourceURL matches ".../<kind>s/<id>" and captures kind and id
var resourceURL = regexp.MustCompile(`^.*/(\w+)s/(\d+)$`)

var errBadResourceURL = errors.New("invalid url/uri")

// ParseResourceURL splits a resource URL such as "/api/v1/reviews/7" into
// its singular kind ("review") and id
func ParseResourceURL(raw string) (string, int64, error) {
	m := resourceURL.FindStringSubmatch(strings.TrimSpace(raw))
	if m == nil {
		return "", 0, errBadResourceURL
	}
	id, err := strconv.ParseInt(m[2], 10, 64)
	if err != nil {
		return "", 0, fmt.Errorf("%w: %v", errBadResourceURL, err)
	}
	return m[1], id, nil
}

// ParseTargetURL resolves a vote URL to a review or comment target
func ParseTargetURL(raw string) (catalog.VoteTarget, error) {
	kind, id, err := ParseResourceURL(raw)
	if err != nil {
		return catalog.VoteTarget{}, err
	}
	switch catalog.TargetKind(kind) {
	case catalog.TargetReview, catalog.TargetComment:
		return catalog.VoteTarget{Kind: catalog.TargetKind(kind), ID: id}, nil
	}
	return catalog.VoteTarget{}, errBadResourceURL
}
