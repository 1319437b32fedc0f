package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/platinummonkey/courserev/pkg/catalog"
	"github.com/platinummonkey/courserev/pkg/httputil"
	"github.com/platinummonkey/courserev/pkg/middleware"
	"github.com/platinummonkey/courserev/pkg/observability"
)

// idPattern keeps item routes from swallowing siblings such as /users/token
const idPattern = "/{id:[0-9]+}"

// RouteRegistrar is an interface for types that can register routes
type RouteRegistrar interface {
	RegisterRoutes(router *mux.Router)
}

// handlerDeps is shared by every handler group
type handlerDeps struct {
	service catalog.Service
	links   *Linker
	shape   *Shaper
	authn   func(http.Handler) http.Handler
	metrics *observability.Metrics
}

// protect wraps fn with authentication
func (d handlerDeps) protect(fn http.HandlerFunc) http.Handler {
	return d.authn(fn)
}

// actorID returns the authenticated user's id, writing a 401 when the
// request carries no identity
func actorID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	identity := middleware.GetIdentity(r)
	if identity == nil {
		httputil.WriteUnauthorized(w, "authentication required")
		return 0, false
	}
	return identity.UserID, true
}

func (d handlerDeps) created(kind string) {
	if d.metrics != nil {
		d.metrics.EntitiesCreatedTotal.WithLabelValues(kind).Inc()
	}
}

func (d handlerDeps) fail(w http.ResponseWriter, r *http.Request, err error) {
	writeServiceError(w, r, d.links, err)
}
