package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/platinummonkey/courserev/pkg/catalog"
	"github.com/platinummonkey/courserev/pkg/httputil"
	"github.com/platinummonkey/courserev/pkg/observability"
)

// writeServiceError maps a bind or catalog error to a response.
//
//	bind error, ErrInvalid, duplicate user  400
//	ErrForbidden, other duplicates          403 (Location of the existing row)
//	ErrNotFound                             404
//	anything else                           500, logged
func writeServiceError(w http.ResponseWriter, r *http.Request, links *Linker, err error) {
	var (
		bindErr  *httputil.BindError
		conflict *catalog.ConflictError
	)
	switch {
	case errors.As(err, &bindErr):
		httputil.WriteBadRequest(w, bindErr.Message)
	case errors.As(err, &conflict):
		if conflict.Resource == RouteUser {
			httputil.WriteBadRequest(w, conflict.Error())
			return
		}
		httputil.SetLocation(w, links.Item(conflict.Resource, conflict.ExistingID))
		httputil.WriteForbidden(w, conflict.Error())
	case errors.Is(err, catalog.ErrInvalid):
		httputil.WriteBadRequest(w, detail(err, catalog.ErrInvalid))
	case errors.Is(err, catalog.ErrForbidden):
		httputil.WriteForbidden(w, detail(err, catalog.ErrForbidden))
	case errors.Is(err, catalog.ErrNotFound):
		msg := "not found"
		if d := detail(err, catalog.ErrNotFound); d != err.Error() {
			msg = d + " not found"
		}
		httputil.WriteNotFoundError(w, msg)
	default:
		observability.LoggerFromContext(r.Context()).
			WithError(err).
			WithField("path", r.URL.Path).
			Error("Request failed")
		httputil.WriteInternalError(w)
	}
}

// detail returns the text following "<sentinel>: " in err's message, or the
// whole message when the sentinel carries no detail
func detail(err, sentinel error) string {
	msg := err.Error()
	prefix := sentinel.Error() + ": "
	if i := strings.Index(msg, prefix); i >= 0 {
		return msg[i+len(prefix):]
	}
	return msg
}
