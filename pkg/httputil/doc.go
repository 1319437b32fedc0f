// Package httputil provides HTTP utilities for standardized request/response handling.
//
// # Response Helpers
//
//	httputil.WriteCreated(w, location, resource)
//	httputil.WriteSuccess(w, location, resource)
//	httputil.WriteNoContent(w, collectionURL)
//	httputil.WriteBadRequest(w, "rating must be between 1 and 5")
//
// Every error body has the shape {"error": "<message>"}.
//
// # Request Binding
//
// Bind accepts JSON, urlencoded and multipart bodies, decodes them into a
// typed request struct and runs its validate tags:
//
//	var req createCourseRequest
//	if err := httputil.Bind(r, &req); err != nil {
//		httputil.WriteBadRequest(w, err.Error())
//		return
//	}
//
// # Middleware
//
//	httputil.Chain(
//		httputil.RequestIDMiddleware(logger),
//		httputil.LoggingMiddleware,
//		httputil.RecoveryMiddleware,
//		httputil.MaxBytesMiddleware(1<<20),
//	)
//
// # Related Packages
//
//   - pkg/middleware: authentication and rate limiting
package httputil
