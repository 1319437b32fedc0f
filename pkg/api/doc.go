// Package api implements the course review REST API.
//
// Handler groups for users, courses, reviews, comments, edits, tags and
// votes are mounted under /api/v1 on a gorilla/mux router. Reads are
// public; writes go through middleware.AuthMiddleware, which accepts a
// bearer token from GET /users/token or HTTP basic credentials.
//
// # Responses
//
// Rows from pkg/catalog are turned into response documents by a Shaper.
// References between resources are URLs built from the router's named
// routes by a Linker, so a review carries "for_course": "/api/v1/courses/3"
// rather than a bare id. Writes that create or change a resource set a
// Location header; deletes point Location at the collection.
//
// # Errors
//
// Every error body is {"error": "<message>"}. Catalog errors map to
// statuses in writeServiceError: invalid input is 400, ownership and
// immutable-field violations are 403, duplicate courses and reviews are 403
// with Location set to the existing row, duplicate users are 400, unknown
// ids are 404 and anything else is a logged 500.
//
// # Rate limits
//
// Three limiter groups can be configured through Limits: a default per-IP
// limit on every route, a per-IP limit on the users group, and a per-IP and
// per-method limit on course and review writes.
//
// # Usage
//
//	srv, err := api.NewServer(api.Config{
//		Service: catalog.NewSQLService(db, dialect),
//		Tokens:  auth.NewTokenManager(secret, time.Hour, "courserev"),
//		Hasher:  auth.NewHasher(bcrypt.DefaultCost),
//		Logger:  logger,
//	})
//	http.ListenAndServe(":8080", srv)
package api
