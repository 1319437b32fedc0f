// Package middleware provides HTTP middleware for authentication and rate limiting.
//
// # Authentication
//
// AuthMiddleware accepts "Authorization: Bearer <token>" with a token from
// GET /users/token, or HTTP basic credentials checked against the stored
// bcrypt hash. The resolved identity is bound to the request context:
//
//	authMW := middleware.NewAuthMiddleware(svc, tokens, hasher, metrics)
//	router.Handle("/courses", authMW.HandlerFunc(h.createCourse)).Methods("POST")
//
//	identity := middleware.GetIdentity(r)
//
// # Rate Limiting
//
// Limits are written as "100/hour" and parsed with ParseRate. Each named
// group gets its own limiter and key function:
//
//	limiter := middleware.NewRateLimiter(middleware.MustParseRate("40/day"), 0)
//	users := middleware.NewRateLimitMiddleware("users", limiter, middleware.ByIP(false), metrics)
//	subrouter.Use(users.Handler)
//
// NewDistributedRateLimiter keeps fixed windows in Redis so several
// instances share one budget. Both limiters fail open when their backend
// errors. Rejections are 429 with {"error":"rate limit exceeded","retry_after":N}.
//
// # Related Packages
//
//   - pkg/auth: tokens and password hashing
package middleware
