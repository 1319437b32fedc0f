// Package contextkeys provides centralized context key definitions
//
// All context keys used across the application are defined here.
//
// USAGE PATTERN:
//
//	import "github.com/platinummonkey/courserev/pkg/contextkeys"
//	ctx = contextkeys.WithAuth(ctx, identity)
//	identity := ctx.Value(contextkeys.AuthKey).(*auth.Identity)
package contextkeys

import "context"

// Key is the type for context keys to prevent collisions
type Key string

const (
	// AuthKey contains *auth.Identity
	// Set by: middleware.AuthMiddleware (pkg/middleware/auth.go)
	// Required by: all write endpoints and /users/token
	AuthKey Key = "auth_identity"

	// RequestIDKey contains the request ID string (UUID)
	// Set by: httputil.RequestIDMiddleware
	// Used by: logger, error responses
	RequestIDKey Key = "request_id"

	// UserIDKey contains the authenticated user's id (int64)
	// Set by: middleware.AuthMiddleware
	// Used by: logger
	UserIDKey Key = "user_id"

	// LoggerKey contains a *logrus.Entry scoped to the request
	// Set by: httputil.RequestIDMiddleware, enriched by AuthMiddleware
	// Used by: handlers that log with request context
	LoggerKey Key = "logger"
)

// WithAuth adds the authenticated identity to the context
func WithAuth(ctx context.Context, identity interface{}) context.Context {
	return context.WithValue(ctx, AuthKey, identity)
}

// WithRequestID adds request ID to the context
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, RequestIDKey, requestID)
}

// WithUserID adds user ID to the context
func WithUserID(ctx context.Context, userID int64) context.Context {
	return context.WithValue(ctx, UserIDKey, userID)
}

// WithLogger adds logger to the context
func WithLogger(ctx context.Context, logger interface{}) context.Context {
	return context.WithValue(ctx, LoggerKey, logger)
}

// GetRequestID retrieves request ID from context
func GetRequestID(ctx context.Context) string {
	if requestID, ok := ctx.Value(RequestIDKey).(string); ok {
		return requestID
	}
	return ""
}

// GetUserID retrieves user ID from context
func GetUserID(ctx context.Context) (int64, bool) {
	userID, ok := ctx.Value(UserIDKey).(int64)
	return userID, ok
}
