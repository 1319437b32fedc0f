package auth

import (
	"context"

	"github.com/platinummonkey/courserev/pkg/contextkeys"
)

// Method names how a request was authenticated
type Method string

const (
	MethodBasic  Method = "basic"
	MethodBearer Method = "bearer"
)

// Identity is the authenticated user bound to a request
type Identity struct {
	UserID   int64
	Username string
	Method   Method
}

// WithIdentity returns a copy of ctx carrying id
func WithIdentity(ctx context.Context, id *Identity) context.Context {
	return contextkeys.WithAuth(ctx, id)
}

// IdentityFromContext returns the identity bound by the auth middleware, if any
func IdentityFromContext(ctx context.Context) (*Identity, bool) {
	id, ok := ctx.Value(contextkeys.AuthKey).(*Identity)
	return id, ok && id != nil
}
