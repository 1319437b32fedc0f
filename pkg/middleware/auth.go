package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/platinummonkey/courserev/pkg/auth"
	"github.com/platinummonkey/courserev/pkg/catalog"
	"github.com/platinummonkey/courserev/pkg/contextkeys"
	"github.com/platinummonkey/courserev/pkg/httputil"
	"github.com/platinummonkey/courserev/pkg/observability"
)

// DefaultRealm is sent in the WWW-Authenticate challenge
const DefaultRealm = "Authentication Required"

// UserStore resolves the user behind a credential.
// catalog.Service satisfies it.
type UserStore interface {
	GetUser(ctx context.Context, id int64) (*catalog.UserDetail, error)
	GetUserByUsername(ctx context.Context, username string) (*catalog.User, error)
}

// AuthMiddleware accepts either a bearer token issued by /users/token or
// HTTP basic credentials, and binds the resolved *auth.Identity to the
// request context
type AuthMiddleware struct {
	users   UserStore
	tokens  *auth.TokenManager
	hasher  *auth.Hasher
	metrics *observability.Metrics
	realm   string
}

// NewAuthMiddleware creates a new authentication middleware. metrics may be nil.
func NewAuthMiddleware(users UserStore, tokens *auth.TokenManager, hasher *auth.Hasher, metrics *observability.Metrics) *AuthMiddleware {
	return &AuthMiddleware{
		users:   users,
		tokens:  tokens,
		hasher:  hasher,
		metrics: metrics,
		realm:   DefaultRealm,
	}
}

var errBadCredentials = errors.New("invalid credentials")

// Handler wraps an HTTP handler with authentication
func (m *AuthMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			m.unauthorizedResponse(w, "", "missing authorization header")
			return
		}

		scheme, credential, _ := strings.Cut(authHeader, " ")

		var (
			identity *auth.Identity
			err      error
			method   auth.Method
		)
		switch strings.ToLower(scheme) {
		case "bearer":
			method = auth.MethodBearer
			identity, err = m.fromToken(r.Context(), strings.TrimSpace(credential))
		case "basic":
			method = auth.MethodBasic
			identity, err = m.fromBasic(r)
		default:
			m.unauthorizedResponse(w, "", "invalid authorization header format")
			return
		}

		if err != nil {
			if !errors.Is(err, errBadCredentials) {
				observability.LoggerFromContext(r.Context()).WithError(err).Error("Failed to authenticate request")
				httputil.WriteInternalError(w)
				return
			}
			m.unauthorizedResponse(w, method, "invalid or expired credentials")
			return
		}

		ctx := auth.WithIdentity(r.Context(), identity)
		ctx = contextkeys.WithUserID(ctx, identity.UserID)
		ctx = observability.WithLogger(ctx, observability.LoggerFromContext(r.Context()).WithField("user_id", identity.UserID))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// HandlerFunc is Handler for a plain function
func (m *AuthMiddleware) HandlerFunc(next http.HandlerFunc) http.Handler {
	return m.Handler(next)
}

func (m *AuthMiddleware) fromToken(ctx context.Context, token string) (*auth.Identity, error) {
	userID, err := m.tokens.Verify(token)
	if err != nil {
		return nil, errBadCredentials
	}

	user, err := m.users.GetUser(ctx, userID)
	if errors.Is(err, catalog.ErrNotFound) {
		return nil, errBadCredentials
	}
	if err != nil {
		return nil, err
	}

	return &auth.Identity{UserID: user.ID, Username: user.Username, Method: auth.MethodBearer}, nil
}

func (m *AuthMiddleware) fromBasic(r *http.Request) (*auth.Identity, error) {
	username, password, ok := r.BasicAuth()
	if !ok || username == "" {
		return nil, errBadCredentials
	}

	user, err := m.users.GetUserByUsername(r.Context(), username)
	if errors.Is(err, catalog.ErrNotFound) {
		return nil, errBadCredentials
	}
	if err != nil {
		return nil, err
	}

	if err := m.hasher.Check(user.PasswordHash, password); err != nil {
		if errors.Is(err, auth.ErrBadPassword) {
			return nil, errBadCredentials
		}
		return nil, err
	}

	return &auth.Identity{UserID: user.ID, Username: user.Username, Method: auth.MethodBasic}, nil
}

func (m *AuthMiddleware) unauthorizedResponse(w http.ResponseWriter, method auth.Method, message string) {
	if m.metrics != nil {
		label := string(method)
		if label == "" {
			label = "none"
		}
		m.metrics.AuthFailuresTotal.WithLabelValues(label).Inc()
	}
	w.Header().Set("WWW-Authenticate", `Basic realm="`+m.realm+`"`)
	httputil.WriteUnauthorized(w, message)
}

// GetIdentity extracts the authenticated identity from the request
func GetIdentity(r *http.Request) *auth.Identity {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		return nil
	}
	return identity
}
