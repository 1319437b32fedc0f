package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/platinummonkey/courserev/pkg/auth"
	"github.com/platinummonkey/courserev/pkg/catalog"
	"github.com/platinummonkey/courserev/pkg/httputil"
	"github.com/platinummonkey/courserev/pkg/middleware"
	"github.com/platinummonkey/courserev/pkg/observability"
)

// UserHandlers handles user accounts and token issuance
type UserHandlers struct {
	handlerDeps
	tokens *auth.TokenManager
	hasher *auth.Hasher
}

// NewUserHandlers creates a new UserHandlers
func NewUserHandlers(deps handlerDeps, tokens *auth.TokenManager, hasher *auth.Hasher) *UserHandlers {
	return &UserHandlers{
		handlerDeps: deps,
		tokens:      tokens,
		hasher:      hasher,
	}
}

// RegisterRoutes registers user routes on the /users subrouter
func (h *UserHandlers) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("", h.ListUsers).Methods("GET").Name(RouteUsers)
	router.HandleFunc("", h.CreateUser).Methods("POST")
	router.HandleFunc(idPattern, h.GetUser).Methods("GET").Name(RouteUser)
	router.Handle(idPattern, h.protect(h.UpdateUser)).Methods("PUT")
}

// RegisterTokenRoute registers GET /users/token on the API router, outside
// the users group and its rate limit. It must be registered before the
// /users subrouter.
func (h *UserHandlers) RegisterTokenRoute(router *mux.Router) {
	router.Handle("/users/token", h.protect(h.IssueToken)).Methods("GET")
}

// ListUsers handles GET /users
func (h *UserHandlers) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.ListUsers(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}

	resp := make([]*UserResponse, 0, len(users))
	for _, u := range users {
		resp = append(resp, h.shape.User(u, 0))
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]interface{}{"users": resp})
}

// CreateUser handles POST /users
func (h *UserHandlers) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req userRequest
	if err := httputil.Bind(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	hash, ok := h.hashPassword(w, r, req)
	if !ok {
		return
	}

	user, err := h.service.CreateUser(r.Context(), catalog.NewUser{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}

	h.created(RouteUser)
	observability.LoggerFromContext(r.Context()).WithField("new_user_id", user.ID).Info("User registered")
	httputil.WriteCreated(w, h.links.User(user.ID), h.shape.User(user, user.ID))
}

// GetUser handles GET /users/{id}
func (h *UserHandlers) GetUser(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParsePathInt64OrError(w, r, "id")
	if !ok {
		return
	}

	user, err := h.service.GetUser(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, h.shape.User(user, 0))
}

// UpdateUser handles PUT /users/{id}. Users may only update themselves.
func (h *UserHandlers) UpdateUser(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorID(w, r)
	if !ok {
		return
	}
	id, ok := httputil.ParsePathInt64OrError(w, r, "id")
	if !ok {
		return
	}

	var req userRequest
	if err := httputil.Bind(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	hash, ok := h.hashPassword(w, r, req)
	if !ok {
		return
	}

	user, err := h.service.UpdateUser(r.Context(), actor, id, catalog.UserUpdate{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httputil.WriteSuccess(w, h.links.User(user.ID), h.shape.User(user, actor))
}

// IssueToken handles GET /users/token
func (h *UserHandlers) IssueToken(w http.ResponseWriter, r *http.Request) {
	identity := middleware.GetIdentity(r)
	if identity == nil {
		httputil.WriteUnauthorized(w, "authentication required")
		return
	}

	token, _, err := h.tokens.Issue(identity.UserID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if h.metrics != nil {
		h.metrics.TokensIssuedTotal.Inc()
	}

	httputil.WriteJSON(w, http.StatusOK, TokenResponse{
		Token:     token,
		ExpiresIn: int64(h.tokens.TTL().Seconds()),
	})
}

func (h *UserHandlers) hashPassword(w http.ResponseWriter, r *http.Request, req userRequest) (string, bool) {
	if req.Password != req.VerifyPassword {
		httputil.WriteBadRequest(w, "password and verify_password do not match")
		return "", false
	}
	hash, err := h.hasher.Hash(req.Password)
	if err != nil {
		h.fail(w, r, err)
		return "", false
	}
	return hash, true
}
