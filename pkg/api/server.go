package api

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/platinummonkey/courserev/pkg/auth"
	"github.com/platinummonkey/courserev/pkg/catalog"
	"github.com/platinummonkey/courserev/pkg/httputil"
	"github.com/platinummonkey/courserev/pkg/middleware"
	"github.com/platinummonkey/courserev/pkg/observability"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// APIPrefix is where the handler groups are mounted
const APIPrefix = "/api/v1"

// Limits holds the limiter behind each rate limit group. A nil limiter
// leaves its group unlimited.
type Limits struct {
	// Default applies to every API route, per client IP
	Default middleware.Limiter
	// Users applies to the users group, per client IP. GET /users/token
	// sits outside the group and only counts against Default.
	Users middleware.Limiter
	// Writes applies to POST, PUT and DELETE on courses and reviews,
	// per client IP and method
	Writes middleware.Limiter
	// TrustProxy keys clients by X-Forwarded-For / X-Real-IP
	TrustProxy bool
}

// Config wires a Server
type Config struct {
	Service catalog.Service
	Tokens  *auth.TokenManager
	Hasher  *auth.Hasher
	Logger  *logrus.Logger

	// Optional
	Metrics      *observability.Metrics
	Limits       *Limits
	PublicURL    string
	CORSOrigins  []string
	MaxBodyBytes int64
	Tracing      bool
}

// Server represents our API server
type Server struct {
	router  *mux.Router
	links   *Linker
	logger  *logrus.Logger
	cfg     Config
	handler http.Handler
}

// NewServer creates a new API server
func NewServer(cfg Config) (*Server, error) {
	if cfg.Service == nil {
		return nil, errors.New("api: service is required")
	}
	if cfg.Tokens == nil {
		return nil, errors.New("api: token manager is required")
	}
	if cfg.Hasher == nil {
		cfg.Hasher = auth.NewHasher(0)
	}
	if cfg.Logger == nil {
		cfg.Logger = logrus.StandardLogger()
	}

	s := &Server{
		router: mux.NewRouter(),
		logger: cfg.Logger,
		cfg:    cfg,
	}
	s.links = NewLinker(s.router, cfg.PublicURL)
	s.setupRoutes()
	s.handler = s.buildHandler()
	return s, nil
}

// setupRoutes configures all the API routes
func (s *Server) setupRoutes() {
	s.router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		httputil.WriteNotFoundError(w, "resource not found")
	})
	s.router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		httputil.WriteErrorMessage(w, http.StatusMethodNotAllowed, "method not allowed")
	})
	if s.cfg.Metrics != nil {
		s.router.Use(observability.HTTPMetricsMiddleware(s.cfg.Metrics))
	}

	authn := middleware.NewAuthMiddleware(s.cfg.Service, s.cfg.Tokens, s.cfg.Hasher, s.cfg.Metrics)
	deps := handlerDeps{
		service: s.cfg.Service,
		links:   s.links,
		shape:   NewShaper(s.links),
		authn:   authn.Handler,
		metrics: s.cfg.Metrics,
	}

	api := s.router.PathPrefix(APIPrefix).Subrouter()
	s.limit(api, "default", s.limits().Default, middleware.ByIP(s.limits().TrustProxy))

	userHandlers := NewUserHandlers(deps, s.cfg.Tokens, s.cfg.Hasher)
	userHandlers.RegisterTokenRoute(api)
	users := api.PathPrefix("/users").Subrouter()
	s.limit(users, "users", s.limits().Users, middleware.ByIP(s.limits().TrustProxy))
	userHandlers.RegisterRoutes(users)

	courses := api.PathPrefix("/courses").Subrouter()
	s.limitWrites(courses, "courses")
	NewCourseHandlers(deps).RegisterRoutes(courses)

	reviews := api.PathPrefix("/reviews").Subrouter()
	s.limitWrites(reviews, "reviews")
	NewReviewHandlers(deps).RegisterRoutes(reviews)

	NewCommentHandlers(deps).RegisterRoutes(api.PathPrefix("/comments").Subrouter())
	NewEditHandlers(deps).RegisterRoutes(api.PathPrefix("/edits").Subrouter())
	NewTagHandlers(deps).RegisterRoutes(api)
	NewVoteHandlers(deps).RegisterRoutes(api)
}

func (s *Server) limits() *Limits {
	if s.cfg.Limits == nil {
		return &Limits{}
	}
	return s.cfg.Limits
}

func (s *Server) limit(router *mux.Router, name string, limiter middleware.Limiter, key middleware.KeyFunc) {
	if limiter == nil {
		return
	}
	router.Use(middleware.NewRateLimitMiddleware(name, limiter, key, s.cfg.Metrics).Handler)
}

func (s *Server) limitWrites(router *mux.Router, name string) {
	limits := s.limits()
	if limits.Writes == nil {
		return
	}
	mw := middleware.NewRateLimitMiddleware(name, limits.Writes, middleware.ByIPAndMethod(limits.TrustProxy), s.cfg.Metrics)
	router.Use(middleware.Only(mw.Handler, "POST", "PUT", "DELETE"))
}

// buildHandler wraps the router with the middleware that must see every
// request, matched or not
func (s *Server) buildHandler() http.Handler {
	chain := []func(http.Handler) http.Handler{
		httputil.RequestIDMiddleware(s.logger),
		httputil.LoggingMiddleware,
		httputil.RecoveryMiddleware,
	}
	if len(s.cfg.CORSOrigins) > 0 {
		chain = append(chain, httputil.CORSMiddleware(s.cfg.CORSOrigins))
	}
	if s.cfg.MaxBodyBytes > 0 {
		chain = append(chain, httputil.MaxBytesMiddleware(s.cfg.MaxBodyBytes))
	}

	h := httputil.Chain(chain...)(s.router)
	if s.cfg.Tracing {
		h = otelhttp.NewHandler(h, "courserev",
			otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
				return r.Method + " " + r.URL.Path
			}))
	}
	return h
}

// Router exposes the underlying router
func (s *Server) Router() *mux.Router {
	return s.router
}

// Links exposes the server's URL builder
func (s *Server) Links() *Linker {
	return s.links
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}
