package middleware

import (
	"context"
	"fmt"
	"math"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/platinummonkey/courserev/pkg/observability"
)

// DefaultMaxKeys bounds the in-memory bucket table
const DefaultMaxKeys = 100_000

// Decision is the outcome of a rate limit check
type Decision struct {
	Allowed    bool
	Limit      int
	Remaining  int
	RetryAfter time.Duration
	ResetAt    time.Time
}

// Limiter decides whether one more request is allowed for a key
type Limiter interface {
	Allow(ctx context.Context, key string) (Decision, error)
}

// RateLimiter is an in-memory token bucket limiter. Buckets hold up to
// Rate.Limit tokens and refill continuously over Rate.Period. Buckets idle
// for a full period are full again, so they expire from the table; when the
// table is at capacity the least recently used bucket is dropped.
type RateLimiter struct {
	rate    Rate
	buckets *expirable.LRU[string, *bucket]
	mu      sync.Mutex
	now     func() time.Time
}

type bucket struct {
	tokens     float64
	lastUpdate time.Time
}

// NewRateLimiter creates a new rate limiter holding at most maxKeys buckets
func NewRateLimiter(rate Rate, maxKeys int) *RateLimiter {
	if maxKeys <= 0 {
		maxKeys = DefaultMaxKeys
	}
	return &RateLimiter{
		rate:    rate,
		buckets: expirable.NewLRU[string, *bucket](maxKeys, nil, rate.Period),
		now:     time.Now,
	}
}

// Allow takes a token from key's bucket if one is available
func (rl *RateLimiter) Allow(_ context.Context, key string) (Decision, error) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	capacity := float64(rl.rate.Limit)
	perSecond := capacity / rl.rate.Period.Seconds()

	b, ok := rl.buckets.Get(key)
	if !ok {
		b = &bucket{tokens: capacity, lastUpdate: now}
	}

	elapsed := now.Sub(b.lastUpdate).Seconds()
	b.tokens = math.Min(capacity, b.tokens+elapsed*perSecond)
	b.lastUpdate = now

	d := Decision{Limit: rl.rate.Limit}
	if b.tokens >= 1 {
		b.tokens--
		d.Allowed = true
	} else {
		d.RetryAfter = time.Duration((1 - b.tokens) / perSecond * float64(time.Second))
	}
	d.Remaining = int(b.tokens)
	d.ResetAt = now.Add(time.Duration((capacity - b.tokens) / perSecond * float64(time.Second)))

	// re-adding refreshes the entry's expiry
	rl.buckets.Add(key, b)
	return d, nil
}

// Len returns the number of tracked keys
func (rl *RateLimiter) Len() int {
	return rl.buckets.Len()
}

// KeyFunc derives the rate limit key for a request
type KeyFunc func(r *http.Request) string

// ByIP keys requests by client address. When trustProxy is set the first
// X-Forwarded-For hop, then X-Real-IP, is preferred over the socket address.
func ByIP(trustProxy bool) KeyFunc {
	return func(r *http.Request) string {
		return "ip:" + clientIP(r, trustProxy)
	}
}

// ByIPAndMethod keys requests by client address and HTTP method
func ByIPAndMethod(trustProxy bool) KeyFunc {
	return func(r *http.Request) string {
		return "ip:" + clientIP(r, trustProxy) + ":" + r.Method
	}
}

func clientIP(r *http.Request, trustProxy bool) string {
	if trustProxy {
		if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
			first, _, _ := strings.Cut(forwarded, ",")
			if ip := strings.TrimSpace(first); ip != "" {
				return ip
			}
		}
		if realIP := strings.TrimSpace(r.Header.Get("X-Real-IP")); realIP != "" {
			return realIP
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// RateLimitMiddleware applies one named limit to the routes it wraps
type RateLimitMiddleware struct {
	name    string
	limiter Limiter
	key     KeyFunc
	metrics *observability.Metrics
}

// NewRateLimitMiddleware creates a new rate limit middleware. metrics may be nil.
func NewRateLimitMiddleware(name string, limiter Limiter, key KeyFunc, metrics *observability.Metrics) *RateLimitMiddleware {
	return &RateLimitMiddleware{
		name:    name,
		limiter: limiter,
		key:     key,
		metrics: metrics,
	}
}

// Handler wraps an HTTP handler with rate limiting
func (m *RateLimitMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := m.name + ":" + m.key(r)

		d, err := m.limiter.Allow(r.Context(), key)
		if err != nil {
			// fail open
			observability.LoggerFromContext(r.Context()).
				WithError(err).
				WithField("limit", m.name).
				Warn("Rate limiter unavailable, allowing request")
			next.ServeHTTP(w, r)
			return
		}

		setRateLimitHeaders(w, d)
		if !d.Allowed {
			if m.metrics != nil {
				m.metrics.RateLimitedTotal.WithLabelValues(m.name).Inc()
			}
			rateLimitExceeded(w, d)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// Only restricts a middleware to the listed HTTP methods
func Only(mw func(http.Handler) http.Handler, methods ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		limited := mw(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			for _, method := range methods {
				if r.Method == method {
					limited.ServeHTTP(w, r)
					return
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

func setRateLimitHeaders(w http.ResponseWriter, d Decision) {
	w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", d.Limit))
	w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", d.Remaining))
	if !d.ResetAt.IsZero() {
		w.Header().Set("X-RateLimit-Reset", fmt.Sprintf("%d", d.ResetAt.Unix()))
	}
}

func rateLimitExceeded(w http.ResponseWriter, d Decision) {
	retryAfter := int64(math.Ceil(d.RetryAfter.Seconds()))
	if retryAfter < 1 {
		retryAfter = 1
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Retry-After", fmt.Sprintf("%d", retryAfter))
	w.Header().Set("X-RateLimit-Remaining", "0")
	w.WriteHeader(http.StatusTooManyRequests)
	w.Write([]byte(fmt.Sprintf(`{"error":"rate limit exceeded","retry_after":%d}`, retryAfter)))
}
