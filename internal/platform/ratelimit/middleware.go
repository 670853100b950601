package ratelimit

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"certhub/pkg/platform/httputil"
	"certhub/pkg/requestcontext"
)

// Middleware limits mutating requests per actor, falling back to client IP
// for unauthenticated callers. Reads pass through untouched.
type Middleware struct {
	store    Store
	limit    int
	window   time.Duration
	logger   *slog.Logger
	disabled bool
}

type Option func(*Middleware)

// WithDisabled turns the limiter into a pass-through.
func WithDisabled(disabled bool) Option {
	return func(m *Middleware) {
		m.disabled = disabled
	}
}

func WithWindow(window time.Duration) Option {
	return func(m *Middleware) {
		if window > 0 {
			m.window = window
		}
	}
}

func New(store Store, limit int, logger *slog.Logger, opts ...Option) *Middleware {
	m := &Middleware{
		store:  store,
		limit:  limit,
		window: time.Minute,
		logger: logger,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.limit <= 0 {
		m.disabled = true
	}
	return m
}

type exceededResponse struct {
	Error      string `json:"error"`
	Message    string `json:"error_description"`
	RetryAfter int    `json:"retry_after"`
}

// Writes limits POST, PUT, PATCH and DELETE.
func (m *Middleware) Writes(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m.disabled || isRead(r.Method) {
			next.ServeHTTP(w, r)
			return
		}

		ctx := r.Context()
		key := "ip:" + requestcontext.ClientIP(ctx)
		if actor := requestcontext.ActorID(ctx); actor != "" {
			key = "actor:" + actor
		}

		result, err := m.store.Allow(ctx, key, m.limit, m.window)
		if err != nil {
			// Fail open.
			m.logger.ErrorContext(ctx, "rate limit check failed",
				"request_id", requestcontext.RequestID(ctx),
				"error", err,
			)
			next.ServeHTTP(w, r)
			return
		}

		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(result.Limit))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(result.ResetAt.Unix(), 10))

		if !result.Allowed {
			m.logger.WarnContext(ctx, "rate limit exceeded",
				"request_id", requestcontext.RequestID(ctx),
				"key", key,
			)
			w.Header().Set("Retry-After", strconv.Itoa(result.RetryAfter))
			httputil.WriteJSON(w, http.StatusTooManyRequests, exceededResponse{
				Error:      "rate_limit_exceeded",
				Message:    "Too many changes in a short period. Please try again shortly.",
				RetryAfter: result.RetryAfter,
			})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func isRead(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return true
	}
	return false
}
