package ratelimit

import (
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"time"

	"licensehub/pkg/platform/httputil"
	"licensehub/pkg/requestcontext"
)

// Middleware limits state-changing requests per authenticated actor. Reads
// pass through untouched.
type Middleware struct {
	store    Store
	logger   *slog.Logger
	limit    int
	window   time.Duration
	disabled bool
}

type Option func(*Middleware)

// WithDisabled turns the limiter into a pass-through.
func WithDisabled(disabled bool) Option {
	return func(m *Middleware) {
		m.disabled = disabled
	}
}

func New(store Store, limit int, window time.Duration, logger *slog.Logger, opts ...Option) *Middleware {
	m := &Middleware{
		store:  store,
		logger: logger,
		limit:  limit,
		window: window,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.disabled || m.limit <= 0 {
		m.disabled = true
		logger.Info("admin write rate limiting disabled")
	}
	return m
}

// LimitWrites must run after authentication so the actor is known.
func (m *Middleware) LimitWrites(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m.disabled || !isWrite(r.Method) {
			next.ServeHTTP(w, r)
			return
		}
		ctx := r.Context()
		actor := requestcontext.ActorFrom(ctx)
		key := "admin-writes:" + actor.Subject

		result, err := m.store.Allow(ctx, key, m.limit, m.window)
		if err != nil {
			// Fail open: a limiter outage must not block license administration.
			m.logger.ErrorContext(ctx, "rate limit check failed",
				"error", err,
				"actor", actor.Subject,
				"request_id", requestcontext.RequestID(ctx),
			)
			next.ServeHTTP(w, r)
			return
		}

		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(result.Limit))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(result.ResetAt.Unix(), 10))

		if !result.Allowed {
			retry := int(math.Ceil(result.RetryAfter.Seconds()))
			if retry < 1 {
				retry = 1
			}
			m.logger.WarnContext(ctx, "admin write rate limit exceeded",
				"actor", actor.Subject,
				"request_id", requestcontext.RequestID(ctx),
			)
			w.Header().Set("Retry-After", strconv.Itoa(retry))
			httputil.WriteJSON(w, http.StatusTooManyRequests, &ExceededResponse{
				Error:      "rate_limit_exceeded",
				Message:    "Too many license changes. Please try again later.",
				RetryAfter: retry,
			})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func isWrite(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	}
	return false
}
