package ratelimiter

import (
	"net"
	"net/http"
	"strconv"
)

// KeyFunc extracts the rate limit key from a request.
type KeyFunc func(r *http.Request) string

// RemoteIP keys by the connection's remote address without port.
func RemoteIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// ErrorResponder writes the response for a rejected request (result set,
// err nil) or a limiter failure (err set).
type ErrorResponder func(w http.ResponseWriter, r *http.Request, result *Result, err error)

type middlewareConfig struct {
	responder ErrorResponder
	fallback  KeyFunc
}

type MiddlewareOption func(*middlewareConfig)

func WithErrorResponder(fn ErrorResponder) MiddlewareOption {
	return func(c *middlewareConfig) { c.responder = fn }
}

// WithFallbackKey is used when the primary KeyFunc returns "".
func WithFallbackKey(fn KeyFunc) MiddlewareOption {
	return func(c *middlewareConfig) { c.fallback = fn }
}

func defaultResponder(w http.ResponseWriter, _ *http.Request, _ *Result, err error) {
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	http.Error(w, "Too Many Requests", http.StatusTooManyRequests)
}

// Middleware limits requests per key and sets X-RateLimit-* headers.
func Middleware(limiter RateLimiter, keyFunc KeyFunc, opts ...MiddlewareOption) func(http.Handler) http.Handler {
	cfg := &middlewareConfig{responder: defaultResponder, fallback: RemoteIP}
	for _, opt := range opts {
		opt(cfg)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := keyFunc(r)
			if key == "" {
				key = cfg.fallback(r)
			}

			result, err := limiter.Allow(r.Context(), key)
			if err != nil {
				cfg.responder(w, r, nil, err)
				return
			}

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(result.Limit))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(max(0, result.Remaining)))
			w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(result.ResetAt.Unix(), 10))

			if !result.Allowed() {
				if secs := int(result.RetryAfter().Seconds()); secs > 0 {
					w.Header().Set("Retry-After", strconv.Itoa(secs))
				}
				cfg.responder(w, r, result, nil)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
