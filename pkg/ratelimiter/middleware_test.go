package ratelimiter_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lottomart/notifier/pkg/ratelimiter"
)

type failingLimiter struct{}

func (failingLimiter) Allow(context.Context, string) (*ratelimiter.Result, error) {
	return nil, ratelimiter.ErrStoreUnavailable
}

func (failingLimiter) AllowN(context.Context, string, int) (*ratelimiter.Result, error) {
	return nil, ratelimiter.ErrStoreUnavailable
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
}

func TestMiddleware_Enforces(t *testing.T) {
	t.Parallel()

	b, _ := newBucket(t, ratelimiter.Config{Capacity: 2, RefillRate: 2, RefillInterval: time.Minute})
	h := ratelimiter.Middleware(b, func(r *http.Request) string { return r.Header.Get("X-Admin") })(okHandler())

	send := func(admin string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/admin/send-notification", nil)
		req.Header.Set("X-Admin", admin)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	first := send("a")
	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, "2", first.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "1", first.Header().Get("X-RateLimit-Remaining"))

	assert.Equal(t, http.StatusOK, send("a").Code)

	rejected := send("a")
	assert.Equal(t, http.StatusTooManyRequests, rejected.Code)
	assert.Equal(t, "0", rejected.Header().Get("X-RateLimit-Remaining"))

	assert.Equal(t, http.StatusOK, send("b").Code)
}

func TestMiddleware_EmptyKeyFallsBackToRemoteIP(t *testing.T) {
	t.Parallel()

	b, _ := newBucket(t, ratelimiter.Config{Capacity: 1, RefillRate: 1, RefillInterval: time.Minute})
	h := ratelimiter.Middleware(b, func(*http.Request) string { return "" })(okHandler())

	send := func(addr string) int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, send("10.0.0.1:1234"))
	assert.Equal(t, http.StatusTooManyRequests, send("10.0.0.1:5678"))
	assert.Equal(t, http.StatusOK, send("10.0.0.2:1234"))
}

func TestMiddleware_CustomResponder(t *testing.T) {
	t.Parallel()

	var gotErr error
	responder := func(w http.ResponseWriter, _ *http.Request, result *ratelimiter.Result, err error) {
		gotErr = err
		if err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		require.NotNil(t, result)
		w.WriteHeader(http.StatusTeapot)
	}

	h := ratelimiter.Middleware(failingLimiter{}, func(*http.Request) string { return "k" },
		ratelimiter.WithErrorResponder(responder))(okHandler())
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.True(t, errors.Is(gotErr, ratelimiter.ErrStoreUnavailable))

	b, _ := newBucket(t, ratelimiter.Config{Capacity: 1, RefillRate: 1, RefillInterval: time.Minute})
	h = ratelimiter.Middleware(b, func(*http.Request) string { return "k" },
		ratelimiter.WithErrorResponder(responder))(okHandler())
	for range 2 {
		rec = httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	}
	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
}
