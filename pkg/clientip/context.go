package clientip

import (
	"context"
	"log/slog"
	"net/http"
)

type contextKey struct{}

func WithContext(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, contextKey{}, ip)
}

func FromContext(ctx context.Context) string {
	ip, _ := ctx.Value(contextKey{}).(string)
	return ip
}

// Middleware stores the client IP in the request context.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r.WithContext(WithContext(r.Context(), GetIP(r))))
	})
}

// KeyFunc returns the stored client IP, resolving it from r when Middleware
// did not run. It fits ratelimiter.KeyFunc.
func KeyFunc(r *http.Request) string {
	if ip := FromContext(r.Context()); ip != "" {
		return ip
	}
	return GetIP(r)
}

// LoggerExtractor adds "client_ip" to log records.
func LoggerExtractor() func(ctx context.Context) (slog.Attr, bool) {
	return func(ctx context.Context) (slog.Attr, bool) {
		ip := FromContext(ctx)
		if ip == "" {
			return slog.Attr{}, false
		}
		return slog.String("client_ip", ip), true
	}
}
