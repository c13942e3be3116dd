package environment

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
)

// Environment represents the runtime environment of the process.
type Environment string

const (
	Development Environment = "development"
	Staging     Environment = "staging"
	Production  Environment = "production"
)

// Parse maps an APP_ENV value (including the short aliases dev, stage and
// prod) onto an Environment. Empty input means Development.
func Parse(s string) (Environment, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "dev", string(Development):
		return Development, nil
	case "stage", string(Staging):
		return Staging, nil
	case "prod", string(Production):
		return Production, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownEnvironment, s)
	}
}

// IsProductionLike reports whether the environment talks to real users.
// Staging counts as production-like: it runs against real providers.
func (e Environment) IsProductionLike() bool {
	return e == Production || e == Staging
}

type contextKey struct{}

// WithContext adds environment to context.
func WithContext(ctx context.Context, env Environment) context.Context {
	return context.WithValue(ctx, contextKey{}, env)
}

// FromContext retrieves environment from context.
func FromContext(ctx context.Context) Environment {
	if ctx == nil {
		return ""
	}
	env, _ := ctx.Value(contextKey{}).(Environment)
	return env
}

// Middleware tags every request context with env.
func Middleware(env Environment) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(WithContext(r.Context(), env)))
		})
	}
}

// LoggerExtractor adds "env" to log records of tagged contexts.
func LoggerExtractor() func(ctx context.Context) (slog.Attr, bool) {
	return func(ctx context.Context) (slog.Attr, bool) {
		env := FromContext(ctx)
		if env == "" {
			return slog.Attr{}, false
		}
		return slog.String("env", string(env)), true
	}
}
