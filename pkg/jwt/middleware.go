package jwt

import (
	"net/http"
	"strings"
)

// ErrorResponder writes the 401 response.
type ErrorResponder func(w http.ResponseWriter, r *http.Request, err error)

// Middleware verifies the bearer token and stores Claims in the request
// context. Failures go to onError, or a plain 401 when onError is nil.
func Middleware(service *Service, onError ErrorResponder) func(http.Handler) http.Handler {
	if onError == nil {
		onError = func(w http.ResponseWriter, _ *http.Request, err error) {
			http.Error(w, err.Error(), http.StatusUnauthorized)
		}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := BearerTokenExtractor(r)
			if err != nil {
				onError(w, r, err)
				return
			}
			claims, err := service.Verify(token)
			if err != nil {
				onError(w, r, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
		})
	}
}

// BearerTokenExtractor reads "Authorization: Bearer <token>". The scheme is
// case-insensitive.
func BearerTokenExtractor(r *http.Request) (string, error) {
	scheme, token, ok := strings.Cut(r.Header.Get("Authorization"), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
		return "", ErrMissingToken
	}
	return strings.TrimSpace(token), nil
}
