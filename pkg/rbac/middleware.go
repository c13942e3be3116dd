package rbac

import (
	"net/http"
)

// RoleFunc returns the caller's role for a request.
type RoleFunc func(r *http.Request) (string, bool)

// Require answers with onError unless the caller's role holds permission.
func Require(a *Authorizer, permission string, role RoleFunc, onError func(http.ResponseWriter, *http.Request, error)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			name, ok := role(r)
			if !ok {
				onError(w, r, ErrRoleNotFound)
				return
			}
			if err := a.Can(name, permission); err != nil {
				onError(w, r, err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
