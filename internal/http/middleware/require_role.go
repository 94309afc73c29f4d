package middleware

import (
	"net/http"

	"github.com/rentwell/propman/internal/httputil"
	"github.com/rentwell/propman/pkg/domain"
)

// RequireRole creates middleware that rejects authenticated requests whose
// role does not match. Must run after Auth.
func RequireRole(role domain.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got, ok := GetRole(r.Context())
			if !ok {
				httputil.Error(w, http.StatusUnauthorized, "missing authorization")
				return
			}
			if got != role {
				httputil.Error(w, http.StatusForbidden, "insufficient permissions")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
