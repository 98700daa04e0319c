// Package rbac provides role-based access control middleware.
package rbac

import (
	"net/http"

	"github.com/shashiranjanraj/logitrack/pkg/middleware"
	"github.com/shashiranjanraj/logitrack/pkg/response"
)

// Role names known to the API.
const (
	RoleManager = "Manager"
)

// RequireRole allows the request through only when the authenticated caller
// holds at least one of roles. Authenticate must run first.
func RequireRole(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := middleware.ClaimsFromCtx(r.Context())
			if !ok {
				response.Unauthorized(w, "Missing bearer token.")
				return
			}
			for _, role := range roles {
				if claims.HasRole(role) {
					next.ServeHTTP(w, r)
					return
				}
			}
			response.Forbidden(w, "You do not have permission to perform this action.")
		})
	}
}
