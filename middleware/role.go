package middleware

import (
	"net/http"

	blogauth "github.com/alexmrv/blogauth"
)

// RequireAdmin rejects requests whose context user is not an admin. It
// must run after [RequireAuth]; a request with no context user is
// rejected the same way.
func RequireAdmin() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := UserFromContext(r.Context())
			if !ok || user.Role != blogauth.RoleAdmin {
				writeError(w, http.StatusUnauthorized, "errorUserIsNotAdmin")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
