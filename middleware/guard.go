package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	blogauth "github.com/alexmrv/blogauth"
)

type userContextKey struct{}

// UserFromContext returns the authenticated user injected by
// [RequireAuth].
func UserFromContext(ctx context.Context) (*blogauth.UserRecord, bool) {
	user, ok := ctx.Value(userContextKey{}).(*blogauth.UserRecord)
	return user, ok
}

// RequireAuth reads the Authorization bearer token, resolves the account
// through the engine and injects it into the request context. Requests
// without a valid token are rejected with a JSON error body.
func RequireAuth(engine *blogauth.Engine) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if engine == nil {
				writeError(w, http.StatusUnauthorized, "errorAuth")
				return
			}

			token, ok := bearerToken(r.Header.Get("Authorization"))
			if !ok {
				writeError(w, http.StatusUnauthorized, "errorAuthToken")
				return
			}

			user, err := engine.Authenticate(r.Context(), token)
			if err != nil {
				switch {
				case errors.Is(err, blogauth.ErrUserNotFound):
					writeError(w, http.StatusBadRequest, "errorUserNotFound")
				default:
					writeError(w, http.StatusUnauthorized, "errorAuth")
				}
				return
			}

			ctx := context.WithValue(r.Context(), userContextKey{}, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(value string) (string, bool) {
	const bearer = "Bearer "
	if !strings.HasPrefix(value, bearer) {
		return "", false
	}

	token := value[len(bearer):]
	if token == "" {
		return "", false
	}

	return token, true
}

func writeError(w http.ResponseWriter, status int, code string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{
		"error": code,
	})
}
