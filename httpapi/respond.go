package httpapi

import (
	"encoding/json"
	"net/http"
	"time"

	blogauth "github.com/alexmrv/blogauth"
)

// userPayload is the JSON rendering of a sanitized account.
type userPayload struct {
	ID                 string     `json:"id"`
	Name               string     `json:"name"`
	Email              string     `json:"email"`
	Image              string     `json:"image,omitempty"`
	Role               string     `json:"role"`
	EmailVerified      *time.Time `json:"emailVerified"`
	IsTwoFactorEnabled bool       `json:"isTwoFactorEnabled"`
}

func toUserPayload(u *blogauth.UserRecord) userPayload {
	p := userPayload{
		ID:                 u.ID,
		Name:               u.Name,
		Email:              u.Email,
		Image:              u.Image,
		Role:               string(u.Role),
		IsTwoFactorEnabled: u.TwoFactorEnabled,
	}
	if !u.EmailVerifiedAt.IsZero() {
		t := u.EmailVerifiedAt
		p.EmailVerified = &t
	}
	return p
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeErrorCode(w http.ResponseWriter, status int, code string) {
	writeJSON(w, status, map[string]any{
		"success": false,
		"error":   code,
	})
}

// decodeBody parses a request body into dst. Unknown fields are rejected
// so typos in option names surface instead of silently passing.
func decodeBody(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}
