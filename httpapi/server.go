package httpapi

import (
	"net"
	"net/http"

	"github.com/go-chi/chi/v5"

	blogauth "github.com/alexmrv/blogauth"
	"github.com/alexmrv/blogauth/middleware"
)

// Server exposes the engine flows over HTTP.
type Server struct {
	engine *blogauth.Engine
}

// NewServer wraps engine. The engine must be built and ready.
func NewServer(engine *blogauth.Engine) *Server {
	return &Server{engine: engine}
}

// Router returns the full route tree:
//
//	POST /auth/login
//	POST /auth/register
//	POST /auth/new-email-verification
//	POST /user/reset-password
//	POST /user/reset-password-confirm
//	PUT  /user/new-password         (authenticated)
//	PUT  /user/new-email            (authenticated)
//	GET  /user/profile              (authenticated)
//	GET  /user/                     (authenticated, admin)
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(clientIP)

	r.Route("/auth", func(r chi.Router) {
		r.Post("/login", s.handleLogin)
		r.Post("/register", s.handleRegister)
		r.Post("/new-email-verification", s.handleVerifyEmail)
	})

	r.Route("/user", func(r chi.Router) {
		r.Post("/reset-password", s.handleResetPassword)
		r.Post("/reset-password-confirm", s.handleResetPasswordConfirm)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth(s.engine))
			r.Put("/new-password", s.handleNewPassword)
			r.Put("/new-email", s.handleNewEmail)
			r.Get("/profile", s.handleProfile)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAdmin())
				r.Get("/", s.handleUsers)
			})
		})
	})

	return r
}

// clientIP records the caller address on the request context so the
// engine's audit trail can carry it.
func clientIP(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		host, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			host = r.RemoteAddr
		}
		if host != "" {
			r = r.WithContext(blogauth.WithClientIP(r.Context(), host))
		}
		next.ServeHTTP(w, r)
	})
}
