package auth

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// SetupRoutes mounts the session endpoints. Token-backed routes resolve the
// principal through the codec before any handler runs.
func SetupRoutes(h *Handlers) http.Handler {
	r := chi.NewRouter()

	r.Post("/sessions/register", h.RegisterHandler)
	r.Post("/sessions/login", h.LoginHandler)
	r.Get("/sessions/github", h.GithubHandler)
	r.Get("/sessions/github-callback", h.GithubCallbackHandler)

	r.Group(func(r chi.Router) {
		r.Use(ClaimsMiddleware(h.Engine))
		r.Get("/sessions/current", h.CurrentHandler)
		r.Get("/sessions/logout", h.LogoutHandler)
		r.Post("/sessions/login-github", h.LoginGithubHandler)
	})

	r.Group(func(r chi.Router) {
		r.Use(SessionMiddleware(h.Sessions))
		r.Get("/sessions/profile", h.ProfileHandler)
	})

	r.Post("/sessions/changePassword", h.ChangePasswordHandler)
	r.Get("/resetPassword/{uid}/{token}", h.ResetPasswordHandler)
	r.Post("/sessions/trueChangePassword", h.TrueChangePasswordHandler)

	return r
}
