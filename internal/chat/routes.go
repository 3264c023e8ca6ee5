package chat

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/SantaTabla/Shop-Backend/internal/auth"
)

func SetupRoutes() http.Handler {
	r := chi.NewRouter()

	r.Group(func(r chi.Router) {
		r.Use(auth.RequireTier(auth.TierCustomer))
		r.Get("/", ListMessages)
		r.Post("/", PostMessage)
	})

	return r
}
