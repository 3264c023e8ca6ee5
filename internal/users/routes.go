package users

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/SantaTabla/Shop-Backend/internal/auth"
)

func SetupRoutes(h *Handlers) http.Handler {
	r := chi.NewRouter()

	r.Group(func(r chi.Router) {
		r.Use(auth.RequireTier(auth.TierCustomer))
		r.Get("/premium/{uid}", h.PremiumHandler)
		r.Post("/{uid}/documents", UploadDocumentsHandler)
	})

	r.Group(func(r chi.Router) {
		r.Use(auth.RequireTier(auth.TierAdmin))
		r.Get("/", ListUsers)
		r.Post("/{uid}/changeRoleByAdmin", ChangeRoleByAdminHandler)
		r.Delete("/{uid}/deleteUser", DeleteUserHandler)
		r.Delete("/clean", h.CleanInactiveHandler)
	})

	return r
}
