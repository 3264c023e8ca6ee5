package catalog

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/SantaTabla/Shop-Backend/internal/auth"
)

// SetupRoutes mounts the product endpoints. The /api mount already resolved
// the principal; writes additionally require the contributor tier.
func SetupRoutes() http.Handler {
	r := chi.NewRouter()

	r.Get("/", ListProducts)
	r.Get("/{pid}", GetProduct)

	r.Group(func(r chi.Router) {
		r.Use(auth.RequireTier(auth.TierContributor))
		r.Post("/", CreateProduct)
		r.Put("/{pid}", UpdateProduct)
		r.Delete("/{pid}", DeleteProduct)
	})

	return r
}
