package cart

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/SantaTabla/Shop-Backend/internal/auth"
)

// SetupRoutes mounts the cart endpoints. The purchase handler is injected so
// the checkout package can own ticket generation without a dependency cycle.
func SetupRoutes(purchase http.HandlerFunc) http.Handler {
	r := chi.NewRouter()

	r.Post("/", CreateCart)

	r.Group(func(r chi.Router) {
		r.Use(auth.RequireTier(auth.TierAdmin))
		r.Get("/", ListCarts)
	})

	r.Group(func(r chi.Router) {
		r.Use(auth.RequireTier(auth.TierCustomer))
		r.Get("/{cid}", GetCart)
		r.Put("/{cid}", ReplaceItems)
		r.Delete("/{cid}", ClearCart)
		r.Post("/{cid}/product/{pid}", AddProduct)
		r.Delete("/{cid}/product/{pid}", RemoveProduct)
		r.Put("/{cid}/product/{pid}", UpdateQuantity)
	})

	r.Post("/{cid}/purchase", purchase)

	return r
}
