package checkout

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/SantaTabla/Shop-Backend/internal/auth"
	"github.com/SantaTabla/Shop-Backend/internal/cart"
	"github.com/SantaTabla/Shop-Backend/internal/catalog"
	"github.com/SantaTabla/Shop-Backend/internal/db"
	"github.com/SantaTabla/Shop-Backend/internal/mail"
)

// Handlers generates purchase tickets out of carts.
type Handlers struct {
	Mailer mail.Notifier
}

// PurchaseHandler converts a cart into a ticket. Items whose product is
// inactive or short on stock are skipped and stay in the cart; everything
// else gets its stock decremented and moves onto the ticket.
func (h *Handlers) PurchaseHandler(w http.ResponseWriter, r *http.Request) {
	cid := chi.URLParam(r, "cid")

	var c cart.Cart
	err := db.DB.Preload("Items.Product").First(&c, "id = ?", cid).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		http.Error(w, "There is no cart with that id", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, "Failed to fetch cart: "+err.Error(), http.StatusInternalServerError)
		return
	}

	purchaser := c.UserEmail
	if p, ok := auth.PrincipalFromContext(r.Context()); ok && p.Email != "" {
		purchaser = p.Email
	}

	ticket := Ticket{
		ID:               uuid.New().String(),
		Code:             uuid.New().String(),
		PurchaseDatetime: time.Now(),
		Purchaser:        purchaser,
	}
	var unprocessed []string
	remainingTotal := 0.0

	for _, item := range c.Items {
		product := item.Product
		if !product.Status || product.Stock < item.Quantity {
			log.Printf("Purchase %s: skipping product %s (status=%t stock=%d wanted=%d)",
				ticket.Code, product.ID, product.Status, product.Stock, item.Quantity)
			unprocessed = append(unprocessed, product.ID)
			remainingTotal += product.Price * float64(item.Quantity)
			continue
		}

		if err := db.DB.Model(&catalog.Product{}).Where("id = ?", product.ID).
			Updates(catalog.StockUpdates(product.Stock - item.Quantity)).Error; err != nil {
			http.Error(w, "Failed to update stock: "+err.Error(), http.StatusInternalServerError)
			return
		}
		if err := db.DB.Delete(&cart.CartItem{}, "id = ?", item.ID).Error; err != nil {
			http.Error(w, "Failed to update cart: "+err.Error(), http.StatusInternalServerError)
			return
		}

		ticket.Amount += product.Price * float64(item.Quantity)
		ticket.Items = append(ticket.Items, TicketItem{
			ID:        uuid.New().String(),
			TicketID:  ticket.ID,
			ProductID: product.ID,
			Quantity:  item.Quantity,
		})
	}

	if len(ticket.Items) == 0 {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusConflict)
		json.NewEncoder(w).Encode(map[string]any{
			"message":     "No products in the cart could be purchased",
			"unprocessed": unprocessed,
		})
		return
	}

	if err := db.DB.Create(&ticket).Error; err != nil {
		http.Error(w, "Failed to create ticket: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if err := db.DB.Model(&c).Update("total_price", remainingTotal).Error; err != nil {
		http.Error(w, "Failed to update cart: "+err.Error(), http.StatusInternalServerError)
		return
	}

	if h.Mailer != nil {
		body := fmt.Sprintf(
			"Thanks for your purchase!\n\nTicket: %s\nDate: %s\nTotal: $%.2f\n",
			ticket.Code, ticket.PurchaseDatetime.Format(time.RFC1123), ticket.Amount)
		if err := h.Mailer.Deliver(purchaser, "Your Santa Tabla receipt", body); err != nil {
			log.Printf("Failed to send receipt for ticket %s: %v", ticket.Code, err)
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]any{
		"ticket":      ticket,
		"unprocessed": unprocessed,
	})
}
