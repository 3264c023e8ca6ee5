package cart

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/SantaTabla/Shop-Backend/internal/catalog"
	"github.com/SantaTabla/Shop-Backend/internal/db"
)

func loadCart(cid string) (*Cart, error) {
	var c Cart
	err := db.DB.Preload("Items.Product").First(&c, "id = ?", cid).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func cartNotFound(w http.ResponseWriter, err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		http.Error(w, "There is no cart with that id", http.StatusNotFound)
	} else {
		http.Error(w, "Failed to fetch cart: "+err.Error(), http.StatusInternalServerError)
	}
	return true
}

// CreateCart opens an empty cart for an email.
func CreateCart(w http.ResponseWriter, r *http.Request) {
	var body struct {
		UserEmail string `json:"user_email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request format", http.StatusBadRequest)
		return
	}

	id, err := Provisioner{}.CreateCart(body.UserEmail)
	if err != nil {
		http.Error(w, "Failed to create cart: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]string{"id": id})
}

// ListCarts returns every cart (admin panel).
func ListCarts(w http.ResponseWriter, r *http.Request) {
	var carts []Cart
	if err := db.DB.Preload("Items").Find(&carts).Error; err != nil {
		http.Error(w, "Failed to fetch carts: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(carts)
}

// GetCart returns one cart with its items and product data.
func GetCart(w http.ResponseWriter, r *http.Request) {
	c, err := loadCart(chi.URLParam(r, "cid"))
	if cartNotFound(w, err) {
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(c)
}

// attachProducts resolves every submitted line against the catalog before any
// write: ids assigned, lines bound to the cart, total computed. An unknown
// product aborts the whole replacement.
func attachProducts(cartID string, items []CartItem, find func(pid string) (catalog.Product, error)) ([]CartItem, float64, error) {
	total := 0.0
	for i := range items {
		product, err := find(items[i].ProductID)
		if err != nil {
			return nil, 0, fmt.Errorf("There is no product with id %s", items[i].ProductID)
		}
		items[i].ID = uuid.New().String()
		items[i].CartID = cartID
		total += product.Price * float64(items[i].Quantity)
	}
	return items, total, nil
}

// ReplaceItems swaps the cart's contents for the submitted item list. The
// list is validated in full first; the cart is never left half-replaced.
func ReplaceItems(w http.ResponseWriter, r *http.Request) {
	c, err := loadCart(chi.URLParam(r, "cid"))
	if cartNotFound(w, err) {
		return
	}

	var items []CartItem
	if err := json.NewDecoder(r.Body).Decode(&items); err != nil {
		http.Error(w, "Invalid request format", http.StatusBadRequest)
		return
	}

	items, total, err := attachProducts(c.ID, items, func(pid string) (catalog.Product, error) {
		var product catalog.Product
		err := db.DB.First(&product, "id = ?", pid).Error
		return product, err
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	err = db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("cart_id = ?", c.ID).Delete(&CartItem{}).Error; err != nil {
			return err
		}
		for i := range items {
			if err := tx.Create(&items[i]).Error; err != nil {
				return err
			}
		}
		return tx.Model(&Cart{}).Where("id = ?", c.ID).Update("total_price", total).Error
	})
	if err != nil {
		http.Error(w, "Failed to update cart: "+err.Error(), http.StatusInternalServerError)
		return
	}

	c, err = loadCart(c.ID)
	if cartNotFound(w, err) {
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(c)
}

// ClearCart removes every item.
func ClearCart(w http.ResponseWriter, r *http.Request) {
	c, err := loadCart(chi.URLParam(r, "cid"))
	if cartNotFound(w, err) {
		return
	}

	if err := db.DB.Where("cart_id = ?", c.ID).Delete(&CartItem{}).Error; err != nil {
		http.Error(w, "Failed to clear cart: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if err := db.DB.Model(c).Update("total_price", 0).Error; err != nil {
		http.Error(w, "Failed to clear cart: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, "Cart cleared")
}

// AddProduct puts one unit of a product in the cart, incrementing the
// quantity if it is already there.
func AddProduct(w http.ResponseWriter, r *http.Request) {
	c, err := loadCart(chi.URLParam(r, "cid"))
	if cartNotFound(w, err) {
		return
	}
	pid := chi.URLParam(r, "pid")

	var product catalog.Product
	if err := db.DB.First(&product, "id = ?", pid).Error; err != nil {
		http.Error(w, "There is no product with that id", http.StatusNotFound)
		return
	}

	var item CartItem
	err = db.DB.First(&item, "cart_id = ? AND product_id = ?", c.ID, pid).Error
	switch {
	case err == nil:
		err = db.DB.Model(&item).Update("quantity", item.Quantity+1).Error
	case errors.Is(err, gorm.ErrRecordNotFound):
		item = CartItem{
			ID:        uuid.New().String(),
			CartID:    c.ID,
			ProductID: pid,
			Quantity:  1,
		}
		err = db.DB.Create(&item).Error
	}
	if err != nil {
		http.Error(w, "Failed to add product: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if err := db.DB.Model(c).Update("total_price", c.TotalPrice+product.Price).Error; err != nil {
		http.Error(w, "Failed to add product: "+err.Error(), http.StatusInternalServerError)
		return
	}

	c, err = loadCart(c.ID)
	if cartNotFound(w, err) {
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(c)
}

// RemoveProduct drops a product line and subtracts it from the total.
func RemoveProduct(w http.ResponseWriter, r *http.Request) {
	c, err := loadCart(chi.URLParam(r, "cid"))
	if cartNotFound(w, err) {
		return
	}
	pid := chi.URLParam(r, "pid")

	var item CartItem
	if err := db.DB.Preload("Product").First(&item, "cart_id = ? AND product_id = ?", c.ID, pid).Error; err != nil {
		http.Error(w, "There is no product with that id in the cart", http.StatusNotFound)
		return
	}

	if err := db.DB.Delete(&item).Error; err != nil {
		http.Error(w, "Failed to remove product: "+err.Error(), http.StatusInternalServerError)
		return
	}
	newTotal := c.TotalPrice - item.Product.Price*float64(item.Quantity)
	if newTotal < 0 {
		newTotal = 0
	}
	if err := db.DB.Model(c).Update("total_price", newTotal).Error; err != nil {
		http.Error(w, "Failed to remove product: "+err.Error(), http.StatusInternalServerError)
		return
	}

	c, err = loadCart(c.ID)
	if cartNotFound(w, err) {
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(c)
}

// UpdateQuantity adds the submitted delta to an existing line's quantity.
func UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	c, err := loadCart(chi.URLParam(r, "cid"))
	if cartNotFound(w, err) {
		return
	}
	pid := chi.URLParam(r, "pid")

	var body struct {
		Quantity int `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request format", http.StatusBadRequest)
		return
	}

	var item CartItem
	if err := db.DB.First(&item, "cart_id = ? AND product_id = ?", c.ID, pid).Error; err != nil {
		http.Error(w, "There is no product with that id in the cart", http.StatusNotFound)
		return
	}

	if err := db.DB.Model(&item).Update("quantity", item.Quantity+body.Quantity).Error; err != nil {
		http.Error(w, "Failed to update quantity: "+err.Error(), http.StatusInternalServerError)
		return
	}

	c, err = loadCart(c.ID)
	if cartNotFound(w, err) {
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(c)
}
