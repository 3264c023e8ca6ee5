package cart

import (
	"time"

	"github.com/SantaTabla/Shop-Backend/internal/catalog"
)

// Cart belongs to one account (by email) and accumulates items until
// purchase drains it.
type Cart struct {
	ID         string     `gorm:"primaryKey" json:"id"`
	UserEmail  string     `json:"user_email"`
	TotalPrice float64    `gorm:"default:0" json:"total_price"`
	Items      []CartItem `gorm:"foreignKey:CartID" json:"items"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// CartItem is one product line in a cart.
type CartItem struct {
	ID        string          `gorm:"primaryKey" json:"id"`
	CartID    string          `gorm:"not null;index" json:"-"`
	ProductID string          `gorm:"not null" json:"product_id"`
	Quantity  int             `gorm:"not null" json:"quantity"`
	Product   catalog.Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}

func (Cart) TableName() string     { return "shop_cart.carts" }
func (CartItem) TableName() string { return "shop_cart.cart_items" }
