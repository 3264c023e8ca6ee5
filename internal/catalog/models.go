package catalog

import (
	"time"

	"github.com/lib/pq"
)

// Product is a catalog entry. Owner is "admin" for house products or the
// email of the premium user who listed it.
type Product struct {
	ID          string         `gorm:"primaryKey" json:"id"`
	Title       string         `gorm:"not null" json:"title"`
	Description string         `gorm:"not null" json:"description"`
	Price       float64        `gorm:"not null" json:"price"`
	Thumbnails  pq.StringArray `gorm:"type:text[]" json:"thumbnails"`
	Code        string         `gorm:"uniqueIndex;not null" json:"code"`
	Stock       int            `gorm:"not null" json:"stock"`
	Status      bool           `gorm:"default:true" json:"status"`
	Category    string         `gorm:"not null;index" json:"category"`
	Owner       string         `gorm:"default:'admin'" json:"owner"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

func (Product) TableName() string { return "shop_catalog.products" }

// StockUpdates returns the column changes for a stock adjustment. Stock
// hitting zero deactivates the product so it drops out of active listings;
// every path that writes stock goes through this rule.
func StockUpdates(stock int) map[string]any {
	updates := map[string]any{"stock": stock}
	if stock == 0 {
		updates["status"] = false
	}
	return updates
}
