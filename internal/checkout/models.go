package checkout

import "time"

// Ticket records a completed purchase.
type Ticket struct {
	ID               string       `gorm:"primaryKey" json:"id"`
	Code             string       `gorm:"uniqueIndex;not null" json:"code"`
	PurchaseDatetime time.Time    `gorm:"not null" json:"purchase_datetime"`
	Amount           float64      `gorm:"not null" json:"amount"`
	Purchaser        string       `gorm:"not null" json:"purchaser"`
	Items            []TicketItem `gorm:"foreignKey:TicketID" json:"products"`
	CreatedAt        time.Time    `json:"created_at"`
	UpdatedAt        time.Time    `json:"updated_at"`
}

// TicketItem is one purchased product line.
type TicketItem struct {
	ID        string `gorm:"primaryKey" json:"id"`
	TicketID  string `gorm:"not null;index" json:"-"`
	ProductID string `gorm:"not null" json:"product_id"`
	Quantity  int    `gorm:"not null" json:"quantity"`
}

func (Ticket) TableName() string     { return "shop_checkout.tickets" }
func (TicketItem) TableName() string { return "shop_checkout.ticket_items" }
