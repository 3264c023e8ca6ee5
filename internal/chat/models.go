package chat

import "time"

// Message is one line in the shared store chat.
type Message struct {
	ID        string    `gorm:"primaryKey" json:"id"`
	UserEmail string    `gorm:"not null" json:"user_email"`
	Message   string    `gorm:"not null" json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

func (Message) TableName() string { return "shop_chat.messages" }
