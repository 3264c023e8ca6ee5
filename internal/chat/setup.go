package chat

import (
	"log"

	"github.com/SantaTabla/Shop-Backend/internal/db"
)

func Init() {
	if err := db.EnsureSchema(db.DB, "shop_chat"); err != nil {
		log.Fatal("Failed to ensure schema shop_chat: ", err)
	}

	if err := db.DB.AutoMigrate(&Message{}); err != nil {
		log.Fatal("Failed to auto-migrate chat tables: ", err)
	}
}
