package auth

import (
	"log"

	"github.com/SantaTabla/Shop-Backend/internal/db"
)

func Init() {
	if err := db.EnsureSchema(db.DB, "shop_auth"); err != nil {
		log.Fatal("Failed to ensure schema shop_auth: ", err)
	}

	if err := db.DB.AutoMigrate(&User{}, &Document{}, &Session{}); err != nil {
		log.Fatal("Failed to auto-migrate auth tables: ", err)
	}
}
