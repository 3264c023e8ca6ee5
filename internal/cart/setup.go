package cart

import (
	"log"

	"github.com/SantaTabla/Shop-Backend/internal/db"
)

func Init() {
	if err := db.EnsureSchema(db.DB, "shop_cart"); err != nil {
		log.Fatal("Failed to ensure schema shop_cart: ", err)
	}

	if err := db.DB.AutoMigrate(&Cart{}, &CartItem{}); err != nil {
		log.Fatal("Failed to auto-migrate cart tables: ", err)
	}
}
