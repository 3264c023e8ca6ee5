package catalog

import (
	"log"

	"github.com/SantaTabla/Shop-Backend/internal/db"
)

func Init() {
	if err := db.EnsureSchema(db.DB, "shop_catalog"); err != nil {
		log.Fatal("Failed to ensure schema shop_catalog: ", err)
	}

	if err := db.DB.AutoMigrate(&Product{}); err != nil {
		log.Fatal("Failed to auto-migrate catalog tables: ", err)
	}
}
