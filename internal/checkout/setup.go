package checkout

import (
	"log"

	"github.com/SantaTabla/Shop-Backend/internal/db"
)

func Init() {
	if err := db.EnsureSchema(db.DB, "shop_checkout"); err != nil {
		log.Fatal("Failed to ensure schema shop_checkout: ", err)
	}

	if err := db.DB.AutoMigrate(&Ticket{}, &TicketItem{}); err != nil {
		log.Fatal("Failed to auto-migrate checkout tables: ", err)
	}
}
