package seeds

import (
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/SantaTabla/Shop-Backend/internal/catalog"
	"github.com/SantaTabla/Shop-Backend/internal/db"
)

func SeedProducts() error {
	var products []catalog.Product

	file, err := os.ReadFile("internal/catalog/data/products.json")
	if err != nil {
		return fmt.Errorf("could not read products.json: %w", err)
	}

	if err := json.Unmarshal(file, &products); err != nil {
		return fmt.Errorf("failed to parse products.json: %w", err)
	}

	for _, product := range products {
		var existing catalog.Product
		err := db.DB.First(&existing, "code = ?", product.Code).Error

		if err == nil {
			log.Printf("⚠️ Product exists, skipping: %s", product.Title)
			continue
		} else if err != gorm.ErrRecordNotFound {
			return fmt.Errorf("DB error on product %s: %w", product.Title, err)
		}

		if product.ID == "" {
			product.ID = uuid.NewString()
		}
		if product.Owner == "" {
			product.Owner = "admin"
		}

		if err := db.DB.Create(&product).Error; err != nil {
			return fmt.Errorf("failed to create product %s: %w", product.Title, err)
		}
	}

	log.Printf("✅ Seeded %d products", len(products))
	return nil
}
