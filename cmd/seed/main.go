package main

import (
	"log"

	"github.com/joho/godotenv"

	"github.com/SantaTabla/Shop-Backend/internal/catalog"
	"github.com/SantaTabla/Shop-Backend/internal/db"
	"github.com/SantaTabla/Shop-Backend/internal/seeds"
)

func main() {
	_ = godotenv.Load(".env.local")
	db.Connect()
	catalog.Init()

	if err := seeds.SeedAll(); err != nil {
		log.Fatalf("❌ Seeding failed: %v", err)
	}
}
