// migrate applies the schema against the configured database without
// starting the server. The server also migrates on boot; this exists for
// running migrations ahead of a deploy.
package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/Marcos-F-Morales/Stripe-zephira/internal/modules/payments"
)

func main() {
	_ = godotenv.Load()

	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		log.Fatal("DB_DSN environment variable is required")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(
		&payments.Payment{},
		&payments.Receipt{},
		&payments.ProviderEvent{},
	); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	log.Println("Migration complete: payments, receipts, provider_events")
}
