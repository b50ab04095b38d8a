package main

import (
	"log"
	"os"

	"log/slog"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/Marcos-F-Morales/Stripe-zephira/internal/config"
	apphttp "github.com/Marcos-F-Morales/Stripe-zephira/internal/http"
	"github.com/Marcos-F-Morales/Stripe-zephira/internal/http/handlers"
	"github.com/Marcos-F-Morales/Stripe-zephira/internal/modules/payments"
	"github.com/Marcos-F-Morales/Stripe-zephira/internal/modules/payments/providers"
)

func main() {
	// Load .env file (ignore error if not found - prod uses real env vars)
	_ = godotenv.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	db, err := gorm.Open(postgres.Open(cfg.DBDSN), &gorm.Config{
		TranslateError: true,
	})
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(&payments.Payment{}, &payments.Receipt{}, &payments.ProviderEvent{}); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	var provider payments.Provider
	switch cfg.Provider {
	case config.ProviderStripe:
		provider = providers.NewStripeProvider(cfg.StripeSecretKey, cfg.StripeWebhookSecret)
	case config.ProviderMock:
		provider = providers.NewMockProvider(cfg.MockWebhookSecret)
	}

	svc := payments.NewService(db, provider, cfg.FxGtqToUsd, cfg.FrontendURL)
	whSvc := payments.NewWebhookService(db)
	whSvc.SetLogger(logger)

	r := apphttp.NewRouter(apphttp.Deps{
		Logger:         logger,
		Checkout:       handlers.NewCheckoutHandler(svc),
		Webhook:        handlers.NewWebhookHandler(logger, provider, whSvc),
		AllowedOrigins: cfg.AllowedOrigins,
	})

	logger.Info("stripe service listening", "port", cfg.AppPort, "provider", provider.Name())
	if err := r.Run(":" + cfg.AppPort); err != nil {
		log.Fatalf("server: %v", err)
	}
}
