package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	ProviderStripe = "stripe"
	ProviderMock   = "mock"
)

// Config is loaded once at boot and injected into constructors.
// Components never read the environment themselves.
type Config struct {
	AppPort string
	DBDSN   string

	// USD per 1 GTQ, fixed pair for now.
	FxGtqToUsd decimal.Decimal

	Provider            string
	StripeSecretKey     string
	StripeWebhookSecret string
	MockWebhookSecret   string

	FrontendURL    string
	APIGatewayURL  string
	AllowedOrigins []string
}

func Load() (Config, error) {
	cfg := Config{
		AppPort:             getenv("APP_PORT", "8082"),
		DBDSN:               os.Getenv("DB_DSN"),
		Provider:            getenv("PAYMENT_PROVIDER", ProviderStripe),
		StripeSecretKey:     os.Getenv("STRIPE_SECRET_KEY"),
		StripeWebhookSecret: os.Getenv("STRIPE_WEBHOOK_SECRET"),
		MockWebhookSecret:   os.Getenv("MOCK_WEBHOOK_SECRET"),
		FrontendURL:         os.Getenv("FRONTEND_URL"),
		APIGatewayURL:       os.Getenv("API_GATEWAY_URL"),
	}

	if raw := os.Getenv("FX_GTQ_TO_USD"); raw != "" {
		fx, err := decimal.NewFromString(raw)
		if err != nil {
			return Config{}, fmt.Errorf("FX_GTQ_TO_USD: %w", err)
		}
		cfg.FxGtqToUsd = fx
	}

	for _, o := range strings.Split(getenv("ALLOWED_ORIGINS", ""), ",") {
		if o = strings.TrimSpace(o); o != "" {
			cfg.AllowedOrigins = append(cfg.AllowedOrigins, o)
		}
	}
	for _, o := range []string{cfg.FrontendURL, cfg.APIGatewayURL, "https://zephira.online"} {
		if o != "" && !contains(cfg.AllowedOrigins, o) {
			cfg.AllowedOrigins = append(cfg.AllowedOrigins, o)
		}
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.DBDSN == "" {
		return errors.New("DB_DSN is required")
	}
	if c.FxGtqToUsd.LessThanOrEqual(decimal.Zero) {
		return errors.New("FX_GTQ_TO_USD must be a positive decimal")
	}
	switch c.Provider {
	case ProviderStripe:
		if c.StripeSecretKey == "" {
			return errors.New("STRIPE_SECRET_KEY is required")
		}
		if c.StripeWebhookSecret == "" {
			return errors.New("STRIPE_WEBHOOK_SECRET is required")
		}
	case ProviderMock:
		if c.MockWebhookSecret == "" {
			return errors.New("MOCK_WEBHOOK_SECRET is required")
		}
	default:
		return fmt.Errorf("PAYMENT_PROVIDER must be %q or %q", ProviderStripe, ProviderMock)
	}
	return nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func contains(ss []string, s string) bool {
	for _, v := range ss {
		if v == s {
			return true
		}
	}
	return false
}
