package payments_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Marcos-F-Morales/Stripe-zephira/internal/modules/payments"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// one connection so concurrent transactions serialize instead of
	// hitting SQLITE_BUSY
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&payments.Payment{}, &payments.Receipt{}, &payments.ProviderEvent{}))
	return db
}

type fakeProvider struct {
	name     string
	createFn func(ctx context.Context, req payments.CreateSessionRequest) (payments.CheckoutSession, error)
	verifyFn func(headers http.Header, body []byte) (payments.WebhookEvent, error)
}

func (f *fakeProvider) Name() string {
	if f.name == "" {
		return "fake"
	}
	return f.name
}

func (f *fakeProvider) CreateCheckoutSession(ctx context.Context, req payments.CreateSessionRequest) (payments.CheckoutSession, error) {
	return f.createFn(ctx, req)
}

func (f *fakeProvider) VerifyAndParseWebhook(headers http.Header, body []byte) (payments.WebhookEvent, error) {
	return f.verifyFn(headers, body)
}

func seedPayment(t *testing.T, db *gorm.DB, status string) payments.Payment {
	t.Helper()

	p := payments.Payment{
		ID:            uuid.NewString(),
		CustomerID:    "cus_123",
		TotalUSDCents: 325,
		TotalGTQ:      decimal.RequireFromString("25"),
		Currency:      "usd",
		Status:        status,
	}
	require.NoError(t, db.Create(&p).Error)
	return p
}

func paymentStatus(t *testing.T, db *gorm.DB, id string) string {
	t.Helper()

	var p payments.Payment
	require.NoError(t, db.First(&p, "id = ?", id).Error)
	return p.Status
}

func centsAsUSD(cents int64) decimal.Decimal {
	return decimal.NewFromInt(cents).Div(decimal.NewFromInt(100))
}

func receiptCount(t *testing.T, db *gorm.DB, paymentID string) int64 {
	t.Helper()

	var cnt int64
	require.NoError(t, db.Model(&payments.Receipt{}).Where("payment_id = ?", paymentID).Count(&cnt).Error)
	return cnt
}
