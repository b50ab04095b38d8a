package payments_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/Marcos-F-Morales/Stripe-zephira/internal/modules/payments"
	"github.com/Marcos-F-Morales/Stripe-zephira/internal/shared/apperr"
)

var fxRate = decimal.RequireFromString("0.13")

func cart() []payments.CartItem {
	return []payments.CartItem{
		{Name: "Widget", Price: decimal.RequireFromString("10"), Quantity: 2},
		{Name: "Gadget", Price: decimal.RequireFromString("5"), Quantity: 1},
	}
}

func TestCreateCheckoutSession_PersistsPendingPaymentAndLinksSession(t *testing.T) {
	db := setupTestDB(t)

	var gotReq payments.CreateSessionRequest
	provider := &fakeProvider{
		createFn: func(_ context.Context, req payments.CreateSessionRequest) (payments.CheckoutSession, error) {
			gotReq = req
			return payments.CheckoutSession{ID: "cs_test_1", URL: "https://checkout.test/cs_test_1"}, nil
		},
	}

	svc := payments.NewService(db, provider, fxRate, "https://shop.test")
	res, err := svc.CreateCheckoutSession(context.Background(), payments.CreateCheckoutInput{
		Items:      cart(),
		CustomerID: "cus_123",
	})
	require.NoError(t, err)
	require.Equal(t, "https://checkout.test/cs_test_1", res.URL)

	var p payments.Payment
	require.NoError(t, db.First(&p, "id = ?", res.PaymentID).Error)
	require.Equal(t, payments.StatusPending, p.Status)
	require.Equal(t, "cus_123", p.CustomerID)
	// round(10*0.13*100)*2 + round(5*0.13*100)*1 = 260 + 65
	require.Equal(t, int64(325), p.TotalUSDCents)
	require.True(t, p.TotalGTQ.Equal(decimal.RequireFromString("25")), "total_gtq = %s", p.TotalGTQ)
	require.Equal(t, "usd", p.Currency)
	require.NotNil(t, p.StripeSessionID)
	require.Equal(t, "cs_test_1", *p.StripeSessionID)

	// correlation id and redirect URLs reach the provider
	require.Equal(t, p.ID, gotReq.PaymentID)
	require.Equal(t, "https://shop.test/stripe/success?session_id={CHECKOUT_SESSION_ID}", gotReq.SuccessURL)
	require.Equal(t, "https://shop.test/stripe/cancel?session_id={CHECKOUT_SESSION_ID}", gotReq.CancelURL)
	require.Len(t, gotReq.Items, 2)
	require.Equal(t, int64(130), gotReq.Items[0].UnitAmountCents)
	require.Equal(t, int64(65), gotReq.Items[1].UnitAmountCents)
}

func TestCreateCheckoutSession_RejectsEmptyCart(t *testing.T) {
	db := setupTestDB(t)
	svc := payments.NewService(db, &fakeProvider{}, fxRate, "https://shop.test")

	_, err := svc.CreateCheckoutSession(context.Background(), payments.CreateCheckoutInput{
		Items:      nil,
		CustomerID: "cus_123",
	})

	ae, ok := apperr.As(err)
	require.True(t, ok)
	require.Equal(t, apperr.Invalid, ae.Kind)

	var cnt int64
	require.NoError(t, db.Model(&payments.Payment{}).Count(&cnt).Error)
	require.Zero(t, cnt, "no payment row on validation failure")
}

func TestCreateCheckoutSession_RejectsBadItems(t *testing.T) {
	db := setupTestDB(t)
	svc := payments.NewService(db, &fakeProvider{}, fxRate, "https://shop.test")

	tests := []struct {
		name string
		item payments.CartItem
	}{
		{"zero quantity", payments.CartItem{Name: "x", Price: decimal.RequireFromString("1"), Quantity: 0}},
		{"negative quantity", payments.CartItem{Name: "x", Price: decimal.RequireFromString("1"), Quantity: -1}},
		{"negative price", payments.CartItem{Name: "x", Price: decimal.RequireFromString("-1"), Quantity: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateCheckoutSession(context.Background(), payments.CreateCheckoutInput{
				Items:      []payments.CartItem{tt.item},
				CustomerID: "cus_123",
			})
			ae, ok := apperr.As(err)
			require.True(t, ok)
			require.Equal(t, apperr.Invalid, ae.Kind)
		})
	}
}

func TestCreateCheckoutSession_ProviderFailureLeavesPendingRow(t *testing.T) {
	db := setupTestDB(t)
	provider := &fakeProvider{
		createFn: func(context.Context, payments.CreateSessionRequest) (payments.CheckoutSession, error) {
			return payments.CheckoutSession{}, errors.New("stripe is down")
		},
	}
	svc := payments.NewService(db, provider, fxRate, "https://shop.test")

	_, err := svc.CreateCheckoutSession(context.Background(), payments.CreateCheckoutInput{
		Items:      cart(),
		CustomerID: "cus_123",
	})

	ae, ok := apperr.As(err)
	require.True(t, ok)
	require.Equal(t, apperr.Upstream, ae.Kind)

	// the pending row is kept for later reconciliation, not rolled back
	var p payments.Payment
	require.NoError(t, db.First(&p).Error)
	require.Equal(t, payments.StatusPending, p.Status)
	require.Nil(t, p.StripeSessionID)
}
