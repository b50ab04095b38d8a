package payments

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Marcos-F-Morales/Stripe-zephira/internal/modules/currency"
	"github.com/Marcos-F-Morales/Stripe-zephira/internal/shared/apperr"
)

type Service struct {
	db          *gorm.DB
	provider    Provider
	fxGtqToUsd  decimal.Decimal
	frontendURL string
}

func NewService(db *gorm.DB, p Provider, fxGtqToUsd decimal.Decimal, frontendURL string) *Service {
	return &Service{db: db, provider: p, fxGtqToUsd: fxGtqToUsd, frontendURL: frontendURL}
}

type CartItem struct {
	Name     string
	Price    decimal.Decimal // unit price in GTQ
	Quantity int64
}

type CreateCheckoutInput struct {
	Items      []CartItem
	CustomerID string
}

type CreateCheckoutResult struct {
	PaymentID string
	URL       string
}

// CreateCheckoutSession converts the cart to USD cents, persists a pending
// Payment, opens a hosted session at the provider and attaches the session id
// to the Payment. If the provider call or the session-id update fails, the
// pending row is left behind on purpose: the webhook can still resolve it by
// id, and it stays visible for manual reconciliation.
func (s *Service) CreateCheckoutSession(ctx context.Context, in CreateCheckoutInput) (CreateCheckoutResult, error) {
	if len(in.Items) == 0 {
		return CreateCheckoutResult{}, apperr.InvalidErr("Item list is empty.", map[string]string{
			"items": ErrEmptyCart.Error(),
		})
	}

	lineItems := make([]LineItem, 0, len(in.Items))
	var totalCents int64
	for i, it := range in.Items {
		if it.Quantity <= 0 || it.Price.IsNegative() {
			return CreateCheckoutResult{}, apperr.InvalidErr("Item has invalid price or quantity.", map[string]string{
				"items[" + strconv.Itoa(i) + "]": ErrInvalidItem.Error(),
			})
		}
		cents, err := currency.ToUSDCents(it.Price, s.fxGtqToUsd)
		if err != nil {
			return CreateCheckoutResult{}, apperr.ConfigurationErr(err)
		}
		lineItems = append(lineItems, LineItem{Name: it.Name, UnitAmountCents: cents, Quantity: it.Quantity})
		totalCents += cents * it.Quantity
	}

	totalGTQ, err := currency.FromUSDCents(totalCents, s.fxGtqToUsd)
	if err != nil {
		return CreateCheckoutResult{}, apperr.ConfigurationErr(err)
	}

	// Phase-1: pending payment row, so the webhook has something to correlate
	now := time.Now()
	payment := Payment{
		ID:            uuid.NewString(),
		CustomerID:    in.CustomerID,
		TotalUSDCents: totalCents,
		TotalGTQ:      totalGTQ,
		Currency:      "usd",
		Status:        StatusPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.db.WithContext(ctx).Create(&payment).Error; err != nil {
		return CreateCheckoutResult{}, apperr.PersistenceErr(err)
	}

	// Phase-2: provider call (outside any tx)
	sess, err := s.provider.CreateCheckoutSession(ctx, CreateSessionRequest{
		PaymentID:  payment.ID,
		CustomerID: in.CustomerID,
		Items:      lineItems,
		SuccessURL: s.frontendURL + "/stripe/success?session_id={CHECKOUT_SESSION_ID}",
		CancelURL:  s.frontendURL + "/stripe/cancel?session_id={CHECKOUT_SESSION_ID}",
	})
	if err != nil {
		return CreateCheckoutResult{}, apperr.UpstreamErr(fmt.Errorf("create checkout session: %w", err))
	}

	// Phase-3: link the session back to the payment
	if err := s.db.WithContext(ctx).Model(&Payment{}).
		Where("id = ?", payment.ID).
		Updates(map[string]any{
			"stripe_session_id": sess.ID,
			"updated_at":        time.Now(),
		}).Error; err != nil {
		return CreateCheckoutResult{}, apperr.PersistenceErr(err)
	}

	return CreateCheckoutResult{PaymentID: payment.ID, URL: sess.URL}, nil
}
