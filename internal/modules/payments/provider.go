package payments

import (
	"context"
	"net/http"
)

// Event types the reconciler acts on. Anything else is acknowledged and
// ignored so the provider stops redelivering it.
const (
	EventSessionCompleted = "checkout.session.completed"
	EventIntentSucceeded  = "payment_intent.succeeded"
	EventIntentFailed     = "payment_intent.payment_failed"
)

type LineItem struct {
	Name            string
	UnitAmountCents int64
	Quantity        int64
}

type CreateSessionRequest struct {
	PaymentID  string // embedded in session and intent metadata for correlation
	CustomerID string
	Items      []LineItem
	SuccessURL string
	CancelURL  string
}

type CheckoutSession struct {
	ID  string
	URL string
}

// WebhookEvent is the provider-neutral form of a verified event.
// PaymentID is the correlation id recovered from provider metadata; empty
// when the event carries none.
type WebhookEvent struct {
	EventID   string
	Type      string
	PaymentID string
	SessionID string
	IntentID  string
}

type Provider interface {
	Name() string
	CreateCheckoutSession(ctx context.Context, req CreateSessionRequest) (CheckoutSession, error)

	// VerifyAndParseWebhook checks the signature over the raw body bytes and
	// parses the event. The body must not be decoded before verification.
	VerifyAndParseWebhook(headers http.Header, body []byte) (WebhookEvent, error)
}
