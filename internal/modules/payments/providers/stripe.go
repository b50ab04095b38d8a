// Package providers contains the concrete payment-processor adapters behind
// the payments.Provider interface.
package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/stripe/stripe-go/v74"
	"github.com/stripe/stripe-go/v74/client"
	"github.com/stripe/stripe-go/v74/webhook"

	"github.com/Marcos-F-Morales/Stripe-zephira/internal/modules/payments"
)

const metadataPaymentID = "paymentId"

type StripeProvider struct {
	api           *client.API
	webhookSecret string
}

func NewStripeProvider(secretKey, webhookSecret string) *StripeProvider {
	api := &client.API{}
	api.Init(secretKey, nil)
	return &StripeProvider{api: api, webhookSecret: webhookSecret}
}

func (p *StripeProvider) Name() string { return "stripe" }

func (p *StripeProvider) CreateCheckoutSession(ctx context.Context, req payments.CreateSessionRequest) (payments.CheckoutSession, error) {
	lineItems := make([]*stripe.CheckoutSessionLineItemParams, 0, len(req.Items))
	for _, it := range req.Items {
		lineItems = append(lineItems, &stripe.CheckoutSessionLineItemParams{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency:   stripe.String(string(stripe.CurrencyUSD)),
				UnitAmount: stripe.Int64(it.UnitAmountCents),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name: stripe.String(it.Name),
				},
			},
			Quantity: stripe.Int64(it.Quantity),
		})
	}

	params := &stripe.CheckoutSessionParams{
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		LineItems:          lineItems,
		SuccessURL:         stripe.String(req.SuccessURL),
		CancelURL:          stripe.String(req.CancelURL),
		// the payment id rides on both the session and the intent, so every
		// webhook event can be correlated back
		PaymentIntentData: &stripe.CheckoutSessionPaymentIntentDataParams{
			Metadata: map[string]string{metadataPaymentID: req.PaymentID},
		},
	}
	params.Context = ctx
	params.AddMetadata(metadataPaymentID, req.PaymentID)

	sess, err := p.api.CheckoutSessions.New(params)
	if err != nil {
		return payments.CheckoutSession{}, fmt.Errorf("stripe checkout session: %w", err)
	}
	return payments.CheckoutSession{ID: sess.ID, URL: sess.URL}, nil
}

// VerifyAndParseWebhook validates the Stripe-Signature header against the raw
// body and maps the event into the provider-neutral shape. Unrecognized event
// types pass through with an empty payment id; the reconciler ignores them.
func (p *StripeProvider) VerifyAndParseWebhook(headers http.Header, body []byte) (payments.WebhookEvent, error) {
	event, err := webhook.ConstructEvent(body, headers.Get("Stripe-Signature"), p.webhookSecret)
	if err != nil {
		return payments.WebhookEvent{}, fmt.Errorf("verify stripe signature: %w", err)
	}

	out := payments.WebhookEvent{
		EventID: event.ID,
		Type:    string(event.Type),
	}

	switch out.Type {
	case payments.EventSessionCompleted:
		var sess stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
			return payments.WebhookEvent{}, fmt.Errorf("decode checkout session: %w", err)
		}
		out.SessionID = sess.ID
		out.PaymentID = sess.Metadata[metadataPaymentID]
	case payments.EventIntentSucceeded, payments.EventIntentFailed:
		var intent stripe.PaymentIntent
		if err := json.Unmarshal(event.Data.Raw, &intent); err != nil {
			return payments.WebhookEvent{}, fmt.Errorf("decode payment intent: %w", err)
		}
		out.IntentID = intent.ID
		out.PaymentID = intent.Metadata[metadataPaymentID]
	}

	return out, nil
}
