package providers

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Marcos-F-Morales/Stripe-zephira/internal/modules/payments"
)

// SignatureHeader carries the mock scheme: t=<unix>,v1=<hex hmac-sha256 of
// "<t>.<body>"> — the same shape Stripe uses, so switching providers does not
// change the handler.
const SignatureHeader = "X-Mock-Signature"

const signatureTolerance = 5 * time.Minute

var (
	ErrBadSignature = errors.New("signature mismatch")
	ErrStaleEvent   = errors.New("timestamp outside tolerance")
)

// MockProvider is the local-dev stand-in: sessions point at a fake URL and
// webhooks are signed with a shared secret (see cmd/tools/mockwebhook).
type MockProvider struct {
	secret []byte
	now    func() time.Time
}

func NewMockProvider(secret string) *MockProvider {
	return &MockProvider{secret: []byte(secret), now: time.Now}
}

func (p *MockProvider) Name() string { return "mock" }

func (p *MockProvider) CreateCheckoutSession(_ context.Context, req payments.CreateSessionRequest) (payments.CheckoutSession, error) {
	id := "cs_mock_" + uuid.NewString()
	return payments.CheckoutSession{
		ID:  id,
		URL: "https://checkout.mock.local/pay/" + id + "?payment=" + req.PaymentID,
	}, nil
}

type mockEventPayload struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Data struct {
		PaymentID string `json:"payment_id"`
		SessionID string `json:"session_id"`
		IntentID  string `json:"intent_id"`
	} `json:"data"`
}

func (p *MockProvider) VerifyAndParseWebhook(headers http.Header, body []byte) (payments.WebhookEvent, error) {
	if err := p.verify(headers.Get(SignatureHeader), body); err != nil {
		return payments.WebhookEvent{}, err
	}

	var payload mockEventPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return payments.WebhookEvent{}, fmt.Errorf("decode mock event: %w", err)
	}

	return payments.WebhookEvent{
		EventID:   payload.ID,
		Type:      payload.Type,
		PaymentID: payload.Data.PaymentID,
		SessionID: payload.Data.SessionID,
		IntentID:  payload.Data.IntentID,
	}, nil
}

func (p *MockProvider) verify(header string, body []byte) error {
	var ts int64
	var sig string
	for _, part := range strings.Split(header, ",") {
		k, v, ok := strings.Cut(strings.TrimSpace(part), "=")
		if !ok {
			continue
		}
		switch k {
		case "t":
			n, err := strconv.ParseInt(v, 10, 64)
			if err != nil {
				return fmt.Errorf("bad timestamp: %w", err)
			}
			ts = n
		case "v1":
			sig = v
		}
	}
	if ts == 0 || sig == "" {
		return ErrBadSignature
	}

	age := p.now().Sub(time.Unix(ts, 0))
	if age > signatureTolerance || age < -signatureTolerance {
		return ErrStaleEvent
	}

	expected := ComputeSignature(p.secret, ts, body)
	if !hmac.Equal([]byte(expected), []byte(sig)) {
		return ErrBadSignature
	}
	return nil
}

// ComputeSignature is shared with the mockwebhook tool and tests.
func ComputeSignature(secret []byte, ts int64, body []byte) string {
	m := hmac.New(sha256.New, secret)
	m.Write([]byte(strconv.FormatInt(ts, 10)))
	m.Write([]byte("."))
	m.Write(body)
	return hex.EncodeToString(m.Sum(nil))
}
