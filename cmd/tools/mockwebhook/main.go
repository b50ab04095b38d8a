// mockwebhook signs and posts mock provider events against a running
// instance (PAYMENT_PROVIDER=mock). Useful for driving the reconciler by
// hand without Stripe.
package main

import (
	"bytes"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/Marcos-F-Morales/Stripe-zephira/internal/modules/payments/providers"
)

type webhookPayload struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Data struct {
		PaymentID string `json:"payment_id"`
		SessionID string `json:"session_id"`
		IntentID  string `json:"intent_id"`
	} `json:"data"`
}

func main() {
	url := flag.String("url", "http://localhost:8082/api/stripe/webhook", "Webhook URL")
	secret := flag.String("secret", os.Getenv("MOCK_WEBHOOK_SECRET"), "Webhook secret")
	eventID := flag.String("event-id", "evt_"+randomHex(8), "Event ID")
	eventType := flag.String("type", "payment_intent.succeeded", "Event type (checkout.session.completed, payment_intent.succeeded, payment_intent.payment_failed)")
	paymentID := flag.String("payment-id", "", "Payment id to correlate (required)")
	sessionID := flag.String("session-id", "cs_mock_"+randomHex(8), "Session id")
	intentID := flag.String("intent-id", "pi_mock_"+randomHex(8), "Payment intent id")
	dryRun := flag.Bool("dry-run", false, "Only print signature header, don't send")

	flag.Parse()

	if *secret == "" {
		fmt.Fprintf(os.Stderr, "Error: secret not provided and MOCK_WEBHOOK_SECRET not set\n")
		os.Exit(1)
	}
	if *paymentID == "" {
		fmt.Fprintf(os.Stderr, "Error: -payment-id is required\n")
		os.Exit(1)
	}

	payload := webhookPayload{
		ID:   *eventID,
		Type: *eventType,
	}
	payload.Data.PaymentID = *paymentID
	payload.Data.SessionID = *sessionID
	payload.Data.IntentID = *intentID

	body, err := json.Marshal(payload)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error marshaling payload: %v\n", err)
		os.Exit(1)
	}

	t := time.Now().Unix()
	sig := providers.ComputeSignature([]byte(*secret), t, body)
	sigHeader := fmt.Sprintf("t=%d,v1=%s", t, sig)

	fmt.Printf("%s: %s\n", providers.SignatureHeader, sigHeader)
	fmt.Printf("Body: %s\n", string(body))

	if *dryRun {
		fmt.Println("\n[DRY RUN] Not sending request")
		return
	}

	fmt.Printf("\nSending to %s...\n", *url)
	req, err := http.NewRequest(http.MethodPost, *url, bytes.NewReader(body))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating request: %v\n", err)
		os.Exit(1)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(providers.SignatureHeader, sigHeader)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error sending request: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	fmt.Printf("Status: %d\n", resp.StatusCode)
	fmt.Printf("Response: %s\n", string(respBody))

	if resp.StatusCode != http.StatusOK {
		os.Exit(1)
	}
}

func randomHex(n int) string {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		panic(err)
	}
	return hex.EncodeToString(b)
}
