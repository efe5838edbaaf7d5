package gateway

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Japhetjohn/my-arte-lab.app-sub001/internal/domain"
)

// PaymentGateway is the HTTP client for the external settlement provider. It
// implements usecase.PaymentGateway. Charges are asynchronous: InitiateCharge
// hands the charge off and the provider confirms later through the signed
// payment webhook.
type PaymentGateway struct {
	baseURL       string
	webhookSecret []byte
	client        *http.Client
}

// Config for PaymentGateway.
type Config struct {
	BaseURL       string
	WebhookSecret string
	Timeout       time.Duration
}

// NewPaymentGateway creates a new PaymentGateway client.
func NewPaymentGateway(cfg Config) *PaymentGateway {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}

	return &PaymentGateway{
		baseURL:       cfg.BaseURL,
		webhookSecret: []byte(cfg.WebhookSecret),
		client:        &http.Client{Timeout: timeout},
	}
}

type chargeRequest struct {
	Reference     string `json:"reference"`
	NegotiationID string `json:"negotiation_id"`
	Amount        string `json:"amount"`
	Currency      string `json:"currency"`
}

// InitiateCharge asks the provider to collect amount for a negotiation and
// returns the charge reference. The same reference comes back on the webhook.
// Transient provider errors are retried with exponential backoff; the
// reference is generated once so retries never double-charge.
func (g *PaymentGateway) InitiateCharge(ctx context.Context, negotiationID string, amount decimal.Decimal, currency string) (string, error) {
	ref := uuid.NewString()

	body, err := json.Marshal(chargeRequest{
		Reference:     ref,
		NegotiationID: negotiationID,
		Amount:        amount.String(),
		Currency:      currency,
	})
	if err != nil {
		return "", err
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 100 * time.Millisecond
	b.MaxInterval = 2 * time.Second
	b.MaxElapsedTime = 15 * time.Second

	operation := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/v1/charges", bytes.NewReader(body))
		if err != nil {
			return backoff.Permanent(err)
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := g.client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		switch {
		case resp.StatusCode >= 200 && resp.StatusCode < 300:
			return nil
		case resp.StatusCode >= 500:
			return fmt.Errorf("gateway returned %d", resp.StatusCode)
		default:
			return backoff.Permanent(fmt.Errorf("gateway rejected charge: %d", resp.StatusCode))
		}
	}

	if err := backoff.Retry(operation, backoff.WithContext(b, ctx)); err != nil {
		return "", err
	}

	return ref, nil
}

// VerifySignature checks the webhook payload against its HMAC-SHA256
// signature (hex-encoded).
func (g *PaymentGateway) VerifySignature(payload []byte, signature string) error {
	mac := hmac.New(sha256.New, g.webhookSecret)
	mac.Write(payload)
	expected := hex.EncodeToString(mac.Sum(nil))

	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return domain.ErrGatewayCallbackInvalid
	}

	return nil
}

// Sign computes the webhook signature for a payload. Exported for tests and
// local provider simulation.
func (g *PaymentGateway) Sign(payload []byte) string {
	mac := hmac.New(sha256.New, g.webhookSecret)
	mac.Write(payload)

	return hex.EncodeToString(mac.Sum(nil))
}
