package checkout

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

type BillingDetails struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type Receipt struct {
	PaymentID string `json:"payment_id"`
}

// Confirmer is the pluggable card-confirmation capability. The real
// processor is opaque to the storefront; swapping it for a mock is how the
// orchestrator is tested.
type Confirmer interface {
	Confirm(ctx context.Context, clientSecret string, billing BillingDetails) (*Receipt, error)
}

// HTTPConfirmer confirms a payment intent against the processor's
// confirmation endpoint. Declines come back as *PaymentError with the
// processor's message untouched.
type HTTPConfirmer struct {
	endpoint string
	http     *http.Client
}

func NewHTTPConfirmer(endpoint string) *HTTPConfirmer {
	return &HTTPConfirmer{
		endpoint: endpoint,
		http:     &http.Client{Timeout: 30 * time.Second},
	}
}

type confirmRequest struct {
	ClientSecret string         `json:"client_secret"`
	Billing      BillingDetails `json:"billing_details"`
}

type confirmResponse struct {
	Status    string `json:"status"`
	PaymentID string `json:"payment_id"`
	Error     string `json:"error"`
}

func (c *HTTPConfirmer) Confirm(ctx context.Context, clientSecret string, billing BillingDetails) (*Receipt, error) {
	payload, err := json.Marshal(confirmRequest{ClientSecret: clientSecret, Billing: billing})
	if err != nil {
		return nil, fmt.Errorf("marshal confirm request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build confirm request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("confirm request failed: %w", err)
	}
	defer resp.Body.Close()

	var result confirmResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode confirm response: %w", err)
	}

	if resp.StatusCode != http.StatusOK || result.Status != "succeeded" {
		msg := result.Error
		if msg == "" {
			msg = fmt.Sprintf("processor returned status %d", resp.StatusCode)
		}
		return nil, &PaymentError{Message: msg}
	}

	return &Receipt{PaymentID: result.PaymentID}, nil
}
