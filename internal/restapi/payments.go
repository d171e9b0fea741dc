package restapi

import (
	"context"
	"fmt"
	"net/http"
)

type paymentIntentRequest struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency,omitempty"`
}

type paymentIntentResponse struct {
	ClientSecret string `json:"clientSecret"`
}

// CreatePaymentIntent registers the amount (in minor currency units) with
// the payment backend and returns the processor's client secret.
func (c *Client) CreatePaymentIntent(ctx context.Context, amount int64) (string, error) {
	var resp paymentIntentResponse
	err := c.do(ctx, http.MethodPost, "/api/payments/create-payment-intent", paymentIntentRequest{Amount: amount}, &resp)
	if err != nil {
		return "", err
	}
	if resp.ClientSecret == "" {
		return "", fmt.Errorf("payment backend returned an empty client secret")
	}
	return resp.ClientSecret, nil
}
