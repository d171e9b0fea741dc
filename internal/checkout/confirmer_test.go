package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPConfirmer_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req confirmRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "pi_secret_1", req.ClientSecret)
		assert.Equal(t, "SOFIA TORRES", req.Billing.Name)

		json.NewEncoder(w).Encode(confirmResponse{Status: "succeeded", PaymentID: "pay-1"})
	}))
	defer server.Close()

	confirmer := NewHTTPConfirmer(server.URL)
	receipt, err := confirmer.Confirm(context.Background(), "pi_secret_1", BillingDetails{Name: "SOFIA TORRES", Email: "sofia@x.dev"})

	require.NoError(t, err)
	assert.Equal(t, "pay-1", receipt.PaymentID)
}

func TestHTTPConfirmer_DeclineKeepsProcessorMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusPaymentRequired)
		json.NewEncoder(w).Encode(confirmResponse{Status: "failed", Error: "Your card was declined."})
	}))
	defer server.Close()

	confirmer := NewHTTPConfirmer(server.URL)
	_, err := confirmer.Confirm(context.Background(), "pi_secret_1", BillingDetails{})

	var payErr *PaymentError
	require.ErrorAs(t, err, &payErr)
	assert.Equal(t, "Your card was declined.", payErr.Message)
}

func TestHTTPConfirmer_NonOKWithoutMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	confirmer := NewHTTPConfirmer(server.URL)
	_, err := confirmer.Confirm(context.Background(), "pi_secret_1", BillingDetails{})

	var payErr *PaymentError
	require.ErrorAs(t, err, &payErr)
	assert.Contains(t, payErr.Message, "503")
}

func TestHTTPConfirmer_TransportErrorIsNotPaymentError(t *testing.T) {
	confirmer := NewHTTPConfirmer("http://127.0.0.1:1")

	_, err := confirmer.Confirm(context.Background(), "pi_secret_1", BillingDetails{})

	require.Error(t, err)
	var payErr *PaymentError
	assert.False(t, errors.As(err, &payErr))
}
