package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sofiatorres5082/sweettreats/internal/checkout"
	"github.com/sofiatorres5082/sweettreats/internal/domain"
)

type CheckoutHandler struct {
	orchestrator *checkout.Orchestrator
}

func NewCheckoutHandler(orchestrator *checkout.Orchestrator) *CheckoutHandler {
	return &CheckoutHandler{orchestrator: orchestrator}
}

type CheckoutResponseDTO struct {
	CheckoutID string                `json:"checkout_id"`
	Status     domain.CheckoutStatus `json:"status"`
	Order      *domain.Order         `json:"order,omitempty"`
}

// Submit drives the whole checkout. Failures map to the error taxonomy:
// validation 400, payment declines 402 with the processor's message
// verbatim, invalid cart 409 with a hint back to the catalog, upstream
// trouble 502.
func (h *CheckoutHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var draft checkout.Draft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	result, err := h.orchestrator.Submit(r.Context(), draft, r.Header.Get("Idempotency-Key"))
	if err != nil {
		h.respondSubmitError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, CheckoutResponseDTO{
		CheckoutID: result.CheckoutID,
		Status:     result.Status,
		Order:      result.Order,
	})
}

func (h *CheckoutHandler) respondSubmitError(w http.ResponseWriter, err error) {
	var fieldErrs checkout.FieldErrors
	var payErr *checkout.PaymentError

	switch {
	case errors.As(err, &fieldErrs):
		respondJSON(w, http.StatusBadRequest, map[string]any{
			"error":  "validation failed",
			"code":   "invalid_form",
			"fields": fieldErrs,
		})
	case errors.As(err, &payErr):
		respondError(w, http.StatusPaymentRequired, "payment_failed", payErr.Message)
	case errors.Is(err, checkout.ErrInvalidCart):
		respondError(w, http.StatusConflict, "invalid_cart", "cart is not valid for checkout, return to the catalog")
	case errors.Is(err, checkout.ErrInProgress):
		respondError(w, http.StatusConflict, "checkout_in_progress", "a checkout is already being processed")
	case errors.Is(err, checkout.ErrNotAuthenticated):
		respondError(w, http.StatusUnauthorized, "unauthenticated", "log in to check out")
	default:
		respondError(w, http.StatusBadGateway, "checkout_failed", "checkout could not be completed")
	}
}
