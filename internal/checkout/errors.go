package checkout

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidCart means no line qualifies for checkout (empty cart or
	// lines without a positive price and quantity).
	ErrInvalidCart = errors.New("cart is not valid for checkout")

	// ErrInProgress rejects a second submit while one is running.
	ErrInProgress = errors.New("checkout already in progress")

	// ErrNotAuthenticated is the orchestrator's own double-check; the
	// route guard is the first line of defense.
	ErrNotAuthenticated = errors.New("session is not authenticated")

	ErrIllegalTransition = errors.New("illegal transition of checkout status")

	ErrSessionNotFound = errors.New("checkout session not found")
)

// PaymentError carries the processor's message verbatim so the user sees
// exactly what the processor said. No order exists when this is returned.
type PaymentError struct {
	Message string
}

func (e *PaymentError) Error() string {
	return fmt.Sprintf("payment failed: %s", e.Message)
}
