package checkout

import (
	"context"
	"time"

	"github.com/sofiatorres5082/sweettreats/internal/domain"
)

// Session is one durable checkout attempt. The idempotency key makes a
// duplicate submit return the recorded outcome instead of charging twice.
type Session struct {
	ID             string
	IdempotencyKey string
	Status         domain.CheckoutStatus
	Amount         int64
	PaymentID      string
	OrderID        int64
	FailureReason  string
	Payload        []byte
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Journal records checkout sessions and their status transitions.
// Implementations must refuse transitions the checkout state machine does
// not allow.
type Journal interface {
	FindByIdempotencyKey(ctx context.Context, key string) (*Session, error)
	Create(ctx context.Context, session *Session) error
	SetStatus(ctx context.Context, id string, status domain.CheckoutStatus) error
	SetPayment(ctx context.Context, id, paymentID string) error
	Complete(ctx context.Context, id string, orderID int64, payload []byte) error
	Fail(ctx context.Context, id, reason string) error
	Close() error
}
