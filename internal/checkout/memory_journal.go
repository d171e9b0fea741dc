package checkout

import (
	"context"
	"sync"
	"time"

	"github.com/sofiatorres5082/sweettreats/internal/domain"
)

// MemoryJournal keeps checkout sessions in memory. Used in tests and in
// deployments that accept losing idempotency records on restart.
type MemoryJournal struct {
	mu       sync.RWMutex
	sessions map[string]*Session // id -> session
	byKey    map[string]string   // idempotency key -> id
}

func NewMemoryJournal() *MemoryJournal {
	return &MemoryJournal{
		sessions: make(map[string]*Session),
		byKey:    make(map[string]string),
	}
}

func (j *MemoryJournal) FindByIdempotencyKey(_ context.Context, key string) (*Session, error) {
	j.mu.RLock()
	defer j.mu.RUnlock()

	id, ok := j.byKey[key]
	if !ok {
		return nil, ErrSessionNotFound
	}
	clone := *j.sessions[id]
	return &clone, nil
}

func (j *MemoryJournal) Create(_ context.Context, session *Session) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	now := time.Now()
	stored := *session
	stored.CreatedAt = now
	stored.UpdatedAt = now
	j.sessions[session.ID] = &stored
	j.byKey[session.IdempotencyKey] = session.ID
	return nil
}

func (j *MemoryJournal) SetStatus(_ context.Context, id string, status domain.CheckoutStatus) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.transition(id, status, func(*Session) {})
}

func (j *MemoryJournal) SetPayment(_ context.Context, id, paymentID string) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.transition(id, domain.CheckoutStatusPaymentCompleted, func(s *Session) {
		s.PaymentID = paymentID
	})
}

func (j *MemoryJournal) Complete(_ context.Context, id string, orderID int64, payload []byte) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.transition(id, domain.CheckoutStatusCompleted, func(s *Session) {
		s.OrderID = orderID
		s.Payload = payload
	})
}

func (j *MemoryJournal) Fail(_ context.Context, id, reason string) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.transition(id, domain.CheckoutStatusFailed, func(s *Session) {
		s.FailureReason = reason
	})
}

func (j *MemoryJournal) Close() error {
	return nil
}

// transition applies the state machine. Called with the write lock held.
func (j *MemoryJournal) transition(id string, to domain.CheckoutStatus, mutate func(*Session)) error {
	session, ok := j.sessions[id]
	if !ok {
		return ErrSessionNotFound
	}
	if !domain.CanTransitionTo(session.Status, to) {
		return ErrIllegalTransition
	}
	session.Status = to
	session.UpdatedAt = time.Now()
	mutate(session)
	return nil
}
