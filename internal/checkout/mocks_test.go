package checkout

import (
	"context"
	"sync"

	"github.com/sofiatorres5082/sweettreats/internal/domain"
	"github.com/sofiatorres5082/sweettreats/internal/events"
	"github.com/sofiatorres5082/sweettreats/internal/restapi"
)

// MockCart implements CartStore for testing
type MockCart struct {
	mu      sync.Mutex
	items   []domain.CartLine
	Cleared int
}

func (m *MockCart) Items() []domain.CartLine {
	m.mu.Lock()
	defer m.mu.Unlock()
	items := make([]domain.CartLine, len(m.items))
	copy(items, m.items)
	return items
}

func (m *MockCart) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Cleared++
	m.items = nil
}

// MockSession implements SessionState for testing
type MockSession struct {
	Authenticated bool
}

func (m *MockSession) IsAuthenticated() bool {
	return m.Authenticated
}

// MockPayments implements PaymentsAPI for testing
type MockPayments struct {
	ClientSecret    string
	Err             error
	IntentCalls     int
	RequestedAmount int64
}

func (m *MockPayments) CreatePaymentIntent(_ context.Context, amount int64) (string, error) {
	m.IntentCalls++
	m.RequestedAmount = amount
	if m.Err != nil {
		return "", m.Err
	}
	return m.ClientSecret, nil
}

// MockConfirmer implements Confirmer for testing
type MockConfirmer struct {
	Receipt      *Receipt
	Err          error
	ConfirmCalls int
	SeenSecret   string
	SeenBilling  BillingDetails
}

func (m *MockConfirmer) Confirm(_ context.Context, clientSecret string, billing BillingDetails) (*Receipt, error) {
	m.ConfirmCalls++
	m.SeenSecret = clientSecret
	m.SeenBilling = billing
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Receipt, nil
}

// MockOrders implements OrdersAPI for testing
type MockOrders struct {
	Order       *domain.Order
	Err         error
	CreateCalls int
	SeenRequest restapi.OrderRequest
}

func (m *MockOrders) CreateOrder(_ context.Context, req restapi.OrderRequest) (*domain.Order, error) {
	m.CreateCalls++
	m.SeenRequest = req
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Order, nil
}

// MockSink implements EventSink for testing
type MockSink struct {
	Events []events.CheckoutEvent
	Err    error
}

func (m *MockSink) CheckoutCompleted(_ context.Context, event events.CheckoutEvent) error {
	m.Events = append(m.Events, event)
	return m.Err
}

func validDraft() Draft {
	return Draft{
		Name:           "Sofia Torres",
		Address:        "Calle Falsa 123",
		Phone:          "555-0101",
		Email:          "sofia@sweettreats.dev",
		CardType:       "visa",
		CardHolderName: "SOFIA TORRES",
	}
}

func cartWith(lines ...domain.CartLine) *MockCart {
	return &MockCart{items: lines}
}

// newTestOrchestrator creates a fully wired Orchestrator for testing
func newTestOrchestrator(
	cart *MockCart,
	payments *MockPayments,
	confirmer *MockConfirmer,
	orders *MockOrders,
	sink *MockSink,
) *Orchestrator {
	return NewOrchestrator(
		cart,
		&MockSession{Authenticated: true},
		payments,
		orders,
		confirmer,
		NewMemoryJournal(),
		sink,
	)
}
