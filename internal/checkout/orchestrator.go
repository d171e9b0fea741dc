package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/sony/gobreaker/v2"

	"github.com/sofiatorres5082/sweettreats/internal/domain"
	"github.com/sofiatorres5082/sweettreats/internal/events"
	"github.com/sofiatorres5082/sweettreats/internal/restapi"
)

// CartStore is what the orchestrator needs from the cart: the lines as
// they stand at submit time, and the ability to clear them after the order
// exists.
type CartStore interface {
	Items() []domain.CartLine
	Clear()
}

type SessionState interface {
	IsAuthenticated() bool
}

type PaymentsAPI interface {
	CreatePaymentIntent(ctx context.Context, amount int64) (string, error)
}

type OrdersAPI interface {
	CreateOrder(ctx context.Context, req restapi.OrderRequest) (*domain.Order, error)
}

// EventSink receives the completed-checkout event. Publishing is
// best-effort; a sink error never fails the checkout.
type EventSink interface {
	CheckoutCompleted(ctx context.Context, event events.CheckoutEvent) error
}

// Result is what a submit resolves to. For a duplicate idempotency key the
// recorded status comes back and no external call is made.
type Result struct {
	CheckoutID string
	Status     domain.CheckoutStatus
	Order      *domain.Order
}

// Orchestrator sequences one checkout: validate cart, create payment
// intent, confirm the card, create the order, clear the cart. Strictly in
// that order; any failure before order creation leaves the cart untouched
// and no order exists.
type Orchestrator struct {
	cart      CartStore
	session   SessionState
	payments  PaymentsAPI
	orders    OrdersAPI
	confirmer Confirmer
	journal   Journal
	sink      EventSink

	breaker *gobreaker.CircuitBreaker[*Receipt]

	processing atomic.Bool
	completed  atomic.Bool
}

func NewOrchestrator(
	cart CartStore,
	session SessionState,
	payments PaymentsAPI,
	orders OrdersAPI,
	confirmer Confirmer,
	journal Journal,
	sink EventSink,
) *Orchestrator {
	breaker := gobreaker.NewCircuitBreaker[*Receipt](gobreaker.Settings{
		Name:    "payment-confirm",
		Timeout: 30 * time.Second,
	})

	return &Orchestrator{
		cart:      cart,
		session:   session,
		payments:  payments,
		orders:    orders,
		confirmer: confirmer,
		journal:   journal,
		sink:      sink,
		breaker:   breaker,
	}
}

// OrderCompleted reports whether a checkout has completed in this session.
// Callers use it to suppress the empty-cart redirect that would otherwise
// fire once the cart is cleared.
func (o *Orchestrator) OrderCompleted() bool {
	return o.completed.Load()
}

// Submit runs the whole checkout. The processing flag is taken before any
// external call and released in all paths, so a double click cannot create
// two payment intents.
func (o *Orchestrator) Submit(ctx context.Context, draft Draft, idempotencyKey string) (*Result, error) {
	if !o.processing.CompareAndSwap(false, true) {
		return nil, ErrInProgress
	}
	defer o.processing.Store(false)

	if !o.session.IsAuthenticated() {
		return nil, ErrNotAuthenticated
	}

	if errs := draft.Validate(); errs != nil {
		return nil, errs
	}

	lines, total, err := o.checkoutableLines()
	if err != nil {
		return nil, err
	}

	if idempotencyKey == "" {
		idempotencyKey = uuid.New().String()
	}

	// duplicate submit returns the recorded outcome, no new charge
	existing, err := o.journal.FindByIdempotencyKey(ctx, idempotencyKey)
	if err != nil && !errors.Is(err, ErrSessionNotFound) {
		return nil, fmt.Errorf("failed to check idempotency: %w", err)
	}
	if existing != nil {
		log.Printf("duplicate checkout submit, idempotency_key=%s checkout_id=%s status=%s",
			idempotencyKey, existing.ID, existing.Status)
		return &Result{CheckoutID: existing.ID, Status: existing.Status}, nil
	}

	amount := domain.MinorUnits(total)
	session := &Session{
		ID:             uuid.New().String(),
		IdempotencyKey: idempotencyKey,
		Status:         domain.CheckoutStatusInitiated,
		Amount:         amount,
	}
	if err := o.journal.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create checkout session: %w", err)
	}

	receipt, err := o.processPayment(ctx, session.ID, amount, draft)
	if err != nil {
		o.fail(ctx, session.ID, err)
		return nil, err
	}

	order, err := o.createOrder(ctx, draft, lines)
	if err != nil {
		o.fail(ctx, session.ID, err)
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	// the order exists; only now may the cart go away
	o.cart.Clear()
	o.completed.Store(true)

	o.complete(ctx, session.ID, order, receipt, lines, total)

	return &Result{CheckoutID: session.ID, Status: domain.CheckoutStatusCompleted, Order: order}, nil
}

// checkoutableLines validates the cart for checkout: at least one line,
// every line with a positive price and quantity.
func (o *Orchestrator) checkoutableLines() ([]domain.CartLine, float64, error) {
	lines := o.cart.Items()
	if len(lines) == 0 {
		return nil, 0, ErrInvalidCart
	}

	var total float64
	for _, line := range lines {
		if line.UnitPrice <= 0 || line.Quantity <= 0 {
			return nil, 0, ErrInvalidCart
		}
		total += line.Subtotal()
	}
	return lines, total, nil
}

func (o *Orchestrator) processPayment(ctx context.Context, checkoutID string, amount int64, draft Draft) (*Receipt, error) {
	if err := o.journal.SetStatus(ctx, checkoutID, domain.CheckoutStatusPaymentPending); err != nil {
		return nil, err
	}

	clientSecret, err := o.payments.CreatePaymentIntent(ctx, amount)
	if err != nil {
		return nil, fmt.Errorf("failed to create payment intent: %w", err)
	}

	billing := BillingDetails{Name: draft.CardHolderName, Email: draft.Email}
	receipt, err := o.breaker.Execute(func() (*Receipt, error) {
		return o.confirmer.Confirm(ctx, clientSecret, billing)
	})
	if err != nil {
		var payErr *PaymentError
		if errors.As(err, &payErr) {
			return nil, payErr
		}
		return nil, fmt.Errorf("payment confirmation failed: %w", err)
	}

	if err := o.journal.SetPayment(ctx, checkoutID, receipt.PaymentID); err != nil {
		return nil, err
	}
	return receipt, nil
}

func (o *Orchestrator) createOrder(ctx context.Context, draft Draft, lines []domain.CartLine) (*domain.Order, error) {
	items := make([]restapi.OrderItem, len(lines))
	for i, line := range lines {
		items[i] = restapi.OrderItem{
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
		}
	}

	return o.orders.CreateOrder(ctx, restapi.OrderRequest{
		ShippingAddress: draft.Address,
		PaymentMethod:   draft.CardType,
		Items:           items,
	})
}

// complete journals the terminal state and emits the completed event.
// Neither step can undo the checkout at this point, so problems are logged
// and swallowed.
func (o *Orchestrator) complete(ctx context.Context, checkoutID string, order *domain.Order, receipt *Receipt, lines []domain.CartLine, total float64) {
	payload, err := json.Marshal(map[string]any{
		"checkout_id":  checkoutID,
		"order_id":     order.ID,
		"payment_id":   receipt.PaymentID,
		"total_amount": total,
		"items":        lines,
		"completed_at": time.Now(),
	})
	if err != nil {
		log.Printf("failed to marshal checkout payload: %v", err)
	}

	if err := o.journal.Complete(ctx, checkoutID, order.ID, payload); err != nil {
		log.Printf("failed to journal completed checkout %s: %v", checkoutID, err)
	}

	if o.sink == nil {
		return
	}
	event := events.CheckoutEvent{
		CheckoutID:  checkoutID,
		OrderID:     order.ID,
		PaymentID:   receipt.PaymentID,
		TotalAmount: total,
		CompletedAt: time.Now(),
	}
	if err := o.sink.CheckoutCompleted(ctx, event); err != nil {
		log.Printf("failed to publish checkout event %s: %v", checkoutID, err)
	}
}

// fail moves the journal session to FAILED. Best-effort: the caller's
// error is what the user sees.
func (o *Orchestrator) fail(ctx context.Context, checkoutID string, cause error) {
	if err := o.journal.Fail(ctx, checkoutID, cause.Error()); err != nil {
		log.Printf("failed to journal failed checkout %s: %v", checkoutID, err)
	}
}
