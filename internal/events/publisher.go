package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
)

const (
	Topic                 = "storefront-checkouts"
	eventTypeCheckoutDone = "checkout.completed"
)

// CheckoutEvent announces a completed checkout to downstream consumers
// (fulfilment, reporting).
type CheckoutEvent struct {
	CheckoutID  string    `json:"checkout_id"`
	OrderID     int64     `json:"order_id"`
	PaymentID   string    `json:"payment_id"`
	TotalAmount float64   `json:"total_amount"`
	CompletedAt time.Time `json:"completed_at"`
}

// messageWriter is the slice of *kafka.Writer the publisher uses.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type Publisher struct {
	writer messageWriter
}

func NewPublisher(brokers ...string) *Publisher {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  Topic,
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
	}
	return &Publisher{writer: w}
}

// CheckoutCompleted publishes the event keyed by checkout id so events for
// one checkout stay ordered.
func (p *Publisher) CheckoutCompleted(ctx context.Context, event CheckoutEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal checkout event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(event.CheckoutID),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(eventTypeCheckoutDone)},
		},
	}

	return p.writer.WriteMessages(ctx, msg)
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}
