package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MockWriter implements messageWriter for testing
type MockWriter struct {
	messages []kafka.Message
	err      error
}

func (m *MockWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if m.err != nil {
		return m.err
	}
	m.messages = append(m.messages, msgs...)
	return nil
}

func (m *MockWriter) Close() error {
	return nil
}

func TestCheckoutCompleted_PublishesKeyedEvent(t *testing.T) {
	writer := &MockWriter{}
	p := &Publisher{writer: writer}

	event := CheckoutEvent{
		CheckoutID:  "chk-1",
		OrderID:     7,
		PaymentID:   "pay-9",
		TotalAmount: 25.50,
		CompletedAt: time.Now(),
	}

	require.NoError(t, p.CheckoutCompleted(context.Background(), event))

	require.Len(t, writer.messages, 1)
	msg := writer.messages[0]
	assert.Equal(t, []byte("chk-1"), msg.Key)
	require.Len(t, msg.Headers, 1)
	assert.Equal(t, "event_type", msg.Headers[0].Key)
	assert.Equal(t, []byte("checkout.completed"), msg.Headers[0].Value)

	var decoded CheckoutEvent
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, int64(7), decoded.OrderID)
	assert.InDelta(t, 25.50, decoded.TotalAmount, 1e-9)
}

func TestCheckoutCompleted_WriterErrorSurfaces(t *testing.T) {
	writer := &MockWriter{err: errors.New("broker unreachable")}
	p := &Publisher{writer: writer}

	err := p.CheckoutCompleted(context.Background(), CheckoutEvent{CheckoutID: "chk-2"})
	assert.Error(t, err)
}
