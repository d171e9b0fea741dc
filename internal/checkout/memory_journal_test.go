package checkout

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sofiatorres5082/sweettreats/internal/domain"
)

func newJournalSession() *Session {
	return &Session{
		ID:             "chk-1",
		IdempotencyKey: "key-1",
		Status:         domain.CheckoutStatusInitiated,
		Amount:         2550,
	}
}

func TestMemoryJournal_FindByIdempotencyKey(t *testing.T) {
	j := NewMemoryJournal()
	ctx := context.Background()

	_, err := j.FindByIdempotencyKey(ctx, "missing")
	assert.ErrorIs(t, err, ErrSessionNotFound)

	require.NoError(t, j.Create(ctx, newJournalSession()))

	found, err := j.FindByIdempotencyKey(ctx, "key-1")
	require.NoError(t, err)
	assert.Equal(t, "chk-1", found.ID)
	assert.Equal(t, domain.CheckoutStatusInitiated, found.Status)
	assert.Equal(t, int64(2550), found.Amount)
}

func TestMemoryJournal_FullLifecycle(t *testing.T) {
	j := NewMemoryJournal()
	ctx := context.Background()
	require.NoError(t, j.Create(ctx, newJournalSession()))

	require.NoError(t, j.SetStatus(ctx, "chk-1", domain.CheckoutStatusPaymentPending))
	require.NoError(t, j.SetPayment(ctx, "chk-1", "pay-1"))
	require.NoError(t, j.Complete(ctx, "chk-1", 7, []byte(`{"ok":true}`)))

	found, err := j.FindByIdempotencyKey(ctx, "key-1")
	require.NoError(t, err)
	assert.Equal(t, domain.CheckoutStatusCompleted, found.Status)
	assert.Equal(t, "pay-1", found.PaymentID)
	assert.Equal(t, int64(7), found.OrderID)
}

func TestMemoryJournal_RefusesIllegalTransition(t *testing.T) {
	j := NewMemoryJournal()
	ctx := context.Background()
	require.NoError(t, j.Create(ctx, newJournalSession()))

	// INITIATED cannot jump straight to COMPLETED
	err := j.Complete(ctx, "chk-1", 7, nil)
	assert.ErrorIs(t, err, ErrIllegalTransition)

	// terminal FAILED never transitions again
	require.NoError(t, j.Fail(ctx, "chk-1", "card declined"))
	err = j.SetStatus(ctx, "chk-1", domain.CheckoutStatusPaymentPending)
	assert.ErrorIs(t, err, ErrIllegalTransition)
}

func TestMemoryJournal_UnknownSession(t *testing.T) {
	j := NewMemoryJournal()

	err := j.SetStatus(context.Background(), "ghost", domain.CheckoutStatusPaymentPending)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestMemoryJournal_FailRecordsReason(t *testing.T) {
	j := NewMemoryJournal()
	ctx := context.Background()
	require.NoError(t, j.Create(ctx, newJournalSession()))
	require.NoError(t, j.SetStatus(ctx, "chk-1", domain.CheckoutStatusPaymentPending))

	require.NoError(t, j.Fail(ctx, "chk-1", "payment failed: card declined"))

	found, err := j.FindByIdempotencyKey(ctx, "key-1")
	require.NoError(t, err)
	assert.Equal(t, domain.CheckoutStatusFailed, found.Status)
	assert.Equal(t, "payment failed: card declined", found.FailureReason)
}
