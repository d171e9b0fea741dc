package cart

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sofiatorres5082/sweettreats/internal/domain"
)

// MemoryStorage implements Storage for testing
type MemoryStorage struct {
	mu      sync.Mutex
	saved   *domain.Cart
	loadErr error
	saveErr error
	saves   int
}

func (m *MemoryStorage) Load(_ context.Context) (*domain.Cart, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	if m.saved == nil {
		return nil, ErrNotFound
	}
	return m.saved, nil
}

func (m *MemoryStorage) Save(_ context.Context, cart *domain.Cart) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saves++
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saved = cart
	return nil
}

func (m *MemoryStorage) Delete(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saved = nil
	return nil
}

func brownie() domain.CartLine {
	return domain.CartLine{ProductID: 1, Name: "Brownie", UnitPrice: 10, StockLimit: 3}
}

func TestAddItem_InsertsAtQuantityOne(t *testing.T) {
	store := NewStore(&MemoryStorage{})

	store.AddItem(brownie())

	items := store.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 1, items[0].Quantity)
}

func TestAddItem_MergesAndClampsAtStockLimit(t *testing.T) {
	store := NewStore(&MemoryStorage{})

	for i := 0; i < 10; i++ {
		store.AddItem(brownie())
	}

	items := store.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 3, items[0].Quantity)
}

func TestAddItem_ClampsProvidedQuantity(t *testing.T) {
	store := NewStore(&MemoryStorage{})

	line := brownie()
	line.Quantity = 99
	store.AddItem(line)

	assert.Equal(t, 3, store.Items()[0].Quantity)
}

func TestAddItem_NoStockIsIgnored(t *testing.T) {
	store := NewStore(&MemoryStorage{})

	store.AddItem(domain.CartLine{ProductID: 7, Name: "Sold out", StockLimit: 0})

	assert.Equal(t, 0, store.Len())
}

func TestIncrementQuantity_ClampsAtStockLimit(t *testing.T) {
	store := NewStore(&MemoryStorage{})
	store.AddItem(brownie())

	assert.True(t, store.IncrementQuantity(1))
	assert.True(t, store.IncrementQuantity(1))
	assert.False(t, store.IncrementQuantity(1)) // at cap
	assert.Equal(t, 3, store.Items()[0].Quantity)
}

func TestIncrementQuantity_UnknownProduct(t *testing.T) {
	store := NewStore(&MemoryStorage{})

	assert.False(t, store.IncrementQuantity(42))
}

func TestDecrementQuantity_RemovesLineAtZero(t *testing.T) {
	store := NewStore(&MemoryStorage{})
	store.AddItem(brownie())
	store.IncrementQuantity(1)

	store.DecrementQuantity(1)
	require.Len(t, store.Items(), 1)
	assert.Equal(t, 1, store.Items()[0].Quantity)

	store.DecrementQuantity(1)
	assert.Empty(t, store.Items())
}

func TestRemoveItem(t *testing.T) {
	store := NewStore(&MemoryStorage{})
	store.AddItem(brownie())
	store.AddItem(domain.CartLine{ProductID: 2, Name: "Cupcake", UnitPrice: 5, StockLimit: 10})

	store.RemoveItem(1)

	items := store.Items()
	require.Len(t, items, 1)
	assert.Equal(t, int64(2), items[0].ProductID)
}

func TestTotal_DerivedFromLines(t *testing.T) {
	store := NewStore(&MemoryStorage{})
	store.AddItem(domain.CartLine{ProductID: 1, UnitPrice: 10, StockLimit: 5})
	store.IncrementQuantity(1)
	store.AddItem(domain.CartLine{ProductID: 2, UnitPrice: 2.75, StockLimit: 5, Quantity: 2})

	assert.InDelta(t, 25.50, store.Total(), 1e-9)

	store.DecrementQuantity(2)
	assert.InDelta(t, 22.75, store.Total(), 1e-9)
}

func TestPersistence_WriteThroughOnEveryMutation(t *testing.T) {
	storage := &MemoryStorage{}
	store := NewStore(storage)

	store.AddItem(brownie())
	store.IncrementQuantity(1)
	store.DecrementQuantity(1)
	store.RemoveItem(1)
	store.Clear()

	storage.mu.Lock()
	defer storage.mu.Unlock()
	assert.Equal(t, 5, storage.saves)
}

func TestPersistence_RoundTripFidelity(t *testing.T) {
	storage := &MemoryStorage{}
	store := NewStore(storage)
	store.AddItem(domain.CartLine{ProductID: 1, Name: "Brownie", UnitPrice: 10, StockLimit: 5, Quantity: 2})
	store.AddItem(domain.CartLine{ProductID: 2, Name: "Cupcake", UnitPrice: 3.25, StockLimit: 4})

	rehydrated := NewStore(storage)

	assert.Equal(t, store.Items(), rehydrated.Items())
	assert.InDelta(t, store.Total(), rehydrated.Total(), 1e-9)
}

func TestPersistence_ClearRoundTripsEmpty(t *testing.T) {
	storage := &MemoryStorage{}
	store := NewStore(storage)
	store.AddItem(brownie())

	store.Clear()

	rehydrated := NewStore(storage)
	assert.Empty(t, rehydrated.Items())
}

func TestRehydrate_StorageErrorFallsBackToEmpty(t *testing.T) {
	storage := &MemoryStorage{loadErr: errors.New("storage unavailable")}

	store := NewStore(storage)

	assert.Empty(t, store.Items())
}

func TestMutation_SurvivesStorageFailure(t *testing.T) {
	storage := &MemoryStorage{saveErr: errors.New("write refused")}
	store := NewStore(storage)

	store.AddItem(brownie())

	require.Len(t, store.Items(), 1)
	assert.Equal(t, 1, store.Items()[0].Quantity)
}
