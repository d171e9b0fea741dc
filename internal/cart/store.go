package cart

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/sofiatorres5082/sweettreats/internal/domain"
)

const persistTimeout = time.Second

// Store holds the cart lines and enforces the stock clamp: a line's
// quantity never exceeds its stock limit, and a line never sits at zero
// quantity. Every mutation is written through to storage; storage failures
// are logged and swallowed so the in-memory cart always reflects the
// user's action.
type Store struct {
	mu      sync.Mutex
	items   []domain.CartLine
	storage Storage
}

// NewStore rehydrates the cart from storage. A missing or corrupt record
// falls back to an empty cart.
func NewStore(storage Storage) *Store {
	s := &Store{storage: storage}

	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()
	saved, err := storage.Load(ctx)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			log.Printf("cart rehydrate failed, starting empty: %v", err)
		}
		return s
	}

	s.items = saved.Items
	return s
}

// AddItem merges the line into the cart. An existing line gains one unit,
// clamped at its stock limit (a cart at cap quietly stays put). A new line
// is inserted with the given quantity, or one when none is given, clamped
// likewise. Lines without stock are not added.
func (s *Store) AddItem(line domain.CartLine) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if line.StockLimit <= 0 {
		return
	}

	for i, item := range s.items {
		if item.ProductID == line.ProductID {
			s.items[i].Quantity = clamp(item.Quantity+1, item.StockLimit)
			s.persist()
			return
		}
	}

	if line.Quantity < 1 {
		line.Quantity = 1
	}
	line.Quantity = clamp(line.Quantity, line.StockLimit)
	s.items = append(s.items, line)
	s.persist()
}

// IncrementQuantity adds one unit, clamped at the stock limit. It reports
// whether the quantity actually grew so callers can surface "no stock".
func (s *Store) IncrementQuantity(productID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, item := range s.items {
		if item.ProductID == productID {
			if item.Quantity >= item.StockLimit {
				return false
			}
			s.items[i].Quantity = item.Quantity + 1
			s.persist()
			return true
		}
	}
	return false
}

// DecrementQuantity removes one unit; a line reaching zero is dropped
// entirely.
func (s *Store) DecrementQuantity(productID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, item := range s.items {
		if item.ProductID == productID {
			if item.Quantity <= 1 {
				s.items = append(s.items[:i], s.items[i+1:]...)
			} else {
				s.items[i].Quantity = item.Quantity - 1
			}
			s.persist()
			return
		}
	}
}

func (s *Store) RemoveItem(productID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, item := range s.items {
		if item.ProductID == productID {
			s.items = append(s.items[:i], s.items[i+1:]...)
			s.persist()
			return
		}
	}
}

func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = nil
	s.persist()
}

// Items returns a copy of the current lines.
func (s *Store) Items() []domain.CartLine {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := make([]domain.CartLine, len(s.items))
	copy(items, s.items)
	return items
}

// Total is derived from the live lines on every call.
func (s *Store) Total() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	cart := domain.Cart{Items: s.items}
	return cart.Total()
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// persist writes the cart through to storage. Called with the lock held.
// Failures never block the mutation.
func (s *Store) persist() {
	cart := &domain.Cart{
		Items:     append([]domain.CartLine(nil), s.items...),
		UpdatedAt: time.Now(),
	}

	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()
	if err := s.storage.Save(ctx, cart); err != nil {
		log.Printf("cart persist failed: %v", err)
	}
}

func clamp(quantity, stockLimit int) int {
	if quantity > stockLimit {
		return stockLimit
	}
	return quantity
}
