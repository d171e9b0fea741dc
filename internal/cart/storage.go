package cart

import (
	"context"
	"errors"

	"github.com/sofiatorres5082/sweettreats/internal/domain"
)

// Storage is the durable home of the cart between sessions. Implementations
// must treat Load of an absent cart as ErrNotFound, not an empty cart.
type Storage interface {
	Load(ctx context.Context) (*domain.Cart, error)
	Save(ctx context.Context, cart *domain.Cart) error
	Delete(ctx context.Context) error
}

var ErrNotFound = errors.New("cart not found in storage")
