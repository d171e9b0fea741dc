package domain

import (
	"math"
	"time"
)

// CartLine is one product entry in the cart with its chosen quantity.
// Quantity is always between 1 and StockLimit.
type CartLine struct {
	ProductID  int64   `json:"product_id"`
	Name       string  `json:"name"`
	UnitPrice  float64 `json:"unit_price"`
	ImageRef   string  `json:"image_ref"`
	StockLimit int     `json:"stock_limit"`
	Quantity   int     `json:"quantity"`
}

func (l CartLine) Subtotal() float64 {
	return l.UnitPrice * float64(l.Quantity)
}

type Cart struct {
	Items     []CartLine `json:"items"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// Total is recomputed on every call, never cached.
func (c *Cart) Total() float64 {
	var total float64
	for _, item := range c.Items {
		total += item.Subtotal()
	}
	return total
}

// MinorUnits converts a currency amount to integer minor units (cents),
// rounding half-up at the cent boundary.
func MinorUnits(amount float64) int64 {
	return int64(math.Round(amount * 100))
}
