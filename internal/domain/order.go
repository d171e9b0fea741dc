package domain

import "time"

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "PENDING"
	OrderStatusInProgress OrderStatus = "IN_PROGRESS"
	OrderStatusDelivered  OrderStatus = "DELIVERED"
	OrderStatusCancelled  OrderStatus = "CANCELLED"
)

// OrderLine mirrors one item of an order as the orders backend reports it.
type OrderLine struct {
	ProductID   int64   `json:"productId"`
	ProductName string  `json:"productName"`
	Quantity    int     `json:"cantidad"`
	UnitPrice   float64 `json:"precioUnitario"`
}

// Order is owned by the external orders backend; the storefront only
// submits creation requests and reads it back. Wire names follow the
// backend contract.
type Order struct {
	ID              int64       `json:"id"`
	ShippingAddress string      `json:"direccionEnvio"`
	PaymentMethod   string      `json:"metodoPago"`
	Total           float64     `json:"total"`
	Status          OrderStatus `json:"estado"`
	CreatedAt       time.Time   `json:"createdAt"`
	Lines           []OrderLine `json:"detalles"`
}
