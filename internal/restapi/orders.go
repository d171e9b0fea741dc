package restapi

import (
	"context"
	"fmt"
	"net/http"

	"github.com/sofiatorres5082/sweettreats/internal/domain"
)

// OrderItem is one line of an order-creation request. Wire names follow the
// orders backend contract.
type OrderItem struct {
	ProductID int64   `json:"productId"`
	Quantity  int     `json:"cantidad"`
	UnitPrice float64 `json:"precioUnitario"`
}

type OrderRequest struct {
	ShippingAddress string      `json:"direccionEnvio"`
	PaymentMethod   string      `json:"metodoPago"`
	Items           []OrderItem `json:"items"`
}

func (c *Client) CreateOrder(ctx context.Context, req OrderRequest) (*domain.Order, error) {
	var order domain.Order
	if err := c.do(ctx, http.MethodPost, "/api/orders", req, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (c *Client) ListOrders(ctx context.Context) ([]domain.Order, error) {
	var orders []domain.Order
	if err := c.do(ctx, http.MethodGet, "/api/orders", nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (c *Client) GetOrder(ctx context.Context, id int64) (*domain.Order, error) {
	var order domain.Order
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/orders/%d", id), nil, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (c *Client) CancelOrder(ctx context.Context, id int64) (*domain.Order, error) {
	var order domain.Order
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/api/orders/%d/cancel", id), nil, &order); err != nil {
		return nil, err
	}
	return &order, nil
}
