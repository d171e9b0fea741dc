package httpapi

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/sofiatorres5082/sweettreats/internal/domain"
	"github.com/sofiatorres5082/sweettreats/internal/restapi"
)

// OrderHistoryAPI is the slice of the orders backend the history pages use.
type OrderHistoryAPI interface {
	ListOrders(ctx context.Context) ([]domain.Order, error)
	GetOrder(ctx context.Context, id int64) (*domain.Order, error)
	CancelOrder(ctx context.Context, id int64) (*domain.Order, error)
}

type OrdersHandler struct {
	api OrderHistoryAPI
}

func NewOrdersHandler(api OrderHistoryAPI) *OrdersHandler {
	return &OrdersHandler{api: api}
}

func (h *OrdersHandler) List(w http.ResponseWriter, r *http.Request) {
	orders, err := h.api.ListOrders(r.Context())
	if err != nil {
		respondUpstreamError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, orders)
}

func (h *OrdersHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := orderIDParam(w, r)
	if !ok {
		return
	}

	order, err := h.api.GetOrder(r.Context(), id)
	if err != nil {
		respondUpstreamError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, order)
}

func (h *OrdersHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	id, ok := orderIDParam(w, r)
	if !ok {
		return
	}

	order, err := h.api.CancelOrder(r.Context(), id)
	if err != nil {
		respondUpstreamError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, order)
}

func orderIDParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	idStr := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || id <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_order_id", "order id must be a positive integer")
		return 0, false
	}
	return id, true
}

// respondUpstreamError maps backend status errors onto the same code so
// the caller sees what the orders backend said.
func respondUpstreamError(w http.ResponseWriter, err error) {
	for _, code := range []int{
		http.StatusNotFound,
		http.StatusUnauthorized,
		http.StatusForbidden,
		http.StatusConflict,
	} {
		if restapi.IsStatus(err, code) {
			respondError(w, code, "orders_backend", restapi.ErrorMessage(err))
			return
		}
	}
	respondError(w, http.StatusBadGateway, "orders_backend", restapi.ErrorMessage(err))
}
