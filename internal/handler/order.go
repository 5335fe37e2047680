package handler

import (
	"net/http"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/tablepay/tablepay/internal/domain/order"
)

type lineItemDTO struct {
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
}

type completeOrderRequest struct {
	TableID     string        `json:"table_id"`
	Items       []lineItemDTO `json:"items"`
	TotalAmount float64       `json:"total_amount"`
	PaymentMode string        `json:"payment_mode"`
}

type completeOrderResponse struct {
	Message     string  `json:"message"`
	OrderID     string  `json:"order_id"`
	TotalAmount float64 `json:"total_amount"`
}

type orderDTO struct {
	ID          string        `json:"id"`
	TableID     string        `json:"table_id"`
	Items       []lineItemDTO `json:"items"`
	TotalAmount float64       `json:"total_amount"`
	PaymentMode string        `json:"payment_mode"`
	Status      string        `json:"status"`
	CreatedAt   string        `json:"created_at"`
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

func toOrderDTO(o *order.Order) orderDTO {
	items := make([]lineItemDTO, len(o.Items))
	for i, item := range o.Items {
		items[i] = lineItemDTO{
			Name:     item.Name,
			Price:    item.Price.InexactFloat64(),
			Quantity: item.Quantity,
		}
	}
	return orderDTO{
		ID:          o.ID,
		TableID:     o.TableID,
		Items:       items,
		TotalAmount: o.TotalAmount.InexactFloat64(),
		PaymentMode: o.PaymentMode,
		Status:      string(o.Status),
		CreatedAt:   o.CreatedAt.Format("2006-01-02T15:04:05.000Z07:00"),
	}
}

func (h *Handler) completeOrder(w http.ResponseWriter, r *http.Request) {
	var req completeOrderRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	items := make([]order.LineItem, len(req.Items))
	for i, item := range req.Items {
		items[i] = order.LineItem{
			Name:     item.Name,
			Price:    decimal.NewFromFloat(item.Price),
			Quantity: item.Quantity,
		}
	}

	o, err := h.orders.Create(r.Context(), order.CreateRequest{
		TableID:     req.TableID,
		Items:       items,
		TotalAmount: decimal.NewFromFloat(req.TotalAmount),
		PaymentMode: req.PaymentMode,
	})
	if err != nil {
		writeOrderError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, completeOrderResponse{
		Message:     "Order placed successfully",
		OrderID:     o.ID,
		TotalAmount: o.TotalAmount.InexactFloat64(),
	})
}

func (h *Handler) listOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orders.ListActive(r.Context())
	if err != nil {
		writeInternalError(w, r, err)
		return
	}

	out := make([]orderDTO, len(orders))
	for i := range orders {
		out[i] = toOrderDTO(&orders[i])
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) updateOrderStatus(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("order_id")

	var req updateStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	o, err := h.orders.UpdateStatus(r.Context(), id, req.Status)
	if err != nil {
		writeOrderError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toOrderDTO(o))
}

// writeOrderError maps order domain errors onto HTTP status codes.
func writeOrderError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		quantityErr  *order.InvalidQuantityError
		priceErr     *order.InvalidPriceError
		statusErr    *order.InvalidStatusError
		storeErr     *order.StoreUnavailableError
		persistErr   *order.PersistError
		completedErr *order.AlreadyCompletedError
	)

	switch {
	case errors.Is(err, order.ErrTableRequired),
		errors.Is(err, order.ErrEmptyItems),
		errors.Is(err, order.ErrInvalidTotal),
		errors.Is(err, order.ErrPaymentModeRequired),
		errors.As(err, &quantityErr),
		errors.As(err, &priceErr),
		errors.As(err, &statusErr):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.As(err, &storeErr):
		writeError(w, http.StatusServiceUnavailable, "order could not be placed, please retry")
	case errors.Is(err, order.ErrNotFound):
		writeError(w, http.StatusNotFound, "order not found")
	case errors.As(err, &completedErr):
		writeError(w, http.StatusConflict, completedErr.Error())
	case errors.As(err, &persistErr):
		writeInternalError(w, r, err)
	default:
		writeInternalError(w, r, err)
	}
}
