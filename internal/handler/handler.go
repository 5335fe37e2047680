// Package handler exposes the TablePay HTTP API and maps domain errors to
// HTTP status codes.
package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/tablepay/tablepay/internal/domain/menu"
	"github.com/tablepay/tablepay/internal/domain/order"
	"github.com/tablepay/tablepay/internal/domain/user"
)

// Handler holds the domain services behind the HTTP API.
type Handler struct {
	orders *order.Service
	menu   *menu.Service
	users  *user.Service
}

// New constructs a Handler with the required domain services.
func New(orders *order.Service, menuSvc *menu.Service, users *user.Service) *Handler {
	return &Handler{
		orders: orders,
		menu:   menuSvc,
		users:  users,
	}
}

// Register mounts all API routes on mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/login", h.login)

	mux.HandleFunc("GET /api/menu", h.listMenu)
	mux.HandleFunc("POST /api/menu", h.createMenuItem)
	mux.HandleFunc("PUT /api/menu/{item_id}", h.updateMenuItem)
	mux.HandleFunc("DELETE /api/menu/{item_id}", h.deleteMenuItem)

	mux.HandleFunc("POST /api/order/complete", h.completeOrder)
	mux.HandleFunc("GET /api/orders", h.listOrders)
	mux.HandleFunc("PUT /api/orders/{order_id}/status", h.updateOrderStatus)
}

// errorResponse is the JSON error body shared by all endpoints.
type errorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// Best effort: the status code is already written, so an encode failure
	// can only mean the client went away.
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Code: status, Message: message})
}

// writeInternalError logs err and responds with a generic 500 body so
// internal details never reach the client.
func writeInternalError(w http.ResponseWriter, r *http.Request, err error) {
	zctx.From(r.Context()).Error("Request failed", zap.Error(err))
	writeError(w, http.StatusInternalServerError, "internal server error")
}

func decodeJSON(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}
