package handler

import (
	"net/http"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/tablepay/tablepay/internal/domain/menu"
)

type menuItemRequest struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Category    string  `json:"category"`
	ImageURL    string  `json:"image_url"`
}

type menuItemDTO struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Category    string  `json:"category"`
	ImageURL    string  `json:"image_url"`
}

func toMenuItemDTO(item *menu.Item) menuItemDTO {
	return menuItemDTO{
		ID:          item.ID,
		Name:        item.Name,
		Description: item.Description,
		Price:       item.Price.InexactFloat64(),
		Category:    item.Category,
		ImageURL:    item.ImageURL,
	}
}

func (r menuItemRequest) toInput() menu.ItemInput {
	return menu.ItemInput{
		Name:        r.Name,
		Description: r.Description,
		Price:       decimal.NewFromFloat(r.Price),
		Category:    r.Category,
		ImageURL:    r.ImageURL,
	}
}

func (h *Handler) listMenu(w http.ResponseWriter, r *http.Request) {
	items, err := h.menu.List(r.Context())
	if err != nil {
		writeInternalError(w, r, err)
		return
	}

	out := make([]menuItemDTO, len(items))
	for i := range items {
		out[i] = toMenuItemDTO(&items[i])
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) createMenuItem(w http.ResponseWriter, r *http.Request) {
	var req menuItemRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	item, err := h.menu.Create(r.Context(), req.toInput())
	if err != nil {
		writeMenuError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, toMenuItemDTO(item))
}

func (h *Handler) updateMenuItem(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("item_id")

	var req menuItemRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	item, err := h.menu.Update(r.Context(), id, req.toInput())
	if err != nil {
		writeMenuError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toMenuItemDTO(item))
}

func (h *Handler) deleteMenuItem(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("item_id")

	if err := h.menu.Delete(r.Context(), id); err != nil {
		writeMenuError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// writeMenuError maps menu domain errors onto HTTP status codes.
func writeMenuError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, menu.ErrInvalidID),
		errors.Is(err, menu.ErrNameRequired),
		errors.Is(err, menu.ErrInvalidPrice),
		errors.Is(err, menu.ErrCategoryRequired):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, menu.ErrNotFound):
		writeError(w, http.StatusNotFound, "menu item not found")
	default:
		writeInternalError(w, r, err)
	}
}
