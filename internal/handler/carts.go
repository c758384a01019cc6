package handler

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/nkozdemir/fakestore-backend-sub000/internal/domain"
	"github.com/nkozdemir/fakestore-backend-sub000/internal/service"
)

// CartHandler serves the cart endpoints.
type CartHandler struct {
	carts  *service.CartService
	logger *slog.Logger
}

// NewCartHandler creates a new cart handler.
func NewCartHandler(carts *service.CartService, logger *slog.Logger) *CartHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &CartHandler{carts: carts, logger: logger}
}

type cartItemPayload struct {
	ProductID int64 `json:"productId"`
	Quantity  int   `json:"quantity"`
}

func itemOps(items []cartItemPayload) []domain.CartItemOp {
	if items == nil {
		return nil
	}
	ops := make([]domain.CartItemOp, len(items))
	for i, it := range items {
		ops[i] = domain.CartItemOp{ProductID: it.ProductID, Quantity: it.Quantity}
	}
	return ops
}

// List handles GET /carts?userId=n
func (h *CartHandler) List(w http.ResponseWriter, r *http.Request) {
	var userFilter *int64
	if raw := r.URL.Query().Get("userId"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id < 1 {
			respondError(w, r, h.logger,
				domain.Invalid("cart.list", "Invalid userId query parameter",
					map[string]any{"userId": raw}))
			return
		}
		userFilter = &id
	}

	carts, err := h.carts.List(r.Context(), userFilter)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, carts)
}

// Get handles GET /carts/{id}
func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	cart, err := h.carts.Get(r.Context(), id)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, cart)
}

// Create handles POST /carts
func (h *CartHandler) Create(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		UserID   int64             `json:"userId"`
		Date     *time.Time        `json:"date"`
		Products []cartItemPayload `json:"products"`
	}
	if err := decodeJSON(r, &payload); err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	in := domain.CartCreate{
		UserID: payload.UserID,
		Items:  itemOps(payload.Products),
	}
	if payload.Date != nil {
		in.Date = *payload.Date
	}

	cart, err := h.carts.Create(r.Context(), in)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respondJSON(w, http.StatusCreated, cart)
}

// Update handles PUT /carts/{id}
func (h *CartHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	var payload struct {
		UserID   *int64            `json:"userId"`
		Date     *time.Time        `json:"date"`
		Products []cartItemPayload `json:"products"`
	}
	if err := decodeJSON(r, &payload); err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	cart, err := h.carts.Update(r.Context(), id, domain.CartUpdate{
		UserID: payload.UserID,
		Date:   payload.Date,
		Items:  itemOps(payload.Products),
	})
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, cart)
}

// Patch handles PATCH /carts/{id}
func (h *CartHandler) Patch(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	var payload struct {
		Add    []cartItemPayload `json:"add"`
		Update []cartItemPayload `json:"update"`
		Remove []int64           `json:"remove"`
		Date   *time.Time        `json:"date"`
		UserID *int64            `json:"userId"`
	}
	if err := decodeJSON(r, &payload); err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	cart, err := h.carts.Patch(r.Context(), id, domain.CartPatch{
		Add:    itemOps(payload.Add),
		Update: itemOps(payload.Update),
		Remove: payload.Remove,
		Date:   payload.Date,
		UserID: payload.UserID,
	})
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, cart)
}

// Delete handles DELETE /carts/{id}
func (h *CartHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	if err := h.carts.Delete(r.Context(), id); err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}
