package handler

import (
	"log/slog"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/nkozdemir/fakestore-backend-sub000/internal/domain"
	"github.com/nkozdemir/fakestore-backend-sub000/internal/service"
)

// ProductHandler serves the catalog endpoints.
type ProductHandler struct {
	products *service.ProductService
	logger   *slog.Logger
}

// NewProductHandler creates a new product handler.
func NewProductHandler(products *service.ProductService, logger *slog.Logger) *ProductHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ProductHandler{products: products, logger: logger}
}

type productPayload struct {
	Title       *string          `json:"title"`
	Price       *decimal.Decimal `json:"price"`
	Description *string          `json:"description"`
	Image       *string          `json:"image"`
	Rate        *decimal.Decimal `json:"rate"`
	Count       *int             `json:"count"`
	CategoryIDs []int64          `json:"categoryIds"`
}

// List handles GET /products?category=name
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	products, err := h.products.List(r.Context(), r.URL.Query().Get("category"))
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, products)
}

// Get handles GET /products/{id}
func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	product, err := h.products.Get(r.Context(), id)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, product)
}

// Create handles POST /products
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var payload productPayload
	if err := decodeJSON(r, &payload); err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	in := domain.ProductCreate{
		Rate:        payload.Rate,
		Count:       payload.Count,
		CategoryIDs: payload.CategoryIDs,
	}
	if payload.Title != nil {
		in.Title = *payload.Title
	}
	if payload.Price != nil {
		in.Price = *payload.Price
	}
	if payload.Description != nil {
		in.Description = *payload.Description
	}
	if payload.Image != nil {
		in.Image = *payload.Image
	}

	product, err := h.products.Create(r.Context(), in)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respondJSON(w, http.StatusCreated, product)
}

// Update handles PATCH /products/{id}
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	var payload productPayload
	if err := decodeJSON(r, &payload); err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	product, err := h.products.Update(r.Context(), id, domain.ProductUpdate{
		Title:       payload.Title,
		Price:       payload.Price,
		Description: payload.Description,
		Image:       payload.Image,
		CategoryIDs: payload.CategoryIDs,
	})
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, product)
}

// Delete handles DELETE /products/{id}
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	if err := h.products.Delete(r.Context(), id); err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}
