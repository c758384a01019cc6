package handler

import (
	"log/slog"
	"net/http"

	"github.com/nkozdemir/fakestore-backend-sub000/internal/service"
)

// CategoryHandler serves the category endpoints.
type CategoryHandler struct {
	categories *service.CategoryService
	logger     *slog.Logger
}

// NewCategoryHandler creates a new category handler.
func NewCategoryHandler(categories *service.CategoryService, logger *slog.Logger) *CategoryHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &CategoryHandler{categories: categories, logger: logger}
}

type categoryPayload struct {
	Name string `json:"name"`
}

// List handles GET /categories
func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	cats, err := h.categories.List(r.Context())
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, cats)
}

// Get handles GET /categories/{id}
func (h *CategoryHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	c, err := h.categories.Get(r.Context(), id)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, c)
}

// Create handles POST /categories
func (h *CategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var payload categoryPayload
	if err := decodeJSON(r, &payload); err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	c, err := h.categories.Create(r.Context(), payload.Name)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respondJSON(w, http.StatusCreated, c)
}

// Update handles PUT /categories/{id}
func (h *CategoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	var payload categoryPayload
	if err := decodeJSON(r, &payload); err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	c, err := h.categories.Update(r.Context(), id, payload.Name)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, c)
}

// Delete handles DELETE /categories/{id}
func (h *CategoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	if err := h.categories.Delete(r.Context(), id); err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}
