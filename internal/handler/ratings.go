package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/nkozdemir/fakestore-backend-sub000/internal/domain"
	"github.com/nkozdemir/fakestore-backend-sub000/internal/service"
)

// RatingHandler serves the per-product rating endpoints. A privileged
// caller may address another user's rating with ?userId=n.
type RatingHandler struct {
	ratings *service.RatingService
	logger  *slog.Logger
}

// NewRatingHandler creates a new rating handler.
func NewRatingHandler(ratings *service.RatingService, logger *slog.Logger) *RatingHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &RatingHandler{ratings: ratings, logger: logger}
}

// ratingUserID parses the optional userId query parameter.
func ratingUserID(r *http.Request) (*int64, error) {
	raw := r.URL.Query().Get("userId")
	if raw == "" {
		return nil, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		return nil, domain.Invalid("rating", "Invalid userId query parameter",
			map[string]any{"userId": raw})
	}
	return &id, nil
}

// Get handles GET /products/{id}/rating
func (h *RatingHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	userID, err := ratingUserID(r)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	summary, err := h.ratings.Summary(r.Context(), id, userID)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, summary)
}

// Set handles PUT /products/{id}/rating
func (h *RatingHandler) Set(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	userID, err := ratingUserID(r)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	var payload struct {
		Value int `json:"value"`
	}
	if err := decodeJSON(r, &payload); err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	summary, err := h.ratings.Set(r.Context(), id, payload.Value, userID)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, summary)
}

// Delete handles DELETE /products/{id}/rating
func (h *RatingHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	userID, err := ratingUserID(r)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	summary, err := h.ratings.Delete(r.Context(), id, userID)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, summary)
}
