package handler

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/nkozdemir/fakestore-backend-sub000/internal/service"
)

// AuthHandler serves login and logout.
type AuthHandler struct {
	accounts *service.AccountService
	logger   *slog.Logger
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(accounts *service.AccountService, logger *slog.Logger) *AuthHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthHandler{accounts: accounts, logger: logger}
}

// Login handles POST /auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := decodeJSON(r, &payload); err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	session, err := h.accounts.Login(r.Context(), payload.Username, payload.Password)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, struct {
		Token     string    `json:"token"`
		ExpiresAt time.Time `json:"expiresAt"`
	}{
		Token:     session.Token,
		ExpiresAt: session.ExpiresAt,
	})
}

// Logout handles POST /auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	header := r.Header.Get("Authorization")
	token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	if token == "" {
		respondJSON(w, http.StatusNoContent, nil)
		return
	}
	if err := h.accounts.Logout(r.Context(), token); err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}
