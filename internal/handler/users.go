package handler

import (
	"log/slog"
	"net/http"

	"github.com/nkozdemir/fakestore-backend-sub000/internal/domain"
	"github.com/nkozdemir/fakestore-backend-sub000/internal/service"
)

// UserHandler serves the account and address endpoints.
type UserHandler struct {
	users  *service.UserService
	logger *slog.Logger
}

// NewUserHandler creates a new user handler.
func NewUserHandler(users *service.UserService, logger *slog.Logger) *UserHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &UserHandler{users: users, logger: logger}
}

type addressPayload struct {
	Street      string             `json:"street"`
	Number      string             `json:"number"`
	City        string             `json:"city"`
	Zipcode     string             `json:"zipcode"`
	Geolocation domain.Geolocation `json:"geolocation"`
}

func (p addressPayload) toCreate() domain.AddressCreate {
	return domain.AddressCreate{
		Street:      p.Street,
		Number:      p.Number,
		City:        p.City,
		Zipcode:     p.Zipcode,
		Geolocation: p.Geolocation,
	}
}

// List handles GET /users
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.List(r.Context())
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, users)
}

// Get handles GET /users/{id}
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	u, err := h.users.Get(r.Context(), id)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, u)
}

// Create handles POST /users
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Username  string          `json:"username"`
		Email     string          `json:"email"`
		Password  string          `json:"password"`
		FirstName string          `json:"firstname"`
		LastName  string          `json:"lastname"`
		Phone     string          `json:"phone"`
		Staff     bool            `json:"isStaff"`
		Superuser bool            `json:"isSuperuser"`
		Address   *addressPayload `json:"address"`
	}
	if err := decodeJSON(r, &payload); err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	in := domain.UserCreate{
		Username:  payload.Username,
		Email:     payload.Email,
		Password:  payload.Password,
		FirstName: payload.FirstName,
		LastName:  payload.LastName,
		Phone:     payload.Phone,
		Staff:     payload.Staff,
		Superuser: payload.Superuser,
	}
	if payload.Address != nil {
		addr := payload.Address.toCreate()
		in.Address = &addr
	}

	u, err := h.users.Create(r.Context(), in)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respondJSON(w, http.StatusCreated, u)
}

// Update handles PATCH /users/{id}
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	var payload struct {
		Username  *string         `json:"username"`
		Email     *string         `json:"email"`
		Password  *string         `json:"password"`
		FirstName *string         `json:"firstname"`
		LastName  *string         `json:"lastname"`
		Phone     *string         `json:"phone"`
		Address   *addressPayload `json:"address"`
	}
	if err := decodeJSON(r, &payload); err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	in := domain.UserUpdate{
		Username:  payload.Username,
		Email:     payload.Email,
		Password:  payload.Password,
		FirstName: payload.FirstName,
		LastName:  payload.LastName,
		Phone:     payload.Phone,
	}
	if payload.Address != nil {
		addr := payload.Address.toCreate()
		in.Address = &addr
	}

	u, err := h.users.Update(r.Context(), id, in)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, u)
}

// Delete handles DELETE /users/{id}
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	if err := h.users.Delete(r.Context(), id); err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}

// ListAddresses handles GET /users/{id}/addresses
func (h *UserHandler) ListAddresses(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "id")
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	addrs, err := h.users.ListAddresses(r.Context(), userID)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, addrs)
}

// GetAddress handles GET /users/{id}/addresses/{addressId}
func (h *UserHandler) GetAddress(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "id")
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	addressID, err := pathID(r, "addressId")
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	addr, err := h.users.GetAddress(r.Context(), userID, addressID)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, addr)
}

// CreateAddress handles POST /users/{id}/addresses
func (h *UserHandler) CreateAddress(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "id")
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	var payload addressPayload
	if err := decodeJSON(r, &payload); err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	addr, err := h.users.CreateAddress(r.Context(), userID, payload.toCreate())
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respondJSON(w, http.StatusCreated, addr)
}

// UpdateAddress handles PATCH /users/{id}/addresses/{addressId}
func (h *UserHandler) UpdateAddress(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "id")
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	addressID, err := pathID(r, "addressId")
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	var payload struct {
		Street      *string `json:"street"`
		Number      *string `json:"number"`
		City        *string `json:"city"`
		Zipcode     *string `json:"zipcode"`
		Geolocation *struct {
			Lat  *string `json:"lat"`
			Long *string `json:"long"`
		} `json:"geolocation"`
	}
	if err := decodeJSON(r, &payload); err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	in := domain.AddressUpdate{
		Street:  payload.Street,
		Number:  payload.Number,
		City:    payload.City,
		Zipcode: payload.Zipcode,
	}
	if payload.Geolocation != nil {
		in.Lat = payload.Geolocation.Lat
		in.Long = payload.Geolocation.Long
	}

	addr, err := h.users.UpdateAddress(r.Context(), userID, addressID, in)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, addr)
}

// DeleteAddress handles DELETE /users/{id}/addresses/{addressId}
func (h *UserHandler) DeleteAddress(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "id")
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	addressID, err := pathID(r, "addressId")
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	if err := h.users.DeleteAddress(r.Context(), userID, addressID); err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}
