// Package handler implements the JSON API handlers. Each handler decodes
// the request, delegates to a service and renders the result; all policy
// lives in the service and authz layers.
package handler

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/nkozdemir/fakestore-backend-sub000/internal/domain"
)

// errorBody is the JSON shape of every error response.
type errorBody struct {
	Error   string         `json:"error"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// statusFromCode maps domain error codes to HTTP status codes.
func statusFromCode(code string) int {
	switch code {
	case domain.EINVALID:
		return http.StatusBadRequest
	case domain.EUNAUTHORIZED:
		return http.StatusUnauthorized
	case domain.EFORBIDDEN:
		return http.StatusForbidden
	case domain.ENOTFOUND:
		return http.StatusNotFound
	case domain.ECONFLICT:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// respondJSON writes the value with the given status.
func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

// respondError renders a domain error. Internal errors are logged with
// their cause and rendered with a generic message.
func respondError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	code := domain.ErrorCode(err)
	status := statusFromCode(code)

	if status == http.StatusInternalServerError {
		logger.ErrorContext(r.Context(), "request failed",
			slog.String("path", r.URL.Path),
			slog.String("request_id", domain.RequestIDFromContext(r.Context())),
			slog.String("error", err.Error()),
		)
	}

	respondJSON(w, status, errorBody{
		Error:   code,
		Message: domain.ErrorMessage(err),
		Details: domain.ErrorDetails(err),
	})
}

// decodeJSON decodes the request body into v, rejecting unknown fields.
func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return domain.Invalid("decode", "Request body is required", nil)
		}
		return domain.Invalid("decode", "Malformed request body", nil)
	}
	return nil
}

// pathID extracts a positive integer path parameter.
func pathID(r *http.Request, name string) (int64, error) {
	raw := r.PathValue(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		return 0, domain.Invalid("decode", "Invalid "+name+" path parameter",
			map[string]any{name: raw})
	}
	return id, nil
}
