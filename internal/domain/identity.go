// Package domain provides the core business types, the error taxonomy and
// request-scoped identity helpers for the fakestore backend.
package domain

import "context"

// contextKey is an unexported type for context keys to prevent collisions.
type contextKey int

const (
	// identityContextKey stores the acting identity in context.
	identityContextKey contextKey = iota

	// requestIDContextKey stores the request ID for tracing.
	requestIDContextKey
)

// Identity describes the actor behind the current request.
// It is resolved once by the auth middleware and carried in context;
// services never look identities up themselves.
type Identity struct {
	ID        int64
	Username  string
	Staff     bool
	Superuser bool
}

// Privileged reports whether the identity may act on behalf of other users.
func (i Identity) Privileged() bool {
	return i.Staff || i.Superuser
}

// NewContextWithIdentity returns a new context with the identity attached.
func NewContextWithIdentity(ctx context.Context, identity *Identity) context.Context {
	return context.WithValue(ctx, identityContextKey, identity)
}

// IdentityFromContext retrieves the identity from context.
// Returns nil if the request is unauthenticated.
func IdentityFromContext(ctx context.Context) *Identity {
	identity, _ := ctx.Value(identityContextKey).(*Identity)
	return identity
}

// NewContextWithRequestID returns a new context with the request ID attached.
func NewContextWithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDContextKey, requestID)
}

// RequestIDFromContext retrieves the request ID from context.
// Returns empty string if no request ID is present.
func RequestIDFromContext(ctx context.Context) string {
	requestID, _ := ctx.Value(requestIDContextKey).(string)
	return requestID
}
