// Package cache provides the cache backend abstraction and the
// generation-counter scheme used to invalidate product listings.
package cache

import (
	"context"
	"errors"
	"time"
)

// ErrMiss is returned by Backend.Get when the key is absent.
var ErrMiss = errors.New("cache: miss")

// Backend is the minimal contract the versioned cache needs from a cache
// store. Implementations must make Incr an atomic increment; it is the
// only cross-request shared mutable state in the system.
type Backend interface {
	// Get returns the value stored under key, or ErrMiss.
	Get(ctx context.Context, key string) (string, error)

	// Set stores value under key. A zero ttl means no expiry.
	Set(ctx context.Context, key string, value string, ttl time.Duration) error

	// Incr atomically increments the integer stored under key and
	// returns the new value. A missing key counts as zero.
	Incr(ctx context.Context, key string) (int64, error)

	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
}
