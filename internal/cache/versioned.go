package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// defaultVersion is the generation a dataset starts at before any bump.
const defaultVersion = 1

// Versioned implements generation-counter invalidation for one logical
// dataset. Cached keys embed the current version, so bumping the counter
// orphans every previously issued key without enumerating or deleting
// them. Entries are stored without TTL; staleness is governed entirely by
// version bumps.
//
// The version counter is the only shared mutable state crossing request
// boundaries; bumps go through the backend's atomic increment so
// concurrent mutators cannot lose updates.
type Versioned struct {
	backend Backend
	dataset string
}

// NewVersioned returns a versioned view of the given dataset, e.g.
// "products:list".
func NewVersioned(backend Backend, dataset string) *Versioned {
	return &Versioned{backend: backend, dataset: dataset}
}

func (v *Versioned) versionKey() string {
	return v.dataset + ":version"
}

// Version returns the dataset's current generation, defaulting to 1 when
// the counter was never initialized. Backend failures also report the
// default so reads can proceed (fail open).
func (v *Versioned) Version(ctx context.Context) int64 {
	raw, err := v.backend.Get(ctx, v.versionKey())
	if err != nil {
		return defaultVersion
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || n < defaultVersion {
		return defaultVersion
	}
	return n
}

// Bump atomically advances the dataset's generation, orphaning every key
// issued under earlier versions. Called after each mutation of the
// underlying entity set.
func (v *Versioned) Bump(ctx context.Context) error {
	n, err := v.backend.Incr(ctx, v.versionKey())
	if err != nil {
		return fmt.Errorf("bump version for %s: %w", v.dataset, err)
	}
	// An increment from a missing counter yields 1, which equals the
	// implicit default; keys issued under the default would survive.
	// Advance once more so they go stale.
	if n == defaultVersion {
		if _, err := v.backend.Incr(ctx, v.versionKey()); err != nil {
			return fmt.Errorf("bump version for %s: %w", v.dataset, err)
		}
	}
	return nil
}

// Key composes the cache key for a filter descriptor under the current
// version. Empty filters normalize to "all"; filters are lowercased so
// equivalent descriptors share an entry.
func (v *Versioned) Key(ctx context.Context, filter string) string {
	filter = strings.ToLower(strings.TrimSpace(filter))
	if filter == "" {
		filter = "all"
	}
	return fmt.Sprintf("%s:v%d:%s", v.dataset, v.Version(ctx), filter)
}

// ReadThrough returns the cached value for the filter, invoking load on a
// miss and storing the result without TTL. Backend failures on either
// side degrade to calling load directly; the loader's data is always
// consistent with persistence, so serving it uncached is safe.
func ReadThrough[T any](ctx context.Context, v *Versioned, filter string, load func(context.Context) (T, error)) (T, bool, error) {
	key := v.Key(ctx, filter)

	if raw, err := v.backend.Get(ctx, key); err == nil {
		var cached T
		if err := json.Unmarshal([]byte(raw), &cached); err == nil {
			return cached, true, nil
		}
		// Undecodable entry: fall through and overwrite it.
	}

	value, err := load(ctx)
	if err != nil {
		var zero T
		return zero, false, err
	}

	if raw, err := json.Marshal(value); err == nil {
		// Best effort; a failed store only costs the next reader a load.
		_ = v.backend.Set(ctx, key, string(raw), 0)
	}
	return value, false, nil
}
