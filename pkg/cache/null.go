package cache

import (
	"context"
	"time"
)

// NullCache stores nothing. The CLI uses it for --no-cache, for the "none"
// backend and when the cache directory cannot be created.
type NullCache struct{}

// NewNullCache creates a null cache.
func NewNullCache() Cache {
	return NullCache{}
}

// Get always misses.
func (NullCache) Get(context.Context, string) ([]byte, bool, error) {
	return nil, false, nil
}

// Set discards data.
func (NullCache) Set(context.Context, string, []byte, time.Duration) error {
	return nil
}

// Delete is a no-op.
func (NullCache) Delete(context.Context, string) error {
	return nil
}

// Clear reports zero removed entries.
func (NullCache) Clear(context.Context) (int, error) {
	return 0, nil
}

// Close is a no-op.
func (NullCache) Close() error {
	return nil
}

var (
	_ Cache   = NullCache{}
	_ Clearer = NullCache{}
)
