// Package cache stores rendered artifacts and replayed scenes.
//
// Two backends are provided: [FileCache] for local CLI use and
// [RedisCache] for sharing renders between machines. [NullCache] disables
// caching. Keys come from a [Keyer] so that every backend names entries
// the same way.
//
//	c, err := cache.NewFileCache(dir)
//	key := cache.NewDefaultKeyer().ArtifactKey(sceneHash, cache.ArtifactKeyOpts{Format: "png", Scale: 2})
//	data, hit, err := c.Get(ctx, key)
package cache

import (
	"context"
	"encoding/json"
	"time"
)

// Cache is a byte store with optional per-entry expiry.
type Cache interface {
	// Get returns the stored value and whether it was found.
	// Expired entries are reported as misses.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of 0 keeps the entry forever.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Missing keys are not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Clearer is implemented by caches that can drop every entry they hold.
type Clearer interface {
	Clear(ctx context.Context) (int, error)
}

// Entry lifetimes.
const (
	TTLScene    = 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
)

// GetJSON decodes a cached JSON value into v.
// It returns ErrCacheMiss when the key is absent or the entry is corrupt.
func GetJSON(ctx context.Context, c Cache, key string, v any) error {
	data, ok, err := c.Get(ctx, key)
	if err != nil {
		return err
	}
	if !ok || json.Unmarshal(data, v) != nil {
		return ErrCacheMiss
	}
	return nil
}

// SetJSON encodes v as JSON and stores it.
func SetJSON(ctx context.Context, c Cache, key string, v any, ttl time.Duration) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.Set(ctx, key, data, ttl)
}
