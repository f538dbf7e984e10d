// Package cache stores rendered artifacts and fetched part images.
//
// Rendering a composite is deterministic in its inputs: the layer stack, the
// output format and the canvas size. [Keyer] turns those inputs into a stable
// key so repeated renders (the same bike viewed twice, a refresh in the
// browser) are served from the cache.
//
// # Backends
//
//   - [FileCache]: one file per entry under a directory, for the CLI
//   - [RedisCache]: shared cache for multiple server instances
//   - [NullCache]: caching disabled
//
// # Usage
//
//	c, _ := cache.NewFileCache(dir)
//	key := cache.NewDefaultKeyer().ArtifactKey(planHash, cache.ArtifactKeyOpts{Format: "png"})
//	data, err := cache.GetOrCompute(ctx, c, key, "png", 24*time.Hour, func() ([]byte, error) {
//	    return render.Render(ctx, "png", plan, opts)
//	})
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/matzehuels/bikebuilder/pkg/observability"
)

// Cache is a byte store with per-entry expiry.
type Cache interface {
	// Get returns the entry for key. A miss is (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	Close() error
}

// GetOrCompute returns the cached entry for key, or calls compute and stores
// its result. Read and write failures of the cache itself are not fatal; the
// computed value is returned regardless. keyType labels the hook events.
func GetOrCompute(ctx context.Context, c Cache, key, keyType string, ttl time.Duration, compute func() ([]byte, error)) ([]byte, error) {
	hooks := observability.Cache()
	if data, ok, err := c.Get(ctx, key); err == nil && ok {
		hooks.OnCacheHit(ctx, keyType)
		return data, nil
	}
	hooks.OnCacheMiss(ctx, keyType)

	data, err := compute()
	if err != nil {
		return nil, err
	}
	if err := c.Set(ctx, key, data, ttl); err == nil {
		hooks.OnCacheSet(ctx, keyType, len(data))
	}
	return data, nil
}

// Hash returns the hex SHA-256 of data.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// HashJSON hashes the JSON encoding of v. Values that cannot be encoded
// hash as their fmt representation.
func HashJSON(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		data = []byte(fmt.Sprintf("%#v", v))
	}
	return Hash(data)
}

// hashKey joins prefix with the hash of parts.
func hashKey(prefix string, parts ...any) string {
	return prefix + ":" + HashJSON(parts)
}
