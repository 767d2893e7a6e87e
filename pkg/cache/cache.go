// Package cache provides the diagram markup cache used by the HTTP server.
//
// Rendering a diagram is a pure function of the sources config and the
// target key, so markup is cached under a digest of both. Backends:
//   - file: directory-based cache for single-instance serving
//   - redis: shared cache for multi-instance deployments
//   - null: no-op cache for tests and --no-cache runs
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

// Cache is the interface all cache backends implement. Get reports a miss
// with hit=false and a nil error; errors are reserved for backend failures.
type Cache interface {
	Get(ctx context.Context, key string) (data []byte, hit bool, err error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Hash computes a SHA-256 hash of the input data.
// Returns the full 64-character hex string.
func Hash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// DiagramKey builds the cache key for a rendered diagram: a digest of the
// raw config bytes plus the source key and output format. Changing any of
// the three invalidates the entry.
func DiagramKey(configDigest, sourceKey, format string) string {
	return fmt.Sprintf("diagram:%s:%s:%s", configDigest, format, sourceKey)
}
