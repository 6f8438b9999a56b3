// Package cache stores rendered marker artifacts.
//
// Marker generation is pure and cheap, but a server rendering the same PNG
// for every request still pays for rasterisation and encoding. The cache
// sits above generation: it maps an artifact key (marker key plus every
// option that changes the output) to encoded bytes. Nothing in the core
// reads from it, so a disabled or failing cache changes latency, never
// output.
//
// Backends:
//   - [MemoryCache]: bounded in-process LRU, the server default
//   - [FileCache]: one JSON file per entry, the CLI default
//   - [RedisCache]: shared between server replicas
//   - [MongoCache]: document store with a TTL index
//   - [NullCache]: caching disabled
//
// Keys are built by a [Keyer]; [ScopedKeyer] adds a namespace prefix.
package cache

import (
	"context"
	"time"
)

// TTLArtifact is how long rendered artifacts are kept. Output for a given
// key and options never changes within one ArtifactVersion, so the TTL only
// bounds storage.
const TTLArtifact = 30 * 24 * time.Hour

// Cache is a byte store with per-entry expiry.
type Cache interface {
	// Get returns the data stored under key. A miss is (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A zero ttl means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Clearer is implemented by caches that can drop every entry they own.
type Clearer interface {
	Clear(ctx context.Context) error
}

// Named is implemented by caches that report a backend name for metrics.
type Named interface {
	Name() string
}

// Scoped is implemented by shared backends that own only the keys under a
// prefix. Their Clear touches nothing else.
type Scoped interface {
	Prefix() string
}

// BackendName returns c's backend name, or "custom".
func BackendName(c Cache) string {
	if n, ok := c.(Named); ok {
		return n.Name()
	}
	return "custom"
}

// expired reports whether an entry with the given deadline is stale.
func expired(expiresAt time.Time) bool {
	return !expiresAt.IsZero() && time.Now().After(expiresAt)
}

// deadline converts a ttl to an absolute expiry, zero for none.
func deadline(ttl time.Duration) time.Time {
	if ttl <= 0 {
		return time.Time{}
	}
	return time.Now().Add(ttl)
}
