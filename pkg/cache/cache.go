// Package cache stores engine snapshots between runs.
//
// Building the k-mer index and the sequence graph is the expensive part of
// an engine query, and its result depends only on the dataset and k. The
// engine memoizes serialized snapshots in a [Cache] under keys produced by a
// [Keyer].
//
// Three backends are provided:
//
//   - [NullCache]: stores nothing (caching disabled)
//   - [FileCache]: one JSON file per entry, for the CLI
//   - [RedisCache]: shared cache for long-running servers
//
// Use [Open] to select a backend from configuration.
package cache

import (
	"context"
	"fmt"
	"time"
)

// Cache is a byte-oriented key/value store with optional expiry.
type Cache interface {
	// Get returns the value and true on a hit. A miss is not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A zero ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases the backend.
	Close() error
}

// Clearer is implemented by backends that can drop every snapshot at once.
type Clearer interface {
	// Clear removes all snapshot entries and reports how many there were.
	Clear(ctx context.Context) (int, error)
}

// Backend names accepted by [Open].
const (
	BackendNone  = "none"
	BackendFile  = "file"
	BackendRedis = "redis"
)

// Options selects and configures a backend.
type Options struct {
	Backend   string // none, file or redis
	Dir       string // FileCache directory
	RedisAddr string // host:port or redis:// URL
}

// Open creates the cache selected by opts. An empty backend disables
// caching.
func Open(opts Options) (Cache, error) {
	switch opts.Backend {
	case "", BackendNone:
		return NewNullCache(), nil
	case BackendFile:
		return NewFileCache(opts.Dir)
	case BackendRedis:
		return NewRedisCache(opts.RedisAddr)
	default:
		return nil, fmt.Errorf("unknown cache backend %q", opts.Backend)
	}
}

// NullCache stores nothing. It backs the "none" backend and stands in when
// the configured backend cannot be opened.
type NullCache struct{}

// NewNullCache creates a null cache.
func NewNullCache() Cache { return NullCache{} }

func (NullCache) Get(context.Context, string) ([]byte, bool, error)        { return nil, false, nil }
func (NullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (NullCache) Delete(context.Context, string) error                     { return nil }
func (NullCache) Close() error                                             { return nil }
