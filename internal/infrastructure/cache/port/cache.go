package port

import (
	"context"
	"errors"
	"time"
)

// Cache is the key-value contract the inbox uses for short-lived derived data
// such as per-admin tab counters. Implementations must be safe for concurrent use.
//
// Values are strings; callers own the encoding.
type Cache interface {
	// Get returns ErrMiss when key is absent.
	Get(ctx context.Context, key string) (string, error)

	// Set stores value with ttl. A ttl <= 0 keeps the key until evicted.
	Set(ctx context.Context, key string, value string, ttl time.Duration) error

	Ping(ctx context.Context) error
	Close() error
}

// ErrMiss signals a cache miss, as opposed to a transport failure.
var ErrMiss = errors.New("cache: miss")
