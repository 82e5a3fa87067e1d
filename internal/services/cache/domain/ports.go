// Package domain holds the response cache types and ports
package domain

import (
	"context"
	"time"
)

// KV is the cache port pipelines depend on
type KV interface {
	// Get returns the cached payload for key, reporting a miss for
	// absent or expired rows
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Put upserts key with the given time to live
	Put(ctx context.Context, key string, payload []byte, ttl time.Duration) error

	// Purge deletes expired rows and reports how many went away
	Purge(ctx context.Context) (int64, error)
}
