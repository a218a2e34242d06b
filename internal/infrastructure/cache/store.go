package cache

import (
	"context"
	"time"
)

// Store keeps serialized processing results by content key
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// keyPrefix namespaces every cache entry
const keyPrefix = "meeting-insights:result:"
