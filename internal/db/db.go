package db

import (
	"context"
	"time"
)

// Store is the main database facade combining all sub-interfaces.
// Consumers declare the narrow subset they need.
type Store interface {
	Pinger
	HashStore
	KVStore
	Close()
	WaitForReady(ctx context.Context, timeout time.Duration) error
}

// Pinger checks database connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HashStore provides hash-based key-value operations.
type HashStore interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error)
	Del(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
	Scan(ctx context.Context, pattern string) ([]string, error)
}

// KVStore provides string keys with expiry, used for short-lived locks.
type KVStore interface {
	// SetNX stores value only if key is absent. Reports whether it was stored.
	SetNX(ctx context.Context, key, value string, ttl time.Duration) (bool, error)
	// DelIfValue deletes key only while it still holds value. Reports whether it was deleted.
	DelIfValue(ctx context.Context, key, value string) (bool, error)
}
