package db

import (
	"context"
	"time"
)

// Store is the main database facade combining all sub-interfaces.
//
//nolint:interfacebloat // consumers depend on narrow sub-interfaces
type Store interface {
	Pinger
	HashStore
	SetStore
	SortedSetStore
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
	// HReplace drops every field of key and writes fields in one atomic step.
	HReplace(ctx context.Context, key string, fields map[string]string) error
	HSetNX(ctx context.Context, key, field, value string) error
	HIncrBy(ctx context.Context, key, field string, val int64) (int64, error)
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error)
	Del(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// SetStore provides unordered set operations.
type SetStore interface {
	SAdd(ctx context.Context, key string, members ...string) error
	SMembers(ctx context.Context, key string) ([]string, error)
	SCard(ctx context.Context, key string) (int64, error)
}

// SortedSetStore provides scored set operations used for indexes.
type SortedSetStore interface {
	ZAdd(ctx context.Context, key, member string, score float64) error
	// ZAddGT updates the score only if the new score is greater (or the member is new).
	ZAddGT(ctx context.Context, key, member string, score float64) error
	ZIncrBy(ctx context.Context, key, member string, incr float64) error
	// ZRevRange returns members ordered by score descending, skipping offset and returning at most limit.
	ZRevRange(ctx context.Context, key string, offset, limit int) ([]string, error)
	ZScore(ctx context.Context, key, member string) (float64, error)
}

// KVStore provides simple key-value operations.
type KVStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	IncrBy(ctx context.Context, key string, val int64) error
}
