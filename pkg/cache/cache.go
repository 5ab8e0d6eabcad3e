package cache

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrMiss is returned when a key or hash field does not exist.
	ErrMiss = errors.New("cache: key not found")
)

// Store defines the key/value and hash operations the repositories need.
// Hashes are the document-store primitive here: one hash per owner, one
// field per security.
type Store interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Get(ctx context.Context, key string, dest interface{}) error
	Delete(ctx context.Context, keys ...string) error
	Exists(ctx context.Context, keys ...string) (bool, error)

	HSet(ctx context.Context, key, field string, value interface{}) error
	HSetNX(ctx context.Context, key, field string, value interface{}) (bool, error)
	HGet(ctx context.Context, key, field string, dest interface{}) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	HDel(ctx context.Context, key string, fields ...string) (int64, error)
	HExists(ctx context.Context, key, field string) (bool, error)

	SAdd(ctx context.Context, key string, members ...string) error
	SRem(ctx context.Context, key string, members ...string) error
	SMembers(ctx context.Context, key string) ([]string, error)

	Close() error
}
