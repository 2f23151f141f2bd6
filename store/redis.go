package store

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis is a Store backed by a Redis client. A miss (redis.Nil) and an
// unreachable server both read as a miss: the cache fails open rather
// than turning an infrastructure problem into a request failure.
type Redis struct {
	client redis.Cmdable
}

// NewRedis wraps a Redis client (or cluster client) as a Store.
func NewRedis(client redis.Cmdable) *Redis {
	return &Redis{client: client}
}

// Get retrieves a value. Misses and errors both return (nil, false).
func (r *Redis) Get(ctx context.Context, key string) ([]byte, bool) {
	b, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		// redis.Nil is a plain miss; anything else fails open as a miss
		return nil, false
	}
	return b, true
}

// Set stores a value with the given TTL. TTL <= 0 is a no-op.
func (r *Redis) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return r.client.Set(ctx, key, value, ttl).Err()
}

// Delete removes a value. Idempotent - no error on miss.
func (r *Redis) Delete(ctx context.Context, key string) error {
	return r.client.Del(ctx, key).Err()
}

// Ensure Redis implements Store
var _ Store = (*Redis)(nil)
