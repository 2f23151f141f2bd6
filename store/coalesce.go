package store

import (
	"context"
	"time"

	"golang.org/x/sync/singleflight"
)

// coalesced decorates a Store so that concurrent Gets for the same key
// collapse into one call to the underlying store. Useful when a popular
// key misses and a burst of identical requests would otherwise hammer a
// remote store.
type coalesced struct {
	inner Store
	group singleflight.Group
}

type getResult struct {
	value []byte
	ok    bool
}

// WithCoalescing wraps a Store so that in-flight Gets for the same key
// are deduplicated. Set and Delete pass through untouched.
func WithCoalescing(s Store) Store {
	return &coalesced{inner: s}
}

func (c *coalesced) Get(ctx context.Context, key string) ([]byte, bool) {
	v, _, _ := c.group.Do(key, func() (any, error) {
		value, ok := c.inner.Get(ctx, key)
		return getResult{value: value, ok: ok}, nil
	})
	res := v.(getResult)
	return res.value, res.ok
}

func (c *coalesced) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return c.inner.Set(ctx, key, value, ttl)
}

func (c *coalesced) Delete(ctx context.Context, key string) error {
	return c.inner.Delete(ctx, key)
}

// Ensure coalesced implements Store
var _ Store = (*coalesced)(nil)
