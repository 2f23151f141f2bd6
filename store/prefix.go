package store

import (
	"context"
	"time"
)

// prefixed decorates a Store by prepending a fixed prefix to every key
// before delegating. It logically partitions one consumer's entries
// within a shared store without the store knowing.
type prefixed struct {
	inner  Store
	prefix string
}

// WithPrefix wraps a Store so that every key is prefixed before reaching
// it. Wrapping composes: WithPrefix(WithPrefix(s, "a:"), "b:") stores
// under "a:b:<key>".
func WithPrefix(s Store, prefix string) Store {
	if prefix == "" {
		return s
	}
	return &prefixed{inner: s, prefix: prefix}
}

func (p *prefixed) Get(ctx context.Context, key string) ([]byte, bool) {
	return p.inner.Get(ctx, p.prefix+key)
}

func (p *prefixed) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return p.inner.Set(ctx, p.prefix+key, value, ttl)
}

func (p *prefixed) Delete(ctx context.Context, key string) error {
	return p.inner.Delete(ctx, p.prefix+key)
}

// Ensure prefixed implements Store
var _ Store = (*prefixed)(nil)
