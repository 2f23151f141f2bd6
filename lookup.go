package fqcache

import (
	"context"
	"encoding/json"

	"github.com/jonwraymond/fqcache/key"
	"github.com/jonwraymond/fqcache/session"
)

// Lookup tries to serve the request from the cache before execution.
//
// For an anonymous session it probes the no-session partition. For an
// authenticated session it probes the caller's private partition first
// and only falls back to the authenticated-public partition on a miss, so
// a caller with a personalized cached answer never sees the shared one.
//
// The session context must come from Classify; anything else returns
// ErrNotClassified. Store problems and undecodable entries read as
// misses.
func (c *Cache) Lookup(ctx context.Context, req Request, sc *session.Context) (*Response, bool, error) {
	if !sc.Classified() {
		return nil, false, ErrNotClassified
	}

	base := c.baseKey(req, sc)

	sessionID, hasSession := sc.SessionID()
	if !hasSession {
		resp, hit := c.readPartition(ctx, base, key.ModeNoSession, "")
		return resp, hit, nil
	}

	if resp, hit := c.readPartition(ctx, base, key.ModePrivate, sessionID); hit {
		return resp, true, nil
	}
	resp, hit := c.readPartition(ctx, base, key.ModeAuthenticatedPublic, "")
	return resp, hit, nil
}

// readPartition performs one store read in the given partition.
func (c *Cache) readPartition(ctx context.Context, base key.BaseKey, mode key.Mode, sessionID string) (*Response, bool) {
	var (
		storeKey string
		err      error
	)
	if mode == key.ModePrivate {
		storeKey, err = c.builder.BuildPrivate(base, sessionID)
	} else {
		storeKey, err = c.builder.Build(base, mode)
	}
	if err != nil {
		// The request cannot be keyed; serve it uncached.
		c.log.Warn().Err(err).Str("partition", mode.String()).Msg("cache key build failed")
		return nil, false
	}

	raw, hit := c.store.Get(ctx, storeKey)
	if !hit {
		c.metrics.recordMiss(ctx, mode)
		c.log.Trace().Str("key", storeKey).Str("partition", mode.String()).Msg("cache miss")
		return nil, false
	}

	var resp Response
	if err := json.Unmarshal(raw, &resp); err != nil {
		c.metrics.recordMiss(ctx, mode)
		c.log.Warn().Err(err).Str("key", storeKey).Msg("undecodable cache entry, treating as miss")
		return nil, false
	}

	c.metrics.recordHit(ctx, mode)
	c.log.Trace().Str("key", storeKey).Str("partition", mode.String()).Msg("cache hit")
	return &resp, true
}
