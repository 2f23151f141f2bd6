package fqcache

import (
	"context"
	"encoding/json"

	"github.com/jonwraymond/fqcache/key"
	"github.com/jonwraymond/fqcache/session"
)

// Write stores the final response if it is eligible, under the partition
// matching the session and the hint policy's visibility verdict.
//
// A response with errors or without data is never cached. A session
// context that never went through Classify returns ErrNotClassified and
// writes nothing: the read phase picked no partition for this request, so
// writing one now could land private data under a shared key. Store
// failures are logged and swallowed.
func (c *Cache) Write(ctx context.Context, req Request, sc *session.Context, resp *Response) error {
	if !sc.Classified() {
		return ErrNotClassified
	}

	if !resp.Cacheable() {
		c.metrics.recordSkip(ctx, "uncacheable_response")
		c.log.Debug().Msg("response has errors or no data, not cached")
		return nil
	}

	decision := HintDecision{Cache: true, Visibility: VisibilityPublic}
	if c.hints != nil {
		decision = c.hints(resp)
	}
	if !decision.Cache {
		c.metrics.recordSkip(ctx, "hint_policy")
		c.log.Debug().Msg("hint policy declined caching")
		return nil
	}

	ttl := c.policy.EffectiveTTL(decision.TTL)
	if ttl <= 0 {
		c.metrics.recordSkip(ctx, "no_ttl")
		return nil
	}

	base := c.baseKey(req, sc)
	sessionID, hasSession := sc.SessionID()

	var (
		storeKey string
		mode     key.Mode
		err      error
	)
	switch {
	case hasSession && decision.Visibility == VisibilityPrivate:
		mode = key.ModePrivate
		storeKey, err = c.builder.BuildPrivate(base, sessionID)
	case hasSession:
		mode = key.ModeAuthenticatedPublic
		storeKey, err = c.builder.Build(base, mode)
	case decision.Visibility == VisibilityPrivate:
		// Caller-scoped data with no session id to key it under.
		c.metrics.recordSkip(ctx, "private_without_session")
		c.log.Warn().Msg("private response without a session id, not cached")
		return nil
	default:
		mode = key.ModeNoSession
		storeKey, err = c.builder.Build(base, mode)
	}
	if err != nil {
		c.metrics.recordSkip(ctx, "key_build")
		c.log.Warn().Err(err).Msg("cache key build failed, not cached")
		return nil
	}

	payload, err := json.Marshal(resp)
	if err != nil {
		c.metrics.recordSkip(ctx, "encode")
		c.log.Warn().Err(err).Msg("response encode failed, not cached")
		return nil
	}

	if err := c.store.Set(ctx, storeKey, payload, ttl); err != nil {
		c.log.Warn().Err(err).Str("key", storeKey).Msg("store write failed")
		return nil
	}

	c.metrics.recordWrite(ctx, mode)
	c.log.Trace().Str("key", storeKey).Str("partition", mode.String()).Dur("ttl", ttl).Msg("response cached")
	return nil
}
