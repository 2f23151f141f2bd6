package session

import (
	"context"
	"fmt"
)

// SessionIDFunc resolves the caller's session identifier. It returns
// (id, true) when the caller has a session and ("", false) when the
// request is anonymous. It may suspend for external I/O, e.g. validating
// a credential against a remote service.
type SessionIDFunc func(ctx context.Context) (string, bool, error)

// ExtraDataFunc resolves extra cache-partitioning data for the request.
// A nil result means no extra data. It may suspend for external I/O.
type ExtraDataFunc func(ctx context.Context) (any, error)

// Context holds the classification result for a single request. It is
// created by Classifier.Classify, read by the lookup and write phases,
// and discarded at request end. It must not be reused across requests.
type Context struct {
	sessionID  *string
	extra      any
	classified bool
}

// SessionID returns the resolved session id and whether one is present.
func (c *Context) SessionID() (string, bool) {
	if c.sessionID == nil {
		return "", false
	}
	return *c.sessionID, true
}

// Extra returns the resolved extra cache key data. Nil means none.
func (c *Context) Extra() any {
	return c.extra
}

// Classified reports whether the hooks ran for this request. The write
// phase refuses to cache when this is false: a write without read-phase
// classification risks landing in the wrong partition.
func (c *Context) Classified() bool {
	return c != nil && c.classified
}

// Classifier runs the optional identity hooks once per request.
//
// Contract:
//   - Hooks run sequentially, session id first, each at most once.
//   - An absent hook resolves to "no value", not an error.
//   - A hook failure is fatal for the request's caching behavior.
//   - Concurrency: a Classifier is safe for concurrent use; each call
//     produces an independent Context.
type Classifier struct {
	sessionID SessionIDFunc
	extraData ExtraDataFunc
}

// Option configures a Classifier.
type Option func(*Classifier)

// WithSessionIDHook installs the session-id hook.
func WithSessionIDHook(fn SessionIDFunc) Option {
	return func(c *Classifier) {
		c.sessionID = fn
	}
}

// WithExtraDataHook installs the extra-cache-key-data hook.
func WithExtraDataHook(fn ExtraDataFunc) Option {
	return func(c *Classifier) {
		c.extraData = fn
	}
}

// NewClassifier creates a Classifier. With no options every request
// classifies as anonymous with no extra data.
func NewClassifier(opts ...Option) *Classifier {
	c := &Classifier{}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Classify resolves the caller's session id and extra cache key data.
// On hook failure it returns a nil Context and the wrapped error; no
// caching decision may be made for that request.
func (c *Classifier) Classify(ctx context.Context) (*Context, error) {
	sc := &Context{}

	if c.sessionID != nil {
		id, ok, err := c.sessionID(ctx)
		if err != nil {
			return nil, fmt.Errorf("session: session id hook: %w", err)
		}
		if ok {
			sc.sessionID = &id
		}
	}

	if c.extraData != nil {
		extra, err := c.extraData(ctx)
		if err != nil {
			return nil, fmt.Errorf("session: extra cache key data hook: %w", err)
		}
		sc.extra = extra
	}

	sc.classified = true
	return sc, nil
}
