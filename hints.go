package fqcache

import "time"

// Visibility is the caching scope a response may be shared under.
type Visibility int

const (
	// VisibilityPublic marks a response shareable across callers. With a
	// session present it lands in the authenticated-public partition,
	// without one in the no-session partition.
	VisibilityPublic Visibility = iota

	// VisibilityPrivate marks a response scoped to the calling session.
	// It is only cached when a session id exists to key it under.
	VisibilityPrivate
)

func (v Visibility) String() string {
	switch v {
	case VisibilityPublic:
		return "public"
	case VisibilityPrivate:
		return "private"
	default:
		return "unknown"
	}
}

// HintDecision is a hint policy's verdict for one response.
type HintDecision struct {
	// Cache enables storing the response at all.
	Cache bool

	// Visibility selects the sharing scope.
	Visibility Visibility

	// TTL overrides the policy default when positive. It is still
	// clamped to Policy.MaxTTL.
	TTL time.Duration
}

// HintPolicy derives a caching decision from a response, typically by
// aggregating per-field cache hints (minimum max-age across the response
// tree, private if any field is private). The aggregation algorithm is
// the host's to supply; responses that already failed Cacheable are never
// offered to it.
//
// When no HintPolicy is configured, eligible responses are cached
// publicly with the policy default TTL.
type HintPolicy func(resp *Response) HintDecision
