package fqcache

import "errors"

// Sentinel errors for cache coordination.
var (
	// ErrNotClassified is returned when a cache phase runs on a session
	// context that never went through classification. Caching under an
	// unclassified context risks reading or writing the wrong partition,
	// so this is fatal rather than a silent skip.
	ErrNotClassified = errors.New("fqcache: session context was not classified")
)
