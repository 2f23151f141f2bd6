// Package key derives deterministic cache keys for query responses.
//
// It provides a Codec for canonical-JSON SHA-256 digests and a Builder
// that composes a base cache key with a session mode into the final
// namespaced store key.
package key
