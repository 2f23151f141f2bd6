// Package store defines the key-value store contract the cache writes
// through, plus a memory implementation and composable decorators for
// namespacing and read coalescing, and a Redis adapter.
package store
