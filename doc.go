// Package fqcache caches full query responses in front of a query
// execution pipeline.
//
// Before a query executes, the cache tries to serve a previously computed
// response from a backing key-value store; after execution, it decides
// whether the fresh response should be stored for future reuse. Entries
// are partitioned by session mode (anonymous, private, authenticated
// public) so one caller's private data can never be served under another
// caller's key.
//
// The store is an external collaborator behind the store.Store interface;
// parsing, validation and execution of the query stay with the host.
package fqcache
