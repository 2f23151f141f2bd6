// Package session resolves caller identity for cache partitioning.
//
// A Classifier runs the host-supplied session-id and extra-cache-key-data
// hooks once per request, in order, and records the results in a
// per-request Context. The Context is what later cache phases consult to
// pick a partition; a Context that never went through classification is
// rejected by those phases.
package session
