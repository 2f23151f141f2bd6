package fqcache

import (
	"bytes"
	"encoding/json"
)

// Request identifies one query execution. The document is expected to be
// in canonical printed form; equal logical queries must present equal
// document strings to share cache entries.
type Request struct {
	// Document is the canonical printed query text.
	Document string

	// OperationName selects the operation within the document.
	// Empty means none.
	OperationName string

	// Variables are the operation's variable values.
	Variables map[string]any
}

// ResponseError is one error in a query response.
type ResponseError struct {
	Message    string         `json:"message"`
	Path       []any          `json:"path,omitempty"`
	Extensions map[string]any `json:"extensions,omitempty"`
}

// Response is the final result of a query execution. It round-trips
// through JSON as the persisted cache value.
type Response struct {
	Data   json.RawMessage `json:"data,omitempty"`
	Errors []ResponseError `json:"errors,omitempty"`
}

var jsonNull = []byte("null")

// Cacheable reports whether the response is eligible for caching at all:
// it must carry a data payload and no errors. Everything else about
// eligibility (TTL, visibility) is policy; this is the unconditional floor.
func (r *Response) Cacheable() bool {
	if r == nil || len(r.Errors) > 0 {
		return false
	}
	if len(r.Data) == 0 || bytes.Equal(r.Data, jsonNull) {
		return false
	}
	return true
}
