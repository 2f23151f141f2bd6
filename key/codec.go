package key

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
)

// Codec serializes a JSON-representable value into a canonical form and
// hashes it into a fixed-length digest.
//
// Contract:
//   - Determinism: structurally equal inputs must produce the same digest,
//     regardless of map iteration order.
//   - Collision resistance: distinguishable inputs must only collide with
//     hash-collision probability.
//   - Concurrency: implementations must be safe for concurrent use.
type Codec interface {
	// Canonical returns the canonical serialized form of v.
	Canonical(v any) ([]byte, error)

	// Digest returns a lowercase hex digest of the canonical form of v.
	Digest(v any) (string, error)
}

// SHA256Codec is the default Codec: canonical JSON hashed with SHA-256,
// emitted as 64 lowercase hex characters.
type SHA256Codec struct{}

// NewSHA256Codec creates the default codec.
func NewSHA256Codec() *SHA256Codec {
	return &SHA256Codec{}
}

// Canonical produces a deterministic JSON representation of v.
// Map keys are sorted; array order is preserved; HTML escaping is
// disabled so the output matches plain JSON serializers byte for byte.
func (c *SHA256Codec) Canonical(v any) ([]byte, error) {
	out, err := canonicalize(v)
	if err != nil {
		return nil, fmt.Errorf("key: failed to canonicalize value: %w", err)
	}
	return out, nil
}

// Digest returns hex(sha256(Canonical(v))).
func (c *SHA256Codec) Digest(v any) (string, error) {
	canonical, err := c.Canonical(v)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(canonical)
	return hex.EncodeToString(sum[:]), nil
}

func canonicalize(v any) ([]byte, error) {
	if v == nil {
		return []byte("null"), nil
	}

	switch val := v.(type) {
	case map[string]any:
		return canonicalizeMap(val)
	case []any:
		return canonicalizeSlice(val)
	case json.RawMessage:
		return val, nil
	default:
		return marshalScalar(v)
	}
}

func canonicalizeMap(m map[string]any) ([]byte, error) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	result := []byte("{")
	for i, k := range keys {
		if i > 0 {
			result = append(result, ',')
		}

		keyBytes, err := marshalScalar(k)
		if err != nil {
			return nil, err
		}
		result = append(result, keyBytes...)
		result = append(result, ':')

		valBytes, err := canonicalize(m[k])
		if err != nil {
			return nil, err
		}
		result = append(result, valBytes...)
	}
	result = append(result, '}')

	return result, nil
}

func canonicalizeSlice(s []any) ([]byte, error) {
	result := []byte("[")
	for i, v := range s {
		if i > 0 {
			result = append(result, ',')
		}

		valBytes, err := canonicalize(v)
		if err != nil {
			return nil, err
		}
		result = append(result, valBytes...)
	}
	result = append(result, ']')

	return result, nil
}

// marshalScalar encodes v as JSON without HTML escaping. encoding/json
// escapes <, > and & by default, which would change the hashed bytes for
// query documents containing those characters.
func marshalScalar(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// Ensure SHA256Codec implements Codec
var _ Codec = (*SHA256Codec)(nil)
