package key

import (
	"encoding/json"
	"errors"
	"fmt"
)

// DefaultNamespace is the prefix applied to every key this package builds,
// isolating its entries from other consumers of a shared store.
const DefaultNamespace = "fqc:"

// Sentinel errors for key building.
var (
	ErrSessionRequired = errors.New("key: private mode requires a session id")
	ErrEmptySessionID  = errors.New("key: session id is empty")
	ErrEmptyDocument   = errors.New("key: document is empty")
)

// Mode identifies the cache partition an entry belongs to.
//
// The numeric values are part of the key wire format and must not change:
// they are serialized into the hashed payload.
type Mode int

const (
	// ModeNoSession is the partition for anonymous requests.
	ModeNoSession Mode = iota

	// ModePrivate is the partition for entries scoped to a single session.
	// Private keys always embed the session id.
	ModePrivate

	// ModeAuthenticatedPublic is the partition for entries visible to any
	// authenticated caller. No session id is ever embedded.
	ModeAuthenticatedPublic
)

func (m Mode) String() string {
	switch m {
	case ModeNoSession:
		return "no_session"
	case ModePrivate:
		return "private"
	case ModeAuthenticatedPublic:
		return "authenticated_public"
	default:
		return "unknown"
	}
}

// BaseKey is the session-independent identification of a query: the
// canonical printed document, the operation name, the variable values and
// any extra partitioning data resolved for the request.
//
// BaseKey deliberately has no session id field. Private keys are built
// through BuildPrivate, which is the only path that embeds one.
type BaseKey struct {
	// Document is the canonical printed query text.
	Document string

	// OperationName selects the operation within the document.
	// Empty means no operation name and is encoded as JSON null.
	OperationName string

	// Variables are the operation's variable values. A nil map encodes
	// as an empty JSON object.
	Variables map[string]any

	// Extra is opaque additional partitioning data resolved per request.
	// Nil encodes as JSON null.
	Extra any
}

// keyEnvelope is the hashed payload. Field order is the wire format:
// document, operationName, variables, extra, sessionId (private only),
// sessionMode.
type keyEnvelope struct {
	Document      string          `json:"document"`
	OperationName *string         `json:"operationName"`
	Variables     json.RawMessage `json:"variables"`
	Extra         json.RawMessage `json:"extra"`
	SessionID     *string         `json:"sessionId,omitempty"`
	SessionMode   Mode            `json:"sessionMode"`
}

// Builder composes a BaseKey and a Mode into the final namespaced store
// key. Builders are pure: no side effects, no I/O, safe for concurrent use.
type Builder struct {
	namespace string
	codec     Codec
}

// BuilderOption configures a Builder.
type BuilderOption func(*Builder)

// WithNamespace overrides the namespace prefix.
func WithNamespace(ns string) BuilderOption {
	return func(b *Builder) {
		b.namespace = ns
	}
}

// WithCodec overrides the digest codec.
func WithCodec(c Codec) BuilderOption {
	return func(b *Builder) {
		b.codec = c
	}
}

// NewBuilder creates a Builder with the default namespace and codec.
func NewBuilder(opts ...BuilderOption) *Builder {
	b := &Builder{
		namespace: DefaultNamespace,
		codec:     NewSHA256Codec(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build returns the store key for base in the given non-private mode.
// Format: namespace + hex(sha256(canonical envelope)).
//
// Private keys must be built with BuildPrivate; passing ModePrivate here
// returns ErrSessionRequired so that a session-scoped entry can never be
// keyed without its session id.
func (b *Builder) Build(base BaseKey, mode Mode) (string, error) {
	if mode == ModePrivate {
		return "", ErrSessionRequired
	}
	return b.build(base, nil, mode)
}

// BuildPrivate returns the store key for base in the private partition,
// keyed by sessionID. An empty sessionID is rejected: private entries are
// only ever keyed with a concrete session.
func (b *Builder) BuildPrivate(base BaseKey, sessionID string) (string, error) {
	if sessionID == "" {
		return "", ErrEmptySessionID
	}
	return b.build(base, &sessionID, ModePrivate)
}

func (b *Builder) build(base BaseKey, sessionID *string, mode Mode) (string, error) {
	if base.Document == "" {
		return "", ErrEmptyDocument
	}

	variables, err := b.codec.Canonical(variablesValue(base.Variables))
	if err != nil {
		return "", fmt.Errorf("key: variables: %w", err)
	}
	extra, err := b.codec.Canonical(base.Extra)
	if err != nil {
		return "", fmt.Errorf("key: extra: %w", err)
	}

	env := keyEnvelope{
		Document:      base.Document,
		OperationName: operationNameValue(base.OperationName),
		Variables:     variables,
		Extra:         extra,
		SessionID:     sessionID,
		SessionMode:   mode,
	}

	digest, err := b.codec.Digest(env)
	if err != nil {
		return "", err
	}
	return b.namespace + digest, nil
}

func variablesValue(vars map[string]any) map[string]any {
	if vars == nil {
		return map[string]any{}
	}
	return vars
}

func operationNameValue(name string) *string {
	if name == "" {
		return nil
	}
	return &name
}
