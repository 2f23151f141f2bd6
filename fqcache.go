package fqcache

import (
	"context"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/jonwraymond/fqcache/key"
	"github.com/jonwraymond/fqcache/session"
	"github.com/jonwraymond/fqcache/store"
)

// Cache coordinates lookups and writes of full query responses against a
// backing store.
//
// Contract:
//   - Concurrency: safe for concurrent use; all per-request state lives in
//     the session.Context threaded through each phase.
//   - Context: store and hook calls receive the request context; a request
//     canceled before the write phase leaves the store unmodified.
//   - Errors: hook failures and classification violations propagate; store
//     failures do not (the cache fails open).
type Cache struct {
	store      store.Store
	builder    *key.Builder
	classifier *session.Classifier
	policy     Policy
	hints      HintPolicy
	log        zerolog.Logger
	metrics    *cacheMetrics
	tracer     trace.Tracer
}

// Option configures a Cache.
type Option func(*Cache)

// WithClassifier installs the session classifier. Without one every
// request is treated as anonymous.
func WithClassifier(c *session.Classifier) Option {
	return func(cache *Cache) {
		cache.classifier = c
	}
}

// WithKeyBuilder overrides the key builder.
func WithKeyBuilder(b *key.Builder) Option {
	return func(cache *Cache) {
		cache.builder = b
	}
}

// WithPolicy overrides the TTL policy.
func WithPolicy(p Policy) Option {
	return func(cache *Cache) {
		cache.policy = p
	}
}

// WithHintPolicy installs the cache-hint aggregation policy.
func WithHintPolicy(p HintPolicy) Option {
	return func(cache *Cache) {
		cache.hints = p
	}
}

// WithLogger installs a logger for cache decisions. Defaults to a no-op.
func WithLogger(log zerolog.Logger) Option {
	return func(cache *Cache) {
		cache.log = log
	}
}

// New creates a Cache in front of the given store.
func New(st store.Store, opts ...Option) (*Cache, error) {
	if st == nil {
		return nil, store.ErrNilStore
	}

	c := &Cache{
		store:      st,
		builder:    key.NewBuilder(),
		classifier: session.NewClassifier(),
		policy:     DefaultPolicy(),
		log:        zerolog.Nop(),
		tracer:     otel.Tracer(instrumentationName),
	}
	for _, opt := range opts {
		opt(c)
	}

	metrics, err := newCacheMetrics(otel.Meter(instrumentationName))
	if err != nil {
		return nil, err
	}
	c.metrics = metrics

	return c, nil
}

// Classify resolves the caller's session for this request by running the
// configured hooks. It must be called once per request, before Lookup.
func (c *Cache) Classify(ctx context.Context) (*session.Context, error) {
	return c.classifier.Classify(ctx)
}

// ExecutorFunc produces the response for a request on a cache miss.
type ExecutorFunc func(ctx context.Context, req Request) (*Response, error)

// Execute runs the full caching flow around the executor: classify the
// session, look up a cached response, and on a miss execute the query and
// store the result if eligible. A hit short-circuits the executor
// entirely. Hook failures propagate before any store I/O; store failures
// never do.
func (c *Cache) Execute(ctx context.Context, req Request, executor ExecutorFunc) (*Response, error) {
	ctx, span := c.tracer.Start(ctx, "fqcache.execute")
	defer span.End()

	sc, err := c.classifier.Classify(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "session classification failed")
		return nil, err
	}

	cached, hit, err := c.Lookup(ctx, req, sc)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "lookup failed")
		return nil, err
	}
	span.SetAttributes(attribute.Bool("fqcache.hit", hit))
	if hit {
		return cached, nil
	}

	resp, err := executor(ctx, req)
	if err != nil {
		return resp, err
	}

	if err := c.Write(ctx, req, sc, resp); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "write failed")
		return nil, err
	}
	return resp, nil
}

func (c *Cache) baseKey(req Request, sc *session.Context) key.BaseKey {
	return key.BaseKey{
		Document:      req.Document,
		OperationName: req.OperationName,
		Variables:     req.Variables,
		Extra:         sc.Extra(),
	}
}
