package fqcache

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/jonwraymond/fqcache/key"
)

const instrumentationName = "github.com/jonwraymond/fqcache"

// cacheMetrics records lookup and write outcomes. The Cache wires it to
// the global meter provider, so an unconfigured host gets noops.
type cacheMetrics struct {
	hits   metric.Int64Counter
	misses metric.Int64Counter
	writes metric.Int64Counter
	skips  metric.Int64Counter
}

func newCacheMetrics(meter metric.Meter) (*cacheMetrics, error) {
	hits, err := meter.Int64Counter(
		"fqcache.lookup.hits",
		metric.WithDescription("Cache lookups served from the store"),
		metric.WithUnit("{lookup}"),
	)
	if err != nil {
		return nil, err
	}

	misses, err := meter.Int64Counter(
		"fqcache.lookup.misses",
		metric.WithDescription("Cache lookups not served from the store, per partition probed"),
		metric.WithUnit("{lookup}"),
	)
	if err != nil {
		return nil, err
	}

	writes, err := meter.Int64Counter(
		"fqcache.writes",
		metric.WithDescription("Responses written to the store"),
		metric.WithUnit("{write}"),
	)
	if err != nil {
		return nil, err
	}

	skips, err := meter.Int64Counter(
		"fqcache.write.skips",
		metric.WithDescription("Responses not written, by reason"),
		metric.WithUnit("{write}"),
	)
	if err != nil {
		return nil, err
	}

	return &cacheMetrics{
		hits:   hits,
		misses: misses,
		writes: writes,
		skips:  skips,
	}, nil
}

func partitionAttr(mode key.Mode) metric.MeasurementOption {
	return metric.WithAttributes(attribute.String("partition", mode.String()))
}

func (m *cacheMetrics) recordHit(ctx context.Context, mode key.Mode) {
	m.hits.Add(ctx, 1, partitionAttr(mode))
}

func (m *cacheMetrics) recordMiss(ctx context.Context, mode key.Mode) {
	m.misses.Add(ctx, 1, partitionAttr(mode))
}

func (m *cacheMetrics) recordWrite(ctx context.Context, mode key.Mode) {
	m.writes.Add(ctx, 1, partitionAttr(mode))
}

func (m *cacheMetrics) recordSkip(ctx context.Context, reason string) {
	m.skips.Add(ctx, 1, metric.WithAttributes(attribute.String("reason", reason)))
}
