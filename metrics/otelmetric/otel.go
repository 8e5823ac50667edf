// Package otelmetric exports cache metrics through the OpenTelemetry
// metric API.
package otelmetric

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/cuipf1989/pincache/cache"
)

const scope = "github.com/cuipf1989/pincache"

// Adapter implements cache.Metrics on top of an OpenTelemetry Meter.
// Instrument implementations from the SDK are goroutine-safe.
type Adapter struct {
	hits    metric.Int64Counter
	misses  metric.Int64Counter
	evicts  metric.Int64Counter
	entries metric.Int64Gauge
	usage   metric.Int64Gauge
}

// New constructs an OpenTelemetry metrics adapter.
// A nil provider falls back to the global MeterProvider.
func New(mp metric.MeterProvider) (*Adapter, error) {
	if mp == nil {
		mp = otel.GetMeterProvider()
	}
	m := mp.Meter(scope)

	var (
		a   Adapter
		err error
	)
	if a.hits, err = m.Int64Counter("pincache.hits",
		metric.WithDescription("Cache hits")); err != nil {
		return nil, err
	}
	if a.misses, err = m.Int64Counter("pincache.misses",
		metric.WithDescription("Cache misses")); err != nil {
		return nil, err
	}
	if a.evicts, err = m.Int64Counter("pincache.evictions",
		metric.WithDescription("Records unregistered, by reason")); err != nil {
		return nil, err
	}
	if a.entries, err = m.Int64Gauge("pincache.size.entries",
		metric.WithDescription("Registered records in the reporting shard")); err != nil {
		return nil, err
	}
	if a.usage, err = m.Int64Gauge("pincache.usage.charge",
		metric.WithDescription("Charge units held, leased-out records included")); err != nil {
		return nil, err
	}
	return &a, nil
}

func (a *Adapter) Hit()  { a.hits.Add(context.Background(), 1) }
func (a *Adapter) Miss() { a.misses.Add(context.Background(), 1) }

func (a *Adapter) Evict(r cache.EvictReason) {
	a.evicts.Add(context.Background(), 1,
		metric.WithAttributes(attribute.String("reason", reason(r))))
}

func (a *Adapter) Size(entries int, usage int64) {
	ctx := context.Background()
	a.entries.Record(ctx, int64(entries))
	a.usage.Record(ctx, usage)
}

func reason(r cache.EvictReason) string {
	switch r {
	case cache.EvictPolicy:
		return "policy"
	case cache.EvictPruned:
		return "pruned"
	default:
		return "capacity"
	}
}

var _ cache.Metrics = (*Adapter)(nil)
