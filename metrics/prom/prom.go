// Package prom exports cache metrics through Prometheus.
package prom

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/cuipf1989/pincache/cache"
)

// Adapter implements cache.Metrics on top of Prometheus collectors.
// All Prometheus metric types are goroutine-safe.
type Adapter struct {
	hits       prometheus.Counter
	misses     prometheus.Counter
	evicts     *prometheus.CounterVec
	sizeEnt    prometheus.Gauge
	sizeCharge prometheus.Gauge
}

// New constructs and registers a Prometheus metrics adapter.
//   - reg: registry to register with (nil => prometheus.DefaultRegisterer)
//   - ns, sub: Prometheus namespace and subsystem
//   - constLabels: static labels applied to all metrics (may be nil)
func New(reg prometheus.Registerer, ns, sub string, constLabels prometheus.Labels) *Adapter {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	a := &Adapter{
		hits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   ns,
			Subsystem:   sub,
			Name:        "hits_total",
			Help:        "Cache hits",
			ConstLabels: constLabels,
		}),
		misses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   ns,
			Subsystem:   sub,
			Name:        "misses_total",
			Help:        "Cache misses",
			ConstLabels: constLabels,
		}),
		evicts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace:   ns,
				Subsystem:   sub,
				Name:        "evictions_total",
				Help:        "Records unregistered, by reason",
				ConstLabels: constLabels,
			},
			[]string{"reason"},
		),
		sizeEnt: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   ns,
			Subsystem:   sub,
			Name:        "size_entries",
			Help:        "Registered records in the reporting shard",
			ConstLabels: constLabels,
		}),
		sizeCharge: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   ns,
			Subsystem:   sub,
			Name:        "usage_charge",
			Help:        "Charge units held, leased-out records included",
			ConstLabels: constLabels,
		}),
	}
	reg.MustRegister(a.hits, a.misses, a.evicts, a.sizeEnt, a.sizeCharge)
	return a
}

func (a *Adapter) Hit()  { a.hits.Inc() }
func (a *Adapter) Miss() { a.misses.Inc() }

func (a *Adapter) Evict(r cache.EvictReason) {
	a.evicts.WithLabelValues(reason(r)).Inc()
}

func (a *Adapter) Size(entries int, usage int64) {
	a.sizeEnt.Set(float64(entries))
	a.sizeCharge.Set(float64(usage))
}

// reason maps an EvictReason to a stable label value.
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
