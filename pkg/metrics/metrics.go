// Package metrics provides Prometheus metrics for the entity builder.
//
// The builder's whole reason to exist is batching: one bulk solver call
// per family of entities instead of one per row. The collector therefore
// tracks entity counts, bulk call counts and latency, and explicit
// synchronization calls, labeled by entity kind.
package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Collector records builder activity. Create one per registry; Default
// returns a process-wide collector on the default Prometheus registry.
type Collector struct {
	entitiesCreated *prometheus.CounterVec
	bulkCalls       *prometheus.CounterVec
	bulkLatency     *prometheus.HistogramVec
	syncCalls       prometheus.Counter
}

var (
	defaultCollector *Collector
	defaultOnce      sync.Once
)

// Default returns the process-wide collector, registering its metrics on
// the default Prometheus registry on first use.
func Default() *Collector {
	defaultOnce.Do(func() {
		defaultCollector = NewCollector(prometheus.DefaultRegisterer)
	})
	return defaultCollector
}

// NewCollector creates a collector registered on the given registerer.
func NewCollector(reg prometheus.Registerer) *Collector {
	factory := promauto.With(reg)
	return &Collector{
		entitiesCreated: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tabsolver_entities_created_total",
				Help: "Total entities created, by kind (var, constr)",
			},
			[]string{"kind"},
		),
		bulkCalls: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tabsolver_bulk_calls_total",
				Help: "Total bulk creation calls issued to the solver, by kind",
			},
			[]string{"kind"},
		),
		bulkLatency: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "tabsolver_bulk_call_duration_seconds",
				Help:    "Latency of bulk solver creation calls, by kind",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"kind"},
		),
		syncCalls: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "tabsolver_sync_calls_total",
				Help: "Total model synchronization calls issued by the builder",
			},
		),
	}
}

// RecordBulkCall records one bulk creation call of n entities.
func (c *Collector) RecordBulkCall(kind string, n int, elapsed time.Duration) {
	c.entitiesCreated.WithLabelValues(kind).Add(float64(n))
	c.bulkCalls.WithLabelValues(kind).Inc()
	c.bulkLatency.WithLabelValues(kind).Observe(elapsed.Seconds())
}

// RecordSync records one explicit synchronization call.
func (c *Collector) RecordSync() {
	c.syncCalls.Inc()
}
