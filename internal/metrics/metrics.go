// Package metrics exposes board activity as Prometheus metrics. A Collector
// implements every application hook interface so one value can be handed to
// the board, the generator and the persister.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"whiteboard/internal/application"
)

// Namespace prefixes every metric name
const Namespace = "whiteboard"

// Collector holds all Prometheus metrics for a whiteboard process
type Collector struct {
	registry *prometheus.Registry

	NodesCreated *prometheus.CounterVec
	NodesDeleted prometheus.Counter
	EdgesCreated prometheus.Counter
	EdgesDeleted prometheus.Counter

	GenerationChunks   prometheus.Counter
	GenerationDuration prometheus.Histogram
	GenerationRuns     *prometheus.CounterVec

	PersistWrites   *prometheus.CounterVec
	PersistBytes    prometheus.Gauge
	PersistDuration prometheus.Histogram
}

var (
	_ application.BoardHooks     = (*Collector)(nil)
	_ application.GeneratorHooks = (*Collector)(nil)
	_ application.PersistHooks   = (*Collector)(nil)
)

// NewCollector creates a collector registered on its own registry
func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		NodesCreated: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "nodes_created_total",
				Help:      "Total number of nodes created",
			},
			[]string{"kind"},
		),
		NodesDeleted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "nodes_deleted_total",
			Help:      "Total number of nodes deleted",
		}),
		EdgesCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "edges_created_total",
			Help:      "Total number of edges created",
		}),
		EdgesDeleted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "edges_deleted_total",
			Help:      "Total number of edges deleted",
		}),
		GenerationChunks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "generation_chunks_total",
			Help:      "Total number of generated chunks inserted",
		}),
		GenerationDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "generation_chunk_seconds",
			Help:      "Time spent building and inserting one chunk",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 12),
		}),
		GenerationRuns: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "generation_runs_total",
				Help:      "Finished generation runs by outcome",
			},
			[]string{"outcome"},
		),
		PersistWrites: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "persist_writes_total",
				Help:      "Board saves by status",
			},
			[]string{"status"},
		),
		PersistBytes: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "persist_record_bytes",
			Help:      "Size of the last saved record",
		}),
		PersistDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "persist_write_seconds",
			Help:      "Board save duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}),
	}

	c.registry.MustRegister(
		c.NodesCreated,
		c.NodesDeleted,
		c.EdgesCreated,
		c.EdgesDeleted,
		c.GenerationChunks,
		c.GenerationDuration,
		c.GenerationRuns,
		c.PersistWrites,
		c.PersistBytes,
		c.PersistDuration,
	)
	return c
}

// Registry returns the Prometheus registry for this collector
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler serves the registry in the Prometheus text format
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

func (c *Collector) OnNodesAdded(kind application.NodeKind, count int) {
	c.NodesCreated.WithLabelValues(string(kind)).Add(float64(count))
}

func (c *Collector) OnNodesRemoved(count int) { c.NodesDeleted.Add(float64(count)) }
func (c *Collector) OnEdgesAdded(count int)   { c.EdgesCreated.Add(float64(count)) }
func (c *Collector) OnEdgesRemoved(count int) { c.EdgesDeleted.Add(float64(count)) }

func (c *Collector) OnChunk(_ int, d time.Duration) {
	c.GenerationChunks.Inc()
	c.GenerationDuration.Observe(d.Seconds())
}

func (c *Collector) OnRunFinished(outcome string, _ int) {
	c.GenerationRuns.WithLabelValues(outcome).Inc()
}

func (c *Collector) OnPersist(bytes int, d time.Duration, err error) {
	if err != nil {
		c.PersistWrites.WithLabelValues("error").Inc()
		return
	}
	c.PersistWrites.WithLabelValues("ok").Inc()
	c.PersistBytes.Set(float64(bytes))
	c.PersistDuration.Observe(d.Seconds())
}
