package telemetry

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Search outcomes used as metric labels and span attributes.
const (
	OutcomeReady      = "ready"
	OutcomeNoPath     = "no_path"
	OutcomeAllocation = "alloc_failure"
	OutcomeInternal   = "internal"
)

// Metrics holds the engine's Prometheus collectors. A nil *Metrics is valid
// and records nothing.
type Metrics struct {
	RequestsTotal   *prometheus.CounterVec
	SearchDuration  prometheus.Histogram
	QueueDepth      *prometheus.GaugeVec
	FrontierDropped prometheus.Counter
	NodesExpanded   prometheus.Histogram
	ChunksInUse     prometheus.Gauge
}

// NewMetrics registers the collectors with reg (prometheus.DefaultRegisterer when nil).
// Registering twice with the same registry panics, as with promauto.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)

	return &Metrics{
		RequestsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "lanepath_requests_total",
			Help: "Path requests processed by outcome",
		}, []string{"outcome"}),

		SearchDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "lanepath_search_duration_seconds",
			Help:    "Wall time of one search including result building",
			Buckets: prometheus.ExponentialBuckets(0.00005, 2, 14), // 50µs to ~400ms
		}),

		QueueDepth: f.NewGaugeVec(prometheus.GaugeOpts{
			Name: "lanepath_queue_depth",
			Help: "Requests waiting per engine",
		}, []string{"engine"}),

		FrontierDropped: f.NewCounter(prometheus.CounterOpts{
			Name: "lanepath_frontier_dropped_total",
			Help: "Frontier entries dropped because the bucket arena was full",
		}),

		NodesExpanded: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "lanepath_nodes_expanded",
			Help:    "Frontier entries expanded per search",
			Buckets: []float64{1, 10, 100, 1000, 10000, 65536},
		}),

		ChunksInUse: f.NewGauge(prometheus.GaugeOpts{
			Name: "lanepath_chunks_in_use",
			Help: "Path chunks currently allocated from the shared pool",
		}),
	}
}

// ObserveSearch records one finished search.
func (m *Metrics) ObserveSearch(outcome string, d time.Duration, expanded, dropped int) {
	if m == nil {
		return
	}
	m.RequestsTotal.WithLabelValues(outcome).Inc()
	m.SearchDuration.Observe(d.Seconds())
	m.NodesExpanded.Observe(float64(expanded))
	if dropped > 0 {
		m.FrontierDropped.Add(float64(dropped))
	}
}

// SetQueueDepth publishes the queue length of engine.
func (m *Metrics) SetQueueDepth(engine string, n int) {
	if m == nil {
		return
	}
	m.QueueDepth.WithLabelValues(engine).Set(float64(n))
}

// SetChunksInUse publishes the shared chunk pool usage.
func (m *Metrics) SetChunksInUse(n int) {
	if m == nil {
		return
	}
	m.ChunksInUse.Set(float64(n))
}
