// Package prommetrics exposes explorer metrics to Prometheus.
package prommetrics

import (
	"time"

	"github.com/hupe1980/modelcompat"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "modelcompat"

// Collector implements modelcompat.MetricsCollector with Prometheus
// instruments registered on a caller-supplied registerer.
type Collector struct {
	loads       *prometheus.CounterVec
	loadLatency prometheus.Histogram
	operations  *prometheus.CounterVec
	opLatency   *prometheus.HistogramVec
	results     *prometheus.HistogramVec
	superseded  prometheus.Counter
}

var _ modelcompat.MetricsCollector = (*Collector)(nil)

// New creates a Collector and registers its instruments with reg.
func New(reg prometheus.Registerer) (*Collector, error) {
	c := &Collector{
		// Labels: status (ok, error)
		loads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "snapshot",
			Name:      "loads_total",
			Help:      "Total snapshot loads by outcome",
		}, []string{"status"}),

		loadLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "snapshot",
			Name:      "load_duration_seconds",
			Help:      "Snapshot load latency in seconds",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}),

		// Labels: mode (single, range, difference), status (ok, degraded, error)
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "explorer",
			Name:      "operations_total",
			Help:      "Total explorer operations by mode and outcome",
		}, []string{"mode", "status"}),

		opLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "explorer",
			Name:      "operation_duration_seconds",
			Help:      "Explorer operation latency in seconds, loads included",
			Buckets:   []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"mode"}),

		results: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "explorer",
			Name:      "result_models",
			Help:      "Number of models per operation result",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 10),
		}, []string{"mode"}),

		superseded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "explorer",
			Name:      "superseded_total",
			Help:      "Results discarded because a newer operation was issued",
		}),
	}

	for _, col := range []prometheus.Collector{c.loads, c.loadLatency, c.operations, c.opLatency, c.results, c.superseded} {
		if err := reg.Register(col); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// RecordLoad implements modelcompat.MetricsCollector.
func (c *Collector) RecordLoad(duration time.Duration, err error) {
	c.loads.WithLabelValues(status(err)).Inc()
	c.loadLatency.Observe(duration.Seconds())
}

// RecordIntersect implements modelcompat.MetricsCollector.
func (c *Collector) RecordIntersect(versions, failed, results int, duration time.Duration) {
	mode := modelcompat.ModeRange.String()
	st := "ok"
	if failed > 0 {
		st = "degraded"
	}
	c.operations.WithLabelValues(mode, st).Inc()
	c.opLatency.WithLabelValues(mode).Observe(duration.Seconds())
	c.results.WithLabelValues(mode).Observe(float64(results))
}

// RecordDifference implements modelcompat.MetricsCollector.
func (c *Collector) RecordDifference(results int, duration time.Duration, err error) {
	c.record(modelcompat.ModeDifference, results, duration, err)
}

// RecordSingle implements modelcompat.MetricsCollector.
func (c *Collector) RecordSingle(results int, duration time.Duration, err error) {
	c.record(modelcompat.ModeSingle, results, duration, err)
}

// RecordSuperseded implements modelcompat.MetricsCollector.
func (c *Collector) RecordSuperseded() {
	c.superseded.Inc()
}

func (c *Collector) record(m modelcompat.Mode, results int, duration time.Duration, err error) {
	mode := m.String()
	c.operations.WithLabelValues(mode, status(err)).Inc()
	c.opLatency.WithLabelValues(mode).Observe(duration.Seconds())
	if err == nil {
		c.results.WithLabelValues(mode).Observe(float64(results))
	}
}
