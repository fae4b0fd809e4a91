package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// report pipeline. A one-shot run logs the final totals at completion; the
// default registry is still populated for callers that embed the pipeline.
type Metrics struct {
	RowsRead    prometheus.Counter
	RowsKept    prometheus.Counter
	RowsDropped prometheus.Counter

	PipelineRunning prometheus.Gauge
	RunDuration     prometheus.Histogram

	NormalizeCache   *prometheus.CounterVec // labels: result={hit,miss}
	RecordsPublished prometheus.Counter
}

// NewMetrics creates and registers all pipeline metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		RowsRead: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "storm_report",
			Name:      "rows_read_total",
			Help:      "Total raw rows read from the source table.",
		}),
		RowsKept: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "storm_report",
			Name:      "rows_kept_total",
			Help:      "Total rows that survived the impact filter.",
		}),
		RowsDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "storm_report",
			Name:      "rows_dropped_total",
			Help:      "Total zero-impact rows dropped by the tidy-table builder.",
		}),
		PipelineRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "storm_report",
			Name:      "pipeline_running",
			Help:      "1 while the batch transform is active, 0 otherwise.",
		}),
		RunDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "storm_report",
			Name:      "run_duration_seconds",
			Help:      "Duration of a complete clean-and-aggregate run.",
			Buckets:   []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
		}),
		NormalizeCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "storm_report",
			Name:      "normalize_cache_total",
			Help:      "Event-type normalizer cache lookups by result.",
		}, []string{"result"}),
		RecordsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "storm_report",
			Name:      "records_published_total",
			Help:      "Clean records published to the Kafka sink.",
		}),
	}

	prometheus.MustRegister(
		m.RowsRead,
		m.RowsKept,
		m.RowsDropped,
		m.PipelineRunning,
		m.RunDuration,
		m.NormalizeCache,
		m.RecordsPublished,
	)

	return m
}

// NewMetricsForTesting creates Metrics with a fresh registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		RowsRead:         prometheus.NewCounter(prometheus.CounterOpts{Namespace: "storm_report", Name: "rows_read_total"}),
		RowsKept:         prometheus.NewCounter(prometheus.CounterOpts{Namespace: "storm_report", Name: "rows_kept_total"}),
		RowsDropped:      prometheus.NewCounter(prometheus.CounterOpts{Namespace: "storm_report", Name: "rows_dropped_total"}),
		PipelineRunning:  prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "storm_report", Name: "pipeline_running"}),
		RunDuration:      prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "storm_report", Name: "run_duration_seconds"}),
		NormalizeCache:   prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "storm_report", Name: "normalize_cache_total"}, []string{"result"}),
		RecordsPublished: prometheus.NewCounter(prometheus.CounterOpts{Namespace: "storm_report", Name: "records_published_total"}),
	}
}
