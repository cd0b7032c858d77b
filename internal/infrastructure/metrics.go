package infrastructure

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsNamespace prefixes every metric name
const MetricsNamespace = "covidchart"

// RunMetrics collects the metrics of one run in a private registry. The
// result is written once, at exit, in the Prometheus text format so a
// node_exporter textfile collector can pick it up.
//
// All methods are safe to call on a nil *RunMetrics.
type RunMetrics struct {
	registry *prometheus.Registry

	stageDuration    *prometheus.HistogramVec
	snapshotsLoaded  prometheus.Counter
	rowsMatched      prometheus.Counter
	artifactsWritten *prometheus.CounterVec
	runsFailed       *prometheus.CounterVec
	lastDelta        prometheus.Gauge
	lastRun          prometheus.Gauge
}

// NewRunMetrics creates and registers the run metrics
func NewRunMetrics() *RunMetrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &RunMetrics{
		registry: reg,
		stageDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: MetricsNamespace,
			Name:      "stage_duration_seconds",
			Help:      "Duration of each pipeline stage",
			Buckets:   []float64{0.001, 0.01, 0.05, 0.1, 0.5, 1, 5, 30},
		}, []string{"stage"}),
		snapshotsLoaded: factory.NewCounter(prometheus.CounterOpts{
			Namespace: MetricsNamespace,
			Name:      "snapshots_loaded_total",
			Help:      "Daily report snapshots parsed, baseline included",
		}),
		rowsMatched: factory.NewCounter(prometheus.CounterOpts{
			Namespace: MetricsNamespace,
			Name:      "rows_matched_total",
			Help:      "Rows matching the location filter across all snapshots",
		}),
		artifactsWritten: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: MetricsNamespace,
			Name:      "artifacts_written_total",
			Help:      "Charts and exports written, by format",
		}, []string{"format"}),
		runsFailed: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: MetricsNamespace,
			Name:      "run_failures_total",
			Help:      "Failed runs by error kind",
		}, []string{"kind"}),
		lastDelta: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: MetricsNamespace,
			Name:      "last_delta",
			Help:      "Delta of the last reported day",
		}),
		lastRun: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: MetricsNamespace,
			Name:      "last_run_timestamp_seconds",
			Help:      "Unix time the run finished",
		}),
	}
}

// Registry returns the registry holding the run metrics
func (m *RunMetrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// ObserveStage records how long a pipeline stage took
func (m *RunMetrics) ObserveStage(stage string, d time.Duration) {
	if m == nil {
		return
	}
	m.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

// AddSnapshots counts parsed snapshots
func (m *RunMetrics) AddSnapshots(n int) {
	if m == nil {
		return
	}
	m.snapshotsLoaded.Add(float64(n))
}

// AddMatchedRows counts rows kept by the location filter
func (m *RunMetrics) AddMatchedRows(n int) {
	if m == nil {
		return
	}
	m.rowsMatched.Add(float64(n))
}

// ArtifactWritten counts one written chart or export
func (m *RunMetrics) ArtifactWritten(format string) {
	if m == nil {
		return
	}
	m.artifactsWritten.WithLabelValues(format).Inc()
}

// RunFailed counts a failed run under its error kind
func (m *RunMetrics) RunFailed(kind string) {
	if m == nil {
		return
	}
	m.runsFailed.WithLabelValues(kind).Inc()
}

// SetLastDelta records the delta of the last reported day
func (m *RunMetrics) SetLastDelta(v float64) {
	if m == nil {
		return
	}
	m.lastDelta.Set(v)
}

// WriteTextfile stamps the finish time and writes every metric to path
func (m *RunMetrics) WriteTextfile(path string) error {
	if m == nil || path == "" {
		return nil
	}
	m.lastRun.SetToCurrentTime()

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create metrics directory: %w", err)
	}
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("failed to write metrics file %s: %w", path, err)
	}
	return nil
}
