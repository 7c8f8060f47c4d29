// Package metrics provides Prometheus metrics for the league recap pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns all Prometheus collectors for the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Pipeline metrics
	pipelineRuns      *prometheus.CounterVec
	pipelineDuration  prometheus.Histogram
	stageDuration     *prometheus.HistogramVec
	pipelineLastUnix  prometheus.Gauge
	managerCount      prometheus.Gauge
	emptyHistories    prometheus.Gauge
	gapCellsFilled    prometheus.Counter
	duplicateRecords  prometheus.Counter
	outOfRangeRecords prometheus.Counter
	recapCacheHits    prometheus.Counter

	// Snapshot loader metrics
	snapshotRecordsLoaded *prometheus.CounterVec
	snapshotLoadErrors    *prometheus.CounterVec
	snapshotLoadLatency   prometheus.Histogram

	// HTTP metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	errorRateByEndpoint *prometheus.CounterVec

	// System metrics
	systemMemoryUsage prometheus.Gauge
	systemGoroutines  prometheus.Gauge
	systemGCPause     prometheus.Histogram
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "wrapped",
		subsystem:        "league",
		histogramBuckets: []float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000},
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) initializeMetrics() { //nolint:funlen // one place to declare every collector
	auto := promauto.With(m.registry)

	m.pipelineRuns = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "pipeline_runs_total",
			Help:      "Total number of recap pipeline runs by outcome",
		},
		[]string{"status"},
	)

	m.pipelineDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "pipeline_duration_milliseconds",
		Help:      "Duration of a full pipeline run in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.stageDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "stage_duration_milliseconds",
			Help:      "Duration of each pipeline stage in milliseconds",
			Buckets:   m.histogramBuckets,
		},
		[]string{"stage"},
	)

	m.pipelineLastUnix = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "pipeline_last_success_unix",
		Help:      "Unix timestamp of the last successful pipeline run",
	})

	m.managerCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "managers",
		Help:      "Number of managers in the last recap",
	})

	m.emptyHistories = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "empty_histories",
		Help:      "Number of managers without any recorded gameweek in the last recap",
	})

	m.gapCellsFilled = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "gap_cells_filled_total",
		Help:      "Total number of (manager, gameweek) cells synthesized by the gap filler",
	})

	m.duplicateRecords = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "duplicate_records_total",
		Help:      "Total number of duplicate (manager, gameweek) records dropped",
	})

	m.outOfRangeRecords = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "out_of_range_records_total",
		Help:      "Total number of records outside the configured gameweek range",
	})

	m.recapCacheHits = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "recap_cache_hits_total",
		Help:      "Total number of recap reads served without recomputation",
	})

	m.snapshotRecordsLoaded = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "snapshot_records_loaded_total",
			Help:      "Total number of weekly records loaded by manager",
		},
		[]string{"manager"},
	)

	m.snapshotLoadErrors = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "snapshot_load_errors_total",
			Help:      "Total number of snapshot load failures by kind",
		},
		[]string{"kind"},
	)

	m.snapshotLoadLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "snapshot_load_latency_milliseconds",
		Help:      "Latency of loading one snapshot file in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.httpRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests by endpoint and method",
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.httpRequestDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_request_duration_milliseconds",
			Help:      "HTTP request duration in milliseconds",
			Buckets:   m.histogramBuckets,
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.errorRateByEndpoint = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "errors_by_endpoint_total",
			Help:      "Total number of errors by endpoint",
		},
		[]string{"endpoint", "method", "error_type"},
	)

	m.systemMemoryUsage = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: "system",
		Name:      "memory_usage_bytes",
		Help:      "Heap bytes allocated by the process",
	})

	m.systemGoroutines = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: "system",
		Name:      "goroutines",
		Help:      "Number of running goroutines",
	})

	m.systemGCPause = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: "system",
		Name:      "gc_pause_milliseconds",
		Help:      "Average GC pause in milliseconds",
		Buckets:   m.histogramBuckets,
	})
}

// Pipeline Metrics Functions.

// RecordPipelineRun counts a pipeline run with the given status ("success" or "error").
func RecordPipelineRun(status string) {
	globalManager.pipelineRuns.WithLabelValues(status).Inc()
}

// RecordPipelineDuration records the duration of a full run.
func RecordPipelineDuration(durationMs float64) {
	globalManager.pipelineDuration.Observe(durationMs)
}

// RecordStageDuration records the duration of one pipeline stage.
func RecordStageDuration(stage string, durationMs float64) {
	globalManager.stageDuration.WithLabelValues(stage).Observe(durationMs)
}

// UpdatePipelineLastSuccess sets the timestamp of the last successful run.
func UpdatePipelineLastSuccess(unix int64) {
	globalManager.pipelineLastUnix.Set(float64(unix))
}

// UpdateManagerCount sets the number of managers in the last recap.
func UpdateManagerCount(count int) {
	globalManager.managerCount.Set(float64(count))
}

// UpdateEmptyHistories sets the number of managers without history.
func UpdateEmptyHistories(count int) {
	globalManager.emptyHistories.Set(float64(count))
}

// RecordGapFill records what the gap filler repaired.
func RecordGapFill(filled, duplicates, outOfRange int) {
	globalManager.gapCellsFilled.Add(float64(filled))
	globalManager.duplicateRecords.Add(float64(duplicates))
	globalManager.outOfRangeRecords.Add(float64(outOfRange))
}

// RecordRecapCacheHit counts a recap served from cache.
func RecordRecapCacheHit() {
	globalManager.recapCacheHits.Inc()
}

// Snapshot Metrics Functions.

// RecordSnapshotLoaded counts records loaded for a manager.
func RecordSnapshotLoaded(manager string, records int) {
	globalManager.snapshotRecordsLoaded.WithLabelValues(manager).Add(float64(records))
}

// RecordSnapshotError counts a snapshot load failure.
func RecordSnapshotError(kind string) {
	globalManager.snapshotLoadErrors.WithLabelValues(kind).Inc()
}

// RecordSnapshotLoadLatency records the latency of one snapshot load.
func RecordSnapshotLoadLatency(latencyMs float64) {
	globalManager.snapshotLoadLatency.Observe(latencyMs)
}

// HTTP Metrics Functions.

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordErrorByEndpoint records an error with endpoint, method, and error type labels.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// System Metrics Functions.

// UpdateSystemMemoryUsage sets the allocated heap size.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the goroutine count.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutines.Set(float64(count))
}

// RecordSystemGCPauseTime records the average GC pause.
func RecordSystemGCPauseTime(pauseMs float64) {
	globalManager.systemGCPause.Observe(pauseMs)
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
