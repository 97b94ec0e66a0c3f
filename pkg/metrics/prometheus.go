// Package metrics provides Prometheus metrics for the transfer portal service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns every Prometheus collector exported by the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	constLabels      map[string]string
	registry         prometheus.Registerer

	// Dataset
	datasetLoads        *prometheus.CounterVec
	datasetLoadDuration prometheus.Histogram
	datasetRecords      prometheus.Gauge
	datasetSchools      prometheus.Gauge
	datasetLastLoadUnix prometheus.Gauge
	datasetReloads      *prometheus.CounterVec

	// Query engine
	queries       prometheus.Counter
	emptyQueries  prometheus.Counter
	queryLatency  prometheus.Histogram
	cacheRequests *prometheus.CounterVec

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Errors
	errorRateByType     *prometheus.CounterVec
	errorRateByEndpoint *prometheus.CounterVec
	errorLatency        *prometheus.HistogramVec

	// System
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

var globalManager *Manager //nolint:gochecknoglobals // singleton used by the package-level recorders

var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // keeps default Go collectors out of /metrics

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a metrics manager and registers its collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "portal",
		subsystem:        "transfers",
		histogramBuckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 25, 50, 100, 250, 1000},
		constLabels:      map[string]string{},
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) counterOpts(name, help string) prometheus.CounterOpts {
	return prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
	}
}

func (m *Manager) gaugeOpts(name, help string) prometheus.GaugeOpts {
	return prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
	}
}

func (m *Manager) histogramOpts(name, help string) prometheus.HistogramOpts {
	return prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
		Buckets:     m.histogramBuckets,
	}
}

func (m *Manager) initializeMetrics() { //nolint:funlen // flat list of collectors
	auto := promauto.With(m.registry)

	m.datasetLoads = auto.NewCounterVec(
		m.counterOpts("dataset_loads_total", "Dataset load attempts by result (ok, not_found, missing_columns, malformed, unsupported, error)"),
		[]string{"result"},
	)
	m.datasetLoadDuration = auto.NewHistogram(
		m.histogramOpts("dataset_load_duration_milliseconds", "Time spent reading and parsing the dataset"),
	)
	m.datasetRecords = auto.NewGauge(
		m.gaugeOpts("dataset_records", "Number of transfer records in the active dataset"),
	)
	m.datasetSchools = auto.NewGauge(
		m.gaugeOpts("dataset_schools", "Number of distinct schools in the active dataset"),
	)
	m.datasetLastLoadUnix = auto.NewGauge(
		m.gaugeOpts("dataset_last_load_unix", "Unix time of the last successful dataset load"),
	)
	m.datasetReloads = auto.NewCounterVec(
		m.counterOpts("dataset_reloads_total", "Hot reloads by trigger and result"),
		[]string{"trigger", "result"},
	)

	m.queries = auto.NewCounter(
		m.counterOpts("queries_total", "Transfer queries computed (cache misses included, hits excluded)"),
	)
	m.emptyQueries = auto.NewCounter(
		m.counterOpts("empty_queries_total", "Queries where both incoming and outgoing views were empty"),
	)
	m.queryLatency = auto.NewHistogram(
		m.histogramOpts("query_latency_milliseconds", "Latency of a transfer report, cache hits included"),
	)
	m.cacheRequests = auto.NewCounterVec(
		m.counterOpts("cache_requests_total", "Report cache lookups by outcome"),
		[]string{"outcome"},
	)

	m.httpRequests = auto.NewCounterVec(
		m.counterOpts("http_requests_total", "Total number of HTTP requests by endpoint and method"),
		[]string{"endpoint", "method", "status_code"},
	)
	m.httpRequestDuration = auto.NewHistogramVec(
		m.histogramOpts("http_request_duration_milliseconds", "HTTP request duration in milliseconds"),
		[]string{"endpoint", "method", "status_code"},
	)

	m.errorRateByType = auto.NewCounterVec(
		m.counterOpts("errors_by_type_total", "Errors by type and severity"),
		[]string{"error_type", "severity"},
	)
	m.errorRateByEndpoint = auto.NewCounterVec(
		m.counterOpts("errors_by_endpoint_total", "Errors by endpoint"),
		[]string{"endpoint", "method", "error_type"},
	)
	m.errorLatency = auto.NewHistogramVec(
		m.histogramOpts("error_latency_milliseconds", "Latency of requests that ended in an error"),
		[]string{"component", "error_type"},
	)

	m.systemMemoryUsage = auto.NewGauge(
		m.gaugeOpts("system_memory_usage_bytes", "Heap bytes allocated"),
	)
	m.systemGoroutineCount = auto.NewGauge(
		m.gaugeOpts("system_goroutine_count", "Number of goroutines"),
	)
	m.systemGCPauseTime = auto.NewHistogram(
		m.histogramOpts("system_gc_pause_time_milliseconds", "Average GC pause in milliseconds"),
	)
}

// RecordDatasetLoad counts a load attempt; result is "ok" or an error kind.
func RecordDatasetLoad(result string, durationMs float64) {
	globalManager.datasetLoads.WithLabelValues(result).Inc()
	globalManager.datasetLoadDuration.Observe(durationMs)
}

// UpdateDatasetSize publishes the size of the active dataset.
func UpdateDatasetSize(records, schools int, loadedUnix float64) {
	globalManager.datasetRecords.Set(float64(records))
	globalManager.datasetSchools.Set(float64(schools))
	globalManager.datasetLastLoadUnix.Set(loadedUnix)
}

// RecordDatasetReload counts a hot reload; trigger is "watch" or "api".
func RecordDatasetReload(trigger, result string) {
	globalManager.datasetReloads.WithLabelValues(trigger, result).Inc()
}

// RecordQuery counts a computed query.
func RecordQuery() {
	globalManager.queries.Inc()
}

// RecordEmptyQuery counts a query with no matching rows.
func RecordEmptyQuery() {
	globalManager.emptyQueries.Inc()
}

// RecordQueryLatency records report latency in milliseconds.
func RecordQueryLatency(latencyMs float64) {
	globalManager.queryLatency.Observe(latencyMs)
}

// RecordCacheHit counts a report served from cache.
func RecordCacheHit() {
	globalManager.cacheRequests.WithLabelValues("hit").Inc()
}

// RecordCacheMiss counts a report cache miss.
func RecordCacheMiss() {
	globalManager.cacheRequests.WithLabelValues("miss").Inc()
}

// RecordCacheError counts a cache backend failure.
func RecordCacheError() {
	globalManager.cacheRequests.WithLabelValues("error").Inc()
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordErrorByType records an error by type and severity.
func RecordErrorByType(errorType, severity string) {
	globalManager.errorRateByType.WithLabelValues(errorType, severity).Inc()
}

// RecordErrorByEndpoint records an error by endpoint.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// RecordErrorLatency records the latency of a failed request.
func RecordErrorLatency(component, errorType string, latencyMs float64) {
	globalManager.errorLatency.WithLabelValues(component, errorType).Observe(latencyMs)
}

// UpdateSystemMemoryUsage sets heap usage in bytes.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the goroutine count.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// RecordSystemGCPauseTime records GC pause time in milliseconds.
func RecordSystemGCPauseTime(pauseMs float64) {
	globalManager.systemGCPauseTime.Observe(pauseMs)
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
