// Package metrics provides Prometheus metrics for the ShowNews crawler service.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Default metrics configuration constants.
const (
	defaultRefreshInterval = 10 * time.Second
)

// Manager manages all Prometheus metrics for the ShowNews service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	refreshInterval  time.Duration
	customLabels     map[string]string
	metricPrefix     string
	registry         prometheus.Registerer

	// Core Business Metrics - what the pipeline actually produces
	eventsDiscovered *prometheus.CounterVec
	eventsNew        *prometheus.CounterVec
	eventsSent       *prometheus.CounterVec
	eventsFailed     *prometheus.CounterVec

	// Upstream Health Metrics - per-platform fetch behaviour
	fetchErrors   *prometheus.CounterVec
	fetchDuration *prometheus.HistogramVec

	// Enrichment Metrics
	enrichDowngraded prometheus.Counter

	// Delivery Metrics - Telegram send path
	sendRetries prometheus.Counter
	sendLatency prometheus.Histogram

	// Pipeline Metrics
	passDuration prometheus.Histogram
	passesTotal  prometheus.Counter

	// Store Metrics
	storeSize prometheus.Gauge

	// HTTP Performance Metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Enhanced Error Metrics - Detailed error tracking
	errorRateByComponent *prometheus.CounterVec
	errorRateByType      *prometheus.CounterVec
	errorRateByEndpoint  *prometheus.CounterVec
	errorLatency         *prometheus.HistogramVec

	// System Metrics - process health
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPause        prometheus.Histogram
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

// Initialize global metrics.
func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "shownews",
		subsystem:        "crawler",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
		refreshInterval:  defaultRefreshInterval,
		customLabels:     make(map[string]string),
		metricPrefix:     "",
		registry:         prometheus.DefaultRegisterer,
	}

	// Apply all options
	for _, opt := range opts {
		opt(m)
	}

	// Initialize metrics
	m.initializeMetrics()

	return m
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() {
	// Ensure metrics are registered on the configured registry (custom by default)
	auto := promauto.With(m.registry)

	// Core Business Metrics
	m.eventsDiscovered = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "events_discovered_total",
			Help:      "Total number of candidate events extracted from listing pages",
		},
		[]string{"platform"},
	)

	m.eventsNew = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "events_new_total",
			Help:      "Total number of events not present in the seen store",
		},
		[]string{"platform"},
	)

	m.eventsSent = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "events_sent_total",
			Help:      "Total number of notifications confirmed delivered",
		},
		[]string{"platform"},
	)

	m.eventsFailed = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "events_failed_total",
			Help:      "Total number of notifications that exhausted retries",
		},
		[]string{"platform"},
	)

	// Upstream Health Metrics
	m.fetchErrors = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "fetch_errors_total",
			Help:      "Total number of listing/detail fetch failures by platform",
		},
		[]string{"platform"},
	)

	m.fetchDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "fetch_duration_milliseconds",
			Help:      "Page fetch duration in milliseconds by platform",
			Buckets:   m.histogramBuckets,
		},
		[]string{"platform"},
	)

	// Enrichment Metrics
	m.enrichDowngraded = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "enrich_downgraded_total",
		Help:      "Total number of notifications sent with placeholder detail fields",
	})

	// Delivery Metrics
	m.sendRetries = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "send_retries_total",
		Help:      "Total number of Telegram send retries",
	})

	m.sendLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "send_latency_milliseconds",
		Help:      "Telegram send latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	// Pipeline Metrics
	m.passDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "pass_duration_milliseconds",
		Help:      "Full pipeline pass duration in milliseconds",
		Buckets:   []float64{100, 500, 1000, 5000, 15000, 30000, 60000, 120000, 300000},
	})

	m.passesTotal = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "passes_total",
		Help:      "Total number of pipeline passes executed",
	})

	// Store Metrics
	m.storeSize = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "store_size",
		Help:      "Number of URLs recorded in the seen-event store",
	})

	// HTTP Performance Metrics
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

	// Enhanced Error Metrics
	m.errorRateByComponent = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "errors_by_component_total",
			Help:      "Total errors by component and error type",
		},
		[]string{"component", "error_type"},
	)

	m.errorRateByType = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "errors_by_type_total",
			Help:      "Total errors by type and severity",
		},
		[]string{"error_type", "severity"},
	)

	m.errorRateByEndpoint = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "errors_by_endpoint_total",
			Help:      "Total errors by endpoint, method and error type",
		},
		[]string{"endpoint", "method", "error_type"},
	)

	m.errorLatency = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "error_latency_milliseconds",
			Help:      "Latency of operations that resulted in an error",
			Buckets:   m.histogramBuckets,
		},
		[]string{"component", "error_type"},
	)

	// System Metrics
	m.systemMemoryUsage = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_memory_bytes",
		Help:      "Current allocated heap memory in bytes",
	})

	m.systemGoroutineCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_goroutines",
		Help:      "Current number of goroutines",
	})

	m.systemGCPause = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_gc_pause_milliseconds",
		Help:      "Average GC pause time in milliseconds",
		Buckets:   m.histogramBuckets,
	})
}

// RecordEventsDiscovered adds to the discovered events counter for a platform.
func RecordEventsDiscovered(platform string, n int) {
	globalManager.eventsDiscovered.WithLabelValues(platform).Add(float64(n))
}

// RecordEventNew increments the new events counter for a platform.
func RecordEventNew(platform string) {
	globalManager.eventsNew.WithLabelValues(platform).Inc()
}

// RecordEventSent increments the sent notifications counter for a platform.
func RecordEventSent(platform string) {
	globalManager.eventsSent.WithLabelValues(platform).Inc()
}

// RecordEventFailed increments the failed notifications counter for a platform.
func RecordEventFailed(platform string) {
	globalManager.eventsFailed.WithLabelValues(platform).Inc()
}

// RecordFetchError increments the fetch error counter for a platform.
func RecordFetchError(platform string) {
	globalManager.fetchErrors.WithLabelValues(platform).Inc()
}

// RecordFetchDuration records a page fetch duration in milliseconds.
func RecordFetchDuration(platform string, ms float64) {
	globalManager.fetchDuration.WithLabelValues(platform).Observe(ms)
}

// RecordEnrichDowngraded increments the downgraded notification counter.
func RecordEnrichDowngraded() {
	globalManager.enrichDowngraded.Inc()
}

// RecordSendRetry increments the send retry counter.
func RecordSendRetry() {
	globalManager.sendRetries.Inc()
}

// RecordSendLatency records a Telegram send latency in milliseconds.
func RecordSendLatency(ms float64) {
	globalManager.sendLatency.Observe(ms)
}

// RecordPassDuration records a full pipeline pass duration in milliseconds.
func RecordPassDuration(ms float64) {
	globalManager.passDuration.Observe(ms)
}

// RecordPass increments the pass counter.
func RecordPass() {
	globalManager.passesTotal.Inc()
}

// UpdateStoreSize sets the seen-event store size gauge.
func UpdateStoreSize(size int) {
	globalManager.storeSize.Set(float64(size))
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordErrorByComponent records an error with component and type labels.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorRateByComponent.WithLabelValues(component, errorType).Inc()
}

// RecordErrorByType records an error with type and severity labels.
func RecordErrorByType(errorType, severity string) {
	globalManager.errorRateByType.WithLabelValues(errorType, severity).Inc()
}

// RecordErrorByEndpoint records an error with endpoint, method, and error type labels.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// RecordErrorLatency records the latency of an operation that resulted in an error.
func RecordErrorLatency(component, errorType string, latencyMs float64) {
	globalManager.errorLatency.WithLabelValues(component, errorType).Observe(latencyMs)
}

// UpdateSystemMemoryUsage sets the allocated heap memory gauge.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the goroutine count gauge.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// RecordSystemGCPauseTime records an average GC pause time in milliseconds.
func RecordSystemGCPauseTime(ms float64) {
	globalManager.systemGCPause.Observe(ms)
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
