// Package metrics provides Prometheus metrics for the bonus service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns every Prometheus collector of the bonus service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	amountBuckets    []float64
	constLabels      prometheus.Labels
	registry         prometheus.Registerer

	// Business metrics
	bonusComputations  *prometheus.CounterVec
	bonusAmount        prometheus.Histogram
	validationErrors   prometheus.Counter
	financeEvaluations *prometheus.CounterVec
	awardsDuplicate    prometheus.Counter
	awardsPersisted    prometheus.Counter
	awardsTotal        prometheus.Gauge

	// Repository metrics
	repositorySaveLatency  prometheus.Histogram
	repositoryQueryLatency prometheus.Histogram
	repositoryErrors       prometheus.Counter

	// Queue metrics
	queueSize          prometheus.Gauge
	queueCapacity      prometheus.Gauge
	queueUtilization   prometheus.Gauge
	queueEnqueued      prometheus.Counter
	queueDequeued      prometheus.Counter
	queueEnqueueErrors prometheus.Counter

	// Worker metrics
	workerCount             prometheus.Gauge
	workerProcessingLatency prometheus.Histogram
	workerErrors            prometheus.Counter

	// HTTP metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Error breakdown
	errorsByComponent *prometheus.CounterVec
	errorsByEndpoint  *prometheus.CounterVec

	// System metrics
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
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
		namespace:        "bonus",
		subsystem:        "service",
		histogramBuckets: prometheus.DefBuckets,
		amountBuckets:    prometheus.ExponentialBuckets(100, 2, 12), // 100 .. 204800
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) counter(name, help string) prometheus.Counter {
	return promauto.With(m.registry).NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
	})
}

func (m *Manager) gauge(name, help string) prometheus.Gauge {
	return promauto.With(m.registry).NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
	})
}

func (m *Manager) histogram(name, help string, buckets []float64) prometheus.Histogram {
	return promauto.With(m.registry).NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		Buckets:     buckets,
		ConstLabels: m.constLabels,
	})
}

func (m *Manager) counterVec(name, help string, labels ...string) *prometheus.CounterVec {
	return promauto.With(m.registry).NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
	}, labels)
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.bonusComputations = m.counterVec("bonus_computations_total", "Bonus computations by rate tier", "tier")
	m.bonusAmount = m.histogram("bonus_amount", "Distribution of computed bonus amounts", m.amountBuckets)
	m.validationErrors = m.counter("validation_errors_total", "Compensation inputs rejected by strict validation")
	m.financeEvaluations = m.counterVec("finance_evaluations_total", "Finance formula evaluations by formula and outcome", "formula", "outcome")
	m.awardsDuplicate = m.counter("awards_duplicate_total", "Award submissions rejected as duplicates")
	m.awardsPersisted = m.counter("awards_persisted_total", "Awards computed and written to the store")
	m.awardsTotal = m.gauge("awards", "Number of awards held by the store")

	m.repositorySaveLatency = m.histogram("repository_save_latency_milliseconds", "Store save latency in milliseconds", m.histogramBuckets)
	m.repositoryQueryLatency = m.histogram("repository_query_latency_milliseconds", "Store query latency in milliseconds", m.histogramBuckets)
	m.repositoryErrors = m.counter("repository_errors_total", "Store operations that failed")

	m.queueSize = m.gauge("queue_size", "Current number of queued award requests")
	m.queueCapacity = m.gauge("queue_capacity", "Maximum number of queued award requests")
	m.queueUtilization = m.gauge("queue_utilization_ratio", "Queue size divided by capacity")
	m.queueEnqueued = m.counter("queue_enqueued_total", "Award requests accepted by the queue")
	m.queueDequeued = m.counter("queue_dequeued_total", "Award requests handed to workers")
	m.queueEnqueueErrors = m.counter("queue_enqueue_errors_total", "Award requests the queue refused")

	m.workerCount = m.gauge("worker_count", "Number of award workers")
	m.workerProcessingLatency = m.histogram("worker_processing_latency_milliseconds", "Time from dequeue to persisted award", m.histogramBuckets)
	m.workerErrors = m.counter("worker_errors_total", "Award requests a worker failed to process")

	m.httpRequests = m.counterVec("http_requests_total", "HTTP requests by endpoint, method and status", "endpoint", "method", "status_code")
	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "http_request_duration_milliseconds",
		Help:        "HTTP request duration in milliseconds",
		Buckets:     m.histogramBuckets,
		ConstLabels: m.constLabels,
	}, []string{"endpoint", "method", "status_code"})

	m.errorsByComponent = m.counterVec("errors_by_component_total", "Errors by component and type", "component", "error_type")
	m.errorsByEndpoint = m.counterVec("errors_by_endpoint_total", "HTTP errors by endpoint, method and type", "endpoint", "method", "error_type")

	m.systemMemoryUsage = m.gauge("system_memory_bytes", "Heap bytes allocated")
	m.systemGoroutineCount = m.gauge("system_goroutines", "Number of goroutines")
	m.systemGCPauseTime = m.histogram("system_gc_pause_milliseconds", "Average GC pause in milliseconds",
		[]float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000})
}

// RecordBonusComputation counts a computed bonus and observes its amount.
func RecordBonusComputation(tier string, amount float64) {
	globalManager.bonusComputations.WithLabelValues(tier).Inc()
	globalManager.bonusAmount.Observe(amount)
}

// RecordValidationError counts an input rejected by strict validation.
func RecordValidationError() {
	globalManager.validationErrors.Inc()
}

// RecordFinanceEvaluation counts a finance formula evaluation; outcome is "ok" or "error".
func RecordFinanceEvaluation(formula, outcome string) {
	globalManager.financeEvaluations.WithLabelValues(formula, outcome).Inc()
}

// RecordAwardDuplicate counts a duplicate award submission.
func RecordAwardDuplicate() {
	globalManager.awardsDuplicate.Inc()
}

// RecordAwardPersisted counts an award written to the store.
func RecordAwardPersisted() {
	globalManager.awardsPersisted.Inc()
}

// UpdateAwardsTotal sets the number of stored awards.
func UpdateAwardsTotal(count int) {
	globalManager.awardsTotal.Set(float64(count))
}

// RecordRepositorySaveLatency records store save latency.
func RecordRepositorySaveLatency(latencyMs float64) {
	globalManager.repositorySaveLatency.Observe(latencyMs)
}

// RecordRepositoryQueryLatency records store query latency.
func RecordRepositoryQueryLatency(latencyMs float64) {
	globalManager.repositoryQueryLatency.Observe(latencyMs)
}

// RecordRepositoryError counts a failed store operation.
func RecordRepositoryError() {
	globalManager.repositoryErrors.Inc()
}

// UpdateQueueSize sets the current queue size.
func UpdateQueueSize(size int) {
	globalManager.queueSize.Set(float64(size))
}

// UpdateQueueCapacity sets the maximum queue capacity.
func UpdateQueueCapacity(capacity int) {
	globalManager.queueCapacity.Set(float64(capacity))
}

// UpdateQueueUtilization sets the queue utilization ratio.
func UpdateQueueUtilization(utilization float64) {
	globalManager.queueUtilization.Set(utilization)
}

// RecordQueueEnqueue increments the enqueue counter.
func RecordQueueEnqueue() {
	globalManager.queueEnqueued.Inc()
}

// RecordQueueDequeue increments the dequeue counter.
func RecordQueueDequeue() {
	globalManager.queueDequeued.Inc()
}

// RecordQueueEnqueueError increments the enqueue error counter.
func RecordQueueEnqueueError() {
	globalManager.queueEnqueueErrors.Inc()
}

// UpdateWorkerCount sets the current worker count.
func UpdateWorkerCount(count int) {
	globalManager.workerCount.Set(float64(count))
}

// RecordWorkerProcessingLatency records worker processing latency.
func RecordWorkerProcessingLatency(latencyMs float64) {
	globalManager.workerProcessingLatency.Observe(latencyMs)
}

// RecordWorkerError increments the worker error counter.
func RecordWorkerError() {
	globalManager.workerErrors.Inc()
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
	globalManager.errorsByComponent.WithLabelValues(component, errorType).Inc()
}

// RecordErrorByEndpoint records an error with endpoint, method, and error type labels.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorsByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// UpdateSystemMemoryUsage sets the system memory usage in bytes.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the number of goroutines.
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
