// Package metrics provides Prometheus metrics for the moderation relay.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the relay.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Feed metrics - the inbound score stream
	eventsReceived  prometheus.Counter
	eventsAccepted  prometheus.Counter
	eventsDiscarded *prometheus.CounterVec

	// Enrichment metrics
	enrichmentSuccess prometheus.Counter
	enrichmentFailure prometheus.Counter
	enrichmentLatency prometheus.Histogram

	// Moderation metrics
	dispatches         prometheus.Counter
	fallbackBroadcasts prometheus.Counter
	heldEvents         prometheus.Counter
	redispatches       prometheus.Counter
	approvals          prometheus.Counter
	rejections         prometheus.Counter
	unknownResolutions prometheus.Counter
	pendingRecords     prometheus.Gauge

	// Connection metrics
	moderatorConnections prometheus.Gauge
	dashboardConnections prometheus.Gauge
	dashboardBroadcasts  prometheus.Counter

	// Running totals
	totalPoints   prometheus.Gauge
	totalPictures prometheus.Gauge

	// Leaderboard cache metrics
	leaderboardRefreshes    prometheus.Counter
	leaderboardRefreshFails prometheus.Counter

	// Intake queue / worker metrics
	queueSize          prometheus.Gauge
	queueCapacity      prometheus.Gauge
	queueEnqueueErrors prometheus.Counter
	workerCount        prometheus.Gauge

	// HTTP metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Error tracking
	errorsByComponent *prometheus.CounterVec

	// System metrics
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// customRegistry avoids clashing with the default Go collector registry.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "demo4",
		subsystem:        "relay",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // registration of every metric lives here
	auto := promauto.With(m.registry)

	m.eventsReceived = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "events_received_total",
		Help:      "Raw messages received from the score stream",
	})

	m.eventsAccepted = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "events_accepted_total",
		Help:      "Scored-image events accepted into the pipeline",
	})

	m.eventsDiscarded = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "events_discarded_total",
		Help:      "Inbound events discarded before processing",
	}, []string{"reason"})

	m.enrichmentSuccess = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "enrichment_success_total",
		Help:      "Image fetches that produced an encoded payload",
	})

	m.enrichmentFailure = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "enrichment_failure_total",
		Help:      "Image fetches that fell back to broadcast delivery",
	})

	m.enrichmentLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "enrichment_latency_milliseconds",
		Help:      "Image fetch and encode latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.dispatches = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "moderator_dispatches_total",
		Help:      "Events sent to a single moderator via round-robin",
	})

	m.fallbackBroadcasts = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "moderator_fallback_broadcasts_total",
		Help:      "Unenriched events broadcast to all moderators",
	})

	m.heldEvents = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "moderator_held_events_total",
		Help:      "Events queued while no moderator was connected",
	})

	m.redispatches = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "moderator_redispatches_total",
		Help:      "Pending records re-sent after a moderator disconnect",
	})

	m.approvals = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "approvals_total",
		Help:      "Approved pending records",
	})

	m.rejections = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "rejections_total",
		Help:      "Rejected pending records",
	})

	m.unknownResolutions = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "unknown_resolutions_total",
		Help:      "Approve/reject requests for ids not currently pending",
	})

	m.pendingRecords = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "pending_records",
		Help:      "Records currently awaiting a moderation decision",
	})

	m.moderatorConnections = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "moderator_connections",
		Help:      "Currently connected moderator clients",
	})

	m.dashboardConnections = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "dashboard_connections",
		Help:      "Currently connected dashboard clients",
	})

	m.dashboardBroadcasts = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "dashboard_broadcasts_total",
		Help:      "Messages broadcast to dashboard clients",
	})

	m.totalPoints = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "running_total_points",
		Help:      "Sum of scores of all accepted events since start",
	})

	m.totalPictures = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "running_total_pictures",
		Help:      "Count of accepted events since start",
	})

	m.leaderboardRefreshes = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "leaderboard_refreshes_total",
		Help:      "Successful leaderboard cache refreshes",
	})

	m.leaderboardRefreshFails = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "leaderboard_refresh_failures_total",
		Help:      "Failed leaderboard cache refresh attempts",
	})

	m.queueSize = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "intake_queue_size",
		Help:      "Events waiting for enrichment",
	})

	m.queueCapacity = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "intake_queue_capacity",
		Help:      "Configured intake queue capacity",
	})

	m.queueEnqueueErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "intake_queue_enqueue_errors_total",
		Help:      "Events dropped because the intake queue refused them",
	})

	m.workerCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "enrichment_workers",
		Help:      "Number of enrichment workers",
	})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_requests_total",
		Help:      "HTTP requests by endpoint, method and status",
	}, []string{"endpoint", "method", "status"})

	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_request_duration_milliseconds",
		Help:      "HTTP request duration in milliseconds",
		Buckets:   m.histogramBuckets,
	}, []string{"endpoint", "method", "status"})

	m.errorsByComponent = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "errors_total",
		Help:      "Errors by component and kind",
	}, []string{"component", "kind"})

	m.systemMemoryUsage = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_memory_bytes",
		Help:      "System memory usage in bytes",
	})

	m.systemGoroutineCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_goroutine_count",
		Help:      "Number of goroutines",
	})

	m.systemGCPauseTime = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_gc_pause_time_milliseconds",
		Help:      "GC pause time in milliseconds",
		Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000},
	})
}

// Package-level helpers recording on the global manager.

// RecordEventReceived increments the raw feed message counter.
func RecordEventReceived() {
	globalManager.eventsReceived.Inc()
}

// RecordEventAccepted increments the accepted events counter.
func RecordEventAccepted() {
	globalManager.eventsAccepted.Inc()
}

// RecordEventDiscarded increments the discarded events counter for a reason.
func RecordEventDiscarded(reason string) {
	globalManager.eventsDiscarded.WithLabelValues(reason).Inc()
}

// RecordEnrichmentSuccess increments the successful enrichment counter.
func RecordEnrichmentSuccess() {
	globalManager.enrichmentSuccess.Inc()
}

// RecordEnrichmentFailure increments the failed enrichment counter.
func RecordEnrichmentFailure() {
	globalManager.enrichmentFailure.Inc()
}

// RecordEnrichmentLatency records image fetch latency in milliseconds.
func RecordEnrichmentLatency(latencyMs float64) {
	globalManager.enrichmentLatency.Observe(latencyMs)
}

// RecordDispatch increments the targeted dispatch counter.
func RecordDispatch() {
	globalManager.dispatches.Inc()
}

// RecordFallbackBroadcast increments the fallback broadcast counter.
func RecordFallbackBroadcast() {
	globalManager.fallbackBroadcasts.Inc()
}

// RecordHeldEvent increments the held events counter.
func RecordHeldEvent() {
	globalManager.heldEvents.Inc()
}

// RecordRedispatch increments the redispatch counter.
func RecordRedispatch() {
	globalManager.redispatches.Inc()
}

// RecordApproval increments the approvals counter.
func RecordApproval() {
	globalManager.approvals.Inc()
}

// RecordRejection increments the rejections counter.
func RecordRejection() {
	globalManager.rejections.Inc()
}

// RecordUnknownResolution increments the unknown resolution counter.
func RecordUnknownResolution() {
	globalManager.unknownResolutions.Inc()
}

// UpdatePendingRecords sets the pending record gauge.
func UpdatePendingRecords(count int) {
	globalManager.pendingRecords.Set(float64(count))
}

// UpdateModeratorConnections sets the moderator connection gauge.
func UpdateModeratorConnections(count int) {
	globalManager.moderatorConnections.Set(float64(count))
}

// UpdateDashboardConnections sets the dashboard connection gauge.
func UpdateDashboardConnections(count int) {
	globalManager.dashboardConnections.Set(float64(count))
}

// RecordDashboardBroadcast increments the dashboard broadcast counter.
func RecordDashboardBroadcast() {
	globalManager.dashboardBroadcasts.Inc()
}

// UpdateRunningTotals sets the running totals gauges.
func UpdateRunningTotals(points float64, pictures int64) {
	globalManager.totalPoints.Set(points)
	globalManager.totalPictures.Set(float64(pictures))
}

// RecordLeaderboardRefresh increments the cache refresh counter.
func RecordLeaderboardRefresh() {
	globalManager.leaderboardRefreshes.Inc()
}

// RecordLeaderboardRefreshFailure increments the refresh failure counter.
func RecordLeaderboardRefreshFailure() {
	globalManager.leaderboardRefreshFails.Inc()
}

// UpdateQueueSize sets the intake queue size gauge.
func UpdateQueueSize(size int) {
	globalManager.queueSize.Set(float64(size))
}

// UpdateQueueCapacity sets the intake queue capacity gauge.
func UpdateQueueCapacity(capacity int) {
	globalManager.queueCapacity.Set(float64(capacity))
}

// RecordQueueEnqueueError increments the enqueue error counter.
func RecordQueueEnqueueError() {
	globalManager.queueEnqueueErrors.Inc()
}

// UpdateWorkerCount sets the enrichment worker gauge.
func UpdateWorkerCount(count int) {
	globalManager.workerCount.Set(float64(count))
}

// RecordHTTPRequest increments the HTTP request counter.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records an HTTP request duration in milliseconds.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, durationMs float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
}

// RecordErrorByComponent increments the error counter for a component.
func RecordErrorByComponent(component, kind string) {
	globalManager.errorsByComponent.WithLabelValues(component, kind).Inc()
}

// UpdateSystemMemoryUsage sets the memory usage gauge.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the goroutine gauge.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// RecordSystemGCPauseTime records a GC pause in milliseconds.
func RecordSystemGCPauseTime(pauseMs float64) {
	globalManager.systemGCPauseTime.Observe(pauseMs)
}

// GetRegistry returns the registry backing the global manager.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
