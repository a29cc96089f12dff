package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics interface for dependency injection
type Metrics interface {
	RecordHTTPRequest(method, endpoint string, statusCode int, duration time.Duration)
	RecordFeedLoad(source, status string, duration time.Duration)
	RecordEventsLoaded(source string, count int)
	RecordBackup(operation, status string)
	RecordDBQuery(operation, status string)
	Handler() http.Handler
}

// NoOpMetrics provides a no-op implementation, used until Init is called
type NoOpMetrics struct{}

func (m *NoOpMetrics) RecordHTTPRequest(method, endpoint string, statusCode int, duration time.Duration) {
}
func (m *NoOpMetrics) RecordFeedLoad(source, status string, duration time.Duration) {}
func (m *NoOpMetrics) RecordEventsLoaded(source string, count int)                  {}
func (m *NoOpMetrics) RecordBackup(operation, status string)                        {}
func (m *NoOpMetrics) RecordDBQuery(operation, status string)                       {}
func (m *NoOpMetrics) Handler() http.Handler                                        { return http.NotFoundHandler() }

// promMetrics implements Metrics with a dedicated Prometheus registry
type promMetrics struct {
	registry     *prometheus.Registry
	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
	feedLoads    *prometheus.CounterVec
	feedDuration *prometheus.HistogramVec
	eventsLoaded *prometheus.GaugeVec
	backupOps    *prometheus.CounterVec
	dbQueries    *prometheus.CounterVec
}

func newPromMetrics() *promMetrics {
	m := &promMetrics{registry: prometheus.NewRegistry()}

	m.httpRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "potustracker",
		Name:      "http_requests_total",
		Help:      "HTTP requests by method, endpoint and status code",
	}, []string{"method", "endpoint", "status"})
	m.httpDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "potustracker",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency",
	}, []string{"method", "endpoint"})
	m.feedLoads = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "potustracker",
		Name:      "feed_loads_total",
		Help:      "Load cycles by source and outcome",
	}, []string{"source", "status"})
	m.feedDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "potustracker",
		Name:      "feed_load_duration_seconds",
		Help:      "Duration of feed load cycles",
	}, []string{"source"})
	m.eventsLoaded = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "potustracker",
		Name:      "events_loaded",
		Help:      "Number of normalized events in the current snapshot",
	}, []string{"source"})
	m.backupOps = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "potustracker",
		Name:      "backup_operations_total",
		Help:      "Backup store operations by outcome",
	}, []string{"operation", "status"})
	m.dbQueries = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "potustracker",
		Name:      "db_queries_total",
		Help:      "Database queries by operation and outcome",
	}, []string{"operation", "status"})

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		m.httpRequests, m.httpDuration,
		m.feedLoads, m.feedDuration, m.eventsLoaded,
		m.backupOps, m.dbQueries,
	)
	return m
}

func (m *promMetrics) RecordHTTPRequest(method, endpoint string, statusCode int, duration time.Duration) {
	m.httpRequests.WithLabelValues(method, endpoint, strconv.Itoa(statusCode)).Inc()
	m.httpDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

func (m *promMetrics) RecordFeedLoad(source, status string, duration time.Duration) {
	m.feedLoads.WithLabelValues(source, status).Inc()
	m.feedDuration.WithLabelValues(source).Observe(duration.Seconds())
}

func (m *promMetrics) RecordEventsLoaded(source string, count int) {
	m.eventsLoaded.WithLabelValues(source).Set(float64(count))
}

func (m *promMetrics) RecordBackup(operation, status string) {
	m.backupOps.WithLabelValues(operation, status).Inc()
}

func (m *promMetrics) RecordDBQuery(operation, status string) {
	m.dbQueries.WithLabelValues(operation, status).Inc()
}

func (m *promMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Global metrics instance
var globalMetrics Metrics = &NoOpMetrics{}

// Init switches the package from no-op to Prometheus-backed metrics
func Init() {
	globalMetrics = newPromMetrics()
}

// Handler returns the metrics scrape handler
func Handler() http.Handler {
	return globalMetrics.Handler()
}

// RecordHTTPRequest records HTTP request metrics
func RecordHTTPRequest(method, endpoint string, statusCode int, duration time.Duration) {
	globalMetrics.RecordHTTPRequest(method, endpoint, statusCode, duration)
}

// RecordFeedLoad records the outcome of one load cycle
func RecordFeedLoad(source, status string, duration time.Duration) {
	globalMetrics.RecordFeedLoad(source, status, duration)
}

// RecordEventsLoaded records the snapshot event count
func RecordEventsLoaded(source string, count int) {
	globalMetrics.RecordEventsLoaded(source, count)
}

// RecordBackup records a backup store operation
func RecordBackup(operation, status string) {
	globalMetrics.RecordBackup(operation, status)
}

// RecordDBQuery records database query metrics
func RecordDBQuery(operation, status string) {
	globalMetrics.RecordDBQuery(operation, status)
}
