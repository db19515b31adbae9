package providers

import (
	"time"

	"github.com/Andii-12/Deltasoft-backend/internal/structures"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type MetricsProviderInterface interface {
	IncRequestsTotal(endpoint string, status int)
	ObserveRequestDuration(endpoint string, duration time.Duration)
	IncCacheHits()
	IncCacheMisses()
	IncVisitsRecorded()
	IncVisitRecordFailures()
	IncVisitsDropped()
	ObserveInsertDuration(duration time.Duration)
}

type MetricsProvider struct {
	requestsTotal       *prometheus.CounterVec
	requestDuration     *prometheus.HistogramVec
	cacheHits           prometheus.Counter
	cacheMisses         prometheus.Counter
	visitsRecorded      prometheus.Counter
	visitRecordFailures prometheus.Counter
	visitsDropped       prometheus.Counter
	insertDuration      prometheus.Histogram
}

func (m *MetricsProvider) IncRequestsTotal(endpoint string, status int) {
	m.requestsTotal.WithLabelValues(endpoint, httpStatusBucket(status)).Inc()
}

func (m *MetricsProvider) ObserveRequestDuration(endpoint string, duration time.Duration) {
	m.requestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

func (m *MetricsProvider) IncCacheHits() {
	m.cacheHits.Inc()
}

func (m *MetricsProvider) IncCacheMisses() {
	m.cacheMisses.Inc()
}

func (m *MetricsProvider) IncVisitsRecorded() {
	m.visitsRecorded.Inc()
}

func (m *MetricsProvider) IncVisitRecordFailures() {
	m.visitRecordFailures.Inc()
}

func (m *MetricsProvider) IncVisitsDropped() {
	m.visitsDropped.Inc()
}

func (m *MetricsProvider) ObserveInsertDuration(duration time.Duration) {
	m.insertDuration.Observe(duration.Seconds())
}

func httpStatusBucket(code int) string {
	switch {
	case code < 200:
		return "1xx"
	case code < 300:
		return "2xx"
	case code < 400:
		return "3xx"
	case code < 500:
		return "4xx"
	default:
		return "5xx"
	}
}

func NewMetricsProvider(conf *structures.Config) MetricsProviderInterface {
	if !conf.Metrics.Enabled {
		return &noopMetrics{}
	}

	return &MetricsProvider{
		requestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "deltasoft_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"endpoint", "status"}),

		requestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "deltasoft_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),

		cacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "deltasoft_cache_hits_total",
			Help: "Total number of cache hits",
		}),

		cacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Name: "deltasoft_cache_misses_total",
			Help: "Total number of cache misses",
		}),

		visitsRecorded: promauto.NewCounter(prometheus.CounterOpts{
			Name: "deltasoft_visits_recorded_total",
			Help: "Total number of visit records persisted",
		}),

		visitRecordFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "deltasoft_visit_record_failures_total",
			Help: "Total number of visit record writes that failed",
		}),

		visitsDropped: promauto.NewCounter(prometheus.CounterOpts{
			Name: "deltasoft_visits_dropped_total",
			Help: "Total number of visit records dropped after shutdown began",
		}),

		insertDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "deltasoft_visit_insert_duration_seconds",
			Help:    "Duration of visit record inserts in seconds",
			Buckets: prometheus.DefBuckets,
		}),
	}
}

// noopMetrics is a no-op implementation for when metrics are disabled.
type noopMetrics struct{}

func (n *noopMetrics) IncRequestsTotal(_ string, _ int)                 {}
func (n *noopMetrics) ObserveRequestDuration(_ string, _ time.Duration) {}
func (n *noopMetrics) IncCacheHits()                                    {}
func (n *noopMetrics) IncCacheMisses()                                  {}
func (n *noopMetrics) IncVisitsRecorded()                               {}
func (n *noopMetrics) IncVisitRecordFailures()                          {}
func (n *noopMetrics) IncVisitsDropped()                                {}
func (n *noopMetrics) ObserveInsertDuration(_ time.Duration)            {}
