package providers

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"processingd/internal/models"
	"processingd/internal/stores"
	"processingd/internal/structures"
	"strconv"
	"time"
)

type MetricsProviderInterface interface {
	IncRequestsTotal(endpoint string, status int)
	ObserveRequestDuration(endpoint string, duration time.Duration)
	IncCacheHits()
	IncCacheMisses()
	ObservePersistenceDuration(duration time.Duration)
	IncSocketFrames(eventType string)
	SetSocketState(state models.ConnectionState)
	IncMutations(action string, ok bool)
}

type MetricsProvider struct {
	requestsTotal       *prometheus.CounterVec
	requestDuration     *prometheus.HistogramVec
	cacheHits           prometheus.Counter
	cacheMisses         prometheus.Counter
	persistenceDuration prometheus.Histogram
	socketFrames        *prometheus.CounterVec
	socketState         *prometheus.GaugeVec
	mutations           *prometheus.CounterVec
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

func (m *MetricsProvider) ObservePersistenceDuration(duration time.Duration) {
	m.persistenceDuration.Observe(duration.Seconds())
}

func (m *MetricsProvider) IncSocketFrames(eventType string) {
	m.socketFrames.WithLabelValues(eventType).Inc()
}

// SetSocketState keeps exactly one state label at 1.
func (m *MetricsProvider) SetSocketState(state models.ConnectionState) {
	for _, s := range []models.ConnectionState{models.Disconnected, models.Connecting, models.Connected} {
		v := 0.0
		if s == state {
			v = 1
		}
		m.socketState.WithLabelValues(string(s)).Set(v)
	}
}

func (m *MetricsProvider) IncMutations(action string, ok bool) {
	m.mutations.WithLabelValues(action, strconv.FormatBool(ok)).Inc()
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

func NewMetricsProvider(conf *structures.Config, donations stores.DonationsStoreInterface) MetricsProviderInterface {
	if !conf.Metrics.Enabled {
		return &noopMetrics{}
	}

	m := &MetricsProvider{
		requestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "procd_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"endpoint", "status"}),

		requestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "procd_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),

		cacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "procd_cache_hits_total",
			Help: "Total number of cache hits",
		}),

		cacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Name: "procd_cache_misses_total",
			Help: "Total number of cache misses",
		}),

		persistenceDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "procd_persistence_duration_seconds",
			Help:    "Duration of local state persistence in seconds",
			Buckets: prometheus.DefBuckets,
		}),

		socketFrames: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "procd_socket_frames_total",
			Help: "Processing socket frames by event type",
		}, []string{"type"}),

		socketState: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Name: "procd_socket_state",
			Help: "Current processing socket state",
		}, []string{"state"}),

		mutations: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "procd_mutations_total",
			Help: "Donation and bid mutations by action and outcome",
		}, []string{"action", "ok"}),
	}

	for _, bucket := range models.Buckets {
		bucket := bucket
		promauto.NewGaugeFunc(prometheus.GaugeOpts{
			Name:        "procd_bucket_size",
			Help:        "Number of known donations per processing bucket",
			ConstLabels: prometheus.Labels{"bucket": string(bucket)},
		}, func() float64 {
			return float64(donations.Counts()[bucket])
		})
	}

	promauto.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "procd_donations_total",
		Help: "Total number of donations held locally",
	}, func() float64 {
		return float64(donations.Len())
	})

	return m
}

// noopMetrics is a no-op implementation for when metrics are disabled.
type noopMetrics struct{}

func (n *noopMetrics) IncRequestsTotal(_ string, _ int)                 {}
func (n *noopMetrics) ObserveRequestDuration(_ string, _ time.Duration) {}
func (n *noopMetrics) IncCacheHits()                                    {}
func (n *noopMetrics) IncCacheMisses()                                  {}
func (n *noopMetrics) ObservePersistenceDuration(_ time.Duration)       {}
func (n *noopMetrics) IncSocketFrames(_ string)                         {}
func (n *noopMetrics) SetSocketState(_ models.ConnectionState)          {}
func (n *noopMetrics) IncMutations(_ string, _ bool)                    {}
