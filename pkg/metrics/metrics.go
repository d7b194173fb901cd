package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Registry is the gateway's dedicated metrics registry, exposed on /metrics.
var Registry = prometheus.NewRegistry()

var (
	// Custom histogram buckets tuned for page renders backed by one or two
	// upstream REST calls (milliseconds up to backend timeout territory).
	CustomAPIBuckets = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 3, 5, 8, 13, 21, 34}

	// HTTP Metrics
	HTTPRequestDuration = newHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_server_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: CustomAPIBuckets,
		},
		[]string{"http_request_method", "http_route", "http_response_status_code"},
	)

	HTTPRequestTotal = newCounterVec(
		prometheus.CounterOpts{
			Name: "http_server_request_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"http_request_method", "http_route", "http_response_status_code"},
	)

	ActiveRequests = newGaugeVec(
		prometheus.GaugeOpts{
			Name: "http_server_active_requests",
			Help: "Number of active HTTP requests",
		},
		[]string{"http_request_method"},
	)

	// Backend client metrics (finance REST API)
	BackendRequestDuration = newHistogramVec(
		prometheus.HistogramOpts{
			Name:    "backend_client_operation_duration_seconds",
			Help:    "Finance API client operation duration in seconds",
			Buckets: CustomAPIBuckets,
		},
		[]string{"operation", "status"},
	)

	BackendRequestTotal = newCounterVec(
		prometheus.CounterOpts{
			Name: "backend_client_operation_total",
			Help: "Total number of finance API client operations",
		},
		[]string{"operation", "status"},
	)

	// Profile cache metrics
	CacheHits = newCounterVec(
		prometheus.CounterOpts{
			Name: "cache_hits_total",
			Help: "Total number of cache hits",
		},
		[]string{"cache_name"},
	)

	CacheMisses = newCounterVec(
		prometheus.CounterOpts{
			Name: "cache_misses_total",
			Help: "Total number of cache misses",
		},
		[]string{"cache_name"},
	)

	// Session metrics
	GuardRedirects = newCounterVec(
		prometheus.CounterOpts{
			Name: "f1nance_guard_redirects_total",
			Help: "Total number of guard redirects to a login screen",
		},
		[]string{"zone", "reason"},
	)

	Logins = newCounterVec(
		prometheus.CounterOpts{
			Name: "f1nance_logins_total",
			Help: "Total login attempts through the gateway",
		},
		[]string{"zone", "status"},
	)

	Registrations = newCounterVec(
		prometheus.CounterOpts{
			Name: "f1nance_registrations_total",
			Help: "Total registration attempts through the gateway",
		},
		[]string{"status"},
	)

	SessionsExpired = newCounterVec(
		prometheus.CounterOpts{
			Name: "f1nance_sessions_expired_total",
			Help: "Sessions invalidated after a backend 401",
		},
		[]string{"zone"},
	)
)

func newHistogramVec(opts prometheus.HistogramOpts, labels []string) *prometheus.HistogramVec {
	v := prometheus.NewHistogramVec(opts, labels)
	Registry.MustRegister(v)
	return v
}

func newCounterVec(opts prometheus.CounterOpts, labels []string) *prometheus.CounterVec {
	v := prometheus.NewCounterVec(opts, labels)
	Registry.MustRegister(v)
	return v
}

func newGaugeVec(opts prometheus.GaugeOpts, labels []string) *prometheus.GaugeVec {
	v := prometheus.NewGaugeVec(opts, labels)
	Registry.MustRegister(v)
	return v
}

// Init registers the runtime collectors. Safe to call once at startup.
func Init() {
	Registry.MustRegister(collectors.NewGoCollector())
	Registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
}

// MeasureDuration returns elapsed seconds since start for histogram observations.
func MeasureDuration(start time.Time) float64 {
	return time.Since(start).Seconds()
}
