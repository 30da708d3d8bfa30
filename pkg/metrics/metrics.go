package metrics

import (
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Registry is the custom registry used by the /api/metrics endpoint.
// A dedicated registry keeps default go collectors under our control.
var Registry = prometheus.NewRegistry()

func newCounterVec(name, help string, labels []string) *prometheus.CounterVec {
	c := prometheus.NewCounterVec(prometheus.CounterOpts{Name: name, Help: help}, labels)
	Registry.MustRegister(c)
	return c
}

func newHistogramVec(name, help string, buckets []float64, labels []string) *prometheus.HistogramVec {
	h := prometheus.NewHistogramVec(prometheus.HistogramOpts{Name: name, Help: help, Buckets: buckets}, labels)
	Registry.MustRegister(h)
	return h
}

func newGaugeVec(name, help string, labels []string) *prometheus.GaugeVec {
	g := prometheus.NewGaugeVec(prometheus.GaugeOpts{Name: name, Help: help}, labels)
	Registry.MustRegister(g)
	return g
}

var (
	// Buckets tuned for API response times from milliseconds up to slow
	// database aggregations
	APIBuckets = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 3, 5, 8, 13, 21}

	// HTTP metrics
	HTTPRequestDuration = newHistogramVec(
		"http_server_request_duration_seconds",
		"HTTP request duration in seconds",
		APIBuckets,
		[]string{"http_request_method", "http_route", "http_response_status_code"},
	)

	HTTPRequestTotal = newCounterVec(
		"http_server_request_total",
		"Total number of HTTP requests",
		[]string{"http_request_method", "http_route", "http_response_status_code"},
	)

	ActiveRequests = newGaugeVec(
		"http_server_active_requests",
		"Number of active HTTP requests",
		[]string{"http_request_method"},
	)

	// Database metrics
	DBOperationDuration = newHistogramVec(
		"db_client_operation_duration_seconds",
		"Database operation duration in seconds",
		APIBuckets,
		[]string{"operation", "status"},
	)

	// Cache metrics
	CacheHits = newCounterVec(
		"cache_hits_total",
		"Total number of cache hits",
		[]string{"cache_name"},
	)

	CacheMisses = newCounterVec(
		"cache_misses_total",
		"Total number of cache misses",
		[]string{"cache_name"},
	)

	// Business metrics
	RatingSubmissions = newCounterVec(
		"score_rating_submissions_total",
		"Total number of public rating form submissions",
		[]string{"status"},
	)

	RatingFormLoads = newCounterVec(
		"score_rating_form_loads_total",
		"Total number of public rating form loads",
		[]string{"status"},
	)

	RatingLinksIssued = newCounterVec(
		"score_rating_links_issued_total",
		"Total number of rating links issued by admins",
		[]string{"action"},
	)

	LoginAttempts = newCounterVec(
		"score_login_attempts_total",
		"Total number of login attempts",
		[]string{"user_type", "status"},
	)

	LeaderboardRequests = newCounterVec(
		"score_leaderboard_requests_total",
		"Total number of leaderboard requests",
		[]string{"source"},
	)

	PointAdjustments = newCounterVec(
		"score_point_adjustments_total",
		"Total number of point ledger writes",
		[]string{"adjustment_type"},
	)

	EmailsSent = newCounterVec(
		"score_emails_sent_total",
		"Total number of emails sent",
		[]string{"kind", "status"},
	)

	// Runtime gauges refreshed by RecordInfrastructureMetrics
	Goroutines = newGaugeVec(
		"runtime_goroutines",
		"Current number of goroutines",
		[]string{"service"},
	)
)

var serviceName = "score-api"

// Init registers process collectors and records the service name used for
// runtime gauges
func Init(name string) {
	if name != "" {
		serviceName = name
	}
	Registry.MustRegister(collectors.NewGoCollector())
	Registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
}

// RecordInfrastructureMetrics starts a background goroutine refreshing
// runtime gauges
func RecordInfrastructureMetrics() {
	go func() {
		for {
			Goroutines.WithLabelValues(serviceName).Set(float64(runtime.NumGoroutine()))
			time.Sleep(15 * time.Second)
		}
	}()
}

// MeasureDuration returns elapsed seconds since start
func MeasureDuration(start time.Time) float64 {
	return time.Since(start).Seconds()
}
