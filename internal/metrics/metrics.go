package metrics

import (
	"regexp"
	"strconv"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// RequestDuration tracks HTTP request duration in seconds by method, path, status.
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	// RequestTotal counts HTTP requests by method, path, status.
	RequestTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// LoginsTotal counts login and token attempts by result (success, failure).
	LoginsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "todoism_logins_total",
			Help: "Login attempts by result",
		},
		[]string{"result"},
	)

	ItemsCreatedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "todoism_items_created_total",
			Help: "Items created by users",
		},
	)

	DemoUsersTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "todoism_demo_users_total",
			Help: "Demo accounts generated via /register",
		},
	)
)

var (
	numericPathSegment = regexp.MustCompile(`/[0-9]+(/|$)`)
	initOnce           sync.Once
)

func init() {
	initOnce.Do(func() {
		prometheus.MustRegister(RequestDuration, RequestTotal, LoginsTotal, ItemsCreatedTotal, DemoUsersTotal)
	})
}

// NormalizePath replaces numeric path segments with {id}, for requests that
// did not match a route pattern. E.g. /items/123/toggle -> /items/{id}/toggle.
func NormalizePath(path string) string {
	return numericPathSegment.ReplaceAllString(path, "/{id}$1")
}

// RecordRequest records duration and count for an HTTP request.
func RecordRequest(method, path string, statusCode int, durationSeconds float64) {
	path = NormalizePath(path)
	status := strconv.Itoa(statusCode)
	RequestDuration.WithLabelValues(method, path, status).Observe(durationSeconds)
	RequestTotal.WithLabelValues(method, path, status).Inc()
}

// RecordLogin counts a login or token attempt.
func RecordLogin(ok bool) {
	result := "failure"
	if ok {
		result = "success"
	}
	LoginsTotal.WithLabelValues(result).Inc()
}

func IncItemsCreated() {
	ItemsCreatedTotal.Inc()
}

func IncDemoUsers() {
	DemoUsersTotal.Inc()
}
