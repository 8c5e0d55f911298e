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

	// ExpensesCreatedTotal counts expense rows created by category.
	ExpensesCreatedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "expenses_created_total",
			Help: "Total number of expenses created",
		},
		[]string{"category"},
	)

	// OrphanExpensesSweptTotal counts expense rows removed by the orphan sweep.
	OrphanExpensesSweptTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "orphan_expenses_swept_total",
			Help: "Total number of orphaned expenses removed by the sweep job",
		},
	)
)

var (
	numericPathSegment = regexp.MustCompile(`/[0-9]+(/|$)`)
	initOnce           sync.Once
)

func init() {
	initOnce.Do(func() {
		prometheus.MustRegister(RequestDuration, RequestTotal, ExpensesCreatedTotal, OrphanExpensesSweptTotal)
	})
}

// NormalizePath reduces cardinality by replacing numeric path segments with {id}.
// E.g. /api/expenses/123 -> /api/expenses/{id}.
func NormalizePath(path string) string {
	return numericPathSegment.ReplaceAllString(path, "/{id}$1")
}

// RecordRequest records duration and count for an HTTP request. Call from middleware with method, path, statusCode, duration.
func RecordRequest(method, path string, statusCode int, durationSeconds float64) {
	path = NormalizePath(path)
	status := strconv.Itoa(statusCode)
	RequestDuration.WithLabelValues(method, path, status).Observe(durationSeconds)
	RequestTotal.WithLabelValues(method, path, status).Inc()
}

// IncExpensesCreated increments the created-expenses counter for a category.
func IncExpensesCreated(category string) {
	ExpensesCreatedTotal.WithLabelValues(category).Inc()
}

// AddOrphansSwept adds n to the orphan sweep counter.
func AddOrphansSwept(n int64) {
	OrphanExpensesSweptTotal.Add(float64(n))
}
