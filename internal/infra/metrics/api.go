package metrics

import (
	"strconv"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	apiRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "prapp_api_requests_total",
			Help: "Backend API requests by resource, operation and outcome.",
		},
		[]string{"resource", "operation", "status"},
	)

	apiLatencyMs = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "prapp_api_latency_ms",
			Help:    "Backend API call latency distribution in milliseconds.",
			Buckets: []float64{10, 25, 50, 100, 200, 400, 800, 1600, 3000, 5000},
		},
		[]string{"resource", "operation", "success"},
	)
)

func init() { register(apiRequestsTotal, apiLatencyMs) }

func norm(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

// ObserveAPICall records one completed backend call. status is the HTTP
// status code, or 0 when no response was received.
func ObserveAPICall(resource, operation string, status int, latencyMs int64, success bool) {
	apiRequestsTotal.WithLabelValues(norm(resource), norm(operation), strconv.Itoa(status)).Inc()
	apiLatencyMs.WithLabelValues(norm(resource), norm(operation), strconv.FormatBool(success)).
		Observe(float64(latencyMs))
}
