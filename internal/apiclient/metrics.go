package apiclient

import (
	"strconv"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	backendRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fintrack_backend_requests_total",
			Help: "Total number of requests sent to the finance backend",
		},
		[]string{"method", "endpoint", "outcome"},
	)

	backendRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "fintrack_backend_request_duration_seconds",
			Help:    "Finance backend request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)
)

// endpointLabel collapses numeric path segments and drops the query so
// /transactions/42?limit=5 and /transactions/7 share one series.
func endpointLabel(endpoint string) string {
	if i := strings.IndexByte(endpoint, '?'); i >= 0 {
		endpoint = endpoint[:i]
	}
	segments := strings.Split(endpoint, "/")
	for i, seg := range segments {
		if seg == "" {
			continue
		}
		if _, err := strconv.ParseUint(seg, 10, 64); err == nil {
			segments[i] = "{id}"
		}
	}
	return strings.Join(segments, "/")
}

func outcomeLabel(status int, err error) string {
	if status == 0 && err != nil {
		return "network_error"
	}
	return strconv.Itoa(status)
}
