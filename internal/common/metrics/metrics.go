// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	PortalRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portal_api_requests_total",
			Help: "Total number of requests made to the admission portal API",
		},
		[]string{"operation", "status"},
	)

	PortalRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "portal_api_request_duration_seconds",
			Help: "Duration of admission portal API requests in seconds",
		},
		[]string{"operation"},
	)

	SubmissionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "form_submissions_total",
			Help: "Total number of application submissions attempted",
		},
		[]string{"form_type", "final", "result"},
	)

	ValidationFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "form_validation_failures_total",
			Help: "Total number of submissions blocked by client-side validation",
		},
		[]string{"form_type"},
	)
)
