package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "studentms_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"path", "method", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "studentms_api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"path", "method", "status"},
	)

	LoginAttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "studentms_login_attempts_total",
			Help: "Login attempts by account kind and outcome",
		},
		[]string{"role", "outcome"},
	)

	StudentMutationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "studentms_student_mutations_total",
			Help: "Successful student create, update and delete operations",
		},
		[]string{"operation"},
	)
)
