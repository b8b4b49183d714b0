package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus metrics for the enrollment coordinator.
type Metrics struct {
	EnrollmentsCreated   prometheus.Counter
	EnrollmentsWithdrawn prometheus.Counter
	EnrollmentsRejected  *prometheus.CounterVec
	UpstreamFailures     *prometheus.CounterVec
	CounterSyncFailures  prometheus.Counter
}

// New creates and registers all enrollment metrics.
func New() *Metrics {
	return &Metrics{
		EnrollmentsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "enrollment_created_total",
			Help: "Total number of enrollments committed",
		}),
		EnrollmentsWithdrawn: promauto.NewCounter(prometheus.CounterOpts{
			Name: "enrollment_withdrawn_total",
			Help: "Total number of enrollments withdrawn",
		}),
		EnrollmentsRejected: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "enrollment_rejected_total",
			Help: "Enrollment attempts rejected, by reason",
		}, []string{"reason"}),
		UpstreamFailures: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "enrollment_upstream_failures_total",
			Help: "Calls to collaborating services that failed, by service",
		}, []string{"service"}),
		CounterSyncFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "enrollment_counter_sync_failures_total",
			Help: "Best-effort counter adjustments that did not reach the catalog",
		}),
	}
}
