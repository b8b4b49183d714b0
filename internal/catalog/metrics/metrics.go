package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus metrics for the course registry.
type Metrics struct {
	CoursesCreated     prometheus.Counter
	CounterIncrements  prometheus.Counter
	CounterDecrements  prometheus.Counter
	DecrementsRejected prometheus.Counter
}

// New creates and registers all course registry metrics.
func New() *Metrics {
	return &Metrics{
		CoursesCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "catalog_courses_created_total",
			Help: "Total number of courses created",
		}),
		CounterIncrements: promauto.NewCounter(prometheus.CounterOpts{
			Name: "catalog_enrolled_increments_total",
			Help: "Total number of enrolled-counter increments",
		}),
		CounterDecrements: promauto.NewCounter(prometheus.CounterOpts{
			Name: "catalog_enrolled_decrements_total",
			Help: "Total number of enrolled-counter decrements",
		}),
		DecrementsRejected: promauto.NewCounter(prometheus.CounterOpts{
			Name: "catalog_enrolled_decrements_rejected_total",
			Help: "Decrements rejected because the counter was already zero",
		}),
	}
}
