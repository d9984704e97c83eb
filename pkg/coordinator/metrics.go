package coordinator

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	outcomeAccepted         = "accepted"
	outcomeEnqueueFailed    = "enqueue_failed"
	outcomeValidationError  = "validation_error"
	outcomePersistenceError = "persistence_error"
)

var submissionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "order_submissions_total",
		Help: "Order submission attempts by outcome.",
	},
	[]string{"outcome"},
)
