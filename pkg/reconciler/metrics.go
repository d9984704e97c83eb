package reconciler

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	resultRepaired = "repaired"
	resultFailed   = "failed"
)

var sweepResultsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "order_reconciliations_total",
		Help: "Reconciliation attempts on enqueue-failed orders by result.",
	},
	[]string{"result"},
)
