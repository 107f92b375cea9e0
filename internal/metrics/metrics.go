package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// SalesRecorded counts successfully committed sales.
var SalesRecorded = promauto.NewCounter(prometheus.CounterOpts{
	Name: "pos_sales_recorded_total",
	Help: "Number of sales committed successfully.",
})

// SalesRejected counts failed sale attempts by failure kind.
var SalesRejected = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "pos_sales_rejected_total",
	Help: "Number of sale attempts rejected, labeled by reason.",
}, []string{"reason"})
