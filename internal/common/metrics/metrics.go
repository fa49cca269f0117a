// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	SimulationsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "simulations_completed_total",
			Help: "Total number of simulations that reached a result",
		},
		[]string{"engine", "outcome"},
	)

	SimulationsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "simulations_failed_total",
			Help: "Total number of simulations that ended in the error state",
		},
		[]string{"engine", "error_code"},
	)

	SimulationsRejected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "simulations_rejected_total",
			Help: "Submissions rejected by validation or because another simulation was running",
		},
		[]string{"engine", "reason"},
	)

	SimulationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "simulation_duration_seconds",
			Help:    "Duration of the processing state in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"engine"},
	)

	SimulationsActive = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "simulations_active",
			Help: "Number of simulations currently processing",
		},
		[]string{"engine"},
	)

	StoreOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "record_store_operations_total",
			Help: "Record store operations by backend and status",
		},
		[]string{"driver", "operation", "status"},
	)

	APIRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "HTTP API requests by route and status code",
		},
		[]string{"method", "route", "status"},
	)
)
