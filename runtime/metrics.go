package runtime

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// nodeRunDuration observes wall clock node handler latency.
	// Labels: node_type, status (success, failed)
	nodeRunDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "dagflow",
		Subsystem: "node",
		Name:      "run_duration_seconds",
		Help:      "Node handler wall clock duration in seconds",
		Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30},
	}, []string{"node_type", "status"})

	// nodeRuns counts node runs by outcome.
	nodeRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "dagflow",
		Subsystem: "node",
		Name:      "runs_total",
		Help:      "Total node runs by node type and status",
	}, []string{"node_type", "status"})

	// executionsTotal counts finished executions by terminal status.
	executionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "dagflow",
		Subsystem: "engine",
		Name:      "executions_total",
		Help:      "Total workflow executions by terminal status",
	}, []string{"status"})

	// executionDuration observes end to end execution latency.
	executionDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "dagflow",
		Subsystem: "engine",
		Name:      "execution_duration_seconds",
		Help:      "End to end workflow execution duration in seconds",
		Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30, 60, 300},
	}, []string{"status"})
)

func recordNodeRun(nodeType, status string, elapsed time.Duration) {
	nodeRunDuration.WithLabelValues(nodeType, status).Observe(elapsed.Seconds())
	nodeRuns.WithLabelValues(nodeType, status).Inc()
}

func recordExecution(status string, elapsed time.Duration) {
	executionsTotal.WithLabelValues(status).Inc()
	executionDuration.WithLabelValues(status).Observe(elapsed.Seconds())
}
