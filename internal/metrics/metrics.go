// Package metrics exposes Prometheus collectors for the organizer,
// validator, and store operations.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	storeOperationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "chainvalidator",
		Subsystem: "store",
		Name:      "operations_total",
		Help:      "Count of store adapter operations.",
	}, []string{"operation", "status"})
	storeOperationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "chainvalidator",
		Subsystem: "store",
		Name:      "operation_duration_seconds",
		Help:      "Duration of store adapter operations.",
		Buckets:   []float64{.001, .0025, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
	}, []string{"operation", "status"})

	passDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "chainvalidator",
		Subsystem: "engine",
		Name:      "pass_duration_seconds",
		Help:      "Duration of an organize+validate pass.",
		Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
	}, []string{"phase", "status"})

	blocksValidatedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "chainvalidator",
		Subsystem: "validator",
		Name:      "blocks_total",
		Help:      "Count of blocks the validator has finished checking.",
	}, []string{"outcome"})

	branchesDeletedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "chainvalidator",
		Subsystem: "engine",
		Name:      "branches_deleted_total",
		Help:      "Count of branches deleted after a consensus rejection.",
	})

	pendingOrphans = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "chainvalidator",
		Subsystem: "validator",
		Name:      "pending_orphans",
		Help:      "Number of space==0 orphan blocks awaiting validation, as of the last pass.",
	})

	reparentsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "chainvalidator",
		Subsystem: "organizer",
		Name:      "reparents_total",
		Help:      "Count of orphan-root re-parent attempts.",
	}, []string{"status"})

	intakeBlocksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "chainvalidator",
		Subsystem: "intake",
		Name:      "blocks_total",
		Help:      "Count of incoming blocks persisted as new orphan roots.",
	}, []string{"status"})
)

// Store records duration and status of a store adapter operation.
func Store(operation string, err error, started time.Time) {
	status := "success"
	if err != nil {
		status = "error"
	}
	storeOperationsTotal.WithLabelValues(operation, status).Inc()
	storeOperationDuration.WithLabelValues(operation, status).Observe(time.Since(started).Seconds())
}

// Pass records the duration and outcome of an organize or validate phase
// within one engine pass.
func Pass(phase string, err error, started time.Time) {
	status := "success"
	if err != nil {
		status = "error"
	}
	passDuration.WithLabelValues(phase, status).Observe(time.Since(started).Seconds())
}

// BlockValidated records a validator decision for one block.
func BlockValidated(outcome string) {
	blocksValidatedTotal.WithLabelValues(outcome).Inc()
}

// BranchDeleted records a branch deletion triggered by a consensus
// rejection.
func BranchDeleted() {
	branchesDeletedTotal.Inc()
}

// SetPendingOrphans records the size of the pending-orphan backlog
// observed at the start of a validate pass.
func SetPendingOrphans(n int) {
	pendingOrphans.Set(float64(n))
}

// Reparented records the outcome of one orphan-root re-parent attempt.
func Reparented(err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	reparentsTotal.WithLabelValues(status).Inc()
}

// IntakeBlock records the outcome of persisting one incoming block as a
// new orphan root.
func IntakeBlock(err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	intakeBlocksTotal.WithLabelValues(status).Inc()
}
