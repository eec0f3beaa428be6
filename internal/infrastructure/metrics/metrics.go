// Package metrics holds the Prometheus collectors of the fines service.
// They register on the default registry and are served at /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ─── Ledger ────────────────────────────────────────────────────────────────

// FinesCreated counts fines written to the ledger, by fine type.
var FinesCreated = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "library",
	Subsystem: "ledger",
	Name:      "fines_created_total",
	Help:      "Total fines created, by type.",
}, []string{"type"})

// FinesSettled counts pending fines moved to paid or waived.
var FinesSettled = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "library",
	Subsystem: "ledger",
	Name:      "fines_settled_total",
	Help:      "Total fines settled, by resulting status.",
}, []string{"status"})

// NotificationFailures counts events the ledger could not publish.
var NotificationFailures = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "library",
	Subsystem: "ledger",
	Name:      "notification_failures_total",
	Help:      "Total fine notifications that failed to publish.",
})

// BalanceCorrections counts users whose stored balance was rewritten by
// reconciliation.
var BalanceCorrections = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "library",
	Subsystem: "ledger",
	Name:      "balance_corrections_total",
	Help:      "Total user fine balances corrected by reconciliation.",
})

// ─── Sweep ─────────────────────────────────────────────────────────────────

// SweepRuns counts sweep invocations by outcome (ok, cancelled, error, skipped).
var SweepRuns = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "library",
	Subsystem: "sweep",
	Name:      "runs_total",
	Help:      "Total overdue sweeps, by outcome.",
}, []string{"outcome"})

// SweepLoans counts loans seen by the sweep, by per-loan result.
var SweepLoans = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "library",
	Subsystem: "sweep",
	Name:      "loans_total",
	Help:      "Loans examined by the overdue sweep, by result (processed, skipped, no_fine, failed).",
}, []string{"result"})

// SweepDuration tracks wall time of one sweep.
var SweepDuration = promauto.NewHistogram(prometheus.HistogramOpts{
	Namespace: "library",
	Subsystem: "sweep",
	Name:      "duration_seconds",
	Help:      "Duration of one overdue sweep.",
	Buckets:   prometheus.ExponentialBuckets(0.05, 2, 12),
})
