package sweep

import (
	"context"
	"log"
	"time"

	"github.com/mosessifuna20/gatimbi-library-portal/internal/infrastructure/metrics"
	fineuc "github.com/mosessifuna20/gatimbi-library-portal/internal/usecase/fine"
)

const lockKey = "library:sweep:overdue"

// Locker grants a short lease so only one instance sweeps at a time.
// Losing the lease is harmless; it only saves duplicate work.
type Locker interface {
	TryLock(ctx context.Context, key string, ttl time.Duration) (release func(), ok bool, err error)
}

type Reconciler interface {
	ReconcileBalances(ctx context.Context) (*fineuc.ReconcileResult, error)
}

type Runner struct {
	sweep      *Usecase
	reconciler Reconciler
	locker     Locker
	interval   time.Duration
	lockTTL    time.Duration
}

// NewRunner: reconciler and locker may be nil.
func NewRunner(s *Usecase, rec Reconciler, locker Locker, interval time.Duration) *Runner {
	if interval <= 0 {
		interval = time.Hour
	}
	return &Runner{sweep: s, reconciler: rec, locker: locker, interval: interval, lockTTL: interval / 2}
}

// Start runs one pass immediately, then one per interval, until ctx is done.
func (r *Runner) Start(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.RunOnce(ctx)
	for {
		select {
		case <-ctx.Done():
			log.Println("sweep: runner stopped")
			return
		case <-ticker.C:
			r.RunOnce(ctx)
		}
	}
}

// RunOnce sweeps, then reconciles balances. The returned result is nil
// when another instance holds the lease.
func (r *Runner) RunOnce(ctx context.Context) *Result {
	if r.locker != nil {
		release, ok, err := r.locker.TryLock(ctx, lockKey, r.lockTTL)
		if err != nil {
			// no lock store: sweep anyway, the ledger still refuses duplicates
			log.Printf("sweep: lock unavailable: %v", err)
		} else if !ok {
			metrics.SweepRuns.WithLabelValues("skipped").Inc()
			log.Println("sweep: another instance holds the lease; skipping")
			return nil
		} else {
			defer release()
		}
	}

	start := time.Now()
	res, err := r.sweep.ProcessOverdueFines(ctx)
	metrics.SweepDuration.Observe(time.Since(start).Seconds())
	switch {
	case err != nil && ctx.Err() != nil:
		metrics.SweepRuns.WithLabelValues("cancelled").Inc()
		log.Printf("sweep: cancelled: %v", err)
		return res
	case err != nil:
		metrics.SweepRuns.WithLabelValues("error").Inc()
		log.Printf("sweep: failed: %v", err)
		return res
	}
	metrics.SweepRuns.WithLabelValues("ok").Inc()
	log.Printf("sweep: processed=%d total_overdue=%d skipped=%d no_fine=%d failed=%d",
		res.ProcessedCount, res.TotalOverdue, res.Skipped, res.NoFine, res.Failed)

	if r.reconciler != nil {
		rec, err := r.reconciler.ReconcileBalances(ctx)
		if err != nil {
			log.Printf("sweep: reconcile balances: %v", err)
		} else if rec.Corrected > 0 {
			log.Printf("sweep: reconciled %d of %d user balances", rec.Corrected, rec.Checked)
		}
	}
	return res
}
