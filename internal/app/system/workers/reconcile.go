// internal/app/system/workers/reconcile.go
package workers

import (
	"context"
	"sync"
	"time"

	"github.com/dalemusser/cleanupcrew/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// Repairer completes registrations whose event side was written without
// the user side. Both storage backends implement it.
type Repairer interface {
	RepairRegistrations(ctx context.Context) (int, error)
}

// Reconcile is a background worker that periodically repairs one-sided
// registrations left behind by a failed write outside a transaction.
type Reconcile struct {
	repairer Repairer
	log      *zap.Logger
	interval time.Duration
	stopCh   chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// NewReconcile creates a reconciliation worker that runs every interval.
func NewReconcile(repairer Repairer, logger *zap.Logger, interval time.Duration) *Reconcile {
	return &Reconcile{
		repairer: repairer,
		log:      logger,
		interval: interval,
		stopCh:   make(chan struct{}),
	}
}

// Start runs one pass immediately, then begins the background loop.
func (w *Reconcile) Start() {
	w.wg.Add(1)
	go w.run()
	w.log.Info("registration reconcile worker started",
		zap.Duration("interval", w.interval))
}

// Stop signals the worker to stop and waits for it to finish. Safe to call
// more than once.
func (w *Reconcile) Stop() {
	w.stopOnce.Do(func() {
		close(w.stopCh)
		w.wg.Wait()
		w.log.Info("registration reconcile worker stopped")
	})
}

func (w *Reconcile) run() {
	defer w.wg.Done()

	w.RunOnce()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopCh:
			return
		case <-ticker.C:
			w.RunOnce()
		}
	}
}

// RunOnce performs a single reconciliation pass and returns the number of
// registrations repaired.
func (w *Reconcile) RunOnce() int {
	ctx, cancel := timeouts.WithTimeout(context.Background(), timeouts.Long(), w.log, "reconcile registrations")
	defer cancel()

	count, err := w.repairer.RepairRegistrations(ctx)
	if err != nil {
		w.log.Error("failed to reconcile registrations", zap.Error(err), zap.Int("repaired", count))
		return count
	}
	if count > 0 {
		w.log.Warn("repaired one-sided registrations", zap.Int("count", count))
	}
	return count
}
