package workers

import (
	"context"
	"time"

	"cuponera_backend/internal/logger"
	"cuponera_backend/internal/services"
)

// LifecycleWorker runs the trial and subscription expiry sweep on a timer,
// so expired tenants are downgraded without waiting for the manual admin
// endpoint.
type LifecycleWorker struct {
	lifecycle *services.LifecycleService
	interval  time.Duration
}

func NewLifecycleWorker(lifecycle *services.LifecycleService, interval time.Duration) *LifecycleWorker {
	if interval <= 0 {
		interval = 6 * time.Hour
	}
	return &LifecycleWorker{lifecycle: lifecycle, interval: interval}
}

// Start launches the sweep loop. It runs once immediately so a restart
// catches anything that expired while the process was down, then on every
// tick until the context is cancelled.
func (w *LifecycleWorker) Start(ctx context.Context) {
	go w.run(ctx)
}

func (w *LifecycleWorker) run(ctx context.Context) {
	w.sweep(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			logger.Info("lifecycle worker stopped")
			return
		case <-ticker.C:
			w.sweep(ctx)
		}
	}
}

func (w *LifecycleWorker) sweep(ctx context.Context) {
	expired, err := w.lifecycle.SweepExpiry(ctx)
	if err != nil {
		logger.WithError("expiry sweep failed", err)
		return
	}
	if expired > 0 {
		logger.Info("expiry sweep finished", "expired", expired)
	}
}
