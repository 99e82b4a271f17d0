package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/paydar/paydar/internal/model"
)

// RunFunc produces one finished estimate run.
type RunFunc func(ctx context.Context) (model.RunRecord, error)

// Watcher owns the watch loop: it re-runs the same estimate on an interval
// and logs how the median moves between runs.
type Watcher struct {
	run      RunFunc
	interval time.Duration
	logger   *slog.Logger

	last *model.RunRecord
}

// NewWatcher creates a watcher that re-runs the estimate at the given interval.
func NewWatcher(run RunFunc, interval time.Duration, logger *slog.Logger) *Watcher {
	return &Watcher{
		run:      run,
		interval: interval,
		logger:   logger,
	}
}

// Run starts the watch loop. It runs one immediate estimate, then ticks on the
// configured interval. It returns nil when ctx is cancelled (graceful shutdown).
func (w *Watcher) Run(ctx context.Context) error {
	w.logger.Info("starting watch", "interval", w.interval.String())

	w.cycle(ctx)

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("shutting down watch")
			return nil
		case <-time.After(w.interval):
			w.cycle(ctx)
		}
	}
}

// cycle runs one estimate. A failed run is logged and skipped; the loop keeps
// its schedule either way.
func (w *Watcher) cycle(ctx context.Context) {
	rec, err := w.run(ctx)
	if err != nil {
		w.logger.Error("estimate failed", "error", err)
		return
	}

	if w.last == nil {
		w.logger.Info("estimate finished",
			"median", rec.Median,
			"valid", rec.Valid,
			"requested", rec.Requested,
		)
	} else {
		w.logger.Info("estimate finished",
			"median", rec.Median,
			"valid", rec.Valid,
			"requested", rec.Requested,
			"delta", rec.Median-w.last.Median,
		)
	}
	w.last = &rec
}
