package room

import (
	"context"
	"log/slog"
	"time"
)

// Sweeper periodically removes rooms left with zero members. Leave and
// disconnect delete rooms synchronously, so in steady state it finds nothing.
type Sweeper struct {
	store    *Store
	interval time.Duration
	logger   *slog.Logger
}

// NewSweeper creates a sweeper running at the given interval
func NewSweeper(store *Store, interval time.Duration, logger *slog.Logger) *Sweeper {
	return &Sweeper{
		store:    store,
		interval: interval,
		logger:   logger.With(slog.String("component", "idle-sweep")),
	}
}

// Run sweeps on every tick of the store's clock until ctx is cancelled
func (w *Sweeper) Run(ctx context.Context) {
	ticker := w.store.clock.NewTicker(w.interval)
	defer ticker.Stop()

	w.logger.Info("idle sweep started", slog.Duration("interval", w.interval))
	for {
		select {
		case <-ticker.C():
			w.SweepOnce(ctx)
		case <-ctx.Done():
			w.logger.Info("idle sweep stopped")
			return
		}
	}
}

// SweepOnce runs a single sweep and logs the outcome
func (w *Sweeper) SweepOnce(ctx context.Context) int {
	removed, err := w.store.Sweep(ctx)
	if err != nil {
		w.logger.Error("idle sweep failed", slog.Any("error", err))
		return removed
	}
	if removed > 0 {
		w.logger.Info("empty rooms cleaned up", slog.Int("removed", removed))
	}
	return removed
}
