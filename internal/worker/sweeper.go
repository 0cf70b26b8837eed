package worker

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Purger deletes nonce records that expired more than retention ago.
// *nonce.Manager implements it.
type Purger interface {
	Purge(ctx context.Context, retention time.Duration) (int64, error)
}

// Sweeper periodically removes expired nonce records
type Sweeper struct {
	purger    Purger
	interval  time.Duration
	retention time.Duration
	logger    *zap.Logger
}

// NewSweeper creates a sweeper running every interval
func NewSweeper(purger Purger, interval, retention time.Duration, logger *zap.Logger) *Sweeper {
	return &Sweeper{
		purger:    purger,
		interval:  interval,
		retention: retention,
		logger:    logger,
	}
}

// Run sweeps on every tick until ctx is cancelled
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.logger.Info("nonce sweeper started",
		zap.Duration("interval", s.interval),
		zap.Duration("retention", s.retention),
	)

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("nonce sweeper stopped")
			return
		case <-ticker.C:
			s.SweepOnce(ctx)
		}
	}
}

// SweepOnce runs a single purge pass. Failures are logged; the next tick retries.
func (s *Sweeper) SweepOnce(ctx context.Context) int64 {
	deleted, err := s.purger.Purge(ctx, s.retention)
	if err != nil {
		if ctx.Err() == nil {
			s.logger.Error("nonce sweep failed", zap.Error(err))
		}
		return 0
	}
	return deleted
}
