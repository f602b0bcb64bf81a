package bookings

import (
	"context"
	"time"

	"gigtune/pkg/logger"
)

// Sweeper periodically advances time-triggered booking transitions:
// expiring stale requests, auto-completing unconfirmed gigs and
// releasing escrow past the dispute window.
type Sweeper struct {
	service   Service
	interval  time.Duration
	batchSize int
	log       *logger.Logger
	done      chan struct{}
}

func NewSweeper(service Service, interval time.Duration, batchSize int, log *logger.Logger) *Sweeper {
	if interval <= 0 {
		interval = time.Minute
	}
	if batchSize <= 0 {
		batchSize = 50
	}
	return &Sweeper{
		service:   service,
		interval:  interval,
		batchSize: batchSize,
		log:       log,
		done:      make(chan struct{}),
	}
}

// Start runs the sweep loop until Stop is called or the context is
// cancelled. One pass runs immediately on startup to clear any backlog.
func (s *Sweeper) Start(ctx context.Context) {
	s.log.Info("booking sweeper started",
		"interval", s.interval.String(),
		"batch_size", s.batchSize,
	)

	s.service.RunSweep(ctx, s.batchSize)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.service.RunSweep(ctx, s.batchSize)
		case <-ctx.Done():
			s.log.Info("booking sweeper stopped", "reason", "context cancelled")
			return
		case <-s.done:
			s.log.Info("booking sweeper stopped")
			return
		}
	}
}

// Stop signals the sweep loop to exit.
func (s *Sweeper) Stop() {
	close(s.done)
}
