package jobs

import (
	"context"
	"log/slog"
	"time"

	"auction-engine/internal/pkg/clock"
	"auction-engine/internal/pkg/config"
	"auction-engine/internal/usecase/commands"
)

// CloseSweeper periodically settles LIVE lots whose window has ended.
// Each pass is independent and idempotent: a lot missed by one pass is
// picked up by the next, and a lot closed elsewhere in the meantime
// reports already_closed.
type CloseSweeper struct {
	closer   commands.CloseCommands
	clock    clock.Clock
	interval time.Duration
	logger   *slog.Logger

	done chan struct{}
}

func NewCloseSweeper(closer commands.CloseCommands, clk clock.Clock, cfg config.AuctionConfig, logger *slog.Logger) *CloseSweeper {
	return &CloseSweeper{
		closer:   closer,
		clock:    clk,
		interval: cfg.SweepInterval,
		logger:   logger,
		done:     make(chan struct{}),
	}
}

func (s *CloseSweeper) Start(ctx context.Context) {
	go func() {
		defer close(s.done)
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.sweep(ctx)
			}
		}
	}()
}

func (s *CloseSweeper) Wait() {
	<-s.done
}

func (s *CloseSweeper) sweep(ctx context.Context) {
	outcomes, err := s.closer.CloseExpiredLots(ctx, s.clock.Now())
	if err != nil {
		s.logger.Error("close sweep failed", "error", err.Error())
		return
	}
	if len(outcomes) == 0 {
		return
	}

	var sold, unsold, skipped, failed int
	for _, o := range outcomes {
		switch o.Outcome {
		case commands.OutcomeSold:
			sold++
		case commands.OutcomeUnsold:
			unsold++
		case commands.OutcomeAlreadyClosed:
			skipped++
		default:
			failed++
		}
	}
	s.logger.Info("close sweep completed",
		"lots", len(outcomes), "sold", sold, "unsold", unsold,
		"already_closed", skipped, "failed", failed)
}
