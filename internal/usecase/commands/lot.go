package commands

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"auction-engine/internal/domain/lot"
	"auction-engine/internal/events"
	"auction-engine/internal/infra"
	"auction-engine/internal/pkg/clock"
	"auction-engine/internal/pkg/errs"
	"auction-engine/internal/usecase/shared"
)

// LotCommands is the catalog collaborator's trigger surface. Lot
// creation and editing live outside this engine; opening a lot for live
// bidding is the one transition the engine owns the discipline for.
type LotCommands interface {
	// OpenLot transitions PRE_BID -> LIVE and fixes the live window end.
	// Re-opening an already-LIVE lot is a no-op.
	OpenLot(ctx context.Context, lotID uuid.UUID, liveEndAt time.Time) error
}

type lotCommandsImpl struct {
	ledger shared.Ledger
	clock  clock.Clock
	logger *slog.Logger
}

func NewLotCommands(ledger shared.Ledger, clk clock.Clock, logger *slog.Logger) LotCommands {
	return &lotCommandsImpl{
		ledger: ledger,
		clock:  clk,
		logger: logger,
	}
}

func (u *lotCommandsImpl) OpenLot(ctx context.Context, lotID uuid.UUID, liveEndAt time.Time) error {
	if liveEndAt.IsZero() || !liveEndAt.After(u.clock.Now()) {
		return lot.ErrMissingLiveWindow
	}

	return u.ledger.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		snap, err := tx.Lots().FindByID(ctx, lotID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return errs.ErrLotNotFound
			}
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}

		if snap.Status == lot.StatusLive {
			return nil
		}
		if snap.Status != lot.StatusPreBid {
			return errs.ErrLotNotEligible
		}

		swapped, err := tx.Lots().OpenForBidding(ctx, lotID, liveEndAt)
		if err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		if !swapped {
			// Concurrent opener won; the lot is live either way.
			return nil
		}

		env, err := events.NewStatusChanged(events.StatusChanged{
			LotID:  lotID,
			Status: lot.StatusLive.String(),
		}, u.clock.Now())
		if err != nil {
			return err
		}
		return tx.Outbox().Append(ctx, env)
	})
}
