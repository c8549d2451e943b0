package commands

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"auction-engine/internal/domain/lot"
	"auction-engine/internal/domain/order"
	"auction-engine/internal/events"
	"auction-engine/internal/infra"
	"auction-engine/internal/pkg/clock"
	"auction-engine/internal/pkg/errs"
	"auction-engine/internal/usecase/shared"
)

type Outcome string

const (
	OutcomeSold          Outcome = "sold"
	OutcomeUnsold        Outcome = "unsold"
	OutcomeAlreadyClosed Outcome = "already_closed"
	OutcomeFailed        Outcome = "failed"
)

type CloseOutcome struct {
	LotID      uuid.UUID
	Outcome    Outcome
	FinalPrice *decimal.Decimal
	WinnerID   *uuid.UUID
	// Err records a per-lot failure during a sweep; one lot's failure
	// never aborts the batch.
	Err error
}

type CloseCommands interface {
	// CloseLot settles a single LIVE lot exactly once. Racing closers
	// are safe: the loser observes already_closed, not an error.
	CloseLot(ctx context.Context, lotID uuid.UUID) (CloseOutcome, error)
	// CloseExpiredLots settles every LIVE lot whose window ended at or
	// before now, independently per lot.
	CloseExpiredLots(ctx context.Context, now time.Time) ([]CloseOutcome, error)
}

type closeCommandsImpl struct {
	ledger   shared.Ledger
	settings Settings
	clock    clock.Clock
	logger   *slog.Logger
}

func NewCloseCommands(ledger shared.Ledger, settings Settings, clk clock.Clock, logger *slog.Logger) CloseCommands {
	return &closeCommandsImpl{
		ledger:   ledger,
		settings: settings,
		clock:    clk,
		logger:   logger,
	}
}

func (u *closeCommandsImpl) CloseLot(ctx context.Context, lotID uuid.UUID) (CloseOutcome, error) {
	outcome := CloseOutcome{LotID: lotID}

	err := u.ledger.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		snap, err := tx.Lots().FindByID(ctx, lotID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return errs.ErrLotNotFound
			}
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}

		if snap.Status.IsTerminal() {
			outcome.Outcome = OutcomeAlreadyClosed
			return nil
		}
		if snap.Status != lot.StatusLive {
			return errs.ErrLotNotLive
		}

		sold := snap.HighBidderID != nil && snap.CurrentPrice.GreaterThanOrEqual(snap.ReservePrice)
		target := lot.StatusPaused
		if sold {
			target = lot.StatusSold
		}

		swapped, err := tx.Lots().CompareAndSetStatus(ctx, lotID, lot.StatusLive, target)
		if err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		if !swapped {
			// A concurrent closer won the compare-and-swap.
			outcome.Outcome = OutcomeAlreadyClosed
			return nil
		}

		final := snap.CurrentPrice
		statusEvent := events.StatusChanged{
			LotID:      lotID,
			Status:     target.String(),
			FinalPrice: &final,
		}

		if sold {
			o, err := order.NewOrder(lotID, *snap.HighBidderID, snap.CurrentPrice, u.settings.PremiumRate)
			if err != nil {
				return err
			}
			if err := tx.Orders().Create(ctx, o); err != nil {
				return errs.Mark(err, errs.ErrDatabaseOperationFailed)
			}
			outcome.Outcome = OutcomeSold
			outcome.FinalPrice = &final
			outcome.WinnerID = snap.HighBidderID
			statusEvent.WinnerID = snap.HighBidderID
		} else {
			outcome.Outcome = OutcomeUnsold
			outcome.FinalPrice = &final
		}

		env, err := events.NewStatusChanged(statusEvent, u.clock.Now())
		if err != nil {
			return err
		}
		return tx.Outbox().Append(ctx, env)
	})
	if err != nil {
		return CloseOutcome{LotID: lotID, Outcome: OutcomeFailed, Err: err}, err
	}
	return outcome, nil
}

func (u *closeCommandsImpl) CloseExpiredLots(ctx context.Context, now time.Time) ([]CloseOutcome, error) {
	var expired []uuid.UUID
	err := u.ledger.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		var err error
		expired, err = tx.Lots().FindExpiredLive(ctx, now)
		return err
	})
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	if len(expired) == 0 {
		return nil, nil
	}

	// Lots share no state with each other: close them in parallel,
	// serializing within a lot via the status compare-and-swap.
	outcomes := make([]CloseOutcome, len(expired))
	var wg sync.WaitGroup
	for i, id := range expired {
		wg.Add(1)
		go func(i int, id uuid.UUID) {
			defer wg.Done()
			out, err := u.CloseLot(ctx, id)
			if err != nil {
				u.logger.Error("failed to close expired lot", "lot_id", id, "error", err.Error())
			}
			outcomes[i] = out
		}(i, id)
	}
	wg.Wait()

	return outcomes, nil
}
