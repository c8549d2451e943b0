package commands

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"auction-engine/internal/domain/bid"
	"auction-engine/internal/domain/lot"
	"auction-engine/internal/events"
	"auction-engine/internal/infra"
	"auction-engine/internal/pkg/clock"
	"auction-engine/internal/pkg/errs"
	"auction-engine/internal/usecase/shared"
)

// errPriceMoved signals that the compare-and-swap on current_price lost
// to a concurrent bid; the submission is retried from the top against
// the fresh price rather than failed.
var errPriceMoved = errs.New("current price moved")

type PlaceBidResult struct {
	BidID    uuid.UUID
	NewPrice decimal.Decimal
	// Synthetic holds the proxy counter-bids committed as a consequence
	// of this bid, in commit order.
	Synthetic []shared.BidRecord
}

type BidCommands interface {
	// PlaceBid validates and commits a single direct bid, then runs
	// proxy resolution seeded by it.
	PlaceBid(ctx context.Context, lotID, bidderID uuid.UUID, amount decimal.Decimal) (*PlaceBidResult, error)
	// ResolveProxies auto-counters against standing proxy bids until no
	// proxy can profitably counter. It is idempotent per seed bid and
	// must only ever be seeded by a directly-placed bid.
	ResolveProxies(ctx context.Context, lotID uuid.UUID, seed shared.BidRecord) ([]shared.BidRecord, error)
}

type bidCommandsImpl struct {
	ledger   shared.Ledger
	settings Settings
	clock    clock.Clock
	logger   *slog.Logger
}

func NewBidCommands(ledger shared.Ledger, settings Settings, clk clock.Clock, logger *slog.Logger) BidCommands {
	return &bidCommandsImpl{
		ledger:   ledger,
		settings: settings,
		clock:    clk,
		logger:   logger,
	}
}

func (u *bidCommandsImpl) PlaceBid(ctx context.Context, lotID, bidderID uuid.UUID, amount decimal.Decimal) (*PlaceBidResult, error) {
	if bidderID == uuid.Nil {
		return nil, errs.ErrUnauthorized
	}
	if !amount.IsPositive() {
		return nil, errs.ErrBidTooLow
	}

	rec, err := u.commitWithRetry(ctx, lotID, bidderID, amount, false)
	if err != nil {
		return nil, err
	}

	// Resolution failures never undo the committed bid: the ledger is
	// authoritative and a later direct bid re-seeds resolution.
	synthetic, err := u.ResolveProxies(ctx, lotID, *rec)
	if err != nil {
		u.logger.Warn("proxy resolution failed after committed bid",
			"lot_id", lotID, "bid_id", rec.ID, "error", err.Error())
	}

	return &PlaceBidResult{
		BidID:     rec.ID,
		NewPrice:  rec.Amount,
		Synthetic: synthetic,
	}, nil
}

func (u *bidCommandsImpl) ResolveProxies(ctx context.Context, lotID uuid.UUID, seed shared.BidRecord) ([]shared.BidRecord, error) {
	// Synthetic bids never seed another resolution round (prevents
	// feedback loops); resolution is re-seeded only by direct bids.
	if seed.IsProxy {
		return nil, nil
	}

	var placed []shared.BidRecord
	exhausted := map[uuid.UUID]bool{}

	for {
		snap, proxies, err := u.readLotAndProxies(ctx, lotID)
		if err != nil {
			return placed, err
		}
		if snap.Status != lot.StatusLive {
			return placed, nil
		}

		// proxies arrive ordered by max desc, submitted asc, so the
		// first eligible entry is the tie-break winner. The current
		// high bidder never counters itself.
		cand := nextCandidate(proxies, snap.HighBidderID, exhausted)
		if cand == nil {
			return placed, nil
		}

		next := u.settings.Increments.MinimumNext(snap.CurrentPrice)
		if next.GreaterThan(cand.MaxAmount) {
			// Permanently out of the running: its maximum can never
			// cover a valid next amount at this or any higher price.
			exhausted[cand.BidderID] = true
			continue
		}

		rec, err := u.commitWithRetry(ctx, lotID, cand.BidderID, next, true)
		switch {
		case errors.Is(err, errs.ErrBidTooLow):
			// A concurrent bid raised the price between the read and
			// the commit; recompute against the fresh state.
			continue
		case errors.Is(err, errs.ErrLotNotLive):
			return placed, nil
		case err != nil:
			return placed, err
		}

		placed = append(placed, *rec)
	}
}

// commitWithRetry is the single atomic commit path shared by direct and
// synthetic bids: re-read, re-validate, compare-and-swap, append.
func (u *bidCommandsImpl) commitWithRetry(ctx context.Context, lotID, bidderID uuid.UUID, amount decimal.Decimal, isProxy bool) (*shared.BidRecord, error) {
	base := 50 * time.Millisecond

	for attempt := 0; attempt <= u.settings.MaxBidRetries; attempt++ {
		rec, err := u.tryCommit(ctx, lotID, bidderID, amount, isProxy)
		if err == nil {
			return rec, nil
		}
		if !errors.Is(err, errPriceMoved) {
			return nil, err
		}
		if attempt == u.settings.MaxBidRetries {
			break
		}

		waitTime := time.Duration(attempt+1) * base
		u.logger.Debug("retrying bid after price conflict",
			"lot_id", lotID, "attempt", attempt+1, "wait_ms", waitTime.Milliseconds())

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(waitTime):
		}
	}

	return nil, errs.ErrTransientConflict
}

func (u *bidCommandsImpl) tryCommit(ctx context.Context, lotID, bidderID uuid.UUID, amount decimal.Decimal, isProxy bool) (*shared.BidRecord, error) {
	var rec *shared.BidRecord

	err := u.ledger.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		snap, err := tx.Lots().FindByID(ctx, lotID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return errs.ErrLotNotFound
			}
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		if snap.Status != lot.StatusLive {
			return errs.ErrLotNotLive
		}

		minimum := u.settings.Increments.MinimumNext(snap.CurrentPrice)
		if amount.LessThan(minimum) {
			return errs.ErrBidTooLow
		}

		swapped, err := tx.Lots().CompareAndSetPrice(ctx, lotID, snap.CurrentPrice, amount, bidderID)
		if err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		if !swapped {
			return errPriceMoved
		}

		var b *bid.Bid
		if isProxy {
			b, err = bid.NewSyntheticBid(lotID, bidderID, amount)
		} else {
			b, err = bid.NewBid(lotID, bidderID, amount)
		}
		if err != nil {
			return err
		}

		rec, err = tx.Bids().Insert(ctx, b)
		if err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}

		env, err := events.NewBidPlaced(events.BidPlaced{
			BidID:    rec.ID,
			LotID:    lotID,
			BidderID: bidderID,
			Amount:   amount,
			IsProxy:  isProxy,
			Seq:      rec.Seq,
		}, u.clock.Now())
		if err != nil {
			return err
		}
		return tx.Outbox().Append(ctx, env)
	})
	if err != nil {
		return nil, err
	}
	return rec, nil
}

func (u *bidCommandsImpl) readLotAndProxies(ctx context.Context, lotID uuid.UUID) (*shared.LotSnapshot, []shared.ProxyBidSnapshot, error) {
	var (
		snap    *shared.LotSnapshot
		proxies []shared.ProxyBidSnapshot
	)
	err := u.ledger.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		var err error
		snap, err = tx.Lots().FindByID(ctx, lotID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return errs.ErrLotNotFound
			}
			return err
		}
		proxies, err = tx.ProxyBids().ActiveForLot(ctx, lotID)
		return err
	})
	if err != nil {
		return nil, nil, err
	}
	return snap, proxies, nil
}

func nextCandidate(proxies []shared.ProxyBidSnapshot, highBidderID *uuid.UUID, exhausted map[uuid.UUID]bool) *shared.ProxyBidSnapshot {
	for i := range proxies {
		p := proxies[i]
		if exhausted[p.BidderID] {
			continue
		}
		if highBidderID != nil && p.BidderID == *highBidderID {
			continue
		}
		return &p
	}
	return nil
}
