package commands

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"auction-engine/internal/domain/bid"
	"auction-engine/internal/domain/lot"
	"auction-engine/internal/infra"
	"auction-engine/internal/pkg/clock"
	"auction-engine/internal/pkg/errs"
	"auction-engine/internal/usecase/shared"
)

type ProxyBidCommands interface {
	// SetProxyBid creates or replaces the (lot, bidder) standing maximum.
	// A replacement is a new submission: it loses first-mover tie
	// precedence against older proxies with the same maximum.
	SetProxyBid(ctx context.Context, lotID, bidderID uuid.UUID, maxAmount decimal.Decimal) error
}

type proxyBidCommandsImpl struct {
	ledger   shared.Ledger
	settings Settings
	clock    clock.Clock
	logger   *slog.Logger
}

func NewProxyBidCommands(ledger shared.Ledger, settings Settings, clk clock.Clock, logger *slog.Logger) ProxyBidCommands {
	return &proxyBidCommandsImpl{
		ledger:   ledger,
		settings: settings,
		clock:    clk,
		logger:   logger,
	}
}

func (u *proxyBidCommandsImpl) SetProxyBid(ctx context.Context, lotID, bidderID uuid.UUID, maxAmount decimal.Decimal) error {
	if bidderID == uuid.Nil {
		return errs.ErrUnauthorized
	}

	return u.ledger.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		snap, err := tx.Lots().FindByID(ctx, lotID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return errs.ErrLotNotFound
			}
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}

		// Accepted during PRE_BID and LIVE, never once the lot settled.
		if snap.Status != lot.StatusPreBid && snap.Status != lot.StatusLive {
			return errs.ErrLotNotEligible
		}

		// The maximum must itself satisfy the increment rule against the
		// price at submission time.
		if maxAmount.LessThan(u.settings.Increments.MinimumNext(snap.CurrentPrice)) {
			return errs.ErrProxyBelowMinimum
		}

		p, err := bid.NewProxyBid(lotID, bidderID, maxAmount, u.clock.Now())
		if err != nil {
			return err
		}
		if err := tx.ProxyBids().Upsert(ctx, p); err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		return nil
	})
}
