//go:build unit

package commands_test

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"auction-engine/internal/domain/bid"
	"auction-engine/internal/domain/lot"
	"auction-engine/internal/events"
	"auction-engine/internal/pkg/clock"
	"auction-engine/internal/pkg/errs"
	"auction-engine/internal/usecase/commands"
	"auction-engine/internal/usecase/shared"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func testSettings(t *testing.T) commands.Settings {
	t.Helper()
	policy, err := bid.NewIncrementPolicy(
		[]decimal.Decimal{d("500"), d("2000")},
		[]decimal.Decimal{d("25"), d("100"), d("250")},
	)
	require.NoError(t, err)
	return commands.Settings{
		Increments:    policy,
		PremiumRate:   d("0.20"),
		MaxBidRetries: 3,
	}
}

func liveLot(currentPrice string) shared.LotSnapshot {
	end := time.Now().Add(time.Hour)
	return shared.LotSnapshot{
		ID:            uuid.New(),
		Title:         "Victorian writing desk",
		StartingPrice: d("100"),
		ReservePrice:  d("200"),
		CurrentPrice:  d(currentPrice),
		Status:        lot.StatusLive,
		LiveEndAt:     &end,
	}
}

func newBidCommands(t *testing.T, ledger shared.Ledger) commands.BidCommands {
	t.Helper()
	return commands.NewBidCommands(ledger, testSettings(t), clock.NewRealClock(), slog.Default())
}

func TestPlaceBid(t *testing.T) {
	ctx := context.Background()

	t.Run("first bid must clear starting price plus increment", func(t *testing.T) {
		ledger := newFakeLedger()
		snap := liveLot("100")
		ledger.addLot(snap)
		uc := newBidCommands(t, ledger)
		bidder := uuid.New()

		_, err := uc.PlaceBid(ctx, snap.ID, bidder, d("120"))
		require.ErrorIs(t, err, errs.ErrBidTooLow)
		assert.Equal(t, 0, ledger.bidCount())

		result, err := uc.PlaceBid(ctx, snap.ID, bidder, d("125"))
		require.NoError(t, err)
		assert.True(t, result.NewPrice.Equal(d("125")))
		assert.Empty(t, result.Synthetic)

		state := ledger.lotState(snap.ID)
		assert.True(t, state.CurrentPrice.Equal(d("125")))
		require.NotNil(t, state.HighBidderID)
		assert.Equal(t, bidder, *state.HighBidderID)
	})

	t.Run("rejects bids on lots that are not live", func(t *testing.T) {
		for _, status := range []lot.Status{lot.StatusPreBid, lot.StatusSold, lot.StatusPaused} {
			ledger := newFakeLedger()
			snap := liveLot("100")
			snap.Status = status
			ledger.addLot(snap)
			uc := newBidCommands(t, ledger)

			_, err := uc.PlaceBid(ctx, snap.ID, uuid.New(), d("125"))
			assert.ErrorIs(t, err, errs.ErrLotNotLive, "status %s", status)
			assert.Equal(t, 0, ledger.bidCount())
		}
	})

	t.Run("unknown lot", func(t *testing.T) {
		ledger := newFakeLedger()
		uc := newBidCommands(t, ledger)

		_, err := uc.PlaceBid(ctx, uuid.New(), uuid.New(), d("125"))
		assert.ErrorIs(t, err, errs.ErrLotNotFound)
	})

	t.Run("rejects nil bidder and non-positive amounts", func(t *testing.T) {
		ledger := newFakeLedger()
		snap := liveLot("100")
		ledger.addLot(snap)
		uc := newBidCommands(t, ledger)

		_, err := uc.PlaceBid(ctx, snap.ID, uuid.Nil, d("125"))
		assert.ErrorIs(t, err, errs.ErrUnauthorized)

		_, err = uc.PlaceBid(ctx, snap.ID, uuid.New(), d("0"))
		assert.ErrorIs(t, err, errs.ErrBidTooLow)

		_, err = uc.PlaceBid(ctx, snap.ID, uuid.New(), d("-50"))
		assert.ErrorIs(t, err, errs.ErrBidTooLow)
	})

	t.Run("price never decreases across accepted bids", func(t *testing.T) {
		ledger := newFakeLedger()
		snap := liveLot("100")
		ledger.addLot(snap)
		uc := newBidCommands(t, ledger)

		_, err := uc.PlaceBid(ctx, snap.ID, uuid.New(), d("150"))
		require.NoError(t, err)
		_, err = uc.PlaceBid(ctx, snap.ID, uuid.New(), d("300"))
		require.NoError(t, err)

		_, err = uc.PlaceBid(ctx, snap.ID, uuid.New(), d("200"))
		require.ErrorIs(t, err, errs.ErrBidTooLow)

		state := ledger.lotState(snap.ID)
		assert.True(t, state.CurrentPrice.Equal(d("300")))
	})

	t.Run("increment tier applies at the current price", func(t *testing.T) {
		ledger := newFakeLedger()
		snap := liveLot("600")
		ledger.addLot(snap)
		uc := newBidCommands(t, ledger)

		// In the 500-2000 tier the step is 100
		_, err := uc.PlaceBid(ctx, snap.ID, uuid.New(), d("650"))
		require.ErrorIs(t, err, errs.ErrBidTooLow)

		_, err = uc.PlaceBid(ctx, snap.ID, uuid.New(), d("700"))
		require.NoError(t, err)
	})

	t.Run("retries after losing the price swap, then succeeds", func(t *testing.T) {
		ledger := newFakeLedger()
		snap := liveLot("100")
		ledger.addLot(snap)
		ledger.failPriceCAS = 2
		uc := newBidCommands(t, ledger)

		result, err := uc.PlaceBid(ctx, snap.ID, uuid.New(), d("125"))
		require.NoError(t, err)
		assert.True(t, result.NewPrice.Equal(d("125")))
		assert.Equal(t, 1, ledger.bidCount())
	})

	t.Run("returns transient conflict once retries are exhausted", func(t *testing.T) {
		ledger := newFakeLedger()
		snap := liveLot("100")
		ledger.addLot(snap)
		ledger.failPriceCAS = 10
		uc := newBidCommands(t, ledger)

		_, err := uc.PlaceBid(ctx, snap.ID, uuid.New(), d("125"))
		require.ErrorIs(t, err, errs.ErrTransientConflict)
		assert.Equal(t, 0, ledger.bidCount())
	})

	t.Run("every committed bid lands in the outbox in order", func(t *testing.T) {
		ledger := newFakeLedger()
		snap := liveLot("100")
		ledger.addLot(snap)
		uc := newBidCommands(t, ledger)

		_, err := uc.PlaceBid(ctx, snap.ID, uuid.New(), d("125"))
		require.NoError(t, err)
		_, err = uc.PlaceBid(ctx, snap.ID, uuid.New(), d("150"))
		require.NoError(t, err)

		require.Len(t, ledger.outbox, 2)
		for i, env := range ledger.outbox {
			assert.Equal(t, events.TypeBid, env.EventType)
			assert.Equal(t, snap.ID, env.LotID)
			assert.Equal(t, int64(i+1), env.Seq)
		}
	})
}
