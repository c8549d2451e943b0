//go:build unit

package commands_test

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"auction-engine/internal/domain/lot"
	"auction-engine/internal/pkg/clock"
	"auction-engine/internal/pkg/errs"
	"auction-engine/internal/usecase/commands"
	"auction-engine/internal/usecase/shared"
)

func newProxyCommands(t *testing.T, ledger shared.Ledger, clk clock.Clock) commands.ProxyBidCommands {
	t.Helper()
	return commands.NewProxyBidCommands(ledger, testSettings(t), clk, slog.Default())
}

func setProxy(t *testing.T, ledger *fakeLedger, clk *clock.MockClock, lotID, bidderID uuid.UUID, max string) {
	t.Helper()
	uc := newProxyCommands(t, ledger, clk)
	require.NoError(t, uc.SetProxyBid(context.Background(), lotID, bidderID, d(max)))
	clk.Add(time.Second)
}

func TestSetProxyBid(t *testing.T) {
	ctx := context.Background()
	clk := clock.NewMockClock(time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC))

	t.Run("accepted during PRE_BID and LIVE", func(t *testing.T) {
		for _, status := range []lot.Status{lot.StatusPreBid, lot.StatusLive} {
			ledger := newFakeLedger()
			snap := liveLot("100")
			snap.Status = status
			ledger.addLot(snap)
			uc := newProxyCommands(t, ledger, clk)

			err := uc.SetProxyBid(ctx, snap.ID, uuid.New(), d("300"))
			assert.NoError(t, err, "status %s", status)
		}
	})

	t.Run("rejected once the lot has settled", func(t *testing.T) {
		for _, status := range []lot.Status{lot.StatusSold, lot.StatusPaused} {
			ledger := newFakeLedger()
			snap := liveLot("100")
			snap.Status = status
			ledger.addLot(snap)
			uc := newProxyCommands(t, ledger, clk)

			err := uc.SetProxyBid(ctx, snap.ID, uuid.New(), d("300"))
			assert.ErrorIs(t, err, errs.ErrLotNotEligible, "status %s", status)
		}
	})

	t.Run("maximum below the minimum next bid is rejected", func(t *testing.T) {
		ledger := newFakeLedger()
		snap := liveLot("100")
		ledger.addLot(snap)
		uc := newProxyCommands(t, ledger, clk)

		err := uc.SetProxyBid(ctx, snap.ID, uuid.New(), d("120"))
		assert.ErrorIs(t, err, errs.ErrProxyBelowMinimum)

		err = uc.SetProxyBid(ctx, snap.ID, uuid.New(), d("125"))
		assert.NoError(t, err)
	})

	t.Run("resubmission replaces the standing maximum", func(t *testing.T) {
		ledger := newFakeLedger()
		snap := liveLot("100")
		ledger.addLot(snap)
		uc := newProxyCommands(t, ledger, clk)
		bidder := uuid.New()

		require.NoError(t, uc.SetProxyBid(ctx, snap.ID, bidder, d("300")))
		require.NoError(t, uc.SetProxyBid(ctx, snap.ID, bidder, d("500")))

		proxies := ledger.proxies[snap.ID]
		require.Len(t, proxies, 1)
		assert.True(t, proxies[0].MaxAmount.Equal(d("500")))
	})
}

func TestResolveProxies(t *testing.T) {
	ctx := context.Background()

	t.Run("standing proxy counters one increment above the direct bid", func(t *testing.T) {
		clk := clock.NewMockClock(time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC))
		ledger := newFakeLedger()
		snap := liveLot("100")
		ledger.addLot(snap)
		holder := uuid.New()
		setProxy(t, ledger, clk, snap.ID, holder, "300")

		uc := newBidCommands(t, ledger)
		direct := uuid.New()
		result, err := uc.PlaceBid(ctx, snap.ID, direct, d("125"))
		require.NoError(t, err)

		// The proxy steps to 150, not to its 300 maximum
		require.Len(t, result.Synthetic, 1)
		counter := result.Synthetic[0]
		assert.Equal(t, holder, counter.BidderID)
		assert.True(t, counter.Amount.Equal(d("150")))
		assert.True(t, counter.IsProxy)

		state := ledger.lotState(snap.ID)
		assert.True(t, state.CurrentPrice.Equal(d("150")))
		assert.Equal(t, holder, *state.HighBidderID)
	})

	t.Run("equal maxima duel ends with the earlier submission on top", func(t *testing.T) {
		clk := clock.NewMockClock(time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC))
		ledger := newFakeLedger()
		snap := liveLot("100")
		ledger.addLot(snap)

		first := uuid.New()
		second := uuid.New()
		setProxy(t, ledger, clk, snap.ID, first, "300")
		setProxy(t, ledger, clk, snap.ID, second, "300")

		uc := newBidCommands(t, ledger)
		result, err := uc.PlaceBid(ctx, snap.ID, uuid.New(), d("125"))
		require.NoError(t, err)

		// The duel ladders in 25 steps until the later holder would need
		// 325, which exceeds its 300 maximum.
		state := ledger.lotState(snap.ID)
		assert.True(t, state.CurrentPrice.Equal(d("300")))
		assert.Equal(t, first, *state.HighBidderID)

		for _, s := range result.Synthetic {
			assert.True(t, s.Amount.LessThanOrEqual(d("300")))
		}
		last := result.Synthetic[len(result.Synthetic)-1]
		assert.Equal(t, first, last.BidderID)
		assert.True(t, last.Amount.Equal(d("300")))
	})

	t.Run("no synthetic bid ever exceeds its holder maximum", func(t *testing.T) {
		clk := clock.NewMockClock(time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC))
		ledger := newFakeLedger()
		snap := liveLot("100")
		ledger.addLot(snap)

		maxima := map[uuid.UUID]string{}
		for _, m := range []string{"180", "260", "340"} {
			holder := uuid.New()
			maxima[holder] = m
			setProxy(t, ledger, clk, snap.ID, holder, m)
		}

		uc := newBidCommands(t, ledger)
		result, err := uc.PlaceBid(ctx, snap.ID, uuid.New(), d("125"))
		require.NoError(t, err)

		for _, s := range result.Synthetic {
			assert.True(t, s.Amount.LessThanOrEqual(d(maxima[s.BidderID])),
				"holder with max %s bid %s", maxima[s.BidderID], s.Amount)
		}
	})

	t.Run("synthetic seeds never trigger another round", func(t *testing.T) {
		clk := clock.NewMockClock(time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC))
		ledger := newFakeLedger()
		snap := liveLot("100")
		ledger.addLot(snap)
		setProxy(t, ledger, clk, snap.ID, uuid.New(), "300")

		uc := newBidCommands(t, ledger)
		placed, err := uc.ResolveProxies(ctx, snap.ID, shared.BidRecord{
			LotID:   snap.ID,
			IsProxy: true,
		})
		require.NoError(t, err)
		assert.Empty(t, placed)
		assert.Equal(t, 0, ledger.bidCount())
	})

	t.Run("re-running resolution after settling places nothing", func(t *testing.T) {
		clk := clock.NewMockClock(time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC))
		ledger := newFakeLedger()
		snap := liveLot("100")
		ledger.addLot(snap)
		setProxy(t, ledger, clk, snap.ID, uuid.New(), "300")

		uc := newBidCommands(t, ledger)
		result, err := uc.PlaceBid(ctx, snap.ID, uuid.New(), d("125"))
		require.NoError(t, err)
		committed := ledger.bidCount()

		seed := shared.BidRecord{
			ID:       result.BidID,
			LotID:    snap.ID,
			BidderID: uuid.New(),
			Amount:   d("125"),
		}
		placed, err := uc.ResolveProxies(ctx, snap.ID, seed)
		require.NoError(t, err)
		assert.Empty(t, placed)
		assert.Equal(t, committed, ledger.bidCount())
	})

	t.Run("resolution stops when the lot leaves LIVE", func(t *testing.T) {
		clk := clock.NewMockClock(time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC))
		ledger := newFakeLedger()
		snap := liveLot("100")
		snap.Status = lot.StatusSold
		ledger.addLot(snap)
		setProxy(t, ledger, clk, snap.ID, uuid.New(), "300")

		uc := newBidCommands(t, ledger)
		placed, err := uc.ResolveProxies(ctx, snap.ID, shared.BidRecord{LotID: snap.ID})
		require.NoError(t, err)
		assert.Empty(t, placed)
	})
}
