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
	"auction-engine/internal/events"
	"auction-engine/internal/pkg/clock"
	"auction-engine/internal/pkg/errs"
	"auction-engine/internal/usecase/commands"
)

func newCloseCommands(t *testing.T, ledger *fakeLedger) commands.CloseCommands {
	t.Helper()
	return commands.NewCloseCommands(ledger, testSettings(t), clock.NewRealClock(), slog.Default())
}

func TestCloseLot(t *testing.T) {
	ctx := context.Background()

	t.Run("reserve met with a high bidder settles sold", func(t *testing.T) {
		ledger := newFakeLedger()
		snap := liveLot("300")
		winner := uuid.New()
		snap.HighBidderID = &winner
		ledger.addLot(snap)
		uc := newCloseCommands(t, ledger)

		outcome, err := uc.CloseLot(ctx, snap.ID)
		require.NoError(t, err)
		assert.Equal(t, commands.OutcomeSold, outcome.Outcome)
		require.NotNil(t, outcome.FinalPrice)
		assert.True(t, outcome.FinalPrice.Equal(d("300")))
		require.NotNil(t, outcome.WinnerID)
		assert.Equal(t, winner, *outcome.WinnerID)

		assert.Equal(t, lot.StatusSold, ledger.lotState(snap.ID).Status)

		o := ledger.orders[snap.ID]
		require.NotNil(t, o)
		assert.Equal(t, winner, o.WinnerID())
		assert.True(t, o.HammerAmount().Equal(d("300")))
		assert.True(t, o.PremiumAmount().Equal(d("60")))
		assert.True(t, o.TotalDue().Equal(d("360")))
		assert.True(t, o.HammerAmount().Add(o.PremiumAmount()).Equal(o.TotalDue()))

		require.Len(t, ledger.outbox, 1)
		assert.Equal(t, events.TypeStatus, ledger.outbox[0].EventType)
	})

	t.Run("no bids settles unsold with no order", func(t *testing.T) {
		ledger := newFakeLedger()
		snap := liveLot("100")
		ledger.addLot(snap)
		uc := newCloseCommands(t, ledger)

		outcome, err := uc.CloseLot(ctx, snap.ID)
		require.NoError(t, err)
		assert.Equal(t, commands.OutcomeUnsold, outcome.Outcome)
		assert.Nil(t, outcome.WinnerID)

		assert.Equal(t, lot.StatusPaused, ledger.lotState(snap.ID).Status)
		assert.Empty(t, ledger.orders)
	})

	t.Run("reserve not met settles unsold despite a high bidder", func(t *testing.T) {
		ledger := newFakeLedger()
		snap := liveLot("150")
		bidder := uuid.New()
		snap.HighBidderID = &bidder
		ledger.addLot(snap)
		uc := newCloseCommands(t, ledger)

		outcome, err := uc.CloseLot(ctx, snap.ID)
		require.NoError(t, err)
		assert.Equal(t, commands.OutcomeUnsold, outcome.Outcome)
		assert.Equal(t, lot.StatusPaused, ledger.lotState(snap.ID).Status)
		assert.Empty(t, ledger.orders)
	})

	t.Run("closing twice reports already_closed and keeps one order", func(t *testing.T) {
		ledger := newFakeLedger()
		snap := liveLot("300")
		winner := uuid.New()
		snap.HighBidderID = &winner
		ledger.addLot(snap)
		uc := newCloseCommands(t, ledger)

		first, err := uc.CloseLot(ctx, snap.ID)
		require.NoError(t, err)
		require.Equal(t, commands.OutcomeSold, first.Outcome)

		second, err := uc.CloseLot(ctx, snap.ID)
		require.NoError(t, err)
		assert.Equal(t, commands.OutcomeAlreadyClosed, second.Outcome)

		assert.Len(t, ledger.orders, 1)
		assert.Len(t, ledger.outbox, 1)
	})

	t.Run("losing the status swap reports already_closed", func(t *testing.T) {
		ledger := newFakeLedger()
		snap := liveLot("300")
		winner := uuid.New()
		snap.HighBidderID = &winner
		ledger.addLot(snap)
		ledger.failStatusCAS = 1
		uc := newCloseCommands(t, ledger)

		outcome, err := uc.CloseLot(ctx, snap.ID)
		require.NoError(t, err)
		assert.Equal(t, commands.OutcomeAlreadyClosed, outcome.Outcome)
		assert.Empty(t, ledger.orders)
	})

	t.Run("unknown lot", func(t *testing.T) {
		ledger := newFakeLedger()
		uc := newCloseCommands(t, ledger)

		outcome, err := uc.CloseLot(ctx, uuid.New())
		require.ErrorIs(t, err, errs.ErrLotNotFound)
		assert.Equal(t, commands.OutcomeFailed, outcome.Outcome)
	})
}

func TestCloseExpiredLots(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

	t.Run("settles every expired lot independently", func(t *testing.T) {
		ledger := newFakeLedger()

		soldSnap := liveLot("300")
		winner := uuid.New()
		soldSnap.HighBidderID = &winner
		past := now.Add(-time.Minute)
		soldSnap.LiveEndAt = &past
		ledger.addLot(soldSnap)

		unsoldSnap := liveLot("100")
		unsoldSnap.LiveEndAt = &past
		ledger.addLot(unsoldSnap)

		stillLive := liveLot("100")
		future := now.Add(time.Hour)
		stillLive.LiveEndAt = &future
		ledger.addLot(stillLive)

		uc := newCloseCommands(t, ledger)
		outcomes, err := uc.CloseExpiredLots(ctx, now)
		require.NoError(t, err)
		require.Len(t, outcomes, 2)

		byLot := map[uuid.UUID]commands.CloseOutcome{}
		for _, o := range outcomes {
			byLot[o.LotID] = o
		}
		assert.Equal(t, commands.OutcomeSold, byLot[soldSnap.ID].Outcome)
		assert.Equal(t, commands.OutcomeUnsold, byLot[unsoldSnap.ID].Outcome)

		assert.Equal(t, lot.StatusLive, ledger.lotState(stillLive.ID).Status)
	})

	t.Run("nothing expired is a quiet no-op", func(t *testing.T) {
		ledger := newFakeLedger()
		snap := liveLot("100")
		future := now.Add(time.Hour)
		snap.LiveEndAt = &future
		ledger.addLot(snap)

		uc := newCloseCommands(t, ledger)
		outcomes, err := uc.CloseExpiredLots(ctx, now)
		require.NoError(t, err)
		assert.Empty(t, outcomes)
	})

	t.Run("a sweep is idempotent across passes", func(t *testing.T) {
		ledger := newFakeLedger()
		snap := liveLot("100")
		past := now.Add(-time.Minute)
		snap.LiveEndAt = &past
		ledger.addLot(snap)

		uc := newCloseCommands(t, ledger)
		first, err := uc.CloseExpiredLots(ctx, now)
		require.NoError(t, err)
		require.Len(t, first, 1)

		second, err := uc.CloseExpiredLots(ctx, now)
		require.NoError(t, err)
		assert.Empty(t, second)
	})
}
