//go:build unit

package commands_test

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"auction-engine/internal/domain/bid"
	"auction-engine/internal/domain/lot"
	"auction-engine/internal/domain/order"
	"auction-engine/internal/events"
	"auction-engine/internal/infra"
	"auction-engine/internal/usecase/shared"
)

// fakeLedger is a stateful in-memory stand-in for the transactional
// store. It serializes transactions with a mutex and honors the same
// compare-and-swap contracts as the SQL repositories, so the command
// layer exercises its real conflict paths. failPriceCAS/failStatusCAS
// make the next N swaps report a lost race.
type fakeLedger struct {
	mu sync.Mutex

	lots    map[uuid.UUID]*shared.LotSnapshot
	bids    []shared.BidRecord
	proxies map[uuid.UUID][]shared.ProxyBidSnapshot
	orders  map[uuid.UUID]*order.Order
	outbox  []events.Envelope
	seq     int64

	failPriceCAS  int
	failStatusCAS int
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{
		lots:    map[uuid.UUID]*shared.LotSnapshot{},
		proxies: map[uuid.UUID][]shared.ProxyBidSnapshot{},
		orders:  map[uuid.UUID]*order.Order{},
	}
}

func (l *fakeLedger) addLot(snap shared.LotSnapshot) {
	l.mu.Lock()
	defer l.mu.Unlock()
	copied := snap
	l.lots[snap.ID] = &copied
}

func (l *fakeLedger) lotState(id uuid.UUID) shared.LotSnapshot {
	l.mu.Lock()
	defer l.mu.Unlock()
	return *l.lots[id]
}

func (l *fakeLedger) bidCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.bids)
}

func (l *fakeLedger) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return fn(ctx, &fakeTx{l: l})
}

type fakeTx struct {
	l *fakeLedger
}

func (t *fakeTx) Lots() shared.LotRepository           { return &fakeLotRepo{l: t.l} }
func (t *fakeTx) Bids() shared.BidRepository           { return &fakeBidRepo{l: t.l} }
func (t *fakeTx) ProxyBids() shared.ProxyBidRepository { return &fakeProxyRepo{l: t.l} }
func (t *fakeTx) Orders() shared.OrderRepository       { return &fakeOrderRepo{l: t.l} }
func (t *fakeTx) Outbox() shared.OutboxRepository      { return &fakeOutboxRepo{l: t.l} }

type fakeLotRepo struct {
	l *fakeLedger
}

func (r *fakeLotRepo) FindByID(_ context.Context, id uuid.UUID) (*shared.LotSnapshot, error) {
	snap, ok := r.l.lots[id]
	if !ok {
		return nil, infra.WrapRepoErr("lot not found", errors.New("no rows"), infra.KindNotFound)
	}
	copied := *snap
	return &copied, nil
}

func (r *fakeLotRepo) FindExpiredLive(_ context.Context, now time.Time) ([]uuid.UUID, error) {
	var out []uuid.UUID
	for id, snap := range r.l.lots {
		if snap.Status == lot.StatusLive && snap.LiveEndAt != nil && !now.Before(*snap.LiveEndAt) {
			out = append(out, id)
		}
	}
	return out, nil
}

func (r *fakeLotRepo) CompareAndSetPrice(_ context.Context, lotID uuid.UUID, expected, newPrice decimal.Decimal, bidderID uuid.UUID) (bool, error) {
	if r.l.failPriceCAS > 0 {
		r.l.failPriceCAS--
		return false, nil
	}
	snap, ok := r.l.lots[lotID]
	if !ok || snap.Status != lot.StatusLive || !snap.CurrentPrice.Equal(expected) {
		return false, nil
	}
	snap.CurrentPrice = newPrice
	id := bidderID
	snap.HighBidderID = &id
	return true, nil
}

func (r *fakeLotRepo) CompareAndSetStatus(_ context.Context, lotID uuid.UUID, from, to lot.Status) (bool, error) {
	if r.l.failStatusCAS > 0 {
		r.l.failStatusCAS--
		return false, nil
	}
	snap, ok := r.l.lots[lotID]
	if !ok || snap.Status != from {
		return false, nil
	}
	snap.Status = to
	return true, nil
}

func (r *fakeLotRepo) OpenForBidding(_ context.Context, lotID uuid.UUID, liveEndAt time.Time) (bool, error) {
	snap, ok := r.l.lots[lotID]
	if !ok || snap.Status != lot.StatusPreBid {
		return false, nil
	}
	snap.Status = lot.StatusLive
	end := liveEndAt
	snap.LiveEndAt = &end
	return true, nil
}

type fakeBidRepo struct {
	l *fakeLedger
}

func (r *fakeBidRepo) Insert(_ context.Context, b *bid.Bid) (*shared.BidRecord, error) {
	r.l.seq++
	rec := shared.BidRecord{
		ID:        b.ID(),
		LotID:     b.LotID(),
		BidderID:  b.BidderID(),
		Amount:    b.Amount(),
		IsProxy:   b.IsProxy(),
		Seq:       r.l.seq,
		CreatedAt: time.Now(),
	}
	r.l.bids = append(r.l.bids, rec)
	return &rec, nil
}

type fakeProxyRepo struct {
	l *fakeLedger
}

func (r *fakeProxyRepo) Upsert(_ context.Context, p *bid.ProxyBid) error {
	existing := r.l.proxies[p.LotID()]
	filtered := existing[:0]
	for _, snap := range existing {
		if snap.BidderID != p.BidderID() {
			filtered = append(filtered, snap)
		}
	}
	filtered = append(filtered, shared.ProxyBidSnapshot{
		LotID:       p.LotID(),
		BidderID:    p.BidderID(),
		MaxAmount:   p.MaxAmount(),
		SubmittedAt: p.SubmittedAt(),
	})
	r.l.proxies[p.LotID()] = filtered
	return nil
}

func (r *fakeProxyRepo) ActiveForLot(_ context.Context, lotID uuid.UUID) ([]shared.ProxyBidSnapshot, error) {
	out := make([]shared.ProxyBidSnapshot, len(r.l.proxies[lotID]))
	copy(out, r.l.proxies[lotID])
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].MaxAmount.Equal(out[j].MaxAmount) {
			return out[i].MaxAmount.GreaterThan(out[j].MaxAmount)
		}
		return out[i].SubmittedAt.Before(out[j].SubmittedAt)
	})
	return out, nil
}

type fakeOrderRepo struct {
	l *fakeLedger
}

func (r *fakeOrderRepo) Create(_ context.Context, o *order.Order) error {
	if _, exists := r.l.orders[o.LotID()]; exists {
		return infra.WrapRepoErr("order already exists", errors.New("duplicate key"), infra.KindDuplicateKey)
	}
	r.l.orders[o.LotID()] = o
	return nil
}

type fakeOutboxRepo struct {
	l *fakeLedger
}

func (r *fakeOutboxRepo) Append(_ context.Context, env events.Envelope) error {
	r.l.outbox = append(r.l.outbox, env)
	return nil
}
