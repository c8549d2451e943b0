package shared

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"auction-engine/internal/domain/bid"
	"auction-engine/internal/domain/lot"
	"auction-engine/internal/domain/order"
	"auction-engine/internal/events"
)

// Ledger is the unit of work over the auction ledger. Within runs fn in
// one transaction, retrying bounded times on serialization failures and
// deadlocks; the transaction boundary is the recovery unit.
type Ledger interface {
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
}

type Tx interface {
	Lots() LotRepository
	Bids() BidRepository
	ProxyBids() ProxyBidRepository
	Orders() OrderRepository
	Outbox() OutboxRepository
}

type LotRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*LotSnapshot, error)
	// FindExpiredLive returns ids of LIVE lots whose window ended at or
	// before now.
	FindExpiredLive(ctx context.Context, now time.Time) ([]uuid.UUID, error)
	// CompareAndSetPrice raises current_price to newPrice only if it
	// still equals expected and the lot is LIVE. Returns false when the
	// row was not updated (a concurrent bid won the race).
	CompareAndSetPrice(ctx context.Context, lotID uuid.UUID, expected, newPrice decimal.Decimal, bidderID uuid.UUID) (bool, error)
	// CompareAndSetStatus transitions status only if it still equals
	// from. Returns false when another closer already won.
	CompareAndSetStatus(ctx context.Context, lotID uuid.UUID, from, to lot.Status) (bool, error)
	// OpenForBidding transitions PRE_BID -> LIVE and fixes the live
	// window end, with the same compare-and-swap discipline.
	OpenForBidding(ctx context.Context, lotID uuid.UUID, liveEndAt time.Time) (bool, error)
}

type BidRepository interface {
	// Insert appends the bid and returns the committed record including
	// the store-assigned seq.
	Insert(ctx context.Context, b *bid.Bid) (*BidRecord, error)
}

type ProxyBidRepository interface {
	// Upsert replaces any prior authorization for (lot, bidder). The
	// replacement's submitted_at is refreshed.
	Upsert(ctx context.Context, p *bid.ProxyBid) error
	// ActiveForLot returns the lot's standing proxy bids ordered by
	// max_amount descending, then submitted_at ascending (first-mover
	// tie precedence).
	ActiveForLot(ctx context.Context, lotID uuid.UUID) ([]ProxyBidSnapshot, error)
}

type OrderRepository interface {
	Create(ctx context.Context, o *order.Order) error
}

type OutboxRepository interface {
	Append(ctx context.Context, env events.Envelope) error
}
