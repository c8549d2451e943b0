package queries

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LotView is the "current state" snapshot a stream consumer restarts
// from: current price and status plus the seq high-water mark, so
// forward events can be applied without replaying history.
type LotView struct {
	ID            uuid.UUID
	Title         string
	StartingPrice decimal.Decimal
	ReservePrice  decimal.Decimal
	CurrentPrice  decimal.Decimal
	HighBidderID  *uuid.UUID
	Status        string
	LiveEndAt     *time.Time
	LastBidSeq    int64
	BidCount      int64
	ReserveMet    bool
}

type BidView struct {
	ID        uuid.UUID
	LotID     uuid.UUID
	BidderID  uuid.UUID
	Amount    decimal.Decimal
	IsProxy   bool
	Seq       int64
	CreatedAt time.Time
}

type LotReadStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*LotView, error)
	// BidHistory returns the lot's bids in canonical (seq) order.
	BidHistory(ctx context.Context, lotID uuid.UUID, limit int32) ([]*BidView, error)
}

type LotQueries interface {
	GetLot(ctx context.Context, id uuid.UUID) (*LotView, error)
	GetBidHistory(ctx context.Context, lotID uuid.UUID, limit int32) ([]*BidView, error)
}

type lotQueriesImpl struct {
	store LotReadStore
}

func NewLotQueries(store LotReadStore) LotQueries {
	return &lotQueriesImpl{store: store}
}

func (q *lotQueriesImpl) GetLot(ctx context.Context, id uuid.UUID) (*LotView, error) {
	return q.store.FindByID(ctx, id)
}

func (q *lotQueriesImpl) GetBidHistory(ctx context.Context, lotID uuid.UUID, limit int32) ([]*BidView, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	return q.store.BidHistory(ctx, lotID, limit)
}
