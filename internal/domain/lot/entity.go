package lot

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrNegativePrice      = errors.New("price cannot be negative")
	ErrPriceDecrease      = errors.New("current price cannot decrease")
	ErrInvalidTransition  = errors.New("invalid status transition")
	ErrMissingLiveWindow  = errors.New("live window end is required to open a lot")
	ErrEmptyTitle         = errors.New("lot title cannot be empty")
	ErrReserveBelowStart  = errors.New("reserve price cannot be negative")
	ErrStartBelowZero     = errors.New("starting price cannot be negative")
	ErrAlreadyTerminal    = errors.New("lot is already closed")
)

// Lot is the auctionable item aggregate. Current price is non-decreasing
// and never below the starting price; the live window end is meaningful
// only while LIVE.
type Lot struct {
	id            uuid.UUID
	title         string
	startingPrice decimal.Decimal
	reservePrice  decimal.Decimal
	currentPrice  decimal.Decimal
	highBidderID  *uuid.UUID
	status        Status
	liveEndAt     *time.Time
	createdAt     time.Time
	updatedAt     time.Time
}

func NewLot(title string, startingPrice, reservePrice decimal.Decimal) (*Lot, error) {
	if title == "" {
		return nil, ErrEmptyTitle
	}
	if startingPrice.IsNegative() {
		return nil, ErrStartBelowZero
	}
	if reservePrice.IsNegative() {
		return nil, ErrReserveBelowStart
	}

	return &Lot{
		id:            uuid.New(),
		title:         title,
		startingPrice: startingPrice,
		reservePrice:  reservePrice,
		currentPrice:  startingPrice,
		status:        StatusPreBid,
	}, nil
}

func ReconstructLot(
	id uuid.UUID,
	title string,
	startingPrice, reservePrice, currentPrice decimal.Decimal,
	highBidderID *uuid.UUID,
	status Status,
	liveEndAt *time.Time,
	createdAt, updatedAt time.Time,
) *Lot {
	return &Lot{
		id:            id,
		title:         title,
		startingPrice: startingPrice,
		reservePrice:  reservePrice,
		currentPrice:  currentPrice,
		highBidderID:  highBidderID,
		status:        status,
		liveEndAt:     liveEndAt,
		createdAt:     createdAt,
		updatedAt:     updatedAt,
	}
}

// Open transitions PRE_BID -> LIVE and fixes the live window end.
func (l *Lot) Open(liveEndAt time.Time) error {
	if !CanTransition(l.status, StatusLive) {
		return ErrInvalidTransition
	}
	if liveEndAt.IsZero() {
		return ErrMissingLiveWindow
	}
	l.status = StatusLive
	l.liveEndAt = &liveEndAt
	return nil
}

// RaisePrice records an accepted bid's effect. The monotonic invariant is
// enforced here as well as by the store's compare-and-swap.
func (l *Lot) RaisePrice(amount decimal.Decimal, bidderID uuid.UUID) error {
	if l.status != StatusLive {
		return ErrInvalidTransition
	}
	if amount.LessThanOrEqual(l.currentPrice) {
		return ErrPriceDecrease
	}
	l.currentPrice = amount
	id := bidderID
	l.highBidderID = &id
	return nil
}

// Close settles the lot exactly once: SOLD when the reserve is met and a
// high bidder exists, PAUSED (closed unsold) otherwise.
func (l *Lot) Close() (Status, error) {
	if l.status.IsTerminal() {
		return l.status, ErrAlreadyTerminal
	}
	if l.status != StatusLive {
		return l.status, ErrInvalidTransition
	}
	if l.MeetsReserve() && l.highBidderID != nil {
		l.status = StatusSold
	} else {
		l.status = StatusPaused
	}
	return l.status, nil
}

func (l *Lot) MeetsReserve() bool {
	return l.currentPrice.GreaterThanOrEqual(l.reservePrice)
}

func (l *Lot) IsLive() bool {
	return l.status == StatusLive
}

func (l *Lot) HasExpired(now time.Time) bool {
	return l.status == StatusLive && l.liveEndAt != nil && !now.Before(*l.liveEndAt)
}

func (l *Lot) ID() uuid.UUID                  { return l.id }
func (l *Lot) Title() string                  { return l.title }
func (l *Lot) StartingPrice() decimal.Decimal { return l.startingPrice }
func (l *Lot) ReservePrice() decimal.Decimal  { return l.reservePrice }
func (l *Lot) CurrentPrice() decimal.Decimal  { return l.currentPrice }
func (l *Lot) HighBidderID() *uuid.UUID       { return l.highBidderID }
func (l *Lot) Status() Status                 { return l.status }
func (l *Lot) LiveEndAt() *time.Time          { return l.liveEndAt }
func (l *Lot) CreatedAt() time.Time           { return l.createdAt }
func (l *Lot) UpdatedAt() time.Time           { return l.updatedAt }
