package bid

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrNonPositiveAmount = errors.New("bid amount must be positive")
	ErrNilBidder         = errors.New("bidder id is required")
)

// Bid is an accepted, immutable price offer. Bids are append-only; the
// store-assigned seq, not created_at, is the canonical commit order.
type Bid struct {
	id       uuid.UUID
	lotID    uuid.UUID
	bidderID uuid.UUID
	amount   decimal.Decimal
	isProxy  bool
}

// NewBid builds a directly-placed bid.
func NewBid(lotID, bidderID uuid.UUID, amount decimal.Decimal) (*Bid, error) {
	return newBid(lotID, bidderID, amount, false)
}

// NewSyntheticBid builds a bid placed by the proxy resolution engine on a
// proxy holder's behalf.
func NewSyntheticBid(lotID, bidderID uuid.UUID, amount decimal.Decimal) (*Bid, error) {
	return newBid(lotID, bidderID, amount, true)
}

func newBid(lotID, bidderID uuid.UUID, amount decimal.Decimal, isProxy bool) (*Bid, error) {
	if !amount.IsPositive() {
		return nil, ErrNonPositiveAmount
	}
	if bidderID == uuid.Nil {
		return nil, ErrNilBidder
	}
	return &Bid{
		id:       uuid.New(),
		lotID:    lotID,
		bidderID: bidderID,
		amount:   amount,
		isProxy:  isProxy,
	}, nil
}

func (b *Bid) ID() uuid.UUID           { return b.id }
func (b *Bid) LotID() uuid.UUID        { return b.lotID }
func (b *Bid) BidderID() uuid.UUID     { return b.bidderID }
func (b *Bid) Amount() decimal.Decimal { return b.amount }
func (b *Bid) IsProxy() bool           { return b.isProxy }

// ProxyBid is a standing maximum authorization: one per (lot, bidder),
// replaced wholesale by a newer submission. A replacement refreshes
// submitted_at and therefore loses first-mover tie precedence.
type ProxyBid struct {
	lotID       uuid.UUID
	bidderID    uuid.UUID
	maxAmount   decimal.Decimal
	submittedAt time.Time
}

func NewProxyBid(lotID, bidderID uuid.UUID, maxAmount decimal.Decimal, submittedAt time.Time) (*ProxyBid, error) {
	if !maxAmount.IsPositive() {
		return nil, ErrNonPositiveAmount
	}
	if bidderID == uuid.Nil {
		return nil, ErrNilBidder
	}
	return &ProxyBid{
		lotID:       lotID,
		bidderID:    bidderID,
		maxAmount:   maxAmount,
		submittedAt: submittedAt,
	}, nil
}

func (p *ProxyBid) LotID() uuid.UUID           { return p.lotID }
func (p *ProxyBid) BidderID() uuid.UUID        { return p.bidderID }
func (p *ProxyBid) MaxAmount() decimal.Decimal { return p.maxAmount }
func (p *ProxyBid) SubmittedAt() time.Time     { return p.submittedAt }

// CanCounter reports whether this proxy can still counter at the given
// next amount without exceeding its maximum.
func (p *ProxyBid) CanCounter(nextAmount decimal.Decimal) bool {
	return nextAmount.LessThanOrEqual(p.maxAmount)
}
