package events

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Event types. Exactly one payload schema exists per type so consumers
// can match exhaustively instead of probing optional fields.
const (
	TypeBid    = "bid"
	TypeStatus = "status"
)

// Envelope is the wire form of a committed ledger event. Seq is the
// store's commit sequence for the lot: consumers deduplicate on EventID
// and order on Seq, never on OccurredAt.
type Envelope struct {
	EventID    uuid.UUID       `json:"event_id"`
	EventType  string          `json:"event_type"`
	LotID      uuid.UUID       `json:"lot_id"`
	Seq        int64           `json:"seq"`
	OccurredAt time.Time       `json:"occurred_at"`
	Payload    json.RawMessage `json:"payload"`
}

// BidPlaced is published for every committed bid, synthetic or direct.
type BidPlaced struct {
	BidID    uuid.UUID       `json:"bid_id"`
	LotID    uuid.UUID       `json:"lot_id"`
	BidderID uuid.UUID       `json:"bidder_id"`
	Amount   decimal.Decimal `json:"amount"`
	IsProxy  bool            `json:"is_proxy"`
	Seq      int64           `json:"seq"`
}

// StatusChanged is published on every lot status transition. FinalPrice
// is set for terminal transitions.
type StatusChanged struct {
	LotID      uuid.UUID        `json:"lot_id"`
	Status     string           `json:"status"`
	FinalPrice *decimal.Decimal `json:"final_price,omitempty"`
	WinnerID   *uuid.UUID       `json:"winner_id,omitempty"`
}

// Marshal returns the full wire form; the outbox stores it verbatim so
// the relay republishes exactly what was committed.
func (e Envelope) Marshal() ([]byte, error) {
	return json.Marshal(e)
}

func NewBidPlaced(p BidPlaced, occurredAt time.Time) (Envelope, error) {
	payload, err := json.Marshal(p)
	if err != nil {
		return Envelope{}, err
	}
	return Envelope{
		EventID:    uuid.New(),
		EventType:  TypeBid,
		LotID:      p.LotID,
		Seq:        p.Seq,
		OccurredAt: occurredAt,
		Payload:    payload,
	}, nil
}

func NewStatusChanged(p StatusChanged, occurredAt time.Time) (Envelope, error) {
	payload, err := json.Marshal(p)
	if err != nil {
		return Envelope{}, err
	}
	return Envelope{
		EventID:    uuid.New(),
		EventType:  TypeStatus,
		LotID:      p.LotID,
		OccurredAt: occurredAt,
		Payload:    payload,
	}, nil
}
