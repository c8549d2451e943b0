package shared

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"auction-engine/internal/domain/lot"
)

// Write-side snapshots prevent dependency on read-side query types (CQRS
// separation). Every command re-reads these inside its own transaction;
// nothing caches price or status across operations.

type LotSnapshot struct {
	ID            uuid.UUID
	Title         string
	StartingPrice decimal.Decimal
	ReservePrice  decimal.Decimal
	CurrentPrice  decimal.Decimal
	HighBidderID  *uuid.UUID
	Status        lot.Status
	LiveEndAt     *time.Time
}

// BidRecord is a committed bid row. Seq is assigned by the store and is
// the canonical per-lot ordering.
type BidRecord struct {
	ID        uuid.UUID
	LotID     uuid.UUID
	BidderID  uuid.UUID
	Amount    decimal.Decimal
	IsProxy   bool
	Seq       int64
	CreatedAt time.Time
}

type ProxyBidSnapshot struct {
	LotID       uuid.UUID
	BidderID    uuid.UUID
	MaxAmount   decimal.Decimal
	SubmittedAt time.Time
}
