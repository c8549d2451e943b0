package request

import (
	"time"

	"github.com/shopspring/decimal"
)

// Amounts cross the wire as strings so client float formatting can
// never distort a price.
type PlaceBidRequest struct {
	Amount string `json:"amount" binding:"required"`
}

func (r PlaceBidRequest) ParseAmount() (decimal.Decimal, error) {
	return decimal.NewFromString(r.Amount)
}

type SetProxyBidRequest struct {
	MaxAmount string `json:"max_amount" binding:"required"`
}

func (r SetProxyBidRequest) ParseMaxAmount() (decimal.Decimal, error) {
	return decimal.NewFromString(r.MaxAmount)
}

type OpenLotRequest struct {
	LiveEndAt time.Time `json:"live_end_at" binding:"required"`
}
