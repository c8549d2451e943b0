package response

import (
	"time"

	"github.com/google/uuid"

	"auction-engine/internal/usecase/queries"
)

type LotResponse struct {
	ID            uuid.UUID  `json:"id"`
	Title         string     `json:"title"`
	StartingPrice string     `json:"startingPrice"`
	CurrentPrice  string     `json:"currentPrice"`
	HighBidderID  *uuid.UUID `json:"highBidderId,omitempty"`
	Status        string     `json:"status"`
	LiveEndAt     *time.Time `json:"liveEndAt,omitempty"`
	LastBidSeq    int64      `json:"lastBidSeq"`
	BidCount      int64      `json:"bidCount"`
	ReserveMet    bool       `json:"reserveMet"`
}

type BidHistoryItemResponse struct {
	ID        uuid.UUID `json:"id"`
	BidderID  uuid.UUID `json:"bidderId"`
	Amount    string    `json:"amount"`
	IsProxy   bool      `json:"isProxy"`
	Seq       int64     `json:"seq"`
	CreatedAt time.Time `json:"createdAt"`
}

func FromLotView(v *queries.LotView) *LotResponse {
	return &LotResponse{
		ID:            v.ID,
		Title:         v.Title,
		StartingPrice: v.StartingPrice.StringFixed(2),
		CurrentPrice:  v.CurrentPrice.StringFixed(2),
		HighBidderID:  v.HighBidderID,
		Status:        v.Status,
		LiveEndAt:     v.LiveEndAt,
		LastBidSeq:    v.LastBidSeq,
		BidCount:      v.BidCount,
		ReserveMet:    v.ReserveMet,
	}
}

func FromBidView(v *queries.BidView) *BidHistoryItemResponse {
	return &BidHistoryItemResponse{
		ID:        v.ID,
		BidderID:  v.BidderID,
		Amount:    v.Amount.StringFixed(2),
		IsProxy:   v.IsProxy,
		Seq:       v.Seq,
		CreatedAt: v.CreatedAt,
	}
}
