package response

import (
	"github.com/google/uuid"

	"auction-engine/internal/usecase/commands"
	"auction-engine/internal/usecase/shared"
)

type PlaceBidResponse struct {
	BidID     uuid.UUID              `json:"bidId"`
	NewPrice  string                 `json:"newPrice"`
	Synthetic []SyntheticBidResponse `json:"synthetic,omitempty"`
}

type SyntheticBidResponse struct {
	BidID    uuid.UUID `json:"bidId"`
	BidderID uuid.UUID `json:"bidderId"`
	Amount   string    `json:"amount"`
	Seq      int64     `json:"seq"`
}

type CloseOutcomeResponse struct {
	LotID      uuid.UUID  `json:"lotId"`
	Outcome    string     `json:"outcome"`
	FinalPrice *string    `json:"finalPrice,omitempty"`
	WinnerID   *uuid.UUID `json:"winnerId,omitempty"`
}

func FromPlaceBidResult(r *commands.PlaceBidResult) *PlaceBidResponse {
	resp := &PlaceBidResponse{
		BidID:    r.BidID,
		NewPrice: r.NewPrice.StringFixed(2),
	}
	for _, s := range r.Synthetic {
		resp.Synthetic = append(resp.Synthetic, fromSyntheticRecord(s))
	}
	return resp
}

func fromSyntheticRecord(rec shared.BidRecord) SyntheticBidResponse {
	return SyntheticBidResponse{
		BidID:    rec.ID,
		BidderID: rec.BidderID,
		Amount:   rec.Amount.StringFixed(2),
		Seq:      rec.Seq,
	}
}

func FromCloseOutcome(o commands.CloseOutcome) *CloseOutcomeResponse {
	resp := &CloseOutcomeResponse{
		LotID:    o.LotID,
		Outcome:  string(o.Outcome),
		WinnerID: o.WinnerID,
	}
	if o.FinalPrice != nil {
		s := o.FinalPrice.StringFixed(2)
		resp.FinalPrice = &s
	}
	return resp
}
