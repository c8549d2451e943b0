package repository

import (
	"context"

	"github.com/google/uuid"

	"auction-engine/internal/domain/bid"
	"auction-engine/internal/infra"
	"auction-engine/internal/infra/db"
	"auction-engine/internal/usecase/shared"
)

type BidRepository struct {
	db db.DBTX
}

func NewBidRepository(dbtx db.DBTX) *BidRepository {
	return &BidRepository{db: dbtx}
}

// Insert appends the bid; seq comes back from the store and is the
// canonical commit order for the lot.
func (r *BidRepository) Insert(ctx context.Context, b *bid.Bid) (*shared.BidRecord, error) {
	const q = `
		INSERT INTO bids (id, lot_id, bidder_id, amount, is_proxy)
		VALUES ($1, $2, $3, $4::numeric, $5)
		RETURNING seq, created_at`

	rec := shared.BidRecord{
		ID:       b.ID(),
		LotID:    b.LotID(),
		BidderID: b.BidderID(),
		Amount:   b.Amount(),
		IsProxy:  b.IsProxy(),
	}
	err := r.db.QueryRow(ctx, q,
		b.ID(), b.LotID(), b.BidderID(), b.Amount().String(), b.IsProxy(),
	).Scan(&rec.Seq, &rec.CreatedAt)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to insert bid", err)
	}
	return &rec, nil
}

type ProxyBidRepository struct {
	db db.DBTX
}

func NewProxyBidRepository(dbtx db.DBTX) *ProxyBidRepository {
	return &ProxyBidRepository{db: dbtx}
}

func (r *ProxyBidRepository) Upsert(ctx context.Context, p *bid.ProxyBid) error {
	const q = `
		INSERT INTO proxy_bids (lot_id, bidder_id, max_amount, submitted_at)
		VALUES ($1, $2, $3::numeric, $4)
		ON CONFLICT (lot_id, bidder_id)
		DO UPDATE SET max_amount = EXCLUDED.max_amount, submitted_at = EXCLUDED.submitted_at`

	_, err := r.db.Exec(ctx, q, p.LotID(), p.BidderID(), p.MaxAmount().String(), p.SubmittedAt())
	if err != nil {
		return infra.WrapRepoErr("failed to upsert proxy bid", err)
	}
	return nil
}

func (r *ProxyBidRepository) ActiveForLot(ctx context.Context, lotID uuid.UUID) ([]shared.ProxyBidSnapshot, error) {
	const q = `
		SELECT lot_id, bidder_id, max_amount::text, submitted_at
		FROM proxy_bids
		WHERE lot_id = $1
		ORDER BY max_amount DESC, submitted_at ASC`

	rows, err := r.db.Query(ctx, q, lotID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list proxy bids", err)
	}
	defer rows.Close()

	var out []shared.ProxyBidSnapshot
	for rows.Next() {
		var (
			snap      shared.ProxyBidSnapshot
			amountRaw string
		)
		if err := rows.Scan(&snap.LotID, &snap.BidderID, &amountRaw, &snap.SubmittedAt); err != nil {
			return nil, infra.WrapRepoErr("failed to scan proxy bid", err)
		}
		if snap.MaxAmount, err = parseAmount(amountRaw); err != nil {
			return nil, infra.WrapRepoErr("invalid proxy bid amount", err)
		}
		out = append(out, snap)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate proxy bids", err)
	}
	return out, nil
}
