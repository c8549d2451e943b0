package readstore

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"auction-engine/internal/infra"
	"auction-engine/internal/infra/db"
	"auction-engine/internal/usecase/queries"
)

type LotReadStore struct {
	db db.DBTX
}

func NewLotReadStore(dbtx db.DBTX) *LotReadStore {
	return &LotReadStore{db: dbtx}
}

func (r *LotReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.LotView, error) {
	const q = `
		SELECT l.id, l.title, l.starting_price::text, l.reserve_price::text, l.current_price::text,
		       l.high_bidder_id, l.status, l.live_end_at,
		       COALESCE(MAX(b.seq), 0), COUNT(b.id)
		FROM lots l
		LEFT JOIN bids b ON b.lot_id = l.id
		WHERE l.id = $1
		GROUP BY l.id`

	var (
		view                             queries.LotView
		startingRaw, reserveRaw, current string
	)
	err := r.db.QueryRow(ctx, q, id).Scan(
		&view.ID, &view.Title, &startingRaw, &reserveRaw, &current,
		&view.HighBidderID, &view.Status, &view.LiveEndAt,
		&view.LastBidSeq, &view.BidCount,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr("lot not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find lot view", err)
	}

	if view.StartingPrice, err = decimal.NewFromString(startingRaw); err != nil {
		return nil, infra.WrapRepoErr("invalid starting price", err)
	}
	if view.ReservePrice, err = decimal.NewFromString(reserveRaw); err != nil {
		return nil, infra.WrapRepoErr("invalid reserve price", err)
	}
	if view.CurrentPrice, err = decimal.NewFromString(current); err != nil {
		return nil, infra.WrapRepoErr("invalid current price", err)
	}
	view.ReserveMet = view.CurrentPrice.GreaterThanOrEqual(view.ReservePrice)

	return &view, nil
}

func (r *LotReadStore) BidHistory(ctx context.Context, lotID uuid.UUID, limit int32) ([]*queries.BidView, error) {
	const q = `
		SELECT id, lot_id, bidder_id, amount::text, is_proxy, seq, created_at
		FROM bids
		WHERE lot_id = $1
		ORDER BY seq DESC
		LIMIT $2`

	rows, err := r.db.Query(ctx, q, lotID, limit)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to query bid history", err)
	}
	defer rows.Close()

	var out []*queries.BidView
	for rows.Next() {
		var (
			v         queries.BidView
			amountRaw string
		)
		if err := rows.Scan(&v.ID, &v.LotID, &v.BidderID, &amountRaw, &v.IsProxy, &v.Seq, &v.CreatedAt); err != nil {
			return nil, infra.WrapRepoErr("failed to scan bid", err)
		}
		if v.Amount, err = decimal.NewFromString(amountRaw); err != nil {
			return nil, infra.WrapRepoErr("invalid bid amount", err)
		}
		out = append(out, &v)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate bid history", err)
	}
	return out, nil
}
