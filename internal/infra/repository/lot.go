package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"auction-engine/internal/domain/lot"
	"auction-engine/internal/infra"
	"auction-engine/internal/infra/db"
	"auction-engine/internal/usecase/shared"
)

type LotRepository struct {
	db db.DBTX
}

func NewLotRepository(dbtx db.DBTX) *LotRepository {
	return &LotRepository{db: dbtx}
}

func (r *LotRepository) FindByID(ctx context.Context, id uuid.UUID) (*shared.LotSnapshot, error) {
	const q = `
		SELECT id, title, starting_price::text, reserve_price::text, current_price::text,
		       high_bidder_id, status, live_end_at
		FROM lots
		WHERE id = $1`

	var (
		snap                             shared.LotSnapshot
		startingRaw, reserveRaw, current string
		status                           string
	)
	err := r.db.QueryRow(ctx, q, id).Scan(
		&snap.ID, &snap.Title, &startingRaw, &reserveRaw, &current,
		&snap.HighBidderID, &status, &snap.LiveEndAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr("lot not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find lot by ID", err)
	}

	if snap.StartingPrice, err = decimal.NewFromString(startingRaw); err != nil {
		return nil, infra.WrapRepoErr("invalid starting price", err)
	}
	if snap.ReservePrice, err = decimal.NewFromString(reserveRaw); err != nil {
		return nil, infra.WrapRepoErr("invalid reserve price", err)
	}
	if snap.CurrentPrice, err = decimal.NewFromString(current); err != nil {
		return nil, infra.WrapRepoErr("invalid current price", err)
	}
	snap.Status = lot.Status(status)

	return &snap, nil
}

func (r *LotRepository) FindExpiredLive(ctx context.Context, now time.Time) ([]uuid.UUID, error) {
	const q = `
		SELECT id
		FROM lots
		WHERE status = 'LIVE' AND live_end_at IS NOT NULL AND live_end_at <= $1
		ORDER BY live_end_at`

	rows, err := r.db.Query(ctx, q, now)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find expired lots", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, infra.WrapRepoErr("failed to scan expired lot id", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate expired lots", err)
	}
	return ids, nil
}

// CompareAndSetPrice is the optimistic-concurrency core of bid
// acceptance: the UPDATE succeeds only if current_price is still the
// value the caller read inside this same transaction's snapshot.
func (r *LotRepository) CompareAndSetPrice(ctx context.Context, lotID uuid.UUID, expected, newPrice decimal.Decimal, bidderID uuid.UUID) (bool, error) {
	const q = `
		UPDATE lots
		SET current_price = $3::numeric, high_bidder_id = $4, updated_at = now()
		WHERE id = $1 AND current_price = $2::numeric AND status = 'LIVE'`

	tag, err := r.db.Exec(ctx, q, lotID, expected.String(), newPrice.String(), bidderID)
	if err != nil {
		return false, infra.WrapRepoErr("failed to update lot price", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *LotRepository) CompareAndSetStatus(ctx context.Context, lotID uuid.UUID, from, to lot.Status) (bool, error) {
	const q = `
		UPDATE lots
		SET status = $3, updated_at = now()
		WHERE id = $1 AND status = $2`

	tag, err := r.db.Exec(ctx, q, lotID, from.String(), to.String())
	if err != nil {
		return false, infra.WrapRepoErr("failed to transition lot status", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *LotRepository) OpenForBidding(ctx context.Context, lotID uuid.UUID, liveEndAt time.Time) (bool, error) {
	const q = `
		UPDATE lots
		SET status = 'LIVE', live_end_at = $2, updated_at = now()
		WHERE id = $1 AND status = 'PRE_BID'`

	tag, err := r.db.Exec(ctx, q, lotID, liveEndAt)
	if err != nil {
		return false, infra.WrapRepoErr("failed to open lot for bidding", err)
	}
	return tag.RowsAffected() == 1, nil
}
