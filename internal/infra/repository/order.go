package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"

	"auction-engine/internal/domain/order"
	"auction-engine/internal/infra"
	"auction-engine/internal/infra/db"
)

const pgErrCodeUniqueViolation = "23505"

type OrderRepository struct {
	db db.DBTX
}

func NewOrderRepository(dbtx db.DBTX) *OrderRepository {
	return &OrderRepository{db: dbtx}
}

// Create materializes the settlement record. The UNIQUE constraint on
// lot_id backs the at-most-one-order-per-lot invariant even if the
// status compare-and-swap were ever bypassed.
func (r *OrderRepository) Create(ctx context.Context, o *order.Order) error {
	const q = `
		INSERT INTO orders (id, lot_id, winner_id, hammer_amount, premium_amount, total_due, fulfillment_status)
		VALUES ($1, $2, $3, $4::numeric, $5::numeric, $6::numeric, $7)`

	_, err := r.db.Exec(ctx, q,
		o.ID(), o.LotID(), o.WinnerID(),
		o.HammerAmount().String(), o.PremiumAmount().String(), o.TotalDue().String(),
		o.Fulfillment().String(),
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgErrCodeUniqueViolation {
			return infra.WrapRepoErr("order already exists for lot", err, infra.KindDuplicateKey)
		}
		return infra.WrapRepoErr("failed to create order", err)
	}
	return nil
}

func parseAmount(raw string) (decimal.Decimal, error) {
	return decimal.NewFromString(raw)
}
