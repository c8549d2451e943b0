package repository

import (
	"context"

	"auction-engine/internal/events"
	"auction-engine/internal/infra"
	"auction-engine/internal/infra/db"
)

type OutboxRepository struct {
	db db.DBTX
}

func NewOutboxRepository(dbtx db.DBTX) *OutboxRepository {
	return &OutboxRepository{db: dbtx}
}

// Append writes the event in the same transaction as the ledger change
// it describes: the outbox id order therefore matches commit order.
func (r *OutboxRepository) Append(ctx context.Context, env events.Envelope) error {
	const q = `
		INSERT INTO event_outbox (lot_id, event_type, payload)
		VALUES ($1, $2, $3)`

	payload, err := env.Marshal()
	if err != nil {
		return infra.WrapRepoErr("failed to marshal event envelope", err)
	}

	if _, err := r.db.Exec(ctx, q, env.LotID, env.EventType, payload); err != nil {
		return infra.WrapRepoErr("failed to append outbox event", err)
	}
	return nil
}
