package readstore

import (
	"context"

	"auction-engine/internal/infra"
	"auction-engine/internal/infra/db"
)

// OutboxRow is one unpublished event as stored, payload verbatim.
type OutboxRow struct {
	ID      int64
	LotID   string
	Payload []byte
}

// OutboxReadStore feeds the relay. Rows come back in id order, which is
// commit order, so publishing the batch front-to-back preserves the
// per-lot event sequence.
type OutboxReadStore struct {
	db db.DBTX
}

func NewOutboxReadStore(dbtx db.DBTX) *OutboxReadStore {
	return &OutboxReadStore{db: dbtx}
}

func (r *OutboxReadStore) UnpublishedBatch(ctx context.Context, limit int32) ([]OutboxRow, error) {
	const q = `
		SELECT id, lot_id::text, payload
		FROM event_outbox
		WHERE published_at IS NULL
		ORDER BY id
		LIMIT $1`

	rows, err := r.db.Query(ctx, q, limit)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to query unpublished events", err)
	}
	defer rows.Close()

	var out []OutboxRow
	for rows.Next() {
		var row OutboxRow
		if err := rows.Scan(&row.ID, &row.LotID, &row.Payload); err != nil {
			return nil, infra.WrapRepoErr("failed to scan outbox row", err)
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate outbox rows", err)
	}
	return out, nil
}

func (r *OutboxReadStore) MarkPublished(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	const q = `UPDATE event_outbox SET published_at = now() WHERE id = ANY($1)`
	if _, err := r.db.Exec(ctx, q, ids); err != nil {
		return infra.WrapRepoErr("failed to mark events published", err)
	}
	return nil
}
