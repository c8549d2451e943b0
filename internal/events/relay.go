package events

import (
	"context"
	"log/slog"
	"time"

	"auction-engine/internal/infra/readstore"
	"auction-engine/internal/pkg/config"
)

// Source is the unpublished tail of the outbox, in commit order.
type Source interface {
	UnpublishedBatch(ctx context.Context, limit int32) ([]readstore.OutboxRow, error)
	MarkPublished(ctx context.Context, ids []int64) error
}

// Relay drains the outbox into the sink. Delivery is at-least-once: a
// row is marked published only after the sink accepts it, so a crash
// between publish and mark means a duplicate, never a loss. Within a
// batch the relay stops at the first failure so later rows for the same
// lot cannot overtake earlier ones.
type Relay struct {
	source   Source
	sink     Sink
	snapshot SnapshotCache

	interval  time.Duration
	batchSize int32

	done chan struct{}
}

func NewRelay(source Source, sink Sink, snapshot SnapshotCache, cfg config.AuctionConfig) *Relay {
	return &Relay{
		source:    source,
		sink:      sink,
		snapshot:  snapshot,
		interval:  cfg.RelayInterval,
		batchSize: int32(cfg.RelayBatchSize),
		done:      make(chan struct{}),
	}
}

func (r *Relay) Start(ctx context.Context) {
	go func() {
		defer close(r.done)
		ticker := time.NewTicker(r.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := r.Drain(ctx); err != nil {
					slog.Warn("event relay pass failed", "error", err.Error())
				}
			}
		}
	}()
}

// Wait blocks until the relay loop has exited after its context is
// cancelled.
func (r *Relay) Wait() {
	<-r.done
}

// Drain publishes every currently unpublished event, batch by batch,
// and returns on the first error or when the outbox tail is empty.
func (r *Relay) Drain(ctx context.Context) error {
	for {
		rows, err := r.source.UnpublishedBatch(ctx, r.batchSize)
		if err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}

		published := make([]int64, 0, len(rows))
		var publishErr error
		for _, row := range rows {
			if err := r.sink.Publish(ctx, row.LotID, row.Payload); err != nil {
				publishErr = err
				break
			}
			published = append(published, row.ID)

			// Snapshot loss is tolerable; consumers fall back to the
			// read API.
			if err := r.snapshot.Store(ctx, row.LotID, row.Payload); err != nil {
				slog.Warn("failed to store lot snapshot", "lot_id", row.LotID, "error", err.Error())
			}
		}

		if len(published) > 0 {
			if err := r.source.MarkPublished(ctx, published); err != nil {
				return err
			}
		}
		if publishErr != nil {
			return publishErr
		}
		if len(rows) < int(r.batchSize) {
			return nil
		}
	}
}
