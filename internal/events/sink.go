package events

import (
	"context"

	"github.com/segmentio/kafka-go"

	"auction-engine/internal/pkg/config"
	"auction-engine/internal/pkg/errs"
)

// Sink delivers a committed event to the outside world. Key is the lot
// id, so a partitioned transport keeps per-lot order as long as the
// relay publishes in commit order.
type Sink interface {
	Publish(ctx context.Context, key string, payload []byte) error
	Close() error
}

// KafkaSink writes synchronously with full acks. The relay only marks an
// outbox row published after Publish returns, so a broker failure means
// a redelivery, never a gap.
type KafkaSink struct {
	w *kafka.Writer
}

func NewKafkaSink(cfg config.KafkaConfig) *KafkaSink {
	return &KafkaSink{
		w: &kafka.Writer{
			Addr:         kafka.TCP(cfg.Brokers...),
			Topic:        cfg.Topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireAll,
		},
	}
}

func (s *KafkaSink) Publish(ctx context.Context, key string, payload []byte) error {
	err := s.w.WriteMessages(ctx, kafka.Message{
		Key:   []byte(key),
		Value: payload,
	})
	if err != nil {
		return errs.Wrap(err, "failed to publish event")
	}
	return nil
}

func (s *KafkaSink) Close() error {
	return s.w.Close()
}
