package bootstrap

import (
	"context"

	"auction-engine/internal/events"
	"auction-engine/internal/pkg/config"

	"go.uber.org/fx"
)

var KafkaModule = fx.Module("kafka",
	fx.Provide(
		fx.Annotate(
			NewKafkaSink,
			fx.As(new(events.Sink)),
		),
	),
)

func NewKafkaSink(lc fx.Lifecycle, cfg config.Config) *events.KafkaSink {
	sink := events.NewKafkaSink(cfg.Kafka)

	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			return sink.Close()
		},
	})

	return sink
}
