package components

import (
	"context"
	"log/slog"

	"auction-engine/internal/events"
	"auction-engine/internal/jobs"
	"auction-engine/internal/pkg/clock"
	"auction-engine/internal/pkg/config"
	"auction-engine/internal/usecase/commands"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
)

var WorkerModule = fx.Module("worker",
	fx.Provide(
		fx.Annotate(
			NewSnapshotCache,
			fx.As(new(events.SnapshotCache)),
		),
		NewRelay,
		NewCloseSweeper,
	),
	fx.Invoke(
		runRelay,
		runCloseSweeper,
	),
)

func NewSnapshotCache(client *redis.Client, cfg config.Config) *events.RedisSnapshotCache {
	return events.NewRedisSnapshotCache(client, cfg.Redis)
}

func NewRelay(source events.Source, sink events.Sink, snapshot events.SnapshotCache, cfg config.Config) *events.Relay {
	return events.NewRelay(source, sink, snapshot, cfg.Auction)
}

func NewCloseSweeper(closer commands.CloseCommands, clk clock.Clock, cfg config.Config, logger *slog.Logger) *jobs.CloseSweeper {
	return jobs.NewCloseSweeper(closer, clk, cfg.Auction, logger)
}

func runRelay(lc fx.Lifecycle, relay *events.Relay) {
	ctx, cancel := context.WithCancel(context.Background())
	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			relay.Start(ctx)
			return nil
		},
		OnStop: func(_ context.Context) error {
			cancel()
			relay.Wait()
			return nil
		},
	})
}

func runCloseSweeper(lc fx.Lifecycle, sweeper *jobs.CloseSweeper) {
	ctx, cancel := context.WithCancel(context.Background())
	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			sweeper.Start(ctx)
			return nil
		},
		OnStop: func(_ context.Context) error {
			cancel()
			sweeper.Wait()
			return nil
		},
	})
}
