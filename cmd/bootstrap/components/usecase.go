package components

import (
	"auction-engine/internal/pkg/clock"
	"auction-engine/internal/usecase/commands"
	"auction-engine/internal/usecase/queries"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	usecaseBaseOption,
	usecaseCommandsModule,
	usecaseQueriesModule,
)

var usecaseBaseOption = fx.Provide(
	clock.NewRealClock,
)

var usecaseCommandsModule = fx.Module("usecase/commands",
	fx.Provide(
		commands.NewBidCommands,
		commands.NewProxyBidCommands,
		commands.NewCloseCommands,
		commands.NewLotCommands,
	),
)

var usecaseQueriesModule = fx.Module("usecase/queries",
	fx.Provide(
		queries.NewLotQueries,
	),
)
