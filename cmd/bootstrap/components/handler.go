package components

import (
	"auction-engine/internal/handler"
	"auction-engine/internal/handler/api"
	"auction-engine/internal/handler/middleware"

	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		api.NewLotHandler,
		api.NewBidHandler,
		api.NewAdminHandler,
		middleware.NewAuthMiddleware,
	),
	fx.Invoke(handler.NewRouter),
)
