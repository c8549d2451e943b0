package components

import (
	"auction-engine/internal/events"
	"auction-engine/internal/infra/db"
	"auction-engine/internal/infra/readstore"
	"auction-engine/internal/infra/uow"
	"auction-engine/internal/usecase/queries"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
)

var RepositoryModule = fx.Module("repository",
	fx.Provide(
		NewDBTX,
		uow.NewPostgresLedger,
		// Read-side stores for queries and the event relay
		fx.Annotate(
			readstore.NewLotReadStore,
			fx.As(new(queries.LotReadStore)),
		),
		fx.Annotate(
			readstore.NewOutboxReadStore,
			fx.As(new(events.Source)),
		),
	),
)

func NewDBTX(pool *pgxpool.Pool) db.DBTX {
	return pool
}
