package components

import (
	"proximity-pay/internal/domain/session"
	"proximity-pay/internal/pkg/clock"
	"proximity-pay/internal/pkg/config"
	"proximity-pay/internal/usecase"
	"proximity-pay/internal/usecase/commands"
	"proximity-pay/internal/usecase/queries"

	"go.uber.org/fx"
)

var ClockModule = fx.Module("clock",
	fx.Provide(clock.NewRealClock),
)

var UseCaseModule = fx.Module("usecase",
	usecaseBaseOption,
	usecaseQueriesModule,
	usecaseValidatorsModule,
	usecaseCommandsModule,
)

var usecaseBaseOption = fx.Provide(
	func(clk clock.Clock, cfg config.Config) *session.Factory {
		return session.NewFactory(clk, cfg.Session.TTL, session.NewRandomEIDGenerator())
	},
	func(cfg config.Config) commands.SessionPolicy {
		return commands.SessionPolicy{RequireLock: cfg.Session.RequireLock}
	},
)

var usecaseCommandsModule = fx.Module("usecase/commands",
	fx.Provide(
		commands.NewAuthCommands,
		commands.NewLedgerCommands,
		commands.NewSessionCommands,
	),
)

var usecaseQueriesModule = fx.Module("usecase/queries",
	fx.Provide(
		queries.NewSessionQueries,
		queries.NewWalletQueries,
	),
)

var usecaseValidatorsModule = fx.Module("usecase/validators",
	fx.Provide(
		usecase.NewTokenValidator,
	),
)
