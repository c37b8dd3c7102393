package components

import (
	"worklab/internal/metrics"
	"worklab/internal/pkg/clock"
	"worklab/internal/usecase/commands"
	"worklab/internal/usecase/queries"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	usecaseBaseOption,
	usecaseQueriesModule,
	usecaseCommandsModule,
)

var usecaseBaseOption = fx.Provide(
	clock.NewRealClock,
	func(c *metrics.Collector) commands.MetricsRecorder { return c },
)

var usecaseCommandsModule = fx.Module("usecase/commands",
	fx.Provide(
		commands.NewAuthCommands,
		commands.NewReservationUseCase,
		commands.NewResourceCommands,
		commands.NewUserCommands,
		commands.NewNotificationCommands,
	),
)

var usecaseQueriesModule = fx.Module("usecase/queries",
	fx.Provide(
		queries.NewUserQueries,
		queries.NewReservationQueries,
		queries.NewResourceQueries,
		queries.NewReportQueries,
	),
)
