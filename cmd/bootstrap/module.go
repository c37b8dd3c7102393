package bootstrap

import (
	"worklab/cmd/bootstrap/components"

	"go.uber.org/fx"
)

// Module carries everything shared by the api and worker binaries.
var Module = fx.Options(
	ConfigModule,
	DBModule,
	MetricsModule,
)

// APIModule adds the HTTP-facing components on top of Module.
var APIModule = fx.Options(
	Module,
	JWTModule,
	components.PersistenceModule,
	components.UseCaseModule,
	components.HandlerModule,
)
