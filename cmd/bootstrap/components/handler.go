package components

import (
	"context"

	"worklab/internal/handler"
	"worklab/internal/handler/api"
	"worklab/internal/handler/middleware"
	"worklab/internal/pkg/config"

	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		api.NewAuthHandler,
		api.NewReservationHandler,
		api.NewResourceHandler,
		api.NewReportHandler,
		api.NewUserHandler,
		api.NewWebhookHandler,
		fx.Annotate(
			middleware.NewJWTValidator,
			fx.As(new(middleware.TokenValidator)),
		),
		middleware.NewAuthMiddleware,
		NewRateLimiter,
	),
	fx.Invoke(handler.NewRouter),
)

func NewRateLimiter(lc fx.Lifecycle, cfg config.Config) *middleware.RateLimiter {
	rl := middleware.NewRateLimiter(cfg.Rate)
	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			rl.Stop()
			return nil
		},
	})
	return rl
}
