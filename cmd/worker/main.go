package main

import (
	"context"
	"log/slog"
	"os"

	"worklab/cmd/bootstrap"
	"worklab/internal/handler/middleware"
	"worklab/internal/infra/notify"
	"worklab/internal/metrics"
	"worklab/internal/pkg/clock"
	"worklab/internal/pkg/config"
	workernotify "worklab/internal/worker/notify"

	"github.com/go-co-op/gocron/v2"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
)

func newDispatcher(pool *pgxpool.Pool, cfg config.Config, clk clock.Clock, collector *metrics.Collector) *workernotify.Dispatcher {
	sender := notify.NewSender(cfg.Notify)
	return workernotify.NewDispatcher(pool, sender, clk, cfg.Worker, collector)
}

func newReminderScanner(pool *pgxpool.Pool, cfg config.Config, clk clock.Clock) *workernotify.ReminderScanner {
	return workernotify.NewReminderScanner(pool, clk, cfg.Worker)
}

func runScheduler(lc fx.Lifecycle, dispatcher *workernotify.Dispatcher, scanner *workernotify.ReminderScanner, cfg config.Config, logger *slog.Logger) {
	var sched gocron.Scheduler

	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			s, err := workernotify.StartScheduler(dispatcher, scanner, cfg.Worker)
			if err != nil {
				return err
			}
			sched = s
			logger.Info("notification worker started",
				"dispatch_interval", cfg.Worker.DispatchInterval,
				"reminder_interval", cfg.Worker.ReminderInterval,
			)
			return nil
		},
		OnStop: func(_ context.Context) error {
			if sched != nil {
				return sched.Shutdown()
			}
			return nil
		},
	})
}

func main() {
	app := fx.New(
		bootstrap.Module,
		fx.Provide(
			func(cfg config.Config) *slog.Logger {
				logger := middleware.NewLogger(cfg.Log)
				return logger.GetSlogLogger()
			},
			clock.NewRealClock,
			newDispatcher,
			newReminderScanner,
		),
		fx.Invoke(
			runScheduler,
		),
	)

	if err := app.Start(context.Background()); err != nil {
		slog.Error("failed to start worker", "error", err)
		os.Exit(1)
	}

	<-app.Done()

	if err := app.Stop(context.Background()); err != nil {
		slog.Error("failed to stop worker cleanly", "error", err)
	}

	slog.Info("worker stopped")
}
