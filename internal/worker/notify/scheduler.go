package notify

import (
	"context"
	"log/slog"

	"worklab/internal/pkg/config"
	"worklab/internal/pkg/errs"

	"github.com/go-co-op/gocron/v2"
)

// StartScheduler wires the dispatcher and reminder scanner onto a gocron
// scheduler and starts it. The returned scheduler should be shut down on exit.
func StartScheduler(dispatcher *Dispatcher, scanner *ReminderScanner, cfg config.WorkerConfig) (gocron.Scheduler, error) {
	sched, err := gocron.NewScheduler()
	if err != nil {
		return nil, errs.Wrap(err, "failed to create scheduler")
	}

	_, err = sched.NewJob(
		gocron.DurationJob(cfg.DispatchInterval),
		gocron.NewTask(func(ctx context.Context) {
			n, err := dispatcher.DispatchOnce(ctx)
			if err != nil {
				slog.Error("notification dispatch failed", "error", err.Error())
				return
			}
			if n > 0 {
				slog.Info("dispatched notifications", "count", n)
			}
		}),
	)
	if err != nil {
		return nil, errs.Wrap(err, "failed to schedule dispatch job")
	}

	_, err = sched.NewJob(
		gocron.DurationJob(cfg.ReminderInterval),
		gocron.NewTask(func(ctx context.Context) {
			n, err := scanner.ScanOnce(ctx)
			if err != nil {
				slog.Error("reminder scan failed", "error", err.Error())
				return
			}
			if n > 0 {
				slog.Info("enqueued reminders", "count", n)
			}
		}),
	)
	if err != nil {
		return nil, errs.Wrap(err, "failed to schedule reminder job")
	}

	sched.Start()
	return sched, nil
}
