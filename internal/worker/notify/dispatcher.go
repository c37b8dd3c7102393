// Package notify drains the notification outbox and enqueues reminders.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"worklab/internal/infra/notify"
	"worklab/internal/infra/repository"
	"worklab/internal/pkg/clock"
	"worklab/internal/pkg/config"
	"worklab/internal/pkg/errs"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// MetricsRecorder counts delivery outcomes.
type MetricsRecorder interface {
	NotificationSent()
	NotificationFailed()
}

type NopMetrics struct{}

func (NopMetrics) NotificationSent()   {}
func (NopMetrics) NotificationFailed() {}

// Dispatcher claims due outbox jobs and hands them to the sender. Claims run
// inside a transaction with SKIP LOCKED so multiple workers can share the
// queue.
type Dispatcher struct {
	pool    *pgxpool.Pool
	sender  notify.Sender
	clock   clock.Clock
	cfg     config.WorkerConfig
	metrics MetricsRecorder
}

func NewDispatcher(pool *pgxpool.Pool, sender notify.Sender, clk clock.Clock, cfg config.WorkerConfig, metrics MetricsRecorder) *Dispatcher {
	return &Dispatcher{
		pool:    pool,
		sender:  sender,
		clock:   clk,
		cfg:     cfg,
		metrics: metrics,
	}
}

// DispatchOnce processes one batch of due jobs and reports how many it
// handled.
func (d *Dispatcher) DispatchOnce(ctx context.Context) (int, error) {
	tx, err := d.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return 0, errs.Wrap(err, "failed to begin dispatch transaction")
	}
	defer func() {
		if rollbackErr := tx.Rollback(ctx); rollbackErr != nil && rollbackErr != pgx.ErrTxClosed {
			slog.Warn("dispatch rollback failed", "error", rollbackErr.Error())
		}
	}()

	repo := repository.NewNotificationRepository(tx)
	now := d.clock.Now()

	jobs, err := repo.ClaimDue(ctx, now, int32(d.cfg.BatchSize))
	if err != nil {
		return 0, err
	}

	for _, job := range jobs {
		providerSID, sendErr := d.deliver(ctx, job)
		if sendErr != nil {
			d.metrics.NotificationFailed()
			retryAt := now.Add(backoffFor(job.Attempts))
			slog.Warn("notification delivery failed",
				"job_id", job.ID,
				"kind", job.Kind,
				"attempt", job.Attempts+1,
				"error", sendErr.Error())
			if err := repo.MarkFailed(ctx, job.ID, sendErr.Error(), retryAt, int32(d.cfg.MaxAttempts)); err != nil {
				return 0, err
			}
			continue
		}

		d.metrics.NotificationSent()
		if err := repo.MarkSent(ctx, job.ID, providerSID); err != nil {
			return 0, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, errs.Wrap(err, "failed to commit dispatch transaction")
	}
	return len(jobs), nil
}

func (d *Dispatcher) deliver(ctx context.Context, job repository.NotificationJob) (string, error) {
	msg, err := renderMessage(job)
	if err != nil {
		return "", err
	}
	if msg.To == "" {
		// No channel on record; count as delivered rather than retrying
		slog.Info("notification has no recipient, skipping", "job_id", job.ID, "kind", job.Kind)
		return "", nil
	}
	return d.sender.Send(ctx, msg)
}

type notificationPayload struct {
	ReservationID string    `json:"reservation_id"`
	UserName      string    `json:"user_name"`
	Phone         string    `json:"phone"`
	Email         string    `json:"email"`
	StartsAt      time.Time `json:"starts_at"`
	EndsAt        time.Time `json:"ends_at"`
	ResourceName  string    `json:"resource_name,omitempty"`
}

func renderMessage(job repository.NotificationJob) (notify.Message, error) {
	var p notificationPayload
	if err := json.Unmarshal(job.Payload, &p); err != nil {
		return notify.Message{}, errs.Wrap(err, "failed to decode notification payload")
	}

	when := p.StartsAt.Format("Mon Jan 2 15:04")
	what := "your reservation"
	if p.ResourceName != "" {
		what = "your " + p.ResourceName + " reservation"
	}

	var body string
	switch job.Kind {
	case "reservation_created":
		body = fmt.Sprintf("Hi %s, %s starting %s is booked.", p.UserName, what, when)
	case "reservation_modified":
		body = fmt.Sprintf("Hi %s, %s was moved to start %s.", p.UserName, what, when)
	case "reservation_cancelled":
		body = fmt.Sprintf("Hi %s, %s starting %s was cancelled.", p.UserName, what, when)
	case "reservation_reminder":
		body = fmt.Sprintf("Hi %s, reminder: %s starts %s.", p.UserName, what, when)
	default:
		body = fmt.Sprintf("Hi %s, there is an update on %s starting %s.", p.UserName, what, when)
	}

	return notify.Message{To: p.Phone, Body: body}, nil
}

func backoffFor(attempts int32) time.Duration {
	d := time.Minute << attempts
	if d > 30*time.Minute {
		d = 30 * time.Minute
	}
	return d
}
