package repository

import (
	"context"
	"time"

	"worklab/internal/infra"
	"worklab/internal/infra/db"
	"worklab/internal/pkg/pgconv"

	"github.com/google/uuid"
)

// NotificationJob is one outbox row claimed for delivery.
type NotificationJob struct {
	ID       uuid.UUID
	Kind     string
	Topic    string
	Payload  []byte
	Attempts int32
}

type NotificationRepository struct {
	db db.DBTX
}

func NewNotificationRepository(dbtx db.DBTX) *NotificationRepository {
	return &NotificationRepository{db: dbtx}
}

// Enqueue inserts an outbox job. A duplicate dedup_key is treated as already
// enqueued, not as an error, so reminder scans stay idempotent.
func (r *NotificationRepository) Enqueue(ctx context.Context, kind, topic string, payload []byte, runAt time.Time, dedupKey *string) error {
	if len(payload) == 0 {
		payload = []byte("{}")
	}
	_, err := r.db.Exec(ctx, `
		INSERT INTO notification_jobs (kind, topic, payload, run_at, dedup_key)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (dedup_key) WHERE dedup_key IS NOT NULL DO NOTHING`,
		kind,
		topic,
		payload,
		pgconv.TimeToPgtype(runAt),
		pgconv.StringPtrToPgtype(dedupKey),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to enqueue notification", err)
	}
	return nil
}

// ClaimDue picks up to limit queued jobs that are due, skipping rows other
// workers hold. Must run inside a transaction so the claim lasts until the
// outcome is recorded.
func (r *NotificationRepository) ClaimDue(ctx context.Context, now time.Time, limit int32) ([]NotificationJob, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, kind, topic, payload, attempts
		FROM notification_jobs
		WHERE status = 'queued' AND run_at <= $1
		ORDER BY run_at
		LIMIT $2
		FOR UPDATE SKIP LOCKED`,
		pgconv.TimeToPgtype(now),
		limit,
	)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to claim notification jobs", err)
	}
	defer rows.Close()

	var jobs []NotificationJob
	for rows.Next() {
		var job NotificationJob
		if err := rows.Scan(&job.ID, &job.Kind, &job.Topic, &job.Payload, &job.Attempts); err != nil {
			return nil, infra.WrapRepoErr("failed to scan notification job", err)
		}
		jobs = append(jobs, job)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read notification jobs", err)
	}
	return jobs, nil
}

func (r *NotificationRepository) MarkSent(ctx context.Context, id uuid.UUID, providerSID string) error {
	_, err := r.db.Exec(ctx, `
		UPDATE notification_jobs
		SET status = 'sent',
		    attempts = attempts + 1,
		    last_error = NULL,
		    provider_sid = NULLIF($2, ''),
		    updated_at = now()
		WHERE id = $1`,
		pgconv.UUIDToPgtype(id),
		providerSID,
	)
	if err != nil {
		return infra.WrapRepoErr("failed to mark notification sent", err)
	}
	return nil
}

// RecordDeliveryStatus applies a provider status callback to the job that
// carries the given provider reference.
func (r *NotificationRepository) RecordDeliveryStatus(ctx context.Context, providerSID, status string, detail *string) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE notification_jobs
		SET delivery_status = $2,
		    last_error = COALESCE($3, last_error),
		    updated_at = now()
		WHERE provider_sid = $1`,
		providerSID,
		status,
		pgconv.StringPtrToPgtype(detail),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to record delivery status", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("no job for provider reference", nil, infra.KindNotFound)
	}
	return nil
}

// MarkFailed re-queues the job with a backoff, or marks it failed once
// maxAttempts is reached.
func (r *NotificationRepository) MarkFailed(ctx context.Context, id uuid.UUID, cause string, retryAt time.Time, maxAttempts int32) error {
	_, err := r.db.Exec(ctx, `
		UPDATE notification_jobs
		SET attempts = attempts + 1,
		    last_error = $2,
		    run_at = $3,
		    status = CASE WHEN attempts + 1 >= $4 THEN 'failed' ELSE 'queued' END,
		    updated_at = now()
		WHERE id = $1`,
		pgconv.UUIDToPgtype(id),
		cause,
		pgconv.TimeToPgtype(retryAt),
		maxAttempts,
	)
	if err != nil {
		return infra.WrapRepoErr("failed to mark notification failed", err)
	}
	return nil
}
