package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"worklab/internal/infra"
	"worklab/internal/infra/repository"
	"worklab/internal/pkg/clock"
	"worklab/internal/pkg/config"
	"worklab/internal/pkg/pgconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ReminderScanner enqueues a reminder job for every active reservation that
// starts within the lead window. The dedup key keeps repeated scans from
// duplicating reminders.
type ReminderScanner struct {
	pool  *pgxpool.Pool
	clock clock.Clock
	cfg   config.WorkerConfig
}

func NewReminderScanner(pool *pgxpool.Pool, clk clock.Clock, cfg config.WorkerConfig) *ReminderScanner {
	return &ReminderScanner{pool: pool, clock: clk, cfg: cfg}
}

type reminderCandidate struct {
	ReservationID uuid.UUID
	UserName      string
	Phone         string
	Email         string
	StartsAt      time.Time
	EndsAt        time.Time
	ResourceName  string
}

// ScanOnce finds reservations starting soon and enqueues their reminders.
func (s *ReminderScanner) ScanOnce(ctx context.Context) (int, error) {
	now := s.clock.Now()
	until := now.Add(s.cfg.ReminderLead)

	candidates, err := s.findStartingBetween(ctx, now, until)
	if err != nil {
		return 0, err
	}

	repo := repository.NewNotificationRepository(s.pool)
	enqueued := 0
	for _, c := range candidates {
		payload, err := json.Marshal(notificationPayload{
			ReservationID: c.ReservationID.String(),
			UserName:      c.UserName,
			Phone:         c.Phone,
			Email:         c.Email,
			StartsAt:      c.StartsAt,
			EndsAt:        c.EndsAt,
			ResourceName:  c.ResourceName,
		})
		if err != nil {
			slog.Warn("failed to encode reminder payload", "reservation_id", c.ReservationID, "error", err.Error())
			continue
		}

		dedupKey := fmt.Sprintf("reminder:%s", c.ReservationID)
		if err := repo.Enqueue(ctx, "reservation_reminder", c.Phone, payload, now, &dedupKey); err != nil {
			slog.Warn("failed to enqueue reminder", "reservation_id", c.ReservationID, "error", err.Error())
			continue
		}
		enqueued++
	}

	return enqueued, nil
}

func (s *ReminderScanner) findStartingBetween(ctx context.Context, from, to time.Time) ([]reminderCandidate, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT r.id, u.name, COALESCE(u.phone, ''), u.email, r.starts_at, r.ends_at, rs.name
		FROM reservations r
		JOIN users u ON u.id = r.user_id
		JOIN resources rs ON rs.id = r.resource_id
		WHERE r.status IN ('pending', 'confirmed')
		  AND r.starts_at >= $1
		  AND r.starts_at < $2
		ORDER BY r.starts_at`,
		pgconv.TimeToPgtype(from),
		pgconv.TimeToPgtype(to),
	)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to query upcoming reservations", err)
	}
	defer rows.Close()

	var candidates []reminderCandidate
	for rows.Next() {
		var (
			c        reminderCandidate
			id       pgtype.UUID
			startsAt pgtype.Timestamptz
			endsAt   pgtype.Timestamptz
		)
		if err := rows.Scan(&id, &c.UserName, &c.Phone, &c.Email, &startsAt, &endsAt, &c.ResourceName); err != nil {
			return nil, infra.WrapRepoErr("failed to scan upcoming reservation", err)
		}
		c.ReservationID = uuid.UUID(id.Bytes)
		c.StartsAt = pgconv.TimeFromPgtype(startsAt)
		c.EndsAt = pgconv.TimeFromPgtype(endsAt)
		candidates = append(candidates, c)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read upcoming reservations", err)
	}
	return candidates, nil
}
