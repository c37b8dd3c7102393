package repository

import (
	"context"
	"time"

	"worklab/internal/domain/reservation"
	"worklab/internal/infra"
	"worklab/internal/infra/db"
	"worklab/internal/pkg/pgconv"

	"github.com/google/uuid"
)

type ReservationRepository struct {
	db db.DBTX
}

func NewReservationRepository(dbtx db.DBTX) *ReservationRepository {
	return &ReservationRepository{db: dbtx}
}

// LockResource takes a transaction-scoped advisory lock keyed by resource id.
// It serializes concurrent create/modify on the same resource; the exclusion
// constraint on reservations remains the authoritative guard.
func (r *ReservationRepository) LockResource(ctx context.Context, resourceID uuid.UUID) error {
	_, err := r.db.Exec(ctx,
		`SELECT pg_advisory_xact_lock(hashtextextended($1::text, 0))`,
		resourceID,
	)
	if err != nil {
		return infra.WrapRepoErr("failed to lock resource", err)
	}
	return nil
}

func (r *ReservationRepository) Create(ctx context.Context, res *reservation.Reservation) (uuid.UUID, error) {
	var id uuid.UUID
	err := r.db.QueryRow(ctx, `
		INSERT INTO reservations (resource_id, user_id, starts_at, ends_at, status, description)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`,
		pgconv.UUIDToPgtype(res.ResourceID()),
		pgconv.UUIDToPgtype(res.UserID()),
		pgconv.TimeToPgtype(res.Slot().Start()),
		pgconv.TimeToPgtype(res.Slot().End()),
		string(res.Status()),
		res.Description().String(),
	).Scan(&id)
	if err != nil {
		return uuid.Nil, classifyWriteErr("failed to create reservation", err)
	}
	return id, nil
}

// UpdateWindow moves an active reservation. The status predicate keeps a
// concurrent cancel from having its window moved afterwards; zero rows means
// the reservation is gone or no longer active.
func (r *ReservationRepository) UpdateWindow(ctx context.Context, id uuid.UUID, startsAt, endsAt time.Time, description *string) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE reservations
		SET starts_at = $2, ends_at = $3, description = COALESCE($4, description), updated_at = now()
		WHERE id = $1 AND status IN ('pending', 'confirmed')`,
		pgconv.UUIDToPgtype(id),
		pgconv.TimeToPgtype(startsAt),
		pgconv.TimeToPgtype(endsAt),
		pgconv.StringPtrToPgtype(description),
	)
	if err != nil {
		return classifyWriteErr("failed to update reservation window", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("reservation inactive or missing", nil, infra.KindPreconditionFailed)
	}
	return nil
}

func (r *ReservationRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status reservation.Status) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE reservations
		SET status = $2, updated_at = now()
		WHERE id = $1 AND status IN ('pending', 'confirmed')`,
		pgconv.UUIDToPgtype(id),
		string(status),
	)
	if err != nil {
		return classifyWriteErr("failed to update reservation status", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("reservation inactive or missing", nil, infra.KindPreconditionFailed)
	}
	return nil
}
