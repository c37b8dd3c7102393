package readstore

import (
	"context"
	"encoding/json"

	"worklab/internal/domain/resource"
	"worklab/internal/infra"
	"worklab/internal/infra/db"
	"worklab/internal/pkg/pgconv"
	"worklab/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

// CommandReadStore serves the lookups commands need around a write. Inside a
// transaction it sees the transaction's snapshot; outside it reads the pool.
type CommandReadStore struct {
	db db.DBTX
}

func NewCommandReadStore(dbtx db.DBTX) *CommandReadStore {
	return &CommandReadStore{db: dbtx}
}

func (s *CommandReadStore) ResourceByID(ctx context.Context, id uuid.UUID) (*shared.ResourceSnapshot, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, name, category, location, capacity, restrictions
		FROM resources
		WHERE id = $1`,
		pgconv.UUIDToPgtype(id),
	)

	var (
		snap         shared.ResourceSnapshot
		resourceID   pgtype.UUID
		location     pgtype.Text
		capacity     pgtype.Int4
		restrictions []byte
	)
	err := row.Scan(&resourceID, &snap.Name, &snap.Category, &location, &capacity, &restrictions)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("resource not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find resource", err)
	}

	var cfg resource.RestrictionsConfig
	if len(restrictions) > 0 {
		if err := json.Unmarshal(restrictions, &cfg); err != nil {
			return nil, infra.WrapRepoErr("failed to decode restrictions", err)
		}
	}

	snap.ID = uuid.UUID(resourceID.Bytes)
	if loc := pgconv.StringPtrFromPgtype(location); loc != nil {
		snap.Location = *loc
	}
	snap.Capacity = pgconv.Int32PtrFromPgtype(capacity)
	snap.Restrictions = cfg
	return &snap, nil
}

func (s *CommandReadStore) ReservationByID(ctx context.Context, id uuid.UUID) (*shared.ReservationSnapshot, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, resource_id, user_id, starts_at, ends_at, status, description
		FROM reservations
		WHERE id = $1`,
		pgconv.UUIDToPgtype(id),
	)

	snap, err := scanReservationSnapshot(row)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("reservation not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find reservation", err)
	}
	return snap, nil
}

func (s *CommandReadStore) ActiveByResource(ctx context.Context, resourceID uuid.UUID, excludeID *uuid.UUID) ([]shared.ReservationSnapshot, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, resource_id, user_id, starts_at, ends_at, status, description
		FROM reservations
		WHERE resource_id = $1
		  AND status IN ('pending', 'confirmed')
		  AND ($2::uuid IS NULL OR id <> $2)
		ORDER BY starts_at`,
		pgconv.UUIDToPgtype(resourceID),
		pgconv.UUIDPtrToPgtype(excludeID),
	)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list active reservations", err)
	}
	defer rows.Close()

	var snaps []shared.ReservationSnapshot
	for rows.Next() {
		snap, err := scanReservationSnapshot(rows)
		if err != nil {
			return nil, infra.WrapRepoErr("failed to scan reservation", err)
		}
		snaps = append(snaps, *snap)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read reservations", err)
	}
	return snaps, nil
}

func (s *CommandReadStore) ResourceHasActiveReservations(ctx context.Context, resourceID uuid.UUID) (bool, error) {
	var exists bool
	err := s.db.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM reservations
			WHERE resource_id = $1 AND status IN ('pending', 'confirmed')
		)`,
		pgconv.UUIDToPgtype(resourceID),
	).Scan(&exists)
	if err != nil {
		return false, infra.WrapRepoErr("failed to check active reservations", err)
	}
	return exists, nil
}

func (s *CommandReadStore) UserByID(ctx context.Context, id uuid.UUID) (*shared.UserSnapshot, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, name, email, phone, role, is_active
		FROM users
		WHERE id = $1`,
		pgconv.UUIDToPgtype(id),
	)

	var (
		snap   shared.UserSnapshot
		userID pgtype.UUID
		phone  pgtype.Text
	)
	err := row.Scan(&userID, &snap.Name, &snap.Email, &phone, &snap.Role, &snap.IsActive)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("user not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find user", err)
	}

	snap.ID = uuid.UUID(userID.Bytes)
	if p := pgconv.StringPtrFromPgtype(phone); p != nil {
		snap.Phone = *p
	}
	return &snap, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanReservationSnapshot(row rowScanner) (*shared.ReservationSnapshot, error) {
	var (
		snap        shared.ReservationSnapshot
		id          pgtype.UUID
		resourceID  pgtype.UUID
		userID      pgtype.UUID
		startsAt    pgtype.Timestamptz
		endsAt      pgtype.Timestamptz
		description pgtype.Text
	)
	err := row.Scan(&id, &resourceID, &userID, &startsAt, &endsAt, &snap.Status, &description)
	if err != nil {
		return nil, err
	}

	snap.ID = uuid.UUID(id.Bytes)
	snap.ResourceID = uuid.UUID(resourceID.Bytes)
	snap.UserID = uuid.UUID(userID.Bytes)
	snap.StartsAt = pgconv.TimeFromPgtype(startsAt)
	snap.EndsAt = pgconv.TimeFromPgtype(endsAt)
	snap.Description = pgconv.StringPtrFromPgtype(description)
	return &snap, nil
}
