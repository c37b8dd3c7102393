package readstore

import (
	"context"
	"fmt"

	"worklab/internal/infra"
	"worklab/internal/infra/db"
	"worklab/internal/pkg/pgconv"
	"worklab/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

type ReservationReadStore struct {
	db db.DBTX
}

func NewReservationReadStore(dbtx db.DBTX) *ReservationReadStore {
	return &ReservationReadStore{db: dbtx}
}

const reservationViewSelect = `
	SELECT r.id, r.resource_id, rs.name AS resource_name,
	       r.user_id, u.email AS user_email,
	       r.starts_at, r.ends_at, r.status, r.description,
	       r.created_at, r.updated_at
	FROM reservations r
	JOIN resources rs ON rs.id = r.resource_id
	JOIN users u ON u.id = r.user_id`

func (s *ReservationReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.ReservationView, error) {
	return withReadRetry(ctx, func(ctx context.Context) (*queries.ReservationView, error) {
		row := s.db.QueryRow(ctx, reservationViewSelect+` WHERE r.id = $1`, pgconv.UUIDToPgtype(id))

		view, err := scanReservationView(row)
		if err != nil {
			if pgconv.IsNoRows(err) {
				return nil, infra.WrapRepoErr("reservation not found", err, infra.KindNotFound)
			}
			return nil, infra.WrapRepoErr("failed to find reservation by ID", err)
		}
		return view, nil
	})
}

func (s *ReservationReadStore) FindByUserID(ctx context.Context, userID uuid.UUID, limit int32) ([]*queries.ReservationListItem, error) {
	return withReadRetry(ctx, func(ctx context.Context) ([]*queries.ReservationListItem, error) {
		rows, err := s.db.Query(ctx, `
			SELECT r.id, r.resource_id, rs.name, r.starts_at, r.ends_at, r.status, r.created_at
			FROM reservations r
			JOIN resources rs ON rs.id = r.resource_id
			WHERE r.user_id = $1
			ORDER BY r.starts_at DESC
			LIMIT $2`,
			pgconv.UUIDToPgtype(userID), limit,
		)
		if err != nil {
			return nil, infra.WrapRepoErr("failed to find reservations by user", err)
		}
		defer rows.Close()

		return scanReservationListItems(rows)
	})
}

func (s *ReservationReadStore) FindAll(ctx context.Context, filter queries.ReservationFilter, limit int32) ([]*queries.ReservationListItem, error) {
	return withReadRetry(ctx, func(ctx context.Context) ([]*queries.ReservationListItem, error) {
		query := `
			SELECT r.id, r.resource_id, rs.name, r.starts_at, r.ends_at, r.status, r.created_at
			FROM reservations r
			JOIN resources rs ON rs.id = r.resource_id
			WHERE 1=1`
		args := []any{}

		if filter.ResourceID != nil {
			args = append(args, pgconv.UUIDToPgtype(*filter.ResourceID))
			query += fmt.Sprintf(" AND r.resource_id = $%d", len(args))
		}
		if filter.Status != nil {
			args = append(args, *filter.Status)
			query += fmt.Sprintf(" AND r.status = $%d", len(args))
		}
		if filter.From != nil {
			args = append(args, pgconv.TimeToPgtype(*filter.From))
			query += fmt.Sprintf(" AND r.ends_at > $%d", len(args))
		}
		if filter.To != nil {
			args = append(args, pgconv.TimeToPgtype(*filter.To))
			query += fmt.Sprintf(" AND r.starts_at < $%d", len(args))
		}

		args = append(args, limit)
		query += fmt.Sprintf(" ORDER BY r.starts_at DESC LIMIT $%d", len(args))

		rows, err := s.db.Query(ctx, query, args...)
		if err != nil {
			return nil, infra.WrapRepoErr("failed to list reservations", err)
		}
		defer rows.Close()

		return scanReservationListItems(rows)
	})
}

func scanReservationView(row pgx.Row) (*queries.ReservationView, error) {
	var (
		view        queries.ReservationView
		id          pgtype.UUID
		resourceID  pgtype.UUID
		userID      pgtype.UUID
		startsAt    pgtype.Timestamptz
		endsAt      pgtype.Timestamptz
		description pgtype.Text
		createdAt   pgtype.Timestamptz
		updatedAt   pgtype.Timestamptz
	)
	err := row.Scan(&id, &resourceID, &view.ResourceName, &userID, &view.UserEmail,
		&startsAt, &endsAt, &view.Status, &description, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	view.ID = uuid.UUID(id.Bytes)
	view.ResourceID = uuid.UUID(resourceID.Bytes)
	view.UserID = uuid.UUID(userID.Bytes)
	view.StartsAt = pgconv.TimeFromPgtype(startsAt)
	view.EndsAt = pgconv.TimeFromPgtype(endsAt)
	view.Description = pgconv.StringPtrFromPgtype(description)
	view.CreatedAt = pgconv.TimeFromPgtype(createdAt)
	view.UpdatedAt = pgconv.TimeFromPgtype(updatedAt)
	return &view, nil
}

func scanReservationListItems(rows pgx.Rows) ([]*queries.ReservationListItem, error) {
	var items []*queries.ReservationListItem
	for rows.Next() {
		var (
			item       queries.ReservationListItem
			id         pgtype.UUID
			resourceID pgtype.UUID
			startsAt   pgtype.Timestamptz
			endsAt     pgtype.Timestamptz
			createdAt  pgtype.Timestamptz
		)
		if err := rows.Scan(&id, &resourceID, &item.ResourceName, &startsAt, &endsAt, &item.Status, &createdAt); err != nil {
			return nil, infra.WrapRepoErr("failed to scan reservation row", err)
		}
		item.ID = uuid.UUID(id.Bytes)
		item.ResourceID = uuid.UUID(resourceID.Bytes)
		item.StartsAt = pgconv.TimeFromPgtype(startsAt)
		item.EndsAt = pgconv.TimeFromPgtype(endsAt)
		item.CreatedAt = pgconv.TimeFromPgtype(createdAt)
		items = append(items, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read reservation rows", err)
	}
	return items, nil
}
