package readstore

import (
	"context"
	"encoding/json"

	"worklab/internal/domain/resource"
	"worklab/internal/infra"
	"worklab/internal/infra/db"
	"worklab/internal/pkg/pgconv"
	"worklab/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

type ResourceReadStore struct {
	db db.DBTX
}

func NewResourceReadStore(dbtx db.DBTX) *ResourceReadStore {
	return &ResourceReadStore{db: dbtx}
}

const resourceViewSelect = `
	SELECT id, name, description, category, location, capacity, restrictions, created_at, updated_at
	FROM resources`

func (s *ResourceReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.ResourceView, error) {
	return withReadRetry(ctx, func(ctx context.Context) (*queries.ResourceView, error) {
		row := s.db.QueryRow(ctx, resourceViewSelect+` WHERE id = $1`, pgconv.UUIDToPgtype(id))

		view, err := scanResourceView(row)
		if err != nil {
			if pgconv.IsNoRows(err) {
				return nil, infra.WrapRepoErr("resource not found", err, infra.KindNotFound)
			}
			return nil, infra.WrapRepoErr("failed to find resource by ID", err)
		}
		return view, nil
	})
}

func (s *ResourceReadStore) FindAll(ctx context.Context, category *string) ([]*queries.ResourceView, error) {
	return withReadRetry(ctx, func(ctx context.Context) ([]*queries.ResourceView, error) {
		query := resourceViewSelect
		args := []any{}
		if category != nil {
			args = append(args, *category)
			query += ` WHERE category = $1`
		}
		query += ` ORDER BY name`

		rows, err := s.db.Query(ctx, query, args...)
		if err != nil {
			return nil, infra.WrapRepoErr("failed to list resources", err)
		}
		defer rows.Close()

		var views []*queries.ResourceView
		for rows.Next() {
			view, err := scanResourceView(rows)
			if err != nil {
				return nil, infra.WrapRepoErr("failed to scan resource row", err)
			}
			views = append(views, view)
		}
		if err := rows.Err(); err != nil {
			return nil, infra.WrapRepoErr("failed to read resource rows", err)
		}
		return views, nil
	})
}

func scanResourceView(row pgx.Row) (*queries.ResourceView, error) {
	var (
		view         queries.ResourceView
		id           pgtype.UUID
		description  pgtype.Text
		location     pgtype.Text
		capacity     pgtype.Int4
		restrictions []byte
		createdAt    pgtype.Timestamptz
		updatedAt    pgtype.Timestamptz
	)
	err := row.Scan(&id, &view.Name, &description, &view.Category, &location,
		&capacity, &restrictions, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	var cfg resource.RestrictionsConfig
	if len(restrictions) > 0 {
		if err := json.Unmarshal(restrictions, &cfg); err != nil {
			return nil, err
		}
	}

	view.ID = uuid.UUID(id.Bytes)
	view.Description = pgconv.StringPtrFromPgtype(description)
	view.Location = pgconv.StringPtrFromPgtype(location)
	view.Capacity = pgconv.Int32PtrFromPgtype(capacity)
	view.Restrictions = cfg
	view.CreatedAt = pgconv.TimeFromPgtype(createdAt)
	view.UpdatedAt = pgconv.TimeFromPgtype(updatedAt)
	return &view, nil
}
