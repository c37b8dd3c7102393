package repository

import (
	"context"
	"encoding/json"

	"worklab/internal/domain/resource"
	"worklab/internal/infra"
	"worklab/internal/infra/db"
	"worklab/internal/pkg/pgconv"

	"github.com/google/uuid"
)

type ResourceRepository struct {
	db db.DBTX
}

func NewResourceRepository(dbtx db.DBTX) *ResourceRepository {
	return &ResourceRepository{db: dbtx}
}

func (r *ResourceRepository) Create(ctx context.Context, res *resource.Resource) (uuid.UUID, error) {
	restrictions, err := json.Marshal(res.Restrictions().Config())
	if err != nil {
		return uuid.Nil, infra.WrapRepoErr("failed to encode restrictions", err)
	}

	var id uuid.UUID
	err = r.db.QueryRow(ctx, `
		INSERT INTO resources (name, description, category, location, capacity, restrictions)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`,
		res.Name(),
		res.Description(),
		string(res.Category()),
		res.Location(),
		pgconv.Int32PtrToPgtype(res.Capacity()),
		restrictions,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, classifyWriteErr("failed to create resource", err)
	}
	return id, nil
}

func (r *ResourceRepository) Update(ctx context.Context, res *resource.Resource) error {
	restrictions, err := json.Marshal(res.Restrictions().Config())
	if err != nil {
		return infra.WrapRepoErr("failed to encode restrictions", err)
	}

	tag, err := r.db.Exec(ctx, `
		UPDATE resources
		SET name = $2, description = $3, category = $4, location = $5,
		    capacity = $6, restrictions = $7, updated_at = now()
		WHERE id = $1`,
		pgconv.UUIDToPgtype(res.ID()),
		res.Name(),
		res.Description(),
		string(res.Category()),
		res.Location(),
		pgconv.Int32PtrToPgtype(res.Capacity()),
		restrictions,
	)
	if err != nil {
		return classifyWriteErr("failed to update resource", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("resource not found", nil, infra.KindNotFound)
	}
	return nil
}

func (r *ResourceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM resources WHERE id = $1`, pgconv.UUIDToPgtype(id))
	if err != nil {
		return classifyWriteErr("failed to delete resource", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("resource not found", nil, infra.KindNotFound)
	}
	return nil
}
