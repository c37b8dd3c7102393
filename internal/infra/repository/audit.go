package repository

import (
	"context"

	"worklab/internal/infra"
	"worklab/internal/infra/db"
	"worklab/internal/pkg/pgconv"

	"github.com/google/uuid"
)

type AuditRepository struct {
	db db.DBTX
}

func NewAuditRepository(dbtx db.DBTX) *AuditRepository {
	return &AuditRepository{db: dbtx}
}

func (r *AuditRepository) Record(ctx context.Context, actorID uuid.UUID, action, entityType string, entityID uuid.UUID, details []byte) error {
	if len(details) == 0 {
		details = []byte("{}")
	}
	_, err := r.db.Exec(ctx, `
		INSERT INTO audit_logs (actor_id, action, entity_type, entity_id, detail)
		VALUES ($1, $2, $3, $4, $5)`,
		pgconv.UUIDToPgtype(actorID),
		action,
		entityType,
		pgconv.UUIDToPgtype(entityID),
		details,
	)
	if err != nil {
		return infra.WrapRepoErr("failed to record audit log", err)
	}
	return nil
}
