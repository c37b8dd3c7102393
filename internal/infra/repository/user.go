package repository

import (
	"context"

	"worklab/internal/domain/user"
	"worklab/internal/infra/db"

	"github.com/google/uuid"
)

type UserRepository struct {
	db db.DBTX
}

func NewUserRepository(dbtx db.DBTX) *UserRepository {
	return &UserRepository{db: dbtx}
}

func (r *UserRepository) Create(ctx context.Context, u *user.User) (uuid.UUID, error) {
	var id uuid.UUID
	err := r.db.QueryRow(ctx, `
		INSERT INTO users (name, email, password_hash, phone, department, role, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`,
		u.Name(),
		u.Email().String(),
		u.PasswordHash(),
		u.Phone(),
		u.Department(),
		string(u.Role()),
		u.IsActive(),
	).Scan(&id)
	if err != nil {
		return uuid.Nil, classifyWriteErr("failed to create user", err)
	}
	return id, nil
}
