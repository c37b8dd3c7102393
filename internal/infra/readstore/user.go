package readstore

import (
	"context"

	"worklab/internal/infra"
	"worklab/internal/infra/db"
	"worklab/internal/pkg/pgconv"
	"worklab/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type UserReadStore struct {
	db db.DBTX
}

func NewUserReadStore(dbtx db.DBTX) *UserReadStore {
	return &UserReadStore{db: dbtx}
}

func (s *UserReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.AuthorizedUserView, error) {
	return withReadRetry(ctx, func(ctx context.Context) (*queries.AuthorizedUserView, error) {
		row := s.db.QueryRow(ctx, `
			SELECT id, name, email, role, department, is_active
			FROM users
			WHERE id = $1`,
			pgconv.UUIDToPgtype(id),
		)

		var (
			view       queries.AuthorizedUserView
			userID     pgtype.UUID
			department pgtype.Text
		)
		err := row.Scan(&userID, &view.Name, &view.Email, &view.Role, &department, &view.IsActive)
		if err != nil {
			if pgconv.IsNoRows(err) {
				return nil, infra.WrapRepoErr("user not found", err, infra.KindNotFound)
			}
			return nil, infra.WrapRepoErr("failed to find user by ID", err)
		}

		view.ID = uuid.UUID(userID.Bytes)
		view.Department = pgconv.StringPtrFromPgtype(department)
		return &view, nil
	})
}

func (s *UserReadStore) FindAll(ctx context.Context) ([]*queries.UserListItem, error) {
	return withReadRetry(ctx, func(ctx context.Context) ([]*queries.UserListItem, error) {
		rows, err := s.db.Query(ctx, `
			SELECT id, name, email, role, department, phone, is_active, created_at
			FROM users
			ORDER BY name`,
		)
		if err != nil {
			return nil, infra.WrapRepoErr("failed to list users", err)
		}
		defer rows.Close()

		var items []*queries.UserListItem
		for rows.Next() {
			var (
				item       queries.UserListItem
				userID     pgtype.UUID
				department pgtype.Text
				phone      pgtype.Text
				createdAt  pgtype.Timestamptz
			)
			if err := rows.Scan(&userID, &item.Name, &item.Email, &item.Role, &department, &phone, &item.IsActive, &createdAt); err != nil {
				return nil, infra.WrapRepoErr("failed to scan user row", err)
			}
			item.ID = uuid.UUID(userID.Bytes)
			item.Department = pgconv.StringPtrFromPgtype(department)
			item.Phone = pgconv.StringPtrFromPgtype(phone)
			item.CreatedAt = createdAt.Time
			items = append(items, &item)
		}
		if err := rows.Err(); err != nil {
			return nil, infra.WrapRepoErr("failed to read user rows", err)
		}
		return items, nil
	})
}

func (s *UserReadStore) FindByEmail(ctx context.Context, email string) (*queries.AuthorizedUserView, string, error) {
	type result struct {
		view *queries.AuthorizedUserView
		hash string
	}
	res, err := withReadRetry(ctx, func(ctx context.Context) (result, error) {
		row := s.db.QueryRow(ctx, `
			SELECT id, name, email, role, department, is_active, password_hash
			FROM users
			WHERE email = $1`,
			email,
		)

		var (
			view       queries.AuthorizedUserView
			userID     pgtype.UUID
			department pgtype.Text
			hash       string
		)
		err := row.Scan(&userID, &view.Name, &view.Email, &view.Role, &department, &view.IsActive, &hash)
		if err != nil {
			if pgconv.IsNoRows(err) {
				return result{}, infra.WrapRepoErr("user not found", err, infra.KindNotFound)
			}
			return result{}, infra.WrapRepoErr("failed to find user by email", err)
		}

		view.ID = uuid.UUID(userID.Bytes)
		view.Department = pgconv.StringPtrFromPgtype(department)
		return result{view: &view, hash: hash}, nil
	})
	if err != nil {
		return nil, "", err
	}
	return res.view, res.hash, nil
}
