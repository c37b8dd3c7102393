package commands

import (
	"context"
	"encoding/json"

	"worklab/internal/domain/user"
	"worklab/internal/infra"
	"worklab/internal/pkg/errs"
	"worklab/internal/pkg/password"
	"worklab/internal/usecase/shared"

	"github.com/google/uuid"
)

var (
	ErrInvalidUser    = errs.New("invalid user")
	ErrDuplicateEmail = errs.New("email already in use")
)

type CreateUserInput struct {
	Name       string
	Email      string
	Password   string
	Phone      string
	Department string
	// Role defaults to "user" when empty.
	Role string
}

type UserCommands interface {
	Create(ctx context.Context, actorID uuid.UUID, input CreateUserInput) (uuid.UUID, error)
}

type userCommandsImpl struct {
	uow shared.UnitOfWork
}

func NewUserCommands(uow shared.UnitOfWork) UserCommands {
	return &userCommandsImpl{uow: uow}
}

func (c *userCommandsImpl) Create(ctx context.Context, actorID uuid.UUID, input CreateUserInput) (uuid.UUID, error) {
	if input.Name == "" {
		return uuid.Nil, errs.Mark(errs.New("name is required"), ErrInvalidUser)
	}

	email, err := user.NewEmail(input.Email)
	if err != nil {
		return uuid.Nil, errs.Mark(err, ErrInvalidUser)
	}

	roleValue := input.Role
	if roleValue == "" {
		roleValue = string(user.RoleUser)
	}
	role, err := user.NewRole(roleValue)
	if err != nil {
		return uuid.Nil, errs.Mark(err, ErrInvalidUser)
	}

	hash, err := password.HashPassword(input.Password)
	if err != nil {
		return uuid.Nil, errs.Mark(err, ErrInvalidUser)
	}

	entity := user.NewUser(input.Name, email, hash, input.Phone, input.Department, role)

	var userID uuid.UUID
	err = c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		id, err := tx.Users().Create(ctx, entity)
		if err != nil {
			return err
		}
		userID = id

		detail, err := json.Marshal(map[string]any{
			"email": email.String(),
			"role":  string(role),
		})
		if err != nil {
			return errs.Wrap(err, "failed to encode audit detail")
		}
		return tx.Audit().Record(ctx, actorID, "user.created", "user", userID, detail)
	})
	if err != nil {
		if infra.IsKind(err, infra.KindDuplicateKey) {
			return uuid.Nil, ErrDuplicateEmail
		}
		return uuid.Nil, errs.Mark(err, ErrStorageFailure)
	}

	return userID, nil
}
