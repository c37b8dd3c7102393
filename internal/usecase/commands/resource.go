package commands

import (
	"context"
	"encoding/json"
	"errors"

	"worklab/internal/domain/resource"
	"worklab/internal/infra"
	"worklab/internal/pkg/errs"
	"worklab/internal/usecase/shared"

	"github.com/google/uuid"
)

var (
	ErrInvalidResource  = errs.New("invalid resource")
	ErrResourceInUse    = errs.New("resource has active reservations")
	ErrDuplicateName    = errs.New("resource name already exists")
)

type ResourceInput struct {
	Name         string
	Description  string
	Category     string
	Capacity     *int32
	Location     string
	Restrictions resource.RestrictionsConfig
}

type ResourceCommands interface {
	Create(ctx context.Context, actorID uuid.UUID, input ResourceInput) (uuid.UUID, error)
	Update(ctx context.Context, actorID uuid.UUID, resourceID uuid.UUID, input ResourceInput) error
	// Delete refuses while active reservations still reference the resource.
	Delete(ctx context.Context, actorID uuid.UUID, resourceID uuid.UUID) error
}

type resourceCommandsImpl struct {
	uow shared.UnitOfWork
}

func NewResourceCommands(uow shared.UnitOfWork) ResourceCommands {
	return &resourceCommandsImpl{uow: uow}
}

func (c *resourceCommandsImpl) Create(ctx context.Context, actorID uuid.UUID, input ResourceInput) (uuid.UUID, error) {
	entity, err := buildResource(input)
	if err != nil {
		return uuid.Nil, errs.Mark(err, ErrInvalidResource)
	}

	var resourceID uuid.UUID
	err = c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		id, err := tx.Resources().Create(ctx, entity)
		if err != nil {
			return err
		}
		resourceID = id

		return recordResourceAudit(ctx, tx, actorID, "resource.created", resourceID, input)
	})
	if err != nil {
		if infra.IsKind(err, infra.KindDuplicateKey) {
			return uuid.Nil, ErrDuplicateName
		}
		return uuid.Nil, errs.Mark(err, ErrStorageFailure)
	}

	return resourceID, nil
}

func (c *resourceCommandsImpl) Update(ctx context.Context, actorID uuid.UUID, resourceID uuid.UUID, input ResourceInput) error {
	entity, err := buildResource(input)
	if err != nil {
		return errs.Mark(err, ErrInvalidResource)
	}
	entity = resource.ReconstructResource(
		resourceID,
		entity.Name(), entity.Description(), entity.Category(),
		entity.Capacity(), entity.Location(), entity.Restrictions(),
		entity.CreatedAt(), entity.UpdatedAt(),
	)

	err = c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if err := tx.Resources().Update(ctx, entity); err != nil {
			return err
		}
		return recordResourceAudit(ctx, tx, actorID, "resource.updated", resourceID, input)
	})
	if err != nil {
		switch {
		case infra.IsKind(err, infra.KindNotFound):
			return ErrResourceNotFound
		case infra.IsKind(err, infra.KindDuplicateKey):
			return ErrDuplicateName
		default:
			return errs.Mark(err, ErrStorageFailure)
		}
	}
	return nil
}

func (c *resourceCommandsImpl) Delete(ctx context.Context, actorID uuid.UUID, resourceID uuid.UUID) error {
	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		inUse, err := tx.Reads().ResourceHasActiveReservations(ctx, resourceID)
		if err != nil {
			return err
		}
		if inUse {
			return ErrResourceInUse
		}

		if err := tx.Resources().Delete(ctx, resourceID); err != nil {
			return err
		}
		return tx.Audit().Record(ctx, actorID, "resource.deleted", "resource", resourceID, nil)
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrResourceInUse):
			return ErrResourceInUse
		case infra.IsKind(err, infra.KindNotFound):
			return ErrResourceNotFound
		case infra.IsKind(err, infra.KindForeignKeyViolated):
			// Historical rows still point here; the guard above covers
			// active ones, cancelled history blocks the delete too.
			return ErrResourceInUse
		default:
			return errs.Mark(err, ErrStorageFailure)
		}
	}
	return nil
}

func buildResource(input ResourceInput) (*resource.Resource, error) {
	category, err := resource.NewCategory(input.Category)
	if err != nil {
		return nil, err
	}

	restrictions, err := resource.NewRestrictions(input.Restrictions)
	if err != nil {
		return nil, err
	}

	return resource.NewResource(input.Name, input.Description, category, input.Capacity, input.Location, restrictions)
}

func recordResourceAudit(ctx context.Context, tx shared.Tx, actorID uuid.UUID, action string, resourceID uuid.UUID, input ResourceInput) error {
	detail, err := json.Marshal(map[string]any{
		"name":     input.Name,
		"category": input.Category,
	})
	if err != nil {
		return errs.Wrap(err, "failed to encode audit detail")
	}
	return tx.Audit().Record(ctx, actorID, action, "resource", resourceID, detail)
}
