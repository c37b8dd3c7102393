//go:build unit

package commands_test

import (
	"context"
	"testing"

	"worklab/internal/domain/resource"
	"worklab/internal/infra"
	"worklab/internal/usecase/commands"
	"worklab/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newResourceFixture() (*fakeUoW, commands.ResourceCommands) {
	uow := &fakeUoW{tx: &fakeTx{
		reads:        &fakeReads{reservations: map[uuid.UUID]*shared.ReservationSnapshot{}},
		reservations: &fakeReservationRepo{},
		resources:    &fakeResourceRepo{},
		audit:        &fakeAuditRepo{},
	}}
	return uow, commands.NewResourceCommands(uow)
}

func validResourceInput() commands.ResourceInput {
	capacity := int32(10)
	return commands.ResourceInput{
		Name:        "Conference Room A",
		Description: "Big screen, seats ten",
		Category:    "room",
		Capacity:    &capacity,
		Location:    "3F East",
	}
}

func TestResourceCreate(t *testing.T) {
	ctx := context.Background()
	actorID := uuid.New()

	t.Run("creates a resource and records the audit entry", func(t *testing.T) {
		uow, uc := newResourceFixture()

		id, err := uc.Create(ctx, actorID, validResourceInput())
		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, id)
		require.Len(t, uow.tx.resources.created, 1)
		assert.Equal(t, "Conference Room A", uow.tx.resources.created[0].Name())
		assert.Equal(t, []string{"resource.created"}, uow.tx.audit.actions)
	})

	t.Run("rejects an unknown category", func(t *testing.T) {
		_, uc := newResourceFixture()
		input := validResourceInput()
		input.Category = "submarine"

		_, err := uc.Create(ctx, actorID, input)
		assert.ErrorIs(t, err, commands.ErrInvalidResource)
	})

	t.Run("rejects malformed restrictions", func(t *testing.T) {
		_, uc := newResourceFixture()
		input := validResourceInput()
		bad := -30
		input.Restrictions = resource.RestrictionsConfig{MinAdvanceNotice: &bad}

		_, err := uc.Create(ctx, actorID, input)
		assert.ErrorIs(t, err, commands.ErrInvalidResource)
	})

	t.Run("duplicate name surfaces as a conflict", func(t *testing.T) {
		uow, uc := newResourceFixture()
		uow.tx.resources.createErr = infra.WrapRepoErr("duplicate key", nil, infra.KindDuplicateKey)

		_, err := uc.Create(ctx, actorID, validResourceInput())
		assert.ErrorIs(t, err, commands.ErrDuplicateName)
	})
}

func TestResourceUpdate(t *testing.T) {
	ctx := context.Background()
	actorID := uuid.New()
	resourceID := uuid.New()

	t.Run("updates under the given id", func(t *testing.T) {
		uow, uc := newResourceFixture()

		err := uc.Update(ctx, actorID, resourceID, validResourceInput())
		require.NoError(t, err)
		require.Len(t, uow.tx.resources.updated, 1)
		assert.Equal(t, resourceID, uow.tx.resources.updated[0].ID())
		assert.Equal(t, []string{"resource.updated"}, uow.tx.audit.actions)
	})

	t.Run("unknown resource", func(t *testing.T) {
		uow, uc := newResourceFixture()
		uow.tx.resources.updateErr = infra.WrapRepoErr("no rows", nil, infra.KindNotFound)

		err := uc.Update(ctx, actorID, resourceID, validResourceInput())
		assert.ErrorIs(t, err, commands.ErrResourceNotFound)
	})
}

func TestResourceDelete(t *testing.T) {
	ctx := context.Background()
	actorID := uuid.New()
	resourceID := uuid.New()

	t.Run("deletes when no active reservations remain", func(t *testing.T) {
		uow, uc := newResourceFixture()

		err := uc.Delete(ctx, actorID, resourceID)
		require.NoError(t, err)
		assert.Equal(t, []uuid.UUID{resourceID}, uow.tx.resources.deleted)
		assert.Equal(t, []string{"resource.deleted"}, uow.tx.audit.actions)
	})

	t.Run("refuses while reservations are active", func(t *testing.T) {
		uow, uc := newResourceFixture()
		uow.tx.reads.active = []shared.ReservationSnapshot{
			{ID: uuid.New(), ResourceID: resourceID, Status: "confirmed"},
		}

		err := uc.Delete(ctx, actorID, resourceID)
		assert.ErrorIs(t, err, commands.ErrResourceInUse)
		assert.Empty(t, uow.tx.resources.deleted)
	})
}
