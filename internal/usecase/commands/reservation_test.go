//go:build unit

package commands_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"worklab/internal/domain/reservation"
	"worklab/internal/domain/resource"
	"worklab/internal/infra"
	"worklab/internal/pkg/clock"
	"worklab/internal/usecase/commands"
	"worklab/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeReads serves command-side lookups from in-memory maps.
type fakeReads struct {
	users        map[uuid.UUID]*shared.UserSnapshot
	resources    map[uuid.UUID]*shared.ResourceSnapshot
	reservations map[uuid.UUID]*shared.ReservationSnapshot
	active       []shared.ReservationSnapshot
}

func notFound() error {
	return infra.WrapRepoErr("no rows", errors.New("no rows in result set"), infra.KindNotFound)
}

func (f *fakeReads) ResourceByID(_ context.Context, id uuid.UUID) (*shared.ResourceSnapshot, error) {
	if snap, ok := f.resources[id]; ok {
		return snap, nil
	}
	return nil, notFound()
}

func (f *fakeReads) ReservationByID(_ context.Context, id uuid.UUID) (*shared.ReservationSnapshot, error) {
	if snap, ok := f.reservations[id]; ok {
		return snap, nil
	}
	return nil, notFound()
}

func (f *fakeReads) ActiveByResource(_ context.Context, resourceID uuid.UUID, excludeID *uuid.UUID) ([]shared.ReservationSnapshot, error) {
	var out []shared.ReservationSnapshot
	for _, snap := range f.active {
		if snap.ResourceID != resourceID {
			continue
		}
		if excludeID != nil && snap.ID == *excludeID {
			continue
		}
		out = append(out, snap)
	}
	return out, nil
}

func (f *fakeReads) ResourceHasActiveReservations(_ context.Context, resourceID uuid.UUID) (bool, error) {
	for _, snap := range f.active {
		if snap.ResourceID == resourceID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeReads) UserByID(_ context.Context, id uuid.UUID) (*shared.UserSnapshot, error) {
	if snap, ok := f.users[id]; ok {
		return snap, nil
	}
	return nil, notFound()
}

type fakeReservationRepo struct {
	locked             []uuid.UUID
	created            []*reservation.Reservation
	createdID          uuid.UUID
	windowUpdates      map[uuid.UUID][2]time.Time
	descriptionUpdates map[uuid.UUID]string
	statusUpdates      map[uuid.UUID]reservation.Status
	updateWindowErr    error
	updateStatusErr    error
}

func (f *fakeReservationRepo) LockResource(_ context.Context, resourceID uuid.UUID) error {
	f.locked = append(f.locked, resourceID)
	return nil
}

func (f *fakeReservationRepo) Create(_ context.Context, res *reservation.Reservation) (uuid.UUID, error) {
	f.created = append(f.created, res)
	if f.createdID == uuid.Nil {
		f.createdID = uuid.New()
	}
	return f.createdID, nil
}

func (f *fakeReservationRepo) UpdateWindow(_ context.Context, id uuid.UUID, startsAt, endsAt time.Time, description *string) error {
	if f.updateWindowErr != nil {
		return f.updateWindowErr
	}
	if f.windowUpdates == nil {
		f.windowUpdates = map[uuid.UUID][2]time.Time{}
	}
	f.windowUpdates[id] = [2]time.Time{startsAt, endsAt}
	if description != nil {
		if f.descriptionUpdates == nil {
			f.descriptionUpdates = map[uuid.UUID]string{}
		}
		f.descriptionUpdates[id] = *description
	}
	return nil
}

func (f *fakeReservationRepo) UpdateStatus(_ context.Context, id uuid.UUID, status reservation.Status) error {
	if f.updateStatusErr != nil {
		return f.updateStatusErr
	}
	if f.statusUpdates == nil {
		f.statusUpdates = map[uuid.UUID]reservation.Status{}
	}
	f.statusUpdates[id] = status
	return nil
}

type fakeAuditRepo struct {
	actions []string
}

func (f *fakeAuditRepo) Record(_ context.Context, _ uuid.UUID, action, _ string, _ uuid.UUID, _ []byte) error {
	f.actions = append(f.actions, action)
	return nil
}

type fakeResourceRepo struct {
	created   []*resource.Resource
	createdID uuid.UUID
	updated   []*resource.Resource
	deleted   []uuid.UUID
	createErr error
	updateErr error
}

func (f *fakeResourceRepo) Create(_ context.Context, res *resource.Resource) (uuid.UUID, error) {
	if f.createErr != nil {
		return uuid.Nil, f.createErr
	}
	f.created = append(f.created, res)
	if f.createdID == uuid.Nil {
		f.createdID = uuid.New()
	}
	return f.createdID, nil
}

func (f *fakeResourceRepo) Update(_ context.Context, res *resource.Resource) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	f.updated = append(f.updated, res)
	return nil
}

func (f *fakeResourceRepo) Delete(_ context.Context, id uuid.UUID) error {
	f.deleted = append(f.deleted, id)
	return nil
}

type fakeTx struct {
	reads        *fakeReads
	reservations *fakeReservationRepo
	resources    *fakeResourceRepo
	users        *fakeUserRepo
	audit        *fakeAuditRepo
}

func (f *fakeTx) Reservations() shared.ReservationRepository { return f.reservations }
func (f *fakeTx) Resources() shared.ResourceRepository       { return f.resources }
func (f *fakeTx) Users() shared.UserRepository               { return f.users }
func (f *fakeTx) Audit() shared.AuditRepository              { return f.audit }
func (f *fakeTx) Reads() shared.CommandReads                 { return f.reads }

type fakeUoW struct {
	tx *fakeTx
}

func (f *fakeUoW) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	return fn(ctx, f.tx)
}

func (f *fakeUoW) CommandReads() shared.CommandReads { return f.tx.reads }

type fakeNotifications struct {
	kinds    []string
	payloads [][]byte
	fail     bool
}

func (f *fakeNotifications) Enqueue(_ context.Context, kind, _ string, payload []byte, _ time.Time, _ *string) error {
	if f.fail {
		return errors.New("outbox unavailable")
	}
	f.kinds = append(f.kinds, kind)
	f.payloads = append(f.payloads, payload)
	return nil
}

type reservationFixture struct {
	uc            commands.ReservationCommands
	uow           *fakeUoW
	notifications *fakeNotifications
	clock         *clock.MockClock

	actorID    uuid.UUID
	adminID    uuid.UUID
	resourceID uuid.UUID
}

func newReservationFixture(t *testing.T) *reservationFixture {
	t.Helper()

	actorID := uuid.New()
	adminID := uuid.New()
	resourceID := uuid.New()

	reads := &fakeReads{
		users: map[uuid.UUID]*shared.UserSnapshot{
			actorID: {ID: actorID, Name: "Alice", Email: "alice@example.com", Phone: "+15550001", Role: "user", IsActive: true},
			adminID: {ID: adminID, Name: "Root", Email: "root@example.com", Role: "admin", IsActive: true},
		},
		resources: map[uuid.UUID]*shared.ResourceSnapshot{
			resourceID: {ID: resourceID, Name: "Conference Room A", Category: "room"},
		},
		reservations: map[uuid.UUID]*shared.ReservationSnapshot{},
	}

	uow := &fakeUoW{tx: &fakeTx{
		reads:        reads,
		reservations: &fakeReservationRepo{},
		resources:    &fakeResourceRepo{},
		audit:        &fakeAuditRepo{},
	}}
	notifications := &fakeNotifications{}
	clk := clock.NewMockClock(time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC))

	return &reservationFixture{
		uc:            commands.NewReservationUseCase(uow, notifications, clk, commands.NopMetrics{}),
		uow:           uow,
		notifications: notifications,
		clock:         clk,
		actorID:       actorID,
		adminID:       adminID,
		resourceID:    resourceID,
	}
}

func (f *reservationFixture) slot(startOffset, duration time.Duration) (time.Time, time.Time) {
	start := f.clock.Now().Add(startOffset)
	return start, start.Add(duration)
}

func TestReservationCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("books a free slot as pending and queues a notification", func(t *testing.T) {
		f := newReservationFixture(t)
		start, end := f.slot(24*time.Hour, time.Hour)

		result, err := f.uc.Create(ctx, f.actorID, commands.CreateReservationInput{
			ResourceID: f.resourceID,
			StartsAt:   start,
			EndsAt:     end,
		})
		require.NoError(t, err)
		assert.True(t, result.NotificationQueued)

		repo := f.uow.tx.reservations
		require.Len(t, repo.created, 1)
		assert.Equal(t, reservation.StatusPending, repo.created[0].Status())
		assert.Equal(t, []uuid.UUID{f.resourceID}, repo.locked)
		assert.Equal(t, []string{"reservation.created"}, f.uow.tx.audit.actions)
		assert.Equal(t, []string{"reservation_created"}, f.notifications.kinds)

		require.Len(t, f.notifications.payloads, 1)
		var payload map[string]any
		require.NoError(t, json.Unmarshal(f.notifications.payloads[0], &payload))
		assert.Equal(t, "Conference Room A", payload["resource_name"])
		assert.Equal(t, "Alice", payload["user_name"])
	})

	t.Run("accepts an explicit confirmed status", func(t *testing.T) {
		f := newReservationFixture(t)
		start, end := f.slot(24*time.Hour, time.Hour)

		_, err := f.uc.Create(ctx, f.actorID, commands.CreateReservationInput{
			ResourceID: f.resourceID,
			StartsAt:   start,
			EndsAt:     end,
			Status:     "confirmed",
		})
		require.NoError(t, err)
		assert.Equal(t, reservation.StatusConfirmed, f.uow.tx.reservations.created[0].Status())
	})

	t.Run("rejects an overlapping window", func(t *testing.T) {
		f := newReservationFixture(t)
		start, end := f.slot(24*time.Hour, time.Hour)
		f.uow.tx.reads.active = []shared.ReservationSnapshot{
			{ID: uuid.New(), ResourceID: f.resourceID, StartsAt: start.Add(30 * time.Minute), EndsAt: end.Add(30 * time.Minute), Status: "confirmed"},
		}

		_, err := f.uc.Create(ctx, f.actorID, commands.CreateReservationInput{
			ResourceID: f.resourceID,
			StartsAt:   start,
			EndsAt:     end,
		})
		assert.ErrorIs(t, err, commands.ErrReservationConflict)
		assert.Empty(t, f.uow.tx.reservations.created)
		assert.Empty(t, f.notifications.kinds)
	})

	t.Run("allows a back-to-back window", func(t *testing.T) {
		f := newReservationFixture(t)
		start, end := f.slot(24*time.Hour, time.Hour)
		f.uow.tx.reads.active = []shared.ReservationSnapshot{
			{ID: uuid.New(), ResourceID: f.resourceID, StartsAt: end, EndsAt: end.Add(time.Hour), Status: "confirmed"},
		}

		_, err := f.uc.Create(ctx, f.actorID, commands.CreateReservationInput{
			ResourceID: f.resourceID,
			StartsAt:   start,
			EndsAt:     end,
		})
		assert.NoError(t, err)
	})

	t.Run("enforces minimum advance notice", func(t *testing.T) {
		f := newReservationFixture(t)
		notice := 48 * 60 // minutes; the candidate below leads by only 24h
		f.uow.tx.reads.resources[f.resourceID].Restrictions = resource.RestrictionsConfig{
			MinAdvanceNotice: &notice,
		}
		start, end := f.slot(24*time.Hour, time.Hour)

		_, err := f.uc.Create(ctx, f.actorID, commands.CreateReservationInput{
			ResourceID: f.resourceID,
			StartsAt:   start,
			EndsAt:     end,
		})
		assert.ErrorIs(t, err, commands.ErrRestrictionViolated)
		assert.ErrorIs(t, err, resource.ErrAdvanceNoticeTooShort)
	})

	t.Run("enforces the allowed role list", func(t *testing.T) {
		f := newReservationFixture(t)
		f.uow.tx.reads.resources[f.resourceID].Restrictions = resource.RestrictionsConfig{
			AllowedRoles: []string{"admin"},
		}
		start, end := f.slot(24*time.Hour, time.Hour)

		_, err := f.uc.Create(ctx, f.actorID, commands.CreateReservationInput{
			ResourceID: f.resourceID,
			StartsAt:   start,
			EndsAt:     end,
		})
		assert.ErrorIs(t, err, commands.ErrRestrictionViolated)
	})

	t.Run("rejects an unknown resource", func(t *testing.T) {
		f := newReservationFixture(t)
		start, end := f.slot(24*time.Hour, time.Hour)

		_, err := f.uc.Create(ctx, f.actorID, commands.CreateReservationInput{
			ResourceID: uuid.New(),
			StartsAt:   start,
			EndsAt:     end,
		})
		assert.ErrorIs(t, err, commands.ErrResourceNotFound)
	})

	t.Run("rejects an inactive actor", func(t *testing.T) {
		f := newReservationFixture(t)
		f.uow.tx.reads.users[f.actorID].IsActive = false
		start, end := f.slot(24*time.Hour, time.Hour)

		_, err := f.uc.Create(ctx, f.actorID, commands.CreateReservationInput{
			ResourceID: f.resourceID,
			StartsAt:   start,
			EndsAt:     end,
		})
		assert.ErrorIs(t, err, commands.ErrUserInactive)
	})

	t.Run("rejects an inverted window", func(t *testing.T) {
		f := newReservationFixture(t)
		start, end := f.slot(24*time.Hour, time.Hour)

		_, err := f.uc.Create(ctx, f.actorID, commands.CreateReservationInput{
			ResourceID: f.resourceID,
			StartsAt:   end,
			EndsAt:     start,
		})
		assert.ErrorIs(t, err, commands.ErrInvalidTimeSlot)
	})

	t.Run("booking survives a failed notification enqueue", func(t *testing.T) {
		f := newReservationFixture(t)
		f.notifications.fail = true
		start, end := f.slot(24*time.Hour, time.Hour)

		result, err := f.uc.Create(ctx, f.actorID, commands.CreateReservationInput{
			ResourceID: f.resourceID,
			StartsAt:   start,
			EndsAt:     end,
		})
		require.NoError(t, err)
		assert.False(t, result.NotificationQueued)
		assert.Len(t, f.uow.tx.reservations.created, 1)
	})
}

func seedReservation(f *reservationFixture, ownerID uuid.UUID, status string) uuid.UUID {
	id := uuid.New()
	start := f.clock.Now().Add(24 * time.Hour)
	f.uow.tx.reads.reservations[id] = &shared.ReservationSnapshot{
		ID:         id,
		ResourceID: f.resourceID,
		UserID:     ownerID,
		StartsAt:   start,
		EndsAt:     start.Add(time.Hour),
		Status:     status,
	}
	return id
}

func TestReservationModify(t *testing.T) {
	ctx := context.Background()

	t.Run("owner moves the window", func(t *testing.T) {
		f := newReservationFixture(t)
		id := seedReservation(f, f.actorID, "confirmed")
		start, end := f.slot(48*time.Hour, 2*time.Hour)

		result, err := f.uc.Modify(ctx, f.actorID, id, commands.ModifyReservationInput{
			StartsAt: start,
			EndsAt:   end,
		})
		require.NoError(t, err)
		assert.Equal(t, id, result.ID)

		update, ok := f.uow.tx.reservations.windowUpdates[id]
		require.True(t, ok)
		assert.Equal(t, start, update[0])
		assert.Equal(t, end, update[1])
		assert.Equal(t, []string{"reservation.modified"}, f.uow.tx.audit.actions)
		assert.Equal(t, []string{"reservation_modified"}, f.notifications.kinds)
	})

	t.Run("persists a new description alongside the window", func(t *testing.T) {
		f := newReservationFixture(t)
		id := seedReservation(f, f.actorID, "confirmed")
		start, end := f.slot(48*time.Hour, time.Hour)
		description := "updated agenda"

		_, err := f.uc.Modify(ctx, f.actorID, id, commands.ModifyReservationInput{
			StartsAt:    start,
			EndsAt:      end,
			Description: &description,
		})
		require.NoError(t, err)
		assert.Equal(t, "updated agenda", f.uow.tx.reservations.descriptionUpdates[id])
	})

	t.Run("keeps the stored description when none is sent", func(t *testing.T) {
		f := newReservationFixture(t)
		id := seedReservation(f, f.actorID, "confirmed")
		start, end := f.slot(48*time.Hour, time.Hour)

		_, err := f.uc.Modify(ctx, f.actorID, id, commands.ModifyReservationInput{
			StartsAt: start,
			EndsAt:   end,
		})
		require.NoError(t, err)
		assert.Empty(t, f.uow.tx.reservations.descriptionUpdates)
	})

	t.Run("losing the race to a cancel is an invalid state", func(t *testing.T) {
		f := newReservationFixture(t)
		id := seedReservation(f, f.actorID, "confirmed")
		f.uow.tx.reservations.updateWindowErr =
			infra.WrapRepoErr("reservation inactive or missing", nil, infra.KindPreconditionFailed)
		start, end := f.slot(48*time.Hour, time.Hour)

		_, err := f.uc.Modify(ctx, f.actorID, id, commands.ModifyReservationInput{
			StartsAt: start,
			EndsAt:   end,
		})
		assert.ErrorIs(t, err, commands.ErrInvalidState)
	})

	t.Run("another user is refused", func(t *testing.T) {
		f := newReservationFixture(t)
		id := seedReservation(f, uuid.New(), "confirmed")
		start, end := f.slot(48*time.Hour, time.Hour)

		_, err := f.uc.Modify(ctx, f.actorID, id, commands.ModifyReservationInput{
			StartsAt: start,
			EndsAt:   end,
		})
		assert.ErrorIs(t, err, commands.ErrForbidden)
	})

	t.Run("admin edits on the owner's behalf under the owner's role", func(t *testing.T) {
		f := newReservationFixture(t)
		id := seedReservation(f, f.actorID, "confirmed")
		f.uow.tx.reads.resources[f.resourceID].Restrictions = resource.RestrictionsConfig{
			AllowedRoles: []string{"admin"},
		}
		start, end := f.slot(48*time.Hour, time.Hour)

		_, err := f.uc.Modify(ctx, f.adminID, id, commands.ModifyReservationInput{
			StartsAt: start,
			EndsAt:   end,
		})
		assert.ErrorIs(t, err, commands.ErrRestrictionViolated)
	})

	t.Run("cancelled reservations cannot move", func(t *testing.T) {
		f := newReservationFixture(t)
		id := seedReservation(f, f.actorID, "cancelled")
		start, end := f.slot(48*time.Hour, time.Hour)

		_, err := f.uc.Modify(ctx, f.actorID, id, commands.ModifyReservationInput{
			StartsAt: start,
			EndsAt:   end,
		})
		assert.ErrorIs(t, err, commands.ErrInvalidState)
	})

	t.Run("the reservation's own window is not a conflict", func(t *testing.T) {
		f := newReservationFixture(t)
		id := seedReservation(f, f.actorID, "confirmed")
		snap := f.uow.tx.reads.reservations[id]
		f.uow.tx.reads.active = []shared.ReservationSnapshot{*snap}

		// shift by 30 minutes, still overlapping the old window
		_, err := f.uc.Modify(ctx, f.actorID, id, commands.ModifyReservationInput{
			StartsAt: snap.StartsAt.Add(30 * time.Minute),
			EndsAt:   snap.EndsAt.Add(30 * time.Minute),
		})
		assert.NoError(t, err)
	})

	t.Run("unknown reservation", func(t *testing.T) {
		f := newReservationFixture(t)
		start, end := f.slot(48*time.Hour, time.Hour)

		_, err := f.uc.Modify(ctx, f.actorID, uuid.New(), commands.ModifyReservationInput{
			StartsAt: start,
			EndsAt:   end,
		})
		assert.ErrorIs(t, err, commands.ErrReservationNotFound)
	})
}

func TestReservationCancel(t *testing.T) {
	ctx := context.Background()

	t.Run("owner cancels an active reservation", func(t *testing.T) {
		f := newReservationFixture(t)
		id := seedReservation(f, f.actorID, "pending")

		result, err := f.uc.Cancel(ctx, f.actorID, id)
		require.NoError(t, err)
		assert.Equal(t, id, result.ID)
		assert.Equal(t, reservation.StatusCancelled, f.uow.tx.reservations.statusUpdates[id])
		assert.Equal(t, []uuid.UUID{f.resourceID}, f.uow.tx.reservations.locked)
		assert.Equal(t, []string{"reservation.cancelled"}, f.uow.tx.audit.actions)
		assert.Equal(t, []string{"reservation_cancelled"}, f.notifications.kinds)
	})

	t.Run("cancel racing another writer is an invalid state", func(t *testing.T) {
		f := newReservationFixture(t)
		id := seedReservation(f, f.actorID, "confirmed")
		f.uow.tx.reservations.updateStatusErr =
			infra.WrapRepoErr("reservation inactive or missing", nil, infra.KindPreconditionFailed)

		_, err := f.uc.Cancel(ctx, f.actorID, id)
		assert.ErrorIs(t, err, commands.ErrInvalidState)
	})

	t.Run("admin cancels on behalf of the owner", func(t *testing.T) {
		f := newReservationFixture(t)
		id := seedReservation(f, f.actorID, "confirmed")

		_, err := f.uc.Cancel(ctx, f.adminID, id)
		assert.NoError(t, err)
	})

	t.Run("cancelling twice is refused", func(t *testing.T) {
		f := newReservationFixture(t)
		id := seedReservation(f, f.actorID, "cancelled")

		_, err := f.uc.Cancel(ctx, f.actorID, id)
		assert.ErrorIs(t, err, commands.ErrInvalidState)
	})
}
