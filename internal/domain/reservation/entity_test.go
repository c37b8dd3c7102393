//go:build unit

package reservation_test

import (
	"testing"
	"time"

	"worklab/internal/domain/reservation"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newReservation(t *testing.T, status reservation.Status) *reservation.Reservation {
	t.Helper()
	desc, err := reservation.NewDescription("team meeting")
	require.NoError(t, err)
	res, err := reservation.NewReservation(uuid.New(), uuid.New(), slot(t, "10:00", "11:00"), status, desc)
	require.NoError(t, err)
	return res
}

func TestNewReservation(t *testing.T) {
	t.Run("pending start", func(t *testing.T) {
		res := newReservation(t, reservation.StatusPending)
		assert.NotEqual(t, uuid.Nil, res.ID())
		assert.Equal(t, reservation.StatusPending, res.Status())
		assert.True(t, res.IsActive())
	})

	t.Run("confirmed start", func(t *testing.T) {
		res := newReservation(t, reservation.StatusConfirmed)
		assert.True(t, res.IsActive())
	})

	t.Run("cancelled start is rejected", func(t *testing.T) {
		_, err := reservation.NewReservation(uuid.New(), uuid.New(), slot(t, "10:00", "11:00"), reservation.StatusCancelled, reservation.Description{})
		assert.ErrorIs(t, err, reservation.ErrInvalidInitialStatus)
	})
}

func TestReservationCancel(t *testing.T) {
	t.Run("active reservation cancels", func(t *testing.T) {
		res := newReservation(t, reservation.StatusConfirmed)
		require.NoError(t, res.Cancel())
		assert.Equal(t, reservation.StatusCancelled, res.Status())
		assert.False(t, res.IsActive())
	})

	t.Run("cancelling twice fails", func(t *testing.T) {
		res := newReservation(t, reservation.StatusConfirmed)
		require.NoError(t, res.Cancel())
		assert.ErrorIs(t, res.Cancel(), reservation.ErrNotActive)
	})
}

func TestReservationReschedule(t *testing.T) {
	t.Run("active reservation moves", func(t *testing.T) {
		res := newReservation(t, reservation.StatusConfirmed)
		next := slot(t, "12:00", "13:00")
		require.NoError(t, res.Reschedule(next))
		assert.Equal(t, next, res.Slot())
	})

	t.Run("cancelled reservation cannot move", func(t *testing.T) {
		res := newReservation(t, reservation.StatusConfirmed)
		require.NoError(t, res.Cancel())
		assert.ErrorIs(t, res.Reschedule(slot(t, "12:00", "13:00")), reservation.ErrNotActive)
	})
}

func TestReservationHasExpired(t *testing.T) {
	res := newReservation(t, reservation.StatusConfirmed)
	assert.False(t, res.HasExpired(res.Slot().End()))
	assert.True(t, res.HasExpired(res.Slot().End().Add(time.Second)))
}
