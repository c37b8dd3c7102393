package reservation

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidStatus        = errors.New("invalid reservation status")
	ErrInvalidInitialStatus = errors.New("reservation must start as pending or confirmed")
	ErrNotActive            = errors.New("reservation is not active")
)

type Reservation struct {
	id          uuid.UUID
	resourceID  uuid.UUID
	userID      uuid.UUID
	slot        TimeSlot
	status      Status
	description Description
	createdAt   time.Time
	updatedAt   time.Time
}

func NewReservation(resourceID, userID uuid.UUID, slot TimeSlot, status Status, description Description) (*Reservation, error) {
	if !status.IsActive() {
		return nil, ErrInvalidInitialStatus
	}
	return &Reservation{
		id:          uuid.New(),
		resourceID:  resourceID,
		userID:      userID,
		slot:        slot,
		status:      status,
		description: description,
	}, nil
}

func ReconstructReservation(
	id, resourceID, userID uuid.UUID,
	slot TimeSlot,
	status Status,
	description Description,
	createdAt, updatedAt time.Time,
) *Reservation {
	return &Reservation{
		id:          id,
		resourceID:  resourceID,
		userID:      userID,
		slot:        slot,
		status:      status,
		description: description,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
	}
}

func (r *Reservation) IsActive() bool {
	return r.status.IsActive()
}

// Reschedule moves the reservation to a new window. Only active reservations
// may be rescheduled; callers re-run restriction and conflict checks first.
func (r *Reservation) Reschedule(slot TimeSlot) error {
	if !r.IsActive() {
		return ErrNotActive
	}
	r.slot = slot
	return nil
}

// Cancel transitions the reservation to cancelled. Cancelling a reservation
// that is not active (including one already cancelled) is an error, never a
// silent no-op.
func (r *Reservation) Cancel() error {
	if !r.IsActive() {
		return ErrNotActive
	}
	r.status = StatusCancelled
	return nil
}

func (r *Reservation) HasExpired(now time.Time) bool {
	return now.After(r.slot.End())
}

func (r *Reservation) ID() uuid.UUID           { return r.id }
func (r *Reservation) ResourceID() uuid.UUID   { return r.resourceID }
func (r *Reservation) UserID() uuid.UUID       { return r.userID }
func (r *Reservation) Slot() TimeSlot          { return r.slot }
func (r *Reservation) Status() Status          { return r.status }
func (r *Reservation) Description() Description { return r.description }
func (r *Reservation) CreatedAt() time.Time    { return r.createdAt }
func (r *Reservation) UpdatedAt() time.Time    { return r.updatedAt }
