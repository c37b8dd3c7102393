package shared

import (
	"context"
	"time"

	"worklab/internal/domain/reservation"
	"worklab/internal/domain/resource"
	"worklab/internal/domain/user"

	"github.com/google/uuid"
)

// UnitOfWork scopes write operations to a single transaction. Within retries
// the whole function on serialization failures, so fn must be idempotent up
// to its own writes.
type UnitOfWork interface {
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	// CommandReads gives validation-time reads outside a transaction.
	CommandReads() CommandReads
}

type Tx interface {
	Reservations() ReservationRepository
	Resources() ResourceRepository
	Users() UserRepository
	Audit() AuditRepository
	Reads() CommandReads
}

// CommandReads are the minimal lookups commands need before and during a
// write. Inside a transaction they observe the transaction's snapshot.
type CommandReads interface {
	ResourceByID(ctx context.Context, id uuid.UUID) (*ResourceSnapshot, error)
	ReservationByID(ctx context.Context, id uuid.UUID) (*ReservationSnapshot, error)
	// ActiveByResource lists pending and confirmed reservations for a
	// resource, optionally excluding one id (a modify must not conflict
	// with itself).
	ActiveByResource(ctx context.Context, resourceID uuid.UUID, excludeID *uuid.UUID) ([]ReservationSnapshot, error)
	ResourceHasActiveReservations(ctx context.Context, resourceID uuid.UUID) (bool, error)
	UserByID(ctx context.Context, id uuid.UUID) (*UserSnapshot, error)
}

type ResourceSnapshot struct {
	ID           uuid.UUID
	Name         string
	Category     string
	Capacity     *int32
	Location     string
	Restrictions resource.RestrictionsConfig
}

type ReservationSnapshot struct {
	ID          uuid.UUID
	ResourceID  uuid.UUID
	UserID      uuid.UUID
	StartsAt    time.Time
	EndsAt      time.Time
	Status      string
	Description *string
}

type UserSnapshot struct {
	ID       uuid.UUID
	Name     string
	Email    string
	Phone    string
	Role     string
	IsActive bool
}

type ReservationRepository interface {
	// LockResource serializes create/modify for one resource within the
	// current transaction (advisory lock), closing the check-then-act
	// window between conflict check and insert.
	LockResource(ctx context.Context, resourceID uuid.UUID) error
	Create(ctx context.Context, res *reservation.Reservation) (uuid.UUID, error)
	// UpdateWindow moves an active reservation, optionally replacing its
	// description. Zero matched rows surface as a precondition failure.
	UpdateWindow(ctx context.Context, id uuid.UUID, startsAt, endsAt time.Time, description *string) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status reservation.Status) error
}

type ResourceRepository interface {
	Create(ctx context.Context, res *resource.Resource) (uuid.UUID, error)
	Update(ctx context.Context, res *resource.Resource) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type UserRepository interface {
	Create(ctx context.Context, u *user.User) (uuid.UUID, error)
}

type AuditRepository interface {
	Record(ctx context.Context, actorID uuid.UUID, action, entityType string, entityID uuid.UUID, details []byte) error
}

// NotificationRepository is the transactional-outbox port. Enqueue runs
// outside the reservation transaction; failures are reported as warnings,
// never as reservation rejections.
type NotificationRepository interface {
	Enqueue(ctx context.Context, kind, topic string, payload []byte, runAt time.Time, dedupKey *string) error
}
