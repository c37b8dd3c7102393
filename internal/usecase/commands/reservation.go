package commands

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"worklab/internal/domain/reservation"
	"worklab/internal/domain/resource"
	"worklab/internal/domain/user"
	"worklab/internal/infra"
	"worklab/internal/pkg/clock"
	"worklab/internal/pkg/errs"
	"worklab/internal/usecase/shared"

	"github.com/google/uuid"
)

var (
	ErrResourceNotFound    = errs.New("resource not found")
	ErrReservationNotFound = errs.New("reservation not found")
	ErrInvalidTimeSlot     = errs.New("invalid time slot")
	ErrRestrictionViolated = errs.New("restriction violated")
	ErrReservationConflict = errs.New("reservation conflict")
	ErrForbidden           = errs.New("operation not permitted")
	ErrInvalidState        = errs.New("reservation is not active")
	ErrUserNotFound        = errs.New("user not found")
	ErrUserInactive        = errs.New("user inactive")
	ErrStorageFailure      = errs.New("database operation failed")
)

// MetricsRecorder counts booking outcomes. The prometheus collector
// implements it; tests plug in a no-op.
type MetricsRecorder interface {
	ReservationCreated()
	ReservationConflict()
	RestrictionRejected(reason string)
}

type NopMetrics struct{}

func (NopMetrics) ReservationCreated()              {}
func (NopMetrics) ReservationConflict()             {}
func (NopMetrics) RestrictionRejected(reason string) {}

type CreateReservationInput struct {
	ResourceID  uuid.UUID
	StartsAt    time.Time
	EndsAt      time.Time
	Description string
	// Status is pending when empty; confirmed is also accepted at creation.
	Status string
}

type ModifyReservationInput struct {
	StartsAt    time.Time
	EndsAt      time.Time
	Description *string
}

// ReservationResult reports the outcome of a lifecycle operation.
// NotificationQueued is advisory: delivery problems never fail the booking.
type ReservationResult struct {
	ID                 uuid.UUID
	NotificationQueued bool
}

type ReservationCommands interface {
	Create(ctx context.Context, actorID uuid.UUID, input CreateReservationInput) (*ReservationResult, error)
	Modify(ctx context.Context, actorID uuid.UUID, reservationID uuid.UUID, input ModifyReservationInput) (*ReservationResult, error)
	Cancel(ctx context.Context, actorID uuid.UUID, reservationID uuid.UUID) (*ReservationResult, error)
}

type reservationUseCaseImpl struct {
	uow           shared.UnitOfWork
	notifications shared.NotificationRepository
	clock         clock.Clock
	metrics       MetricsRecorder
}

func NewReservationUseCase(
	uow shared.UnitOfWork,
	notifications shared.NotificationRepository,
	clk clock.Clock,
	metrics MetricsRecorder,
) ReservationCommands {
	return &reservationUseCaseImpl{
		uow:           uow,
		notifications: notifications,
		clock:         clk,
		metrics:       metrics,
	}
}

func (r *reservationUseCaseImpl) Create(ctx context.Context, actorID uuid.UUID, input CreateReservationInput) (*ReservationResult, error) {
	actor, err := r.loadActor(ctx, actorID)
	if err != nil {
		return nil, err
	}

	slot, err := reservation.NewTimeSlot(input.StartsAt, input.EndsAt)
	if err != nil {
		return nil, errs.Mark(err, ErrInvalidTimeSlot)
	}

	description, err := reservation.NewDescription(input.Description)
	if err != nil {
		return nil, errs.Mark(err, ErrInvalidTimeSlot)
	}

	res, restrictions, err := r.loadResource(ctx, input.ResourceID)
	if err != nil {
		return nil, err
	}

	if err := r.checkRestrictions(restrictions, slot, actor.Role); err != nil {
		return nil, err
	}

	status := reservation.StatusPending
	if input.Status != "" {
		status, err = reservation.NewStatus(input.Status)
		if err != nil {
			return nil, errs.Mark(err, ErrInvalidTimeSlot)
		}
	}

	entity, err := reservation.NewReservation(input.ResourceID, actorID, slot, status, description)
	if err != nil {
		return nil, errs.Mark(err, ErrInvalidTimeSlot)
	}

	var reservationID uuid.UUID
	err = r.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if err := tx.Reservations().LockResource(ctx, input.ResourceID); err != nil {
			return err
		}

		if err := r.ensureNoConflicts(ctx, tx, input.ResourceID, slot, uuid.Nil); err != nil {
			return err
		}

		id, err := tx.Reservations().Create(ctx, entity)
		if err != nil {
			return err
		}
		reservationID = id

		return r.recordAudit(ctx, tx, actorID, "reservation.created", reservationID, map[string]any{
			"resource_id": input.ResourceID,
			"starts_at":   slot.Start(),
			"ends_at":     slot.End(),
		})
	})
	if err != nil {
		return nil, r.classifyWriteError(err)
	}

	r.metrics.ReservationCreated()

	queued := r.enqueueNotification(ctx, "reservation_created", actor, res.Name, reservationID, slot)
	return &ReservationResult{ID: reservationID, NotificationQueued: queued}, nil
}

func (r *reservationUseCaseImpl) Modify(ctx context.Context, actorID uuid.UUID, reservationID uuid.UUID, input ModifyReservationInput) (*ReservationResult, error) {
	actor, err := r.loadActor(ctx, actorID)
	if err != nil {
		return nil, err
	}

	snap, err := r.loadReservation(ctx, reservationID)
	if err != nil {
		return nil, err
	}

	if err := r.authorize(actor, snap.UserID); err != nil {
		return nil, err
	}

	slot, err := reservation.NewTimeSlot(input.StartsAt, input.EndsAt)
	if err != nil {
		return nil, errs.Mark(err, ErrInvalidTimeSlot)
	}

	var description *string
	if input.Description != nil {
		d, err := reservation.NewDescription(*input.Description)
		if err != nil {
			return nil, errs.Mark(err, ErrInvalidTimeSlot)
		}
		s := d.String()
		description = &s
	}

	entity, err := reconstructFromSnapshot(snap)
	if err != nil {
		return nil, errs.Mark(err, ErrStorageFailure)
	}
	if err := entity.Reschedule(slot); err != nil {
		return nil, errs.Mark(err, ErrInvalidState)
	}

	res, restrictions, err := r.loadResource(ctx, snap.ResourceID)
	if err != nil {
		return nil, err
	}

	// Restrictions govern the owner's booking, so the owner's role applies
	// even when an admin edits on their behalf.
	ownerRole := actor.Role
	if snap.UserID != actorID {
		owner, err := r.uow.CommandReads().UserByID(ctx, snap.UserID)
		if err != nil {
			return nil, errs.Mark(err, ErrStorageFailure)
		}
		ownerRole = owner.Role
	}
	if err := r.checkRestrictions(restrictions, slot, ownerRole); err != nil {
		return nil, err
	}

	err = r.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if err := tx.Reservations().LockResource(ctx, snap.ResourceID); err != nil {
			return err
		}

		if err := r.ensureNoConflicts(ctx, tx, snap.ResourceID, slot, reservationID); err != nil {
			return err
		}

		if err := tx.Reservations().UpdateWindow(ctx, reservationID, slot.Start(), slot.End(), description); err != nil {
			return err
		}

		return r.recordAudit(ctx, tx, actorID, "reservation.modified", reservationID, map[string]any{
			"starts_at": slot.Start(),
			"ends_at":   slot.End(),
		})
	})
	if err != nil {
		return nil, r.classifyWriteError(err)
	}

	queued := r.enqueueNotification(ctx, "reservation_modified", actor, res.Name, reservationID, slot)
	return &ReservationResult{ID: reservationID, NotificationQueued: queued}, nil
}

func (r *reservationUseCaseImpl) Cancel(ctx context.Context, actorID uuid.UUID, reservationID uuid.UUID) (*ReservationResult, error) {
	actor, err := r.loadActor(ctx, actorID)
	if err != nil {
		return nil, err
	}

	snap, err := r.loadReservation(ctx, reservationID)
	if err != nil {
		return nil, err
	}

	if err := r.authorize(actor, snap.UserID); err != nil {
		return nil, err
	}

	entity, err := reconstructFromSnapshot(snap)
	if err != nil {
		return nil, errs.Mark(err, ErrStorageFailure)
	}
	if err := entity.Cancel(); err != nil {
		return nil, errs.Mark(err, ErrInvalidState)
	}

	res, _, err := r.loadResource(ctx, snap.ResourceID)
	if err != nil {
		return nil, err
	}

	err = r.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if err := tx.Reservations().LockResource(ctx, snap.ResourceID); err != nil {
			return err
		}

		if err := tx.Reservations().UpdateStatus(ctx, reservationID, reservation.StatusCancelled); err != nil {
			return err
		}

		return r.recordAudit(ctx, tx, actorID, "reservation.cancelled", reservationID, nil)
	})
	if err != nil {
		return nil, r.classifyWriteError(err)
	}

	queued := r.enqueueNotification(ctx, "reservation_cancelled", actor, res.Name, reservationID, entity.Slot())
	return &ReservationResult{ID: reservationID, NotificationQueued: queued}, nil
}

func (r *reservationUseCaseImpl) loadActor(ctx context.Context, actorID uuid.UUID) (*shared.UserSnapshot, error) {
	actor, err := r.uow.CommandReads().UserByID(ctx, actorID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, errs.Mark(err, ErrStorageFailure)
	}
	if !actor.IsActive {
		return nil, ErrUserInactive
	}
	return actor, nil
}

func (r *reservationUseCaseImpl) loadReservation(ctx context.Context, id uuid.UUID) (*shared.ReservationSnapshot, error) {
	snap, err := r.uow.CommandReads().ReservationByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrReservationNotFound
		}
		return nil, errs.Mark(err, ErrStorageFailure)
	}
	return snap, nil
}

func (r *reservationUseCaseImpl) loadResource(ctx context.Context, resourceID uuid.UUID) (*shared.ResourceSnapshot, resource.Restrictions, error) {
	snap, err := r.uow.CommandReads().ResourceByID(ctx, resourceID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, resource.Restrictions{}, ErrResourceNotFound
		}
		return nil, resource.Restrictions{}, errs.Mark(err, ErrStorageFailure)
	}

	restrictions, err := resource.NewRestrictions(snap.Restrictions)
	if err != nil {
		return nil, resource.Restrictions{}, errs.Mark(err, ErrStorageFailure)
	}
	return snap, restrictions, nil
}

func (r *reservationUseCaseImpl) checkRestrictions(restrictions resource.Restrictions, slot reservation.TimeSlot, role string) error {
	if err := restrictions.Validate(slot.Start(), slot.End(), role, r.clock.Now()); err != nil {
		r.metrics.RestrictionRejected(restrictionReason(err))
		return errs.Mark(err, ErrRestrictionViolated)
	}
	return nil
}

func (r *reservationUseCaseImpl) authorize(actor *shared.UserSnapshot, ownerID uuid.UUID) error {
	role, err := user.NewRole(actor.Role)
	if err != nil {
		return errs.Mark(err, ErrStorageFailure)
	}
	if !role.IsAdmin() && actor.ID != ownerID {
		return ErrForbidden
	}
	return nil
}

// ensureNoConflicts applies the overlap check against the transaction's view
// of active reservations. The exclusion constraint remains the final word if
// a concurrent writer slips past.
func (r *reservationUseCaseImpl) ensureNoConflicts(ctx context.Context, tx shared.Tx, resourceID uuid.UUID, slot reservation.TimeSlot, excludeID uuid.UUID) error {
	var exclude *uuid.UUID
	if excludeID != uuid.Nil {
		exclude = &excludeID
	}
	existing, err := tx.Reads().ActiveByResource(ctx, resourceID, exclude)
	if err != nil {
		return err
	}

	booked := make([]reservation.Booked, 0, len(existing))
	for _, snap := range existing {
		s, err := reservation.NewTimeSlot(snap.StartsAt, snap.EndsAt)
		if err != nil {
			return errs.Wrap(err, "stored reservation has invalid window")
		}
		booked = append(booked, reservation.Booked{ID: snap.ID, Slot: s})
	}

	if conflicts := reservation.FindConflicts(booked, slot, excludeID); len(conflicts) > 0 {
		return ErrReservationConflict
	}
	return nil
}

func (r *reservationUseCaseImpl) recordAudit(ctx context.Context, tx shared.Tx, actorID uuid.UUID, action string, reservationID uuid.UUID, detail map[string]any) error {
	payload, err := json.Marshal(detail)
	if err != nil {
		return errs.Wrap(err, "failed to encode audit detail")
	}
	return tx.Audit().Record(ctx, actorID, action, "reservation", reservationID, payload)
}

// classifyWriteError maps store-level outcomes onto usecase sentinels. The
// exclusion constraint surfaces as a conflict, everything else unexpected as
// a storage failure.
func (r *reservationUseCaseImpl) classifyWriteError(err error) error {
	switch {
	case errors.Is(err, ErrReservationConflict), infra.IsKind(err, infra.KindConflict), infra.IsKind(err, infra.KindDuplicateKey):
		r.metrics.ReservationConflict()
		return ErrReservationConflict
	case infra.IsKind(err, infra.KindForeignKeyViolated):
		return ErrResourceNotFound
	case infra.IsKind(err, infra.KindPreconditionFailed):
		return errs.Mark(err, ErrInvalidState)
	case infra.IsKind(err, infra.KindNotFound):
		return ErrReservationNotFound
	default:
		return errs.Mark(err, ErrStorageFailure)
	}
}

// enqueueNotification appends an outbox job after the booking committed.
// Failures are logged and reported through the result, never as an error.
func (r *reservationUseCaseImpl) enqueueNotification(ctx context.Context, kind string, actor *shared.UserSnapshot, resourceName string, reservationID uuid.UUID, slot reservation.TimeSlot) bool {
	payload, err := json.Marshal(map[string]any{
		"reservation_id": reservationID,
		"user_name":      actor.Name,
		"phone":          actor.Phone,
		"email":          actor.Email,
		"resource_name":  resourceName,
		"starts_at":      slot.Start(),
		"ends_at":        slot.End(),
	})
	if err != nil {
		slog.Warn("failed to encode notification payload", "kind", kind, "error", err.Error())
		return false
	}

	if err := r.notifications.Enqueue(ctx, kind, actor.Phone, payload, r.clock.Now(), nil); err != nil {
		slog.Warn("failed to enqueue notification", "kind", kind, "reservation_id", reservationID, "error", err.Error())
		return false
	}
	return true
}

func reconstructFromSnapshot(snap *shared.ReservationSnapshot) (*reservation.Reservation, error) {
	slot, err := reservation.NewTimeSlot(snap.StartsAt, snap.EndsAt)
	if err != nil {
		return nil, err
	}

	status, err := reservation.NewStatus(snap.Status)
	if err != nil {
		return nil, err
	}

	desc := ""
	if snap.Description != nil {
		desc = *snap.Description
	}
	description, err := reservation.NewDescription(desc)
	if err != nil {
		return nil, err
	}

	return reservation.ReconstructReservation(
		snap.ID, snap.ResourceID, snap.UserID,
		slot, status, description,
		time.Time{}, time.Time{},
	), nil
}

func restrictionReason(err error) string {
	switch {
	case errors.Is(err, resource.ErrAdvanceNoticeTooShort):
		return "advance_notice"
	case errors.Is(err, resource.ErrDurationTooLong):
		return "duration"
	case errors.Is(err, resource.ErrDisallowedDay):
		return "day"
	case errors.Is(err, resource.ErrDisallowedTime):
		return "time"
	case errors.Is(err, resource.ErrRoleNotAllowed):
		return "role"
	default:
		return "window"
	}
}
