package queries

import (
	"context"

	"worklab/internal/domain/user"
	"worklab/internal/infra"
	"worklab/internal/pkg/errs"

	"github.com/google/uuid"
)

var (
	ErrReservationNotFound = errs.New("reservation not found")
	ErrReservationAccess   = errs.New("reservation access denied")
)

type ReservationQueries interface {
	// GetByID returns a reservation if the actor owns it or is an admin.
	GetByID(ctx context.Context, actorID uuid.UUID, actorRole user.Role, id uuid.UUID) (*ReservationView, error)
	ListByUser(ctx context.Context, userID uuid.UUID, limit int32) ([]*ReservationListItem, error)
	ListAll(ctx context.Context, filter ReservationFilter, limit int32) ([]*ReservationListItem, error)
}

type ReservationReadStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*ReservationView, error)
	FindByUserID(ctx context.Context, userID uuid.UUID, limit int32) ([]*ReservationListItem, error)
	FindAll(ctx context.Context, filter ReservationFilter, limit int32) ([]*ReservationListItem, error)
}

type reservationQueriesImpl struct {
	readStore ReservationReadStore
}

func NewReservationQueries(readStore ReservationReadStore) ReservationQueries {
	return &reservationQueriesImpl{readStore: readStore}
}

func (q *reservationQueriesImpl) GetByID(ctx context.Context, actorID uuid.UUID, actorRole user.Role, id uuid.UUID) (*ReservationView, error) {
	view, err := q.readStore.FindByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrReservationNotFound
		}
		return nil, err
	}

	if view.UserID != actorID && !actorRole.IsAdmin() {
		return nil, ErrReservationAccess
	}

	return view, nil
}

func (q *reservationQueriesImpl) ListByUser(ctx context.Context, userID uuid.UUID, limit int32) ([]*ReservationListItem, error) {
	if limit <= 0 {
		limit = 50
	}
	return q.readStore.FindByUserID(ctx, userID, limit)
}

func (q *reservationQueriesImpl) ListAll(ctx context.Context, filter ReservationFilter, limit int32) ([]*ReservationListItem, error) {
	if limit <= 0 {
		limit = 100
	}
	return q.readStore.FindAll(ctx, filter, limit)
}
