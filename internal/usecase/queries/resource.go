package queries

import (
	"context"

	"worklab/internal/infra"
	"worklab/internal/pkg/errs"

	"github.com/google/uuid"
)

var ErrResourceNotFound = errs.New("resource not found")

type ResourceQueries interface {
	GetByID(ctx context.Context, id uuid.UUID) (*ResourceView, error)
	List(ctx context.Context, category *string) ([]*ResourceView, error)
}

type ResourceReadStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*ResourceView, error)
	FindAll(ctx context.Context, category *string) ([]*ResourceView, error)
}

type resourceQueriesImpl struct {
	readStore ResourceReadStore
}

func NewResourceQueries(readStore ResourceReadStore) ResourceQueries {
	return &resourceQueriesImpl{readStore: readStore}
}

func (q *resourceQueriesImpl) GetByID(ctx context.Context, id uuid.UUID) (*ResourceView, error) {
	view, err := q.readStore.FindByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrResourceNotFound
		}
		return nil, err
	}
	return view, nil
}

func (q *resourceQueriesImpl) List(ctx context.Context, category *string) ([]*ResourceView, error) {
	return q.readStore.FindAll(ctx, category)
}
