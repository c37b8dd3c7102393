package queries

import (
	"context"
	"time"

	"worklab/internal/pkg/errs"
)

var ErrInvalidReportRange = errs.New("report range start must be before end")

type ReportQueries interface {
	// Utilization sums confirmed and pending booked time per resource,
	// clipped to the [from, to) window.
	Utilization(ctx context.Context, from, to time.Time) ([]*UtilizationRow, error)
}

type ReportReadStore interface {
	UtilizationByResource(ctx context.Context, from, to time.Time) ([]*UtilizationRow, error)
}

type reportQueriesImpl struct {
	readStore ReportReadStore
}

func NewReportQueries(readStore ReportReadStore) ReportQueries {
	return &reportQueriesImpl{readStore: readStore}
}

func (q *reportQueriesImpl) Utilization(ctx context.Context, from, to time.Time) ([]*UtilizationRow, error) {
	if !from.Before(to) {
		return nil, ErrInvalidReportRange
	}
	return q.readStore.UtilizationByResource(ctx, from, to)
}
