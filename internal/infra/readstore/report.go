package readstore

import (
	"context"
	"time"

	"worklab/internal/infra"
	"worklab/internal/infra/db"
	"worklab/internal/pkg/pgconv"
	"worklab/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type ReportReadStore struct {
	db db.DBTX
}

func NewReportReadStore(dbtx db.DBTX) *ReportReadStore {
	return &ReportReadStore{db: dbtx}
}

// UtilizationByResource sums active booked time per resource, clipping each
// reservation to the reporting window so boundary-straddling bookings count
// only their in-window portion.
func (s *ReportReadStore) UtilizationByResource(ctx context.Context, from, to time.Time) ([]*queries.UtilizationRow, error) {
	return withReadRetry(ctx, func(ctx context.Context) ([]*queries.UtilizationRow, error) {
		rows, err := s.db.Query(ctx, `
			SELECT rs.id, rs.name, rs.category,
			       count(r.id) AS reservation_count,
			       COALESCE(sum(
			           extract(epoch FROM (least(r.ends_at, $2) - greatest(r.starts_at, $1)))
			       ), 0) / 3600.0 AS booked_hours
			FROM resources rs
			LEFT JOIN reservations r
			    ON r.resource_id = rs.id
			    AND r.status IN ('pending', 'confirmed')
			    AND r.starts_at < $2
			    AND r.ends_at > $1
			GROUP BY rs.id, rs.name, rs.category
			ORDER BY booked_hours DESC, rs.name`,
			pgconv.TimeToPgtype(from),
			pgconv.TimeToPgtype(to),
		)
		if err != nil {
			return nil, infra.WrapRepoErr("failed to query utilization", err)
		}
		defer rows.Close()

		var result []*queries.UtilizationRow
		for rows.Next() {
			var (
				row        queries.UtilizationRow
				resourceID pgtype.UUID
			)
			if err := rows.Scan(&resourceID, &row.ResourceName, &row.Category, &row.ReservationCount, &row.BookedHours); err != nil {
				return nil, infra.WrapRepoErr("failed to scan utilization row", err)
			}
			row.ResourceID = uuid.UUID(resourceID.Bytes)
			result = append(result, &row)
		}
		if err := rows.Err(); err != nil {
			return nil, infra.WrapRepoErr("failed to read utilization rows", err)
		}
		return result, nil
	})
}
