package response

import (
	"worklab/internal/usecase/queries"

	"github.com/google/uuid"
)

type UtilizationResponse struct {
	ResourceID       uuid.UUID `json:"resourceId"`
	ResourceName     string    `json:"resourceName"`
	Category         string    `json:"category"`
	ReservationCount int64     `json:"reservationCount"`
	BookedHours      float64   `json:"bookedHours"`
}

func FromUtilizationRows(rows []*queries.UtilizationRow) []*UtilizationResponse {
	result := make([]*UtilizationResponse, 0, len(rows))
	for _, row := range rows {
		result = append(result, &UtilizationResponse{
			ResourceID:       row.ResourceID,
			ResourceName:     row.ResourceName,
			Category:         row.Category,
			ReservationCount: row.ReservationCount,
			BookedHours:      row.BookedHours,
		})
	}
	return result
}
