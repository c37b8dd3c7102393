package response

import (
	"time"

	"worklab/internal/usecase/commands"
	"worklab/internal/usecase/queries"

	"github.com/google/uuid"
)

type ReservationResponse struct {
	ID           uuid.UUID `json:"id"`
	ResourceID   uuid.UUID `json:"resourceId"`
	ResourceName string    `json:"resourceName"`
	UserID       uuid.UUID `json:"userId"`
	UserEmail    string    `json:"userEmail"`
	StartTime    time.Time `json:"startTime"`
	EndTime      time.Time `json:"endTime"`
	Status       string    `json:"status"`
	Description  *string   `json:"description,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

type ReservationListResponse struct {
	ID           uuid.UUID `json:"id"`
	ResourceID   uuid.UUID `json:"resourceId"`
	ResourceName string    `json:"resourceName"`
	StartTime    time.Time `json:"startTime"`
	EndTime      time.Time `json:"endTime"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"createdAt"`
}

// ReservationResultResponse acknowledges a lifecycle operation. The
// notification flag tells the client whether a confirmation message is on
// its way.
type ReservationResultResponse struct {
	ID                 uuid.UUID `json:"id"`
	NotificationQueued bool      `json:"notificationQueued"`
}

func FromReservationView(rm *queries.ReservationView) *ReservationResponse {
	return &ReservationResponse{
		ID:           rm.ID,
		ResourceID:   rm.ResourceID,
		ResourceName: rm.ResourceName,
		UserID:       rm.UserID,
		UserEmail:    rm.UserEmail,
		StartTime:    rm.StartsAt,
		EndTime:      rm.EndsAt,
		Status:       rm.Status,
		Description:  rm.Description,
		CreatedAt:    rm.CreatedAt,
		UpdatedAt:    rm.UpdatedAt,
	}
}

func FromReservationListItem(rm *queries.ReservationListItem) *ReservationListResponse {
	return &ReservationListResponse{
		ID:           rm.ID,
		ResourceID:   rm.ResourceID,
		ResourceName: rm.ResourceName,
		StartTime:    rm.StartsAt,
		EndTime:      rm.EndsAt,
		Status:       rm.Status,
		CreatedAt:    rm.CreatedAt,
	}
}

func FromReservationResult(res *commands.ReservationResult) *ReservationResultResponse {
	return &ReservationResultResponse{
		ID:                 res.ID,
		NotificationQueued: res.NotificationQueued,
	}
}
