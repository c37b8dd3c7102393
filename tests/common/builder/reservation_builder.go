//go:build unit

package builder

import (
	"time"

	reqdto "worklab/internal/handler/dto/request"
	"worklab/internal/usecase/queries"

	"github.com/google/uuid"
)

type ReservationBuilder struct {
	ResourceID   uuid.UUID
	ResourceName string
	UserID       uuid.UUID
	UserEmail    string
	StartsAt     time.Time
	EndsAt       time.Time
	Status       string
	Description  *string
}

func NewReservationBuilder() *ReservationBuilder {
	start := time.Now().Add(48 * time.Hour).Truncate(time.Hour)
	return &ReservationBuilder{
		ResourceID:   uuid.New(),
		ResourceName: "Conference Room A",
		UserID:       uuid.New(),
		UserEmail:    "alice@example.com",
		StartsAt:     start,
		EndsAt:       start.Add(time.Hour),
		Status:       "pending",
	}
}

func (r *ReservationBuilder) WithUser(id uuid.UUID) *ReservationBuilder {
	r.UserID = id
	return r
}

func (r *ReservationBuilder) WithStatus(status string) *ReservationBuilder {
	r.Status = status
	return r
}

func (r *ReservationBuilder) WithWindow(start, end time.Time) *ReservationBuilder {
	r.StartsAt = start
	r.EndsAt = end
	return r
}

func (r *ReservationBuilder) BuildCreateDTO() reqdto.CreateReservationRequest {
	return reqdto.CreateReservationRequest{
		ResourceID:  r.ResourceID,
		StartTime:   r.StartsAt,
		EndTime:     r.EndsAt,
		Description: r.Description,
	}
}

func (r *ReservationBuilder) BuildModifyDTO() reqdto.ModifyReservationRequest {
	return reqdto.ModifyReservationRequest{
		StartTime:   r.StartsAt,
		EndTime:     r.EndsAt,
		Description: r.Description,
	}
}

func (r *ReservationBuilder) BuildView() *queries.ReservationView {
	now := time.Now()
	return &queries.ReservationView{
		ID:           uuid.New(),
		ResourceID:   r.ResourceID,
		ResourceName: r.ResourceName,
		UserID:       r.UserID,
		UserEmail:    r.UserEmail,
		StartsAt:     r.StartsAt,
		EndsAt:       r.EndsAt,
		Status:       r.Status,
		Description:  r.Description,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func (r *ReservationBuilder) BuildListItem() *queries.ReservationListItem {
	return &queries.ReservationListItem{
		ID:           uuid.New(),
		ResourceID:   r.ResourceID,
		ResourceName: r.ResourceName,
		StartsAt:     r.StartsAt,
		EndsAt:       r.EndsAt,
		Status:       r.Status,
		CreatedAt:    time.Now(),
	}
}
