package request

import (
	"strings"
	"time"

	"worklab/internal/usecase/commands"

	"github.com/google/uuid"
)

type CreateReservationRequest struct {
	ResourceID  uuid.UUID `json:"resource_id" binding:"required"`
	StartTime   time.Time `json:"start_time" binding:"required"`
	EndTime     time.Time `json:"end_time" binding:"required"`
	Description *string   `json:"description,omitempty"`
	Status      *string   `json:"status,omitempty"`
}

func (r CreateReservationRequest) ToInput() commands.CreateReservationInput {
	input := commands.CreateReservationInput{
		ResourceID: r.ResourceID,
		StartsAt:   r.StartTime,
		EndsAt:     r.EndTime,
	}
	if r.Description != nil {
		input.Description = strings.TrimSpace(*r.Description)
	}
	if r.Status != nil {
		input.Status = strings.TrimSpace(*r.Status)
	}
	return input
}

type ModifyReservationRequest struct {
	StartTime   time.Time `json:"start_time" binding:"required"`
	EndTime     time.Time `json:"end_time" binding:"required"`
	Description *string   `json:"description,omitempty"`
}

func (r ModifyReservationRequest) ToInput() commands.ModifyReservationInput {
	return commands.ModifyReservationInput{
		StartsAt:    r.StartTime,
		EndsAt:      r.EndTime,
		Description: r.Description,
	}
}
