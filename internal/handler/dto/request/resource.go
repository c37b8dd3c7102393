package request

import (
	"worklab/internal/domain/resource"
	"worklab/internal/usecase/commands"
)

type RestrictionsPayload struct {
	MinAdvanceNotice *int     `json:"min_advance_notice,omitempty"`
	MaxDuration      *int     `json:"max_duration,omitempty"`
	AllowedStartTime *string  `json:"allowed_start_time,omitempty"`
	AllowedEndTime   *string  `json:"allowed_end_time,omitempty"`
	AllowedDays      []int    `json:"allowed_days,omitempty"`
	AllowedRoles     []string `json:"allowed_roles,omitempty"`
}

type ResourceRequest struct {
	Name         string               `json:"name" binding:"required"`
	Description  string               `json:"description,omitempty"`
	Category     string               `json:"category" binding:"required"`
	Capacity     *int32               `json:"capacity,omitempty"`
	Location     string               `json:"location,omitempty"`
	Restrictions *RestrictionsPayload `json:"restrictions,omitempty"`
}

func (r ResourceRequest) ToInput() commands.ResourceInput {
	input := commands.ResourceInput{
		Name:        r.Name,
		Description: r.Description,
		Category:    r.Category,
		Capacity:    r.Capacity,
		Location:    r.Location,
	}
	if r.Restrictions != nil {
		input.Restrictions = resource.RestrictionsConfig{
			MinAdvanceNotice: r.Restrictions.MinAdvanceNotice,
			MaxDuration:      r.Restrictions.MaxDuration,
			AllowedStartTime: r.Restrictions.AllowedStartTime,
			AllowedEndTime:   r.Restrictions.AllowedEndTime,
			AllowedDays:      r.Restrictions.AllowedDays,
			AllowedRoles:     r.Restrictions.AllowedRoles,
		}
	}
	return input
}
