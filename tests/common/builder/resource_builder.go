//go:build unit

package builder

import (
	"time"

	"worklab/internal/domain/resource"
	reqdto "worklab/internal/handler/dto/request"
	"worklab/internal/usecase/queries"

	"github.com/google/uuid"
)

type ResourceBuilder struct {
	Name         string
	Description  string
	Category     string
	Capacity     *int32
	Location     string
	Restrictions resource.RestrictionsConfig
}

func NewResourceBuilder() *ResourceBuilder {
	capacity := int32(8)
	return &ResourceBuilder{
		Name:        "Conference Room A",
		Description: "Large meeting room on the 3rd floor",
		Category:    "room",
		Capacity:    &capacity,
		Location:    "3F East",
	}
}

func (b *ResourceBuilder) WithName(name string) *ResourceBuilder {
	b.Name = name
	return b
}

func (b *ResourceBuilder) WithCategory(category string) *ResourceBuilder {
	b.Category = category
	return b
}

func (b *ResourceBuilder) WithRestrictions(cfg resource.RestrictionsConfig) *ResourceBuilder {
	b.Restrictions = cfg
	return b
}

func (b *ResourceBuilder) BuildDTO() reqdto.ResourceRequest {
	req := reqdto.ResourceRequest{
		Name:        b.Name,
		Description: b.Description,
		Category:    b.Category,
		Capacity:    b.Capacity,
		Location:    b.Location,
	}
	cfg := b.Restrictions
	if cfg.MinAdvanceNotice != nil || cfg.MaxDuration != nil || cfg.AllowedStartTime != nil ||
		cfg.AllowedEndTime != nil || len(cfg.AllowedDays) > 0 || len(cfg.AllowedRoles) > 0 {
		req.Restrictions = &reqdto.RestrictionsPayload{
			MinAdvanceNotice: cfg.MinAdvanceNotice,
			MaxDuration:      cfg.MaxDuration,
			AllowedStartTime: cfg.AllowedStartTime,
			AllowedEndTime:   cfg.AllowedEndTime,
			AllowedDays:      cfg.AllowedDays,
			AllowedRoles:     cfg.AllowedRoles,
		}
	}
	return req
}

func (b *ResourceBuilder) BuildView() *queries.ResourceView {
	now := time.Now()
	var desc *string
	if b.Description != "" {
		desc = &b.Description
	}
	var loc *string
	if b.Location != "" {
		loc = &b.Location
	}
	return &queries.ResourceView{
		ID:           uuid.New(),
		Name:         b.Name,
		Description:  desc,
		Category:     b.Category,
		Location:     loc,
		Capacity:     b.Capacity,
		Restrictions: b.Restrictions,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}
