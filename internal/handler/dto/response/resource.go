package response

import (
	"time"

	"worklab/internal/domain/resource"
	"worklab/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

type ResourceResponse struct {
	ID           uuid.UUID                   `json:"id"`
	Name         string                      `json:"name"`
	Description  *string                     `json:"description,omitempty"`
	Category     string                      `json:"category"`
	Location     *string                     `json:"location,omitempty"`
	Capacity     *int32                      `json:"capacity,omitempty"`
	Restrictions resource.RestrictionsConfig `json:"restrictions"`
	CreatedAt    time.Time                   `json:"createdAt"`
	UpdatedAt    time.Time                   `json:"updatedAt"`
}

// Field names line up with the view, so a struct copy does the mapping.
func FromResourceView(view *queries.ResourceView) (*ResourceResponse, error) {
	var resp ResourceResponse
	if err := copier.Copy(&resp, view); err != nil {
		return nil, err
	}
	return &resp, nil
}

func FromResourceViews(views []*queries.ResourceView) ([]*ResourceResponse, error) {
	result := make([]*ResourceResponse, 0, len(views))
	for _, view := range views {
		resp, err := FromResourceView(view)
		if err != nil {
			return nil, err
		}
		result = append(result, resp)
	}
	return result, nil
}
