package response

import (
	"time"

	"worklab/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

type UserListResponse struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Role       string    `json:"role"`
	Department *string   `json:"department,omitempty"`
	Phone      *string   `json:"phone,omitempty"`
	IsActive   bool      `json:"is_active"`
	CreatedAt  time.Time `json:"createdAt"`
}

func FromUserListItems(items []*queries.UserListItem) ([]*UserListResponse, error) {
	result := make([]*UserListResponse, 0, len(items))
	for _, item := range items {
		var resp UserListResponse
		if err := copier.Copy(&resp, item); err != nil {
			return nil, err
		}
		result = append(result, &resp)
	}
	return result, nil
}
