package response

import (
	"worklab/internal/usecase/queries"

	"github.com/google/uuid"
)

type LoginResponse struct {
	UserID uuid.UUID `json:"userId"`
	Role   string    `json:"role"`
}

type UserResponse struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Role       string    `json:"role"`
	Department *string   `json:"department,omitempty"`
}

func FromAuthorizedUserView(view *queries.AuthorizedUserView) *UserResponse {
	return &UserResponse{
		ID:         view.ID,
		Name:       view.Name,
		Email:      view.Email,
		Role:       view.Role,
		Department: view.Department,
	}
}
