package request

import (
	"worklab/internal/usecase/commands"
)

type CreateUserRequest struct {
	Name       string `json:"name" binding:"required"`
	Email      string `json:"email" binding:"required,email"`
	Password   string `json:"password" binding:"required,min=8"`
	Phone      string `json:"phone,omitempty"`
	Department string `json:"department,omitempty"`
	Role       string `json:"role,omitempty" binding:"omitempty,oneof=user admin"`
}

func (r CreateUserRequest) ToInput() commands.CreateUserInput {
	return commands.CreateUserInput{
		Name:       r.Name,
		Email:      r.Email,
		Password:   r.Password,
		Phone:      r.Phone,
		Department: r.Department,
		Role:       r.Role,
	}
}
