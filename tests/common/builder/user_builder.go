//go:build unit

package builder

import (
	"worklab/internal/domain/user"
	"worklab/internal/usecase/queries"

	"github.com/google/uuid"
)

type UserBuilder struct {
	Name         string
	Email        string
	PasswordHash string
	Role         string
	Department   *string
	IsActive     bool
}

func NewUserBuilder() *UserBuilder {
	dept := "engineering"
	return &UserBuilder{
		Name:         "Alice Example",
		Email:        "alice@example.com",
		PasswordHash: "hashed_password",
		Role:         "user",
		Department:   &dept,
		IsActive:     true,
	}
}

func (u *UserBuilder) BuildDomain() (*user.User, error) {
	email, err := user.NewEmail(u.Email)
	if err != nil {
		return nil, err
	}

	role, err := user.NewRole(u.Role)
	if err != nil {
		return nil, err
	}

	dept := ""
	if u.Department != nil {
		dept = *u.Department
	}
	return user.NewUser(u.Name, email, u.PasswordHash, "", dept, role), nil
}

func (u *UserBuilder) BuildReadModel() *queries.AuthorizedUserView {
	return &queries.AuthorizedUserView{
		ID:         uuid.New(),
		Name:       u.Name,
		Email:      u.Email,
		Role:       u.Role,
		Department: u.Department,
		IsActive:   u.IsActive,
	}
}

func (u *UserBuilder) WithEmail(email string) *UserBuilder {
	u.Email = email
	return u
}

func (u *UserBuilder) WithRole(role string) *UserBuilder {
	u.Role = role
	return u
}

func (u *UserBuilder) AsAdmin() *UserBuilder {
	u.Role = "admin"
	return u
}

func (u *UserBuilder) AsInactive() *UserBuilder {
	u.IsActive = false
	return u
}
