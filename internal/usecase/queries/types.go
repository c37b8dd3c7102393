package queries

import (
	"time"

	"worklab/internal/domain/resource"

	"github.com/google/uuid"
)

// ReservationView represents read-optimized reservation data with joined
// resource and owner info
type ReservationView struct {
	ID           uuid.UUID `json:"id"`
	ResourceID   uuid.UUID `json:"resource_id"`
	ResourceName string    `json:"resource_name"`
	UserID       uuid.UUID `json:"user_id"`
	UserEmail    string    `json:"user_email"`
	StartsAt     time.Time `json:"starts_at"`
	EndsAt       time.Time `json:"ends_at"`
	Status       string    `json:"status"`
	Description  *string   `json:"description,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type ReservationListItem struct {
	ID           uuid.UUID `json:"id"`
	ResourceID   uuid.UUID `json:"resource_id"`
	ResourceName string    `json:"resource_name"`
	StartsAt     time.Time `json:"starts_at"`
	EndsAt       time.Time `json:"ends_at"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
}

// ResourceView represents read-optimized resource data
type ResourceView struct {
	ID           uuid.UUID                    `json:"id"`
	Name         string                       `json:"name"`
	Description  *string                      `json:"description,omitempty"`
	Category     string                       `json:"category"`
	Location     *string                      `json:"location,omitempty"`
	Capacity     *int32                       `json:"capacity,omitempty"`
	Restrictions resource.RestrictionsConfig  `json:"restrictions"`
	CreatedAt    time.Time                    `json:"created_at"`
	UpdatedAt    time.Time                    `json:"updated_at"`
}

// AuthorizedUserView represents read-optimized user data with authorization info
type AuthorizedUserView struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Role       string    `json:"role"`
	Department *string   `json:"department,omitempty"`
	IsActive   bool      `json:"is_active"`
}

// UserListItem is one row of the admin user directory.
type UserListItem struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Role       string    `json:"role"`
	Department *string   `json:"department,omitempty"`
	Phone      *string   `json:"phone,omitempty"`
	IsActive   bool      `json:"is_active"`
	CreatedAt  time.Time `json:"created_at"`
}

// UtilizationRow aggregates booked time per resource over a reporting window.
type UtilizationRow struct {
	ResourceID       uuid.UUID `json:"resource_id"`
	ResourceName     string    `json:"resource_name"`
	Category         string    `json:"category"`
	ReservationCount int64     `json:"reservation_count"`
	BookedHours      float64   `json:"booked_hours"`
}

// ReservationFilter narrows admin reservation listings.
type ReservationFilter struct {
	ResourceID *uuid.UUID
	Status     *string
	From       *time.Time
	To         *time.Time
}
