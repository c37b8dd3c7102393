package resource

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrEmptyResourceName   = errors.New("resource name cannot be empty")
	ErrResourceNameTooLong = errors.New("resource name is too long (max 255 characters)")
	ErrInvalidCategory     = errors.New("invalid resource category")
	ErrInvalidCapacity     = errors.New("capacity must be positive")
)

const MaxResourceNameLength = 255

type Resource struct {
	id           uuid.UUID
	name         string
	description  string
	category     Category
	capacity     *int32
	location     string
	restrictions Restrictions
	createdAt    time.Time
	updatedAt    time.Time
}

func NewResource(name, description string, category Category, capacity *int32, location string, restrictions Restrictions) (*Resource, error) {
	if err := validateResourceName(name); err != nil {
		return nil, err
	}
	if !category.IsValid() {
		return nil, ErrInvalidCategory
	}
	if capacity != nil && *capacity <= 0 {
		return nil, ErrInvalidCapacity
	}

	return &Resource{
		id:           uuid.New(),
		name:         strings.TrimSpace(name),
		description:  strings.TrimSpace(description),
		category:     category,
		capacity:     capacity,
		location:     strings.TrimSpace(location),
		restrictions: restrictions,
	}, nil
}

func ReconstructResource(
	id uuid.UUID,
	name, description string,
	category Category,
	capacity *int32,
	location string,
	restrictions Restrictions,
	createdAt, updatedAt time.Time,
) *Resource {
	return &Resource{
		id:           id,
		name:         name,
		description:  description,
		category:     category,
		capacity:     capacity,
		location:     location,
		restrictions: restrictions,
		createdAt:    createdAt,
		updatedAt:    updatedAt,
	}
}

func validateResourceName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyResourceName
	}
	if len(name) > MaxResourceNameLength {
		return ErrResourceNameTooLong
	}
	return nil
}

func (r *Resource) ID() uuid.UUID              { return r.id }
func (r *Resource) Name() string               { return r.name }
func (r *Resource) Description() string        { return r.description }
func (r *Resource) Category() Category         { return r.category }
func (r *Resource) Capacity() *int32           { return r.capacity }
func (r *Resource) Location() string           { return r.location }
func (r *Resource) Restrictions() Restrictions { return r.restrictions }
func (r *Resource) CreatedAt() time.Time       { return r.createdAt }
func (r *Resource) UpdatedAt() time.Time       { return r.updatedAt }
