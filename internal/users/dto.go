package users

import (
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/sellercenter-backend/pkg/db/models"
	"github.com/angelmondragon/sellercenter-backend/pkg/enums"
)

// UserDTO is the transport shape that omits credentials.
type UserDTO struct {
	ID           uuid.UUID      `json:"id"`
	Email        string         `json:"email"`
	Name         string         `json:"name"`
	Role         enums.UserRole `json:"role"`
	ProductLimit int            `json:"productLimit"`
	DraftLimit   int            `json:"draftLimit"`
	IsActive     bool           `json:"isActive"`
	LastLoginAt  *time.Time     `json:"lastLoginAt,omitempty"`
	CreatedAt    time.Time      `json:"createdAt"`
	UpdatedAt    time.Time      `json:"updatedAt"`
}

// CreateUserDTO holds the data the repo needs to persist a new user.
type CreateUserDTO struct {
	Email        string
	Name         string
	PasswordHash string
	Role         enums.UserRole
	ProductLimit int
	DraftLimit   int
	IsActive     *bool
}

// CreateUserRequest is the admin payload for provisioning an account.
type CreateUserRequest struct {
	Email        string `json:"email" validate:"required,email"`
	Name         string `json:"name" validate:"required,notblank,max=100"`
	Password     string `json:"password" validate:"omitempty,min=8,max=128"`
	Role         string `json:"role" validate:"omitempty,oneof=student teacher"`
	ProductLimit *int   `json:"productLimit" validate:"omitempty,min=0"`
	DraftLimit   *int   `json:"draftLimit" validate:"omitempty,min=0"`
}

// CreateUserResult carries the generated password back once, when none was supplied.
type CreateUserResult struct {
	User         *UserDTO `json:"user"`
	TempPassword string   `json:"tempPassword,omitempty"`
}

// UpdateLimitsRequest replaces both quotas. Zero means unlimited.
type UpdateLimitsRequest struct {
	ProductLimit *int `json:"productLimit" validate:"required,min=0"`
	DraftLimit   *int `json:"draftLimit" validate:"required,min=0"`
}

func FromModel(u *models.User) *UserDTO {
	if u == nil {
		return nil
	}
	return &UserDTO{
		ID:           u.ID,
		Email:        u.Email,
		Name:         u.Name,
		Role:         u.Role,
		ProductLimit: u.ProductLimit,
		DraftLimit:   u.DraftLimit,
		IsActive:     u.IsActive,
		LastLoginAt:  u.LastLoginAt,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

func (c CreateUserDTO) ToModel() *models.User {
	isActive := true
	if c.IsActive != nil {
		isActive = *c.IsActive
	}
	role := c.Role
	if role == "" {
		role = enums.UserRoleStudent
	}
	return &models.User{
		Email:        c.Email,
		Name:         c.Name,
		PasswordHash: c.PasswordHash,
		Role:         role,
		ProductLimit: c.ProductLimit,
		DraftLimit:   c.DraftLimit,
		IsActive:     isActive,
	}
}
