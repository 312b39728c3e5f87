package users

import (
	"time"

	"github.com/angelmondragon/shopfront-backend/pkg/db/models"
	"github.com/angelmondragon/shopfront-backend/pkg/enums"
)

// UserDTO is the transport shape that omits sensitive credentials.
type UserDTO struct {
	ID        string         `json:"id"`
	FirstName string         `json:"first_name"`
	LastName  string         `json:"last_name"`
	Email     string         `json:"email"`
	Age       int            `json:"age"`
	Role      enums.UserRole `json:"role"`
	CartID    *string        `json:"cart,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// CreateUserDTO holds the data required by the repo to persist a new user.
type CreateUserDTO struct {
	FirstName    string
	LastName     string
	Email        string
	Age          int
	PasswordHash string
	Role         enums.UserRole
	CartID       *string
}

func FromModel(u *models.User) *UserDTO {
	if u == nil {
		return nil
	}
	return &UserDTO{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		Age:       u.Age,
		Role:      u.Role,
		CartID:    u.CartID,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func (c CreateUserDTO) ToModel() *models.User {
	role := c.Role
	if role == "" {
		role = enums.UserRoleUser
	}
	return &models.User{
		FirstName:    c.FirstName,
		LastName:     c.LastName,
		Email:        c.Email,
		Age:          c.Age,
		Role:         role,
		PasswordHash: c.PasswordHash,
		CartID:       c.CartID,
	}
}
