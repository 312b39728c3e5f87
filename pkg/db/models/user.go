package models

import (
	"time"

	"github.com/angelmondragon/shopfront-backend/pkg/enums"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User represents the canonical identity entity. PasswordHash is empty for OAuth-only users.
type User struct {
	ID           string         `gorm:"column:id;primaryKey"`
	FirstName    string         `gorm:"column:first_name;not null"`
	LastName     string         `gorm:"column:last_name;not null"`
	Email        string         `gorm:"column:email;not null;uniqueIndex:idx_users_email"`
	Age          int            `gorm:"column:age;not null"`
	Role         enums.UserRole `gorm:"column:role;not null"`
	PasswordHash string         `gorm:"column:password_hash;not null"`
	CartID       *string        `gorm:"column:cart_id"`
	CreatedAt    time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}

func (User) TableName() string { return "users" }

func (u *User) BeforeCreate(*gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.Role == "" {
		u.Role = enums.UserRoleUser
	}
	return nil
}

// All lists every model for AutoMigrate on SQLite.
func All() []any {
	return []any{&Cart{}, &User{}, &Product{}}
}
