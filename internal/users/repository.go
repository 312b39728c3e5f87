package users

import (
	"context"

	"github.com/angelmondragon/shopfront-backend/pkg/db/models"
)

// Repository exposes user-related persistence operations. Lookups return
// db.ErrNotFound when nothing matches; Create returns db.ErrDuplicate for a taken email.
type Repository interface {
	Create(ctx context.Context, dto CreateUserDTO) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
}
