package carts

import (
	"context"

	"github.com/angelmondragon/shopfront-backend/pkg/db/models"
)

// Repository exposes persistence operations for carts.
type Repository interface {
	Create(ctx context.Context) (*models.Cart, error)
	FindByID(ctx context.Context, id string) (*models.Cart, error)
	Delete(ctx context.Context, id string) error
}
