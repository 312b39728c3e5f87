package auth

import (
	"context"

	"github.com/angelmondragon/shopfront-backend/internal/carts"
	"github.com/angelmondragon/shopfront-backend/internal/users"
	"github.com/angelmondragon/shopfront-backend/pkg/db"
	"gorm.io/gorm"
)

// Transactor runs fn with repositories bound to a single unit of work. When fn
// returns an error nothing written through those repositories is kept.
type Transactor interface {
	InTx(ctx context.Context, fn func(users.Repository, carts.Repository) error) error
}

// GormTransactor scopes registration writes to one SQL transaction.
type GormTransactor struct {
	client *db.Client
}

func NewGormTransactor(client *db.Client) *GormTransactor {
	return &GormTransactor{client: client}
}

func (t *GormTransactor) InTx(ctx context.Context, fn func(users.Repository, carts.Repository) error) error {
	return t.client.WithTx(ctx, func(tx *gorm.DB) error {
		return fn(users.NewGormRepository(tx), carts.NewGormRepository(tx))
	})
}
