package carts

import (
	"context"

	"github.com/angelmondragon/shopfront-backend/pkg/db"
	"github.com/angelmondragon/shopfront-backend/pkg/db/models"
	"gorm.io/gorm"
)

// GormRepository stores carts in Postgres or SQLite.
type GormRepository struct {
	db *gorm.DB
}

// NewGormRepository constructs a cart repository bound to the provided DB.
func NewGormRepository(conn *gorm.DB) *GormRepository {
	return &GormRepository{db: conn}
}

// Create inserts an empty cart.
func (r *GormRepository) Create(ctx context.Context) (*models.Cart, error) {
	cart := &models.Cart{Products: []models.CartLine{}}
	if err := r.db.WithContext(ctx).Create(cart).Error; err != nil {
		return nil, db.TranslateError(err)
	}
	return cart, nil
}

func (r *GormRepository) FindByID(ctx context.Context, id string) (*models.Cart, error) {
	var cart models.Cart
	if err := r.db.WithContext(ctx).First(&cart, "id = ?", id).Error; err != nil {
		return nil, db.TranslateError(err)
	}
	return &cart, nil
}

func (r *GormRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&models.Cart{}, "id = ?", id)
	if res.Error != nil {
		return db.TranslateError(res.Error)
	}
	if res.RowsAffected == 0 {
		return db.ErrNotFound
	}
	return nil
}
