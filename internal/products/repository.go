package products

import (
	"context"

	"github.com/angelmondragon/shopfront-backend/pkg/db/models"
	"github.com/angelmondragon/shopfront-backend/pkg/enums"
)

// Repository is the persistence contract the service needs. Implementations
// return db.ErrNotFound and db.ErrDuplicate for missing ids and key collisions.
type Repository interface {
	Create(ctx context.Context, product *models.Product) error
	FindByID(ctx context.Context, id string) (*models.Product, error)
	FindByCode(ctx context.Context, code string) (*models.Product, error)
	Update(ctx context.Context, product *models.Product) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, query ListQuery) ([]models.Product, int64, error)
	ListAll(ctx context.Context, limit int) ([]models.Product, error)
}

// ListQuery is the storage-level form of a listing request.
type ListQuery struct {
	Skip     int
	Limit    int
	Category string
	Sort     enums.SortOrder
}
