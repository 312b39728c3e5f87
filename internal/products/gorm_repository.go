package products

import (
	"context"

	"github.com/angelmondragon/shopfront-backend/pkg/db"
	"github.com/angelmondragon/shopfront-backend/pkg/db/models"
	"github.com/angelmondragon/shopfront-backend/pkg/enums"
	"gorm.io/gorm"
)

// GormRepository stores products in Postgres or SQLite.
type GormRepository struct {
	db *gorm.DB
}

// NewGormRepository builds a repository tied to the provided GORM DB.
func NewGormRepository(conn *gorm.DB) *GormRepository {
	return &GormRepository{db: conn}
}

func (r *GormRepository) Create(ctx context.Context, product *models.Product) error {
	return db.TranslateError(r.db.WithContext(ctx).Create(product).Error)
}

func (r *GormRepository) FindByID(ctx context.Context, id string) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		return nil, db.TranslateError(err)
	}
	return &product, nil
}

func (r *GormRepository) FindByCode(ctx context.Context, code string) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, "code = ?", code).Error; err != nil {
		return nil, db.TranslateError(err)
	}
	return &product, nil
}

// Update overwrites every mutable column of the row matching product.ID.
func (r *GormRepository) Update(ctx context.Context, product *models.Product) error {
	res := r.db.WithContext(ctx).
		Model(product).
		Select("title", "description", "code", "price", "stock", "category", "thumbnails", "status", "updated_at").
		Updates(product)
	if res.Error != nil {
		return db.TranslateError(res.Error)
	}
	if res.RowsAffected == 0 {
		return db.ErrNotFound
	}
	return nil
}

func (r *GormRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&models.Product{}, "id = ?", id)
	if res.Error != nil {
		return db.TranslateError(res.Error)
	}
	if res.RowsAffected == 0 {
		return db.ErrNotFound
	}
	return nil
}

func (r *GormRepository) List(ctx context.Context, query ListQuery) ([]models.Product, int64, error) {
	filter := func(tx *gorm.DB) *gorm.DB {
		if query.Category != "" {
			return tx.Where("category = ?", query.Category)
		}
		return tx
	}

	var total int64
	if err := r.db.WithContext(ctx).Model(&models.Product{}).Scopes(filter).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	rows := []models.Product{}
	err := r.db.WithContext(ctx).
		Scopes(filter, orderBy(query.Sort)).
		Offset(query.Skip).
		Limit(query.Limit).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

func (r *GormRepository) ListAll(ctx context.Context, limit int) ([]models.Product, error) {
	tx := r.db.WithContext(ctx).Scopes(orderBy(enums.SortOrderNone))
	if limit > 0 {
		tx = tx.Limit(limit)
	}
	rows := []models.Product{}
	if err := tx.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// orderBy keeps insertion order when unsorted so pages stay stable.
func orderBy(sort enums.SortOrder) func(*gorm.DB) *gorm.DB {
	return func(tx *gorm.DB) *gorm.DB {
		switch sort {
		case enums.SortOrderAsc:
			return tx.Order("price ASC").Order("id ASC")
		case enums.SortOrderDesc:
			return tx.Order("price DESC").Order("id ASC")
		}
		return tx.Order("created_at ASC").Order("id ASC")
	}
}
