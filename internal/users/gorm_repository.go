package users

import (
	"context"

	"github.com/angelmondragon/shopfront-backend/pkg/db"
	"github.com/angelmondragon/shopfront-backend/pkg/db/models"
	"gorm.io/gorm"
)

// GormRepository stores users in Postgres or SQLite.
type GormRepository struct {
	db *gorm.DB
}

// NewGormRepository constructs a users repo bound to the provided GORM DB.
func NewGormRepository(conn *gorm.DB) *GormRepository {
	return &GormRepository{db: conn}
}

// Create inserts a new user and returns the persisted model.
func (r *GormRepository) Create(ctx context.Context, dto CreateUserDTO) (*models.User, error) {
	user := dto.ToModel()
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return nil, db.TranslateError(err)
	}
	return user, nil
}

// FindByEmail retrieves the user matching the provided email.
func (r *GormRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, db.TranslateError(err)
	}
	return &user, nil
}

// FindByID loads a user by id.
func (r *GormRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, db.TranslateError(err)
	}
	return &user, nil
}
