package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Product is a catalog entry. Code is unique across the catalog.
type Product struct {
	ID          string    `gorm:"column:id;primaryKey"`
	Title       string    `gorm:"column:title;not null"`
	Description string    `gorm:"column:description;not null"`
	Code        string    `gorm:"column:code;not null;uniqueIndex:idx_products_code"`
	Price       float64   `gorm:"column:price;not null"`
	Stock       int       `gorm:"column:stock;not null"`
	Category    string    `gorm:"column:category;not null;index:idx_products_category"`
	Thumbnails  []string  `gorm:"column:thumbnails;serializer:json;not null"`
	Status      bool      `gorm:"column:status;not null"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Product) TableName() string { return "products" }

func (p *Product) BeforeCreate(*gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.Thumbnails == nil {
		p.Thumbnails = []string{}
	}
	return nil
}
