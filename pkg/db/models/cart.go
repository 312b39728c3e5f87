package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CartLine is a product reference held by a cart.
type CartLine struct {
	ProductID string `json:"product"`
	Quantity  int    `json:"quantity"`
}

// Cart is created empty alongside a registered user.
type Cart struct {
	ID        string     `gorm:"column:id;primaryKey"`
	Products  []CartLine `gorm:"column:products;serializer:json;not null"`
	CreatedAt time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

func (Cart) TableName() string { return "carts" }

func (c *Cart) BeforeCreate(*gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.Products == nil {
		c.Products = []CartLine{}
	}
	return nil
}
