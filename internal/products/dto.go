package products

import (
	"time"

	"github.com/angelmondragon/shopfront-backend/pkg/db/models"
)

// ProductDTO represents the product payload returned to clients.
type ProductDTO struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Code        string    `json:"code"`
	Price       float64   `json:"price"`
	Stock       int       `json:"stock"`
	Category    string    `json:"category"`
	Thumbnails  []string  `json:"thumbnails"`
	Status      bool      `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewProductDTO maps a model into the public payload.
func NewProductDTO(p *models.Product) *ProductDTO {
	if p == nil {
		return nil
	}
	thumbnails := p.Thumbnails
	if thumbnails == nil {
		thumbnails = []string{}
	}
	return &ProductDTO{
		ID:          p.ID,
		Title:       p.Title,
		Description: p.Description,
		Code:        p.Code,
		Price:       p.Price,
		Stock:       p.Stock,
		Category:    p.Category,
		Thumbnails:  thumbnails,
		Status:      p.Status,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func newProductDTOs(rows []models.Product) []ProductDTO {
	out := make([]ProductDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *NewProductDTO(&rows[i]))
	}
	return out
}
