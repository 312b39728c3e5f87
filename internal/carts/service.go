package carts

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/angelmondragon/shopfront-backend/pkg/db"
	"github.com/angelmondragon/shopfront-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/shopfront-backend/pkg/errors"
)

// Service manages cart lifecycle.
type Service interface {
	Create(ctx context.Context) (*CartDTO, error)
	GetByID(ctx context.Context, id string) (*CartDTO, error)
	Delete(ctx context.Context, id string) error
}

// CartLineDTO is a single product reference in a cart.
type CartLineDTO struct {
	ProductID string `json:"product"`
	Quantity  int    `json:"quantity"`
}

// CartDTO is the cart payload returned to clients.
type CartDTO struct {
	ID        string        `json:"id"`
	Products  []CartLineDTO `json:"products"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

func newCartDTO(c *models.Cart) *CartDTO {
	lines := make([]CartLineDTO, 0, len(c.Products))
	for _, line := range c.Products {
		lines = append(lines, CartLineDTO{ProductID: line.ProductID, Quantity: line.Quantity})
	}
	return &CartDTO{ID: c.ID, Products: lines, CreatedAt: c.CreatedAt, UpdatedAt: c.UpdatedAt}
}

type service struct {
	repo Repository
}

// NewService constructs a cart service.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Create(ctx context.Context) (*CartDTO, error) {
	cart, err := s.repo.Create(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "db: create cart")
	}
	return newCartDTO(cart), nil
}

func (s *service) GetByID(ctx context.Context, id string) (*CartDTO, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, notFoundError(id)
	}
	cart, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, notFoundError(id)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "db: load cart")
	}
	return newCartDTO(cart), nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return notFoundError(id)
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "db: delete cart")
	}
	return nil
}

func notFoundError(id string) error {
	return pkgerrors.New(pkgerrors.CodeNotFound, "cart not found").
		WithDetails(map[string]string{"id": id})
}
