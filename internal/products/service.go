package products

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/angelmondragon/shopfront-backend/pkg/db"
	"github.com/angelmondragon/shopfront-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/shopfront-backend/pkg/errors"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// Service exposes catalog management operations.
type Service interface {
	AddProduct(ctx context.Context, input CreateProductInput) (*ProductDTO, error)
	GetProducts(ctx context.Context, input ListInput) (*Page, error)
	GetProductByID(ctx context.Context, id string) (*ProductDTO, error)
	UpdateProduct(ctx context.Context, id string, input UpdateProductInput) (*ProductDTO, error)
	DeleteProduct(ctx context.Context, id string) error
	GetProductsLimit(ctx context.Context, limit *int) ([]ProductDTO, error)
}

// CreateProductInput holds the payload to create a product. Price and Stock
// keep their decoded JSON form so non-numeric values can be reported as such.
type CreateProductInput struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description" validate:"required"`
	Code        string `json:"code" validate:"required"`
	Category    string `json:"category" validate:"required"`
	Price       any    `json:"price"`
	Stock       any    `json:"stock"`
	Thumbnails  []string
	Status      *bool
}

// UpdateProductInput holds optional mutation values for a product. Nil means unchanged.
type UpdateProductInput struct {
	Title       *string
	Description *string
	Code        *string
	Category    *string
	Price       any
	Stock       any
	Thumbnails  *[]string
	Status      *bool
}

type service struct {
	repo     Repository
	validate *validator.Validate
}

// NewService constructs a product service instance.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	return &service{repo: repo, validate: newValidator()}, nil
}

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		tag := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if tag == "" {
			return f.Name
		}
		return tag
	})
	return v
}

// AddProduct validates and persists a new product. Checks run in order:
// required text fields, numeric price/stock, code uniqueness.
func (s *service) AddProduct(ctx context.Context, input CreateProductInput) (*ProductDTO, error) {
	input.Title = strings.TrimSpace(input.Title)
	input.Description = strings.TrimSpace(input.Description)
	input.Code = strings.TrimSpace(input.Code)
	input.Category = strings.TrimSpace(input.Category)

	if err := s.validate.Struct(input); err != nil {
		return nil, requiredFieldsError(err)
	}

	price, err := parsePrice(input.Price)
	if err != nil {
		return nil, err
	}
	stock, err := parseStock(input.Stock)
	if err != nil {
		return nil, err
	}

	if err := s.ensureCodeAvailable(ctx, input.Code, ""); err != nil {
		return nil, err
	}

	status := true
	if input.Status != nil {
		status = *input.Status
	}
	thumbnails := input.Thumbnails
	if thumbnails == nil {
		thumbnails = []string{}
	}

	product := &models.Product{
		Title:       input.Title,
		Description: input.Description,
		Code:        input.Code,
		Price:       price,
		Stock:       stock,
		Category:    input.Category,
		Thumbnails:  thumbnails,
		Status:      status,
	}
	if err := s.repo.Create(ctx, product); err != nil {
		if errors.Is(err, db.ErrDuplicate) {
			return nil, duplicateCodeError(input.Code)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "db: insert product")
	}
	return NewProductDTO(product), nil
}

// GetProductByID returns a NOT_FOUND error value for unknown or malformed ids.
func (s *service) GetProductByID(ctx context.Context, id string) (*ProductDTO, error) {
	product, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return NewProductDTO(product), nil
}

// UpdateProduct merges the non-nil fields of input into the stored product.
func (s *service) UpdateProduct(ctx context.Context, id string, input UpdateProductInput) (*ProductDTO, error) {
	product, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := applyUpdate(product, input); err != nil {
		return nil, err
	}
	if input.Code != nil {
		if err := s.ensureCodeAvailable(ctx, product.Code, product.ID); err != nil {
			return nil, err
		}
	}

	if err := s.repo.Update(ctx, product); err != nil {
		switch {
		case errors.Is(err, db.ErrNotFound):
			return nil, notFoundError(id)
		case errors.Is(err, db.ErrDuplicate):
			return nil, duplicateCodeError(product.Code)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "db: update product")
	}
	return NewProductDTO(product), nil
}

// DeleteProduct removes the product, or returns NOT_FOUND when nothing matched.
func (s *service) DeleteProduct(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, strings.TrimSpace(id)); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return notFoundError(id)
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "db: delete product")
	}
	return nil
}

// GetProductsLimit returns every product, truncated to limit when it is positive.
func (s *service) GetProductsLimit(ctx context.Context, limit *int) ([]ProductDTO, error) {
	n := 0
	if limit != nil && *limit > 0 {
		n = *limit
	}
	rows, err := s.repo.ListAll(ctx, n)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "db: list products")
	}
	return newProductDTOs(rows), nil
}

func (s *service) load(ctx context.Context, id string) (*models.Product, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, notFoundError(id)
	}
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, notFoundError(id)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "db: load product")
	}
	return product, nil
}

func (s *service) ensureCodeAvailable(ctx context.Context, code, selfID string) error {
	existing, err := s.repo.FindByCode(ctx, code)
	switch {
	case errors.Is(err, db.ErrNotFound):
		return nil
	case err != nil:
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "db: lookup product code")
	case existing.ID != selfID:
		return duplicateCodeError(code)
	}
	return nil
}

func applyUpdate(product *models.Product, input UpdateProductInput) error {
	missing := map[string]string{}
	setText := func(field string, dst *string, value *string) {
		if value == nil {
			return
		}
		trimmed := strings.TrimSpace(*value)
		if trimmed == "" {
			missing[field] = "is required"
			return
		}
		*dst = trimmed
	}
	setText("title", &product.Title, input.Title)
	setText("description", &product.Description, input.Description)
	setText("code", &product.Code, input.Code)
	setText("category", &product.Category, input.Category)
	if len(missing) > 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "missing required fields").WithDetails(missing)
	}

	if input.Price != nil {
		price, err := parsePrice(input.Price)
		if err != nil {
			return err
		}
		product.Price = price
	}
	if input.Stock != nil {
		stock, err := parseStock(input.Stock)
		if err != nil {
			return err
		}
		product.Stock = stock
	}
	if input.Thumbnails != nil {
		product.Thumbnails = append([]string{}, (*input.Thumbnails)...)
	}
	if input.Status != nil {
		product.Status = *input.Status
	}
	return nil
}

func parsePrice(raw any) (float64, error) {
	value, err := numeric("price", raw)
	if err != nil {
		return 0, err
	}
	if value.IsNegative() {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "price must not be negative").
			WithDetails(map[string]string{"price": "must be at least 0"})
	}
	return value.Round(2).InexactFloat64(), nil
}

func parseStock(raw any) (int, error) {
	value, err := numeric("stock", raw)
	if err != nil {
		return 0, err
	}
	if !value.IsInteger() {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "stock must be a whole number").
			WithDetails(map[string]string{"stock": "must be a whole number"})
	}
	if value.IsNegative() {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "stock must not be negative").
			WithDetails(map[string]string{"stock": "must be at least 0"})
	}
	return int(value.IntPart()), nil
}

func numeric(field string, raw any) (decimal.Decimal, error) {
	switch v := raw.(type) {
	case float64:
		return decimal.NewFromFloat(v), nil
	case float32:
		return decimal.NewFromFloat32(v), nil
	case int:
		return decimal.NewFromInt(int64(v)), nil
	case int32:
		return decimal.NewFromInt32(v), nil
	case int64:
		return decimal.NewFromInt(v), nil
	case json.Number:
		if d, err := decimal.NewFromString(v.String()); err == nil {
			return d, nil
		}
	}
	return decimal.Zero, pkgerrors.New(pkgerrors.CodeTypeMismatch, fmt.Sprintf("%s must be a number", field)).
		WithDetails(map[string]string{field: "must be a number"})
}

func requiredFieldsError(err error) error {
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "validation failed")
	}
	details := map[string]string{}
	for _, fieldErr := range errs {
		details[fieldErr.Field()] = "is required"
	}
	return pkgerrors.New(pkgerrors.CodeValidation, "missing required fields").WithDetails(details)
}

func duplicateCodeError(code string) error {
	return pkgerrors.New(pkgerrors.CodeDuplicate, fmt.Sprintf("a product with code %q already exists", code)).
		WithDetails(map[string]string{"code": code})
}

func notFoundError(id string) error {
	return pkgerrors.New(pkgerrors.CodeNotFound, "product not found").
		WithDetails(map[string]string{"id": id})
}
