package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/shopfront-backend/api/responses"
	"github.com/angelmondragon/shopfront-backend/api/validators"
	productsvc "github.com/angelmondragon/shopfront-backend/internal/products"
	pkgerrors "github.com/angelmondragon/shopfront-backend/pkg/errors"
	"github.com/angelmondragon/shopfront-backend/pkg/logger"
)

const (
	productIDParam = "pid"
	maxQueryLength = 128
)

// ListProducts serves the paginated catalog.
func ListProducts(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := validators.ParseOptionalQueryInt(r, "limit")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		page, err := validators.ParseOptionalQueryInt(r, "page")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		sort, err := validators.ParseSortOrder(r, "sort")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.GetProducts(r.Context(), productsvc.ListInput{
			Limit: limit,
			Page:  page,
			Sort:  sort,
			Query: validators.SanitizeString(r.URL.Query().Get("query"), maxQueryLength),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// GetProduct returns one product by id.
func GetProduct(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		product, err := svc.GetProductByID(r.Context(), chi.URLParam(r, productIDParam))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

type createProductRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Code        string   `json:"code"`
	Category    string   `json:"category"`
	Price       any      `json:"price"`
	Stock       any      `json:"stock"`
	Thumbnails  []string `json:"thumbnails"`
	Status      *bool    `json:"status"`
}

// CreateProduct validates and stores a new product.
func CreateProduct(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload createProductRequest
		if err := validators.DecodeJSONBody(w, r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.AddProduct(r.Context(), productsvc.CreateProductInput{
			Title:       payload.Title,
			Description: payload.Description,
			Code:        payload.Code,
			Category:    payload.Category,
			Price:       payload.Price,
			Stock:       payload.Stock,
			Thumbnails:  payload.Thumbnails,
			Status:      payload.Status,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ctx := logg.WithFields(r.Context(), map[string]any{"product_id": product.ID, "code": product.Code})
		logg.Info(ctx, "product.created")
		responses.WriteMessage(w, http.StatusCreated, "product created")
	}
}

type updateProductRequest struct {
	// ID is accepted so clients can send back a fetched record; it never changes.
	ID          *string   `json:"id"`
	Title       *string   `json:"title"`
	Description *string   `json:"description"`
	Code        *string   `json:"code"`
	Category    *string   `json:"category"`
	Price       any       `json:"price"`
	Stock       any       `json:"stock"`
	Thumbnails  *[]string `json:"thumbnails"`
	Status      *bool     `json:"status"`
}

// UpdateProduct applies a partial update.
func UpdateProduct(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, productIDParam)
		var payload updateProductRequest
		if err := validators.DecodeJSONBody(w, r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if payload.ID != nil && strings.TrimSpace(*payload.ID) != "" && strings.TrimSpace(*payload.ID) != id {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "product id cannot be changed").
				WithDetails(map[string]string{"id": "must match the path id"}))
			return
		}

		if _, err := svc.UpdateProduct(r.Context(), id, productsvc.UpdateProductInput{
			Title:       payload.Title,
			Description: payload.Description,
			Code:        payload.Code,
			Category:    payload.Category,
			Price:       payload.Price,
			Stock:       payload.Stock,
			Thumbnails:  payload.Thumbnails,
			Status:      payload.Status,
		}); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteMessage(w, http.StatusOK, "product updated")
	}
}

// DeleteProduct removes a product. Deleting an unknown id still answers 200.
func DeleteProduct(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, productIDParam)
		if err := svc.DeleteProduct(r.Context(), id); err != nil {
			if !pkgerrors.Is(err, pkgerrors.CodeNotFound) {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			logg.Warn(logg.WithField(r.Context(), "product_id", id), "product.delete.not_found")
		}
		responses.WriteMessage(w, http.StatusOK, "product deleted")
	}
}
