package products

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/angelmondragon/shopfront-backend/pkg/db/dbtest"
	"github.com/angelmondragon/shopfront-backend/pkg/db/models"
	"github.com/angelmondragon/shopfront-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/shopfront-backend/pkg/errors"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/mock"
)

func newTestService(t *testing.T) Service {
	t.Helper()
	svc, err := NewService(NewGormRepository(dbtest.NewSQLite(t).DB()))
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func validInput(code string) CreateProductInput {
	return CreateProductInput{
		Title:       "Lamp",
		Description: "Desk lamp",
		Code:        code,
		Category:    "home",
		Price:       19.999,
		Stock:       float64(4),
	}
}

func assertCode(t *testing.T, err error, want pkgerrors.Code) {
	t.Helper()
	if !pkgerrors.Is(err, want) {
		t.Fatalf("expected %s error, got %v", want, err)
	}
}

func TestNewServiceRequiresRepository(t *testing.T) {
	if _, err := NewService(nil); err == nil {
		t.Fatalf("expected error for nil repository")
	}
}

func TestAddProductAppliesDefaults(t *testing.T) {
	svc := newTestService(t)

	got, err := svc.AddProduct(context.Background(), validInput("LAMP-1"))
	if err != nil {
		t.Fatalf("add product: %v", err)
	}
	if got.ID == "" {
		t.Fatalf("expected id")
	}
	if !got.Status {
		t.Fatalf("expected status to default to true")
	}
	if got.Thumbnails == nil || len(got.Thumbnails) != 0 {
		t.Fatalf("expected empty thumbnails, got %#v", got.Thumbnails)
	}
	if got.Price != 20 {
		t.Fatalf("expected price rounded to 20, got %v", got.Price)
	}
	if got.Stock != 4 {
		t.Fatalf("expected stock 4, got %d", got.Stock)
	}

	inactive := validInput("LAMP-2")
	off := false
	inactive.Status = &off
	inactive.Thumbnails = []string{"front.png"}
	got, err = svc.AddProduct(context.Background(), inactive)
	if err != nil {
		t.Fatalf("add inactive product: %v", err)
	}
	if got.Status || len(got.Thumbnails) != 1 {
		t.Fatalf("explicit values not kept: %+v", got)
	}
}

func TestAddProductRequiresEveryTextField(t *testing.T) {
	svc := newTestService(t)

	cases := map[string]func(*CreateProductInput){
		"title":       func(in *CreateProductInput) { in.Title = "" },
		"description": func(in *CreateProductInput) { in.Description = "   " },
		"code":        func(in *CreateProductInput) { in.Code = "" },
		"category":    func(in *CreateProductInput) { in.Category = "" },
	}
	for field, mutate := range cases {
		t.Run(field, func(t *testing.T) {
			input := validInput("REQ-" + field)
			mutate(&input)

			_, err := svc.AddProduct(context.Background(), input)
			assertCode(t, err, pkgerrors.CodeValidation)

			details, ok := pkgerrors.As(err).Details().(map[string]string)
			if !ok {
				t.Fatalf("expected field details, got %#v", pkgerrors.As(err).Details())
			}
			if _, ok := details[field]; !ok {
				t.Fatalf("expected %s in details, got %v", field, details)
			}
		})
	}
}

func TestAddProductRejectsNonNumericValues(t *testing.T) {
	svc := newTestService(t)

	cases := []struct {
		name  string
		price any
		stock any
		code  pkgerrors.Code
	}{
		{name: "string price", price: "12", stock: 1.0, code: pkgerrors.CodeTypeMismatch},
		{name: "bool stock", price: 1.0, stock: true, code: pkgerrors.CodeTypeMismatch},
		{name: "missing price", price: nil, stock: 1.0, code: pkgerrors.CodeTypeMismatch},
		{name: "fractional stock", price: 1.0, stock: 1.5, code: pkgerrors.CodeValidation},
		{name: "negative price", price: -1.0, stock: 1.0, code: pkgerrors.CodeValidation},
		{name: "json number", price: json.Number("7.25"), stock: json.Number("3"), code: ""},
	}
	for i, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			input := validInput(fmt.Sprintf("NUM-%d", i))
			input.Price = tc.price
			input.Stock = tc.stock

			_, err := svc.AddProduct(context.Background(), input)
			if tc.code == "" {
				if err != nil {
					t.Fatalf("expected success, got %v", err)
				}
				return
			}
			assertCode(t, err, tc.code)
		})
	}
}

func TestAddProductRejectsDuplicateCode(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	if _, err := svc.AddProduct(ctx, validInput("SAME")); err != nil {
		t.Fatalf("first add: %v", err)
	}
	_, err := svc.AddProduct(ctx, validInput("SAME"))
	assertCode(t, err, pkgerrors.CodeDuplicate)

	page, err := svc.GetProducts(ctx, ListInput{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if page.TotalDocs != 1 {
		t.Fatalf("duplicate must not be stored, total=%d", page.TotalDocs)
	}
}

func TestGetProductByIDUnknown(t *testing.T) {
	svc := newTestService(t)

	for _, id := range []string{"", "nope", "00000000-0000-0000-0000-000000000000"} {
		_, err := svc.GetProductByID(context.Background(), id)
		assertCode(t, err, pkgerrors.CodeNotFound)
	}
}

func TestUpdateProductMergesPatch(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	created, err := svc.AddProduct(ctx, validInput("UPD-1"))
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, err := svc.AddProduct(ctx, validInput("UPD-2")); err != nil {
		t.Fatalf("add second: %v", err)
	}

	title := "  Floor lamp "
	updated, err := svc.UpdateProduct(ctx, created.ID, UpdateProductInput{Title: &title, Stock: float64(9)})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Title != "Floor lamp" || updated.Stock != 9 {
		t.Fatalf("patch not applied: %+v", updated)
	}
	if updated.Code != "UPD-1" || updated.Category != "home" {
		t.Fatalf("unpatched fields changed: %+v", updated)
	}

	reloaded, err := svc.GetProductByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if reloaded.Title != "Floor lamp" {
		t.Fatalf("update not persisted: %+v", reloaded)
	}

	taken := "UPD-2"
	_, err = svc.UpdateProduct(ctx, created.ID, UpdateProductInput{Code: &taken})
	assertCode(t, err, pkgerrors.CodeDuplicate)

	same := "UPD-1"
	if _, err := svc.UpdateProduct(ctx, created.ID, UpdateProductInput{Code: &same}); err != nil {
		t.Fatalf("keeping own code should succeed: %v", err)
	}

	_, err = svc.UpdateProduct(ctx, created.ID, UpdateProductInput{Price: "cheap"})
	assertCode(t, err, pkgerrors.CodeTypeMismatch)

	blank := " "
	_, err = svc.UpdateProduct(ctx, created.ID, UpdateProductInput{Category: &blank})
	assertCode(t, err, pkgerrors.CodeValidation)

	_, err = svc.UpdateProduct(ctx, "missing", UpdateProductInput{Title: &title})
	assertCode(t, err, pkgerrors.CodeNotFound)
}

func TestDeleteProduct(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	created, err := svc.AddProduct(ctx, validInput("DEL-1"))
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := svc.DeleteProduct(ctx, created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	_, err = svc.GetProductByID(ctx, created.ID)
	assertCode(t, err, pkgerrors.CodeNotFound)

	assertCode(t, svc.DeleteProduct(ctx, created.ID), pkgerrors.CodeNotFound)
}

func seedProducts(t *testing.T, svc Service, n int, category string) {
	t.Helper()
	for i := 0; i < n; i++ {
		input := validInput(fmt.Sprintf("%s-%02d", category, i))
		input.Category = category
		input.Price = float64(i + 1)
		if _, err := svc.AddProduct(context.Background(), input); err != nil {
			t.Fatalf("seed %d: %v", i, err)
		}
	}
}

func TestGetProductsPaginationWindow(t *testing.T) {
	svc := newTestService(t)
	seedProducts(t, svc, 25, "home")

	page, err := svc.GetProducts(context.Background(), ListInput{Limit: 10, Page: 3, Sort: enums.SortOrderAsc})
	if err != nil {
		t.Fatalf("list: %v", err)
	}

	prev := 2
	prevLink := "/api/products?limit=10&page=2&query=&sort=asc"
	want := &Page{
		TotalPages:  3,
		PrevPage:    &prev,
		Page:        3,
		Limit:       10,
		HasPrevPage: true,
		PrevLink:    &prevLink,
		Sort:        "asc",
		TotalDocs:   25,
	}
	if diff := cmp.Diff(want, page, cmpopts.IgnoreFields(Page{}, "Payload")); diff != "" {
		t.Fatalf("page mismatch (-want +got):\n%s", diff)
	}
	if len(page.Payload) != 5 {
		t.Fatalf("expected 5 records on last page, got %d", len(page.Payload))
	}
	if page.Payload[0].Price != 21 || page.Payload[4].Price != 25 {
		t.Fatalf("unexpected ascending order: first=%v last=%v", page.Payload[0].Price, page.Payload[4].Price)
	}
}

func TestGetProductsPastLastPageIsEmpty(t *testing.T) {
	svc := newTestService(t)
	seedProducts(t, svc, 25, "home")

	for _, pageNo := range []int{4, 1e18} {
		page, err := svc.GetProducts(context.Background(), ListInput{Limit: 10, Page: pageNo})
		if err != nil {
			t.Fatalf("list page %d: %v", pageNo, err)
		}
		if page.Page != pageNo || page.TotalPages != 3 || page.TotalDocs != 25 {
			t.Fatalf("unexpected window for page %d: %+v", pageNo, page)
		}
		if len(page.Payload) != 0 {
			t.Fatalf("expected no records past the last page, page %d returned %d", pageNo, len(page.Payload))
		}
		if page.HasNextPage || page.NextLink != nil {
			t.Fatalf("page %d must not offer a next page", pageNo)
		}
	}
}

func TestGetProductsDefaultsAndCategoryFilter(t *testing.T) {
	svc := newTestService(t)
	seedProducts(t, svc, 12, "books")
	seedProducts(t, svc, 3, "music")

	page, err := svc.GetProducts(context.Background(), ListInput{Page: -4, Sort: enums.SortOrderDesc, Query: "books"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if page.Page != 1 || page.Limit != 10 {
		t.Fatalf("expected defaults page=1 limit=10, got page=%d limit=%d", page.Page, page.Limit)
	}
	if page.TotalDocs != 12 || page.TotalPages != 2 {
		t.Fatalf("expected 12 docs over 2 pages, got %d over %d", page.TotalDocs, page.TotalPages)
	}
	if page.HasPrevPage || page.PrevPage != nil || page.PrevLink != nil {
		t.Fatalf("first page must not have a previous page: %+v", page)
	}
	if page.NextLink == nil || *page.NextLink != "/api/products?limit=10&page=2&query=books&sort=desc" {
		t.Fatalf("unexpected next link %v", page.NextLink)
	}
	for _, p := range page.Payload {
		if p.Category != "books" {
			t.Fatalf("filter leaked category %q", p.Category)
		}
	}
	if page.Payload[0].Price != 12 {
		t.Fatalf("expected most expensive first, got %v", page.Payload[0].Price)
	}

	empty, err := svc.GetProducts(context.Background(), ListInput{Query: "nothing"})
	if err != nil {
		t.Fatalf("list empty: %v", err)
	}
	if empty.TotalPages != 0 || empty.HasNextPage || len(empty.Payload) != 0 {
		t.Fatalf("unexpected empty page %+v", empty)
	}
	if empty.Payload == nil {
		t.Fatalf("payload must encode as an empty array")
	}
}

func TestGetProductsRejectsUnknownSort(t *testing.T) {
	svc := newTestService(t)
	_, err := svc.GetProducts(context.Background(), ListInput{Sort: enums.SortOrder("sideways")})
	assertCode(t, err, pkgerrors.CodeValidation)
}

func TestGetProductsLimit(t *testing.T) {
	svc := newTestService(t)
	seedProducts(t, svc, 4, "toys")
	ctx := context.Background()

	all, err := svc.GetProductsLimit(ctx, nil)
	if err != nil {
		t.Fatalf("limit nil: %v", err)
	}
	if len(all) != 4 {
		t.Fatalf("expected 4, got %d", len(all))
	}

	two := 2
	some, err := svc.GetProductsLimit(ctx, &two)
	if err != nil {
		t.Fatalf("limit 2: %v", err)
	}
	if len(some) != 2 {
		t.Fatalf("expected 2, got %d", len(some))
	}

	zero := 0
	none, err := svc.GetProductsLimit(ctx, &zero)
	if err != nil {
		t.Fatalf("limit 0: %v", err)
	}
	if len(none) != 4 {
		t.Fatalf("non-positive limit must return everything, got %d", len(none))
	}
}

type mockRepository struct {
	mock.Mock
}

func (m *mockRepository) Create(ctx context.Context, product *models.Product) error {
	return m.Called(ctx, product).Error(0)
}

func (m *mockRepository) FindByID(ctx context.Context, id string) (*models.Product, error) {
	args := m.Called(ctx, id)
	product, _ := args.Get(0).(*models.Product)
	return product, args.Error(1)
}

func (m *mockRepository) FindByCode(ctx context.Context, code string) (*models.Product, error) {
	args := m.Called(ctx, code)
	product, _ := args.Get(0).(*models.Product)
	return product, args.Error(1)
}

func (m *mockRepository) Update(ctx context.Context, product *models.Product) error {
	return m.Called(ctx, product).Error(0)
}

func (m *mockRepository) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockRepository) List(ctx context.Context, query ListQuery) ([]models.Product, int64, error) {
	args := m.Called(ctx, query)
	rows, _ := args.Get(0).([]models.Product)
	return rows, args.Get(1).(int64), args.Error(2)
}

func (m *mockRepository) ListAll(ctx context.Context, limit int) ([]models.Product, error) {
	args := m.Called(ctx, limit)
	rows, _ := args.Get(0).([]models.Product)
	return rows, args.Error(1)
}

func TestServiceWrapsStorageFailures(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("connection reset")

	repo := &mockRepository{}
	repo.On("List", ctx, ListQuery{Skip: 10, Limit: 10, Sort: enums.SortOrderNone}).Return(nil, int64(0), boom)
	repo.On("FindByID", ctx, "abc").Return(nil, boom)
	repo.On("Delete", ctx, "abc").Return(boom)

	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	_, err = svc.GetProducts(ctx, ListInput{Page: 2})
	assertCode(t, err, pkgerrors.CodeInternal)
	if !errors.Is(err, boom) {
		t.Fatalf("expected cause to be preserved, got %v", err)
	}

	_, err = svc.GetProductByID(ctx, "abc")
	assertCode(t, err, pkgerrors.CodeInternal)

	assertCode(t, svc.DeleteProduct(ctx, "abc"), pkgerrors.CodeInternal)
	repo.AssertExpectations(t)
}
