package products

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/angelmondragon/shopfront-backend/pkg/config"
	"github.com/angelmondragon/shopfront-backend/pkg/db"
	"github.com/angelmondragon/shopfront-backend/pkg/enums"
	pkgmongo "github.com/angelmondragon/shopfront-backend/pkg/mongo"
)

func newMongoRepository(t *testing.T) *MongoRepository {
	t.Helper()
	uri := os.Getenv("SHOPFRONT_TEST_MONGO_URI")
	if uri == "" {
		t.Skip("SHOPFRONT_TEST_MONGO_URI not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	client, err := pkgmongo.New(ctx, config.MongoConfig{
		URI:      uri,
		Database: fmt.Sprintf("shopfront_test_%d", time.Now().UnixNano()),
	}, nil)
	if err != nil {
		t.Fatalf("connect mongo: %v", err)
	}
	t.Cleanup(func() {
		_ = client.Database().Drop(context.Background())
		_ = client.Close()
	})
	return NewMongoRepository(client)
}

func TestMongoRepositoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := newMongoRepository(t)

	product := newTestProduct("M-1", "books", 9.99)
	if err := repo.Create(ctx, product); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, ok := pkgmongo.ObjectIDFromHex(product.ID); !ok {
		t.Fatalf("expected object id, got %q", product.ID)
	}

	if err := repo.Create(ctx, newTestProduct("M-1", "books", 1)); !errors.Is(err, db.ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}

	product.Stock = 42
	if err := repo.Update(ctx, product); err != nil {
		t.Fatalf("update: %v", err)
	}
	got, err := repo.FindByID(ctx, product.ID)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if got.Stock != 42 {
		t.Fatalf("expected stock 42, got %d", got.Stock)
	}

	if _, err := repo.FindByID(ctx, "not-an-object-id"); !errors.Is(err, db.ErrNotFound) {
		t.Fatalf("expected malformed id to be not found, got %v", err)
	}

	if err := repo.Delete(ctx, product.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := repo.Delete(ctx, product.ID); !errors.Is(err, db.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMongoRepositoryListSortsByPrice(t *testing.T) {
	ctx := context.Background()
	repo := newMongoRepository(t)

	for i, price := range []float64{30, 10, 20} {
		if err := repo.Create(ctx, newTestProduct(fmt.Sprintf("S%d", i), "music", price)); err != nil {
			t.Fatalf("create: %v", err)
		}
	}
	if err := repo.Create(ctx, newTestProduct("OTHER", "books", 1)); err != nil {
		t.Fatalf("create: %v", err)
	}

	rows, total, err := repo.List(ctx, ListQuery{Limit: 10, Category: "music", Sort: enums.SortOrderDesc})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 3 || len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d/%d", len(rows), total)
	}
	if rows[0].Price != 30 || rows[2].Price != 10 {
		t.Fatalf("unexpected order: %v, %v, %v", rows[0].Price, rows[1].Price, rows[2].Price)
	}
}
