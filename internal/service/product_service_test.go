package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/miniteen-shop/internal/models"
	"github.com/miniteen-shop/internal/repository"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func openServiceTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:svc_%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(models.AllModels()...); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("get sql db failed: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})
	return db
}

func newProductServiceForTest(t *testing.T) (*ProductService, *gorm.DB) {
	t.Helper()
	db := openServiceTestDB(t)
	return NewProductService(repository.NewProductRepository(db), nil, time.Minute), db
}

func mustCreateProduct(t *testing.T, svc *ProductService, name, category, price string, stock int) *models.Product {
	t.Helper()
	product, err := svc.Create(context.Background(), CreateProductInput{
		Name:       name,
		Price:      models.MustMoney(price),
		Category:   category,
		StockCount: stock,
	})
	if err != nil {
		t.Fatalf("create product %s failed: %v", name, err)
	}
	return product
}

func TestProductServiceCreateDerivesInStock(t *testing.T) {
	svc, _ := newProductServiceForTest(t)

	for _, stock := range []int{0, 1, 7} {
		product := mustCreateProduct(t, svc, fmt.Sprintf("Item %d", stock), "accessory", "100", stock)
		if product.InStock != (stock > 0) {
			t.Fatalf("stock=%d expected in_stock=%v, got %v", stock, stock > 0, product.InStock)
		}
		if !strings.HasPrefix(product.ID, "prod_") || len(product.ID) != len("prod_")+8 {
			t.Fatalf("unexpected product id: %s", product.ID)
		}
		if product.CreatedAt.IsZero() || !product.CreatedAt.Equal(product.UpdatedAt) {
			t.Fatalf("timestamps not initialized: %+v", product)
		}
	}
}

func TestProductServiceCreateValidation(t *testing.T) {
	svc, _ := newProductServiceForTest(t)
	cases := []struct {
		name  string
		input CreateProductInput
		want  error
	}{
		{"blank name", CreateProductInput{Name: "  ", Price: models.MustMoney("10"), Category: "accessory"}, ErrProductNameRequired},
		{"zero price", CreateProductInput{Name: "A", Price: models.MustMoney("0"), Category: "accessory"}, ErrProductPriceInvalid},
		{"negative price", CreateProductInput{Name: "A", Price: models.MustMoney("-1"), Category: "accessory"}, ErrProductPriceInvalid},
		{"rounds to zero", CreateProductInput{Name: "A", Price: models.MustMoney("0.001"), Category: "accessory"}, ErrProductPriceInvalid},
		{"negative stock", CreateProductInput{Name: "A", Price: models.MustMoney("10"), Category: "accessory", StockCount: -1}, ErrProductStockInvalid},
		{"unknown category", CreateProductInput{Name: "A", Price: models.MustMoney("10"), Category: "food"}, ErrProductCategoryInvalid},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), tc.input)
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
			if !errors.Is(err, ErrValidation) {
				t.Fatalf("expected validation category, got %v", err)
			}
		})
	}
}

func TestProductServiceUpdateRecomputesInStock(t *testing.T) {
	svc, _ := newProductServiceForTest(t)
	product := mustCreateProduct(t, svc, "Desk Mat", "lifestyle", "450", 3)
	before := product.UpdatedAt

	zero := 0
	updated, err := svc.Update(context.Background(), product.ID, UpdateProductInput{StockCount: &zero})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.InStock || updated.StockCount != 0 {
		t.Fatalf("expected out of stock, got %+v", updated)
	}
	if updated.UpdatedAt.Before(before) {
		t.Fatalf("updated_at not bumped")
	}

	reloaded, err := svc.GetByID(product.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if reloaded.InStock {
		t.Fatalf("persisted in_stock should be false")
	}

	name := "Desk Mat XL"
	price := models.MustMoney("499.5")
	restock := 4
	updated, err = svc.Update(context.Background(), product.ID, UpdateProductInput{Name: &name, Price: &price, StockCount: &restock})
	if err != nil {
		t.Fatalf("second update failed: %v", err)
	}
	if !updated.InStock || updated.Name != name || updated.Price.StringFixed(2) != "499.50" {
		t.Fatalf("unexpected merged product: %+v", updated)
	}
	if updated.Category != "lifestyle" {
		t.Fatalf("absent fields must be kept, got category %s", updated.Category)
	}
}

func TestProductServiceUpdateErrors(t *testing.T) {
	svc, _ := newProductServiceForTest(t)
	product := mustCreateProduct(t, svc, "Pen", "stationery", "30", 2)

	name := "X"
	if _, err := svc.Update(context.Background(), "prod_missing", UpdateProductInput{Name: &name}); !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	negative := -2
	if _, err := svc.Update(context.Background(), product.ID, UpdateProductInput{StockCount: &negative}); !errors.Is(err, ErrProductStockInvalid) {
		t.Fatalf("expected stock invalid, got %v", err)
	}
	category := "toys"
	if _, err := svc.Update(context.Background(), product.ID, UpdateProductInput{Category: &category}); !errors.Is(err, ErrProductCategoryInvalid) {
		t.Fatalf("expected category invalid, got %v", err)
	}
}

func TestProductServiceListPagination(t *testing.T) {
	svc, _ := newProductServiceForTest(t)
	for i := 0; i < 5; i++ {
		mustCreateProduct(t, svc, fmt.Sprintf("Sticker %d", i), "stationery", "10", 1)
	}

	result, err := svc.List(repository.ProductListFilter{}, 2, 2)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if result.Total != 5 || result.TotalPages != 3 || len(result.Products) != 2 {
		t.Fatalf("unexpected page: total=%d pages=%d len=%d", result.Total, result.TotalPages, len(result.Products))
	}
	if result.Products[0].Name != "Sticker 2" {
		t.Fatalf("expected store order, got %s", result.Products[0].Name)
	}

	if _, err := svc.List(repository.ProductListFilter{}, 1, 0); !errors.Is(err, ErrInvalidPagination) {
		t.Fatalf("expected invalid pagination for page size 0, got %v", err)
	}
	if _, err := svc.List(repository.ProductListFilter{}, 0, 10); !errors.Is(err, ErrInvalidPagination) {
		t.Fatalf("expected invalid pagination for page 0, got %v", err)
	}
}

func TestProductServiceListCategoryAndPriceRange(t *testing.T) {
	svc, _ := newProductServiceForTest(t)
	mustCreateProduct(t, svc, "Keychain", "accessory", "120", 5)
	mustCreateProduct(t, svc, "Notebook", "stationery", "200", 5)
	mustCreateProduct(t, svc, "Pouch", "accessory", "300", 5)

	result, err := svc.List(repository.ProductListFilter{Category: "accessory"}, 1, 12)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	for _, p := range result.Products {
		if p.Category != "accessory" {
			t.Fatalf("category filter leaked %s", p.Category)
		}
	}
	if result.Total != 2 {
		t.Fatalf("expected 2 accessories, got %d", result.Total)
	}

	minPrice := models.MustMoney("120")
	maxPrice := models.MustMoney("200")
	result, err = svc.List(repository.ProductListFilter{MinPrice: &minPrice, MaxPrice: &maxPrice}, 1, 12)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if result.Total != 2 {
		t.Fatalf("expected inclusive range to match 2, got %d", result.Total)
	}
}

func TestProductServiceDeleteReportsExistence(t *testing.T) {
	svc, _ := newProductServiceForTest(t)
	product := mustCreateProduct(t, svc, "Pen", "stationery", "30", 2)

	existed, err := svc.Delete(context.Background(), product.ID)
	if err != nil || !existed {
		t.Fatalf("expected delete to report existed, got %v %v", existed, err)
	}
	existed, err = svc.Delete(context.Background(), product.ID)
	if err != nil || existed {
		t.Fatalf("expected second delete to report missing, got %v %v", existed, err)
	}
	if _, err := svc.GetByID(product.ID); !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("expected not found after delete, got %v", err)
	}
}

func TestProductServiceStats(t *testing.T) {
	svc, _ := newProductServiceForTest(t)
	isNew := true
	if _, err := svc.Create(context.Background(), CreateProductInput{
		Name: "Keychain", Price: models.MustMoney("120"), Category: "accessory", StockCount: 2, IsNew: &isNew,
	}); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	mustCreateProduct(t, svc, "Notebook", "stationery", "200", 0)

	stats, err := svc.Stats(context.Background())
	if err != nil {
		t.Fatalf("stats failed: %v", err)
	}
	if stats.Total != 2 || stats.InStock != 1 || stats.OutOfStock != 1 || stats.New != 1 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
	if stats.ByCategory["lifestyle"] != 0 || stats.ByCategory["accessory"] != 1 {
		t.Fatalf("unexpected category stats: %+v", stats.ByCategory)
	}
	if _, ok := stats.ByCategory["lifestyle"]; !ok {
		t.Fatalf("every category must be present")
	}
}

func TestProductServiceStatsConcurrentCallers(t *testing.T) {
	svc, _ := newProductServiceForTest(t)
	mustCreateProduct(t, svc, "Badge", "accessory", "50", 4)

	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			stats, err := svc.Stats(context.Background())
			if err != nil {
				errs <- err
				return
			}
			if stats.Total != 1 || stats.InStock != 1 {
				errs <- fmt.Errorf("unexpected stats: %+v", stats)
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatalf("concurrent stats failed: %v", err)
	}
}
