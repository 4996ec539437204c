package repository

import (
	"testing"
	"time"

	"github.com/miniteen-shop/internal/models"

	"gorm.io/gorm"
)

func TestCartRepositoryCreateIfAbsentIsIdempotent(t *testing.T) {
	repo := NewCartRepository(openRepositoryTestDB(t))

	first := &models.Cart{ID: "cart-1", UserID: "user-1"}
	if err := repo.CreateIfAbsent(first); err != nil {
		t.Fatalf("create cart failed: %v", err)
	}
	second := &models.Cart{ID: "cart-2", UserID: "user-1"}
	if err := repo.CreateIfAbsent(second); err != nil {
		t.Fatalf("conflicting create should be ignored, got %v", err)
	}

	cart, err := repo.GetByUser("user-1")
	if err != nil {
		t.Fatalf("get cart failed: %v", err)
	}
	if cart == nil || cart.ID != "cart-1" {
		t.Fatalf("expected original cart to survive, got %+v", cart)
	}
	if cart.Items == nil || len(cart.Items) != 0 {
		t.Fatalf("expected empty non-nil items, got %v", cart.Items)
	}
}

func TestCartRepositoryItemsOrderedBySortOrder(t *testing.T) {
	repo := NewCartRepository(openRepositoryTestDB(t))
	if err := repo.CreateIfAbsent(&models.Cart{ID: "cart-1", UserID: "user-1"}); err != nil {
		t.Fatalf("create cart failed: %v", err)
	}
	now := time.Now()
	items := []models.CartItem{
		{ID: "line-2", CartID: "cart-1", ProductID: "prod_b", Quantity: 1, SortOrder: 2, AddedAt: now},
		{ID: "line-1", CartID: "cart-1", ProductID: "prod_a", Quantity: 2, SortOrder: 1, AddedAt: now},
	}
	for i := range items {
		if err := repo.CreateItem(&items[i]); err != nil {
			t.Fatalf("create item failed: %v", err)
		}
	}

	cart, err := repo.GetByUser("user-1")
	if err != nil {
		t.Fatalf("get cart failed: %v", err)
	}
	if len(cart.Items) != 2 || cart.Items[0].ProductID != "prod_a" || cart.Items[1].ProductID != "prod_b" {
		t.Fatalf("unexpected item order: %+v", cart.Items)
	}

	removed, err := repo.DeleteItem("cart-1", "prod_a")
	if err != nil || !removed {
		t.Fatalf("delete item failed: removed=%v err=%v", removed, err)
	}
	removed, err = repo.DeleteItem("cart-1", "prod_a")
	if err != nil || removed {
		t.Fatalf("second delete should report missing: removed=%v err=%v", removed, err)
	}

	if err := repo.ClearItems("cart-1"); err != nil {
		t.Fatalf("clear failed: %v", err)
	}
	cart, err = repo.GetByUser("user-1")
	if err != nil || len(cart.Items) != 0 {
		t.Fatalf("expected cleared cart, items=%v err=%v", cart.Items, err)
	}
}

func TestCartRepositoryGetByUserForUpdate(t *testing.T) {
	repo := NewCartRepository(openRepositoryTestDB(t))

	missing, err := repo.GetByUserForUpdate("nobody")
	if err != nil || missing != nil {
		t.Fatalf("missing cart want nil, got %+v err=%v", missing, err)
	}

	if err := repo.CreateIfAbsent(&models.Cart{ID: "cart-1", UserID: "user-1"}); err != nil {
		t.Fatalf("create cart failed: %v", err)
	}
	empty, err := repo.GetByUserForUpdate("user-1")
	if err != nil || empty == nil || empty.Items == nil || len(empty.Items) != 0 {
		t.Fatalf("expected empty non-nil items, got %+v err=%v", empty, err)
	}

	now := time.Now()
	for _, item := range []models.CartItem{
		{ID: "line-2", CartID: "cart-1", ProductID: "prod_b", Quantity: 1, SortOrder: 2, AddedAt: now},
		{ID: "line-1", CartID: "cart-1", ProductID: "prod_a", Quantity: 2, SortOrder: 1, AddedAt: now},
	} {
		item := item
		if err := repo.CreateItem(&item); err != nil {
			t.Fatalf("create item failed: %v", err)
		}
	}

	err = repo.Transaction(func(tx *gorm.DB) error {
		cart, err := repo.WithTx(tx).GetByUserForUpdate("user-1")
		if err != nil {
			return err
		}
		if cart.ID != "cart-1" || len(cart.Items) != 2 || cart.Items[0].ProductID != "prod_a" {
			t.Fatalf("unexpected locked cart: %+v", cart)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("locked read failed: %v", err)
	}
}
