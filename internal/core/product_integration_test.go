package core_test

import (
	"context"
	"testing"

	"stockpos/internal/core"

	"github.com/shopspring/decimal"
)

func TestProductLifecycle(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	svc := core.NewProductService(pool)
	ctx := context.Background()

	created, err := svc.Create(ctx, "Gadget X", "Global Parts", "2026-03-10", decimal.RequireFromString("19.99"), 12)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if created.ID == 0 {
		t.Error("Expected product id to be assigned")
	}
	if created.ArrivalDate != "2026-03-10" {
		t.Errorf("Expected arrival date 2026-03-10, got %q", created.ArrivalDate)
	}

	got, err := svc.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Name != "Gadget X" || got.Stock != 12 || !got.UnitPrice.Equal(decimal.RequireFromString("19.99")) {
		t.Errorf("Unexpected product: %+v", got)
	}

	products, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(products) != 4 { // 3 seeded + 1 created
		t.Errorf("Expected 4 products, got %d", len(products))
	}

	updated, err := svc.Update(ctx, created.ID, "Gadget X v2", decimal.RequireFromString("24.50"), 8)
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if updated.Name != "Gadget X v2" || updated.Stock != 8 {
		t.Errorf("Unexpected updated product: %+v", updated)
	}

	if err := svc.Delete(ctx, created.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := svc.Get(ctx, created.ID); !core.IsNotFound(err) {
		t.Errorf("Expected not-found after delete, got %v", err)
	}
}

func TestProductValidation(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	svc := core.NewProductService(pool)
	ctx := context.Background()

	if _, err := svc.Create(ctx, "", "Global Parts", "2026-03-10", decimal.NewFromInt(1), 1); !core.IsValidation(err) {
		t.Errorf("Empty name: expected validation error, got %v", err)
	}
	if _, err := svc.Create(ctx, "Thing", "Global Parts", "10/03/2026", decimal.NewFromInt(1), 1); !core.IsValidation(err) {
		t.Errorf("Malformed arrival date: expected validation error, got %v", err)
	}
	if _, err := svc.Create(ctx, "Thing", "Global Parts", "2026-03-10", decimal.NewFromInt(-1), 1); !core.IsValidation(err) {
		t.Errorf("Negative price: expected validation error, got %v", err)
	}
	if _, err := svc.Create(ctx, "Thing", "Global Parts", "2026-03-10", decimal.NewFromInt(1), -4); !core.IsValidation(err) {
		t.Errorf("Negative stock: expected validation error, got %v", err)
	}

	if _, err := svc.Update(ctx, 999, "Ghost", decimal.NewFromInt(1), 1); !core.IsNotFound(err) {
		t.Errorf("Update unknown product: expected not-found, got %v", err)
	}
	if err := svc.Delete(ctx, 999); !core.IsNotFound(err) {
		t.Errorf("Delete unknown product: expected not-found, got %v", err)
	}
}

func TestProductDeleteReferencedBySale(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	productSvc := core.NewProductService(pool)
	saleSvc := core.NewSaleService(pool)
	ctx := context.Background()

	if _, err := saleSvc.RecordSale(ctx, 1, 1, []core.SaleLineInput{{ProductID: 1, Quantity: 1}}); err != nil {
		t.Fatalf("RecordSale failed: %v", err)
	}

	// sale_lines references the product with ON DELETE RESTRICT.
	err := productSvc.Delete(ctx, 1)
	if !core.IsConflict(err) {
		t.Errorf("Expected conflict deleting a product referenced by a sale, got %v", err)
	}
	if _, getErr := productSvc.Get(ctx, 1); getErr != nil {
		t.Errorf("Product must survive the rejected delete: %v", getErr)
	}
}

func TestProductRestock(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	svc := core.NewProductService(pool)
	ctx := context.Background()

	p, err := svc.Restock(ctx, 3, 25)
	if err != nil {
		t.Fatalf("Restock failed: %v", err)
	}
	if p.Stock != 25 {
		t.Errorf("Expected stock 25 after restock, got %d", p.Stock)
	}

	if _, err := svc.Restock(ctx, 3, 0); !core.IsValidation(err) {
		t.Errorf("Zero quantity: expected validation error, got %v", err)
	}
	if _, err := svc.Restock(ctx, 3, -5); !core.IsValidation(err) {
		t.Errorf("Negative quantity: expected validation error, got %v", err)
	}
	if _, err := svc.Restock(ctx, 999, 5); !core.IsNotFound(err) {
		t.Errorf("Unknown product: expected not-found, got %v", err)
	}
}
