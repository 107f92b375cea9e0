package core_test

import (
	"context"
	"os"
	"strings"
	"sync"
	"testing"

	"stockpos/internal/core"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

// setupTestDB connects to the dedicated test database, truncates all tables,
// and seeds one seller, one customer, and three products with deterministic IDs:
//
//	product 1: Widget A, price 500.00, stock 50
//	product 2: Widget B, price 1200.00, stock 5
//	product 3: Widget C, price 80.00, stock 0
func setupTestDB(t *testing.T) *pgxpool.Pool {
	t.Helper()
	_ = godotenv.Load("../../.env")

	// Use a dedicated TEST database to avoid wiping the live app database.
	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set — skipping integration test to protect live database")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	_, err = pool.Exec(ctx, `
		TRUNCATE TABLE sale_lines, sales, products, customers, users RESTART IDENTITY CASCADE;

		INSERT INTO users (name, username, email, phone, password_hash, role)
		VALUES ('Test Seller', 'seller', 'seller@test.local', '555-0001', 'not-a-real-hash', 'seller');

		INSERT INTO customers (name, phone, email)
		VALUES ('Acme Retail', '555-0100', 'billing@acme.test');

		INSERT INTO products (name, distributor, arrival_date, unit_price, stock) VALUES
		('Widget A', 'Distribuidora Norte', '2026-01-15',  500.00, 50),
		('Widget B', 'Distribuidora Norte', '2026-01-15', 1200.00,  5),
		('Widget C', 'Global Parts',        '2026-02-01',   80.00,  0);
	`)
	if err != nil {
		t.Fatalf("Failed to seed test database: %v", err)
	}

	return pool
}

// stockOf fetches the current stock of a product directly from the table.
func stockOf(t *testing.T, pool *pgxpool.Pool, productID int) int {
	t.Helper()
	var stock int
	err := pool.QueryRow(context.Background(),
		"SELECT stock FROM products WHERE id = $1", productID).Scan(&stock)
	if err != nil {
		t.Fatalf("Failed to read stock for product %d: %v", productID, err)
	}
	return stock
}

// countRows returns the number of rows in a table.
func countRows(t *testing.T, pool *pgxpool.Pool, table string) int {
	t.Helper()
	var n int
	if err := pool.QueryRow(context.Background(), "SELECT COUNT(*) FROM "+table).Scan(&n); err != nil {
		t.Fatalf("Failed to count %s: %v", table, err)
	}
	return n
}

func TestRecordSale_Success(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	svc := core.NewSaleService(pool)
	ctx := context.Background()

	sale, err := svc.RecordSale(ctx, 1, 1, []core.SaleLineInput{
		{ProductID: 1, Quantity: 2},
	})
	if err != nil {
		t.Fatalf("RecordSale failed: %v", err)
	}
	if sale.ID == 0 {
		t.Error("Expected a sale id to be assigned")
	}
	if sale.SellerName != "Test Seller" || sale.CustomerName != "Acme Retail" {
		t.Errorf("Unexpected joined names: seller=%q customer=%q", sale.SellerName, sale.CustomerName)
	}
	if !sale.Total.Equal(decimal.NewFromInt(1000)) {
		t.Errorf("Expected total 1000.00, got %s", sale.Total)
	}
	if len(sale.Lines) != 1 || sale.Lines[0].Quantity != 2 {
		t.Fatalf("Unexpected lines: %+v", sale.Lines)
	}
	if !sale.Lines[0].UnitPrice.Equal(decimal.NewFromInt(500)) {
		t.Errorf("Expected frozen unit price 500.00, got %s", sale.Lines[0].UnitPrice)
	}

	if got := stockOf(t, pool, 1); got != 48 {
		t.Errorf("Expected stock 48 after sale, got %d", got)
	}

	sales, err := svc.ListSales(ctx)
	if err != nil {
		t.Fatalf("ListSales failed: %v", err)
	}
	if len(sales) != 1 || sales[0].ID != sale.ID {
		t.Errorf("Expected ListSales to include sale %d, got %+v", sale.ID, sales)
	}
}

func TestRecordSale_InsufficientStock(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	svc := core.NewSaleService(pool)
	ctx := context.Background()

	// Widget B has stock 5; ask for 6.
	_, err := svc.RecordSale(ctx, 1, 1, []core.SaleLineInput{
		{ProductID: 2, Quantity: 6},
	})
	if err == nil {
		t.Fatal("Expected insufficient-stock error, got nil")
	}
	if !core.IsValidation(err) {
		t.Errorf("Expected a validation error, got %T: %v", err, err)
	}
	if !strings.Contains(err.Error(), "product 2") {
		t.Errorf("Error must identify the failing product, got: %v", err)
	}

	if got := stockOf(t, pool, 2); got != 5 {
		t.Errorf("Stock must be unchanged after rejection, got %d", got)
	}
	if n := countRows(t, pool, "sales"); n != 0 {
		t.Errorf("No sale header may be persisted, found %d", n)
	}
}

func TestRecordSale_AtomicRollbackOnLaterLine(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	svc := core.NewSaleService(pool)
	ctx := context.Background()

	// First line is satisfiable, second is not; nothing may stick.
	_, err := svc.RecordSale(ctx, 1, 1, []core.SaleLineInput{
		{ProductID: 1, Quantity: 2},
		{ProductID: 2, Quantity: 6},
	})
	if err == nil {
		t.Fatal("Expected failure on second line, got nil")
	}
	if !core.IsValidation(err) {
		t.Errorf("Expected a validation error, got %T: %v", err, err)
	}

	if got := stockOf(t, pool, 1); got != 50 {
		t.Errorf("Product 1 stock must be untouched, got %d", got)
	}
	if got := stockOf(t, pool, 2); got != 5 {
		t.Errorf("Product 2 stock must be untouched, got %d", got)
	}
	if n := countRows(t, pool, "sales"); n != 0 {
		t.Errorf("Expected zero sale headers, found %d", n)
	}
	if n := countRows(t, pool, "sale_lines"); n != 0 {
		t.Errorf("Expected zero sale lines, found %d", n)
	}
}

func TestRecordSale_EmptyAndMalformedLines(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	svc := core.NewSaleService(pool)
	ctx := context.Background()

	if _, err := svc.RecordSale(ctx, 1, 1, nil); !core.IsValidation(err) {
		t.Errorf("Empty line list: expected validation error, got %v", err)
	}
	if _, err := svc.RecordSale(ctx, 1, 1, []core.SaleLineInput{{ProductID: 1, Quantity: 0}}); !core.IsValidation(err) {
		t.Errorf("Zero quantity: expected validation error, got %v", err)
	}
	if _, err := svc.RecordSale(ctx, 1, 1, []core.SaleLineInput{{ProductID: 0, Quantity: 1}}); !core.IsValidation(err) {
		t.Errorf("Missing product id: expected validation error, got %v", err)
	}

	if n := countRows(t, pool, "sales"); n != 0 {
		t.Errorf("Nothing may be persisted, found %d sales", n)
	}
}

func TestRecordSale_UnknownCustomer(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	svc := core.NewSaleService(pool)
	ctx := context.Background()

	_, err := svc.RecordSale(ctx, 1, 999, []core.SaleLineInput{{ProductID: 1, Quantity: 1}})
	if !core.IsNotFound(err) {
		t.Errorf("Expected not-found error for missing customer, got %v", err)
	}
	if got := stockOf(t, pool, 1); got != 50 {
		t.Errorf("Stock must be untouched, got %d", got)
	}
}

func TestRecordSale_UnknownProduct(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	svc := core.NewSaleService(pool)
	ctx := context.Background()

	_, err := svc.RecordSale(ctx, 1, 1, []core.SaleLineInput{{ProductID: 999, Quantity: 1}})
	if !core.IsValidation(err) {
		t.Errorf("Expected validation error for unknown product, got %v", err)
	}
	if !strings.Contains(err.Error(), "999") {
		t.Errorf("Error must identify the product, got: %v", err)
	}
}

func TestRecordSale_DuplicateProductLines(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	svc := core.NewSaleService(pool)
	ctx := context.Background()

	// Widget B stock is 5. Two lines of 3 accumulate: the second line sees the
	// first line's in-transaction decrement and fails.
	_, err := svc.RecordSale(ctx, 1, 1, []core.SaleLineInput{
		{ProductID: 2, Quantity: 3},
		{ProductID: 2, Quantity: 3},
	})
	if !core.IsValidation(err) {
		t.Fatalf("Expected validation error for accumulated quantity 6 > 5, got %v", err)
	}
	if got := stockOf(t, pool, 2); got != 5 {
		t.Errorf("Stock must be unchanged after rejection, got %d", got)
	}
	if n := countRows(t, pool, "sales"); n != 0 {
		t.Errorf("Expected zero sale headers, found %d", n)
	}

	// 2 + 3 fits exactly.
	sale, err := svc.RecordSale(ctx, 1, 1, []core.SaleLineInput{
		{ProductID: 2, Quantity: 2},
		{ProductID: 2, Quantity: 3},
	})
	if err != nil {
		t.Fatalf("RecordSale with fitting duplicate lines failed: %v", err)
	}
	if len(sale.Lines) != 2 {
		t.Errorf("Expected two separate lines, got %d", len(sale.Lines))
	}
	if got := stockOf(t, pool, 2); got != 0 {
		t.Errorf("Expected stock 0, got %d", got)
	}
}

func TestRecordSale_PriceFrozenAtSaleTime(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	saleSvc := core.NewSaleService(pool)
	productSvc := core.NewProductService(pool)
	ctx := context.Background()

	sale, err := saleSvc.RecordSale(ctx, 1, 1, []core.SaleLineInput{{ProductID: 1, Quantity: 1}})
	if err != nil {
		t.Fatalf("RecordSale failed: %v", err)
	}

	// Raise the catalog price after the sale.
	if _, err := productSvc.Update(ctx, 1, "Widget A", decimal.NewFromInt(999), 49); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	lines, err := saleSvc.GetSaleLines(ctx, sale.ID)
	if err != nil {
		t.Fatalf("GetSaleLines failed: %v", err)
	}
	if len(lines) != 1 {
		t.Fatalf("Expected one line, got %d", len(lines))
	}
	if !lines[0].UnitPrice.Equal(decimal.NewFromInt(500)) {
		t.Errorf("Expected frozen unit price 500.00, got %s", lines[0].UnitPrice)
	}
}

func TestGetSaleLines_UnknownSaleIsEmptyNotError(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	svc := core.NewSaleService(pool)

	lines, err := svc.GetSaleLines(context.Background(), 424242)
	if err != nil {
		t.Fatalf("Expected no error for unknown sale, got %v", err)
	}
	if len(lines) != 0 {
		t.Errorf("Expected empty line list, got %d lines", len(lines))
	}
}

func TestRecordSale_ConcurrentOversell(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	svc := core.NewSaleService(pool)
	ctx := context.Background()

	// Widget B stock is 5; two concurrent sales of 3 must not both succeed.
	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.RecordSale(ctx, 1, 1, []core.SaleLineInput{{ProductID: 2, Quantity: 3}})
		}(i)
	}
	wg.Wait()

	var successes, validationFailures int
	for _, err := range errs {
		switch {
		case err == nil:
			successes++
		case core.IsValidation(err):
			validationFailures++
		default:
			t.Errorf("Unexpected error kind: %v", err)
		}
	}
	if successes != 1 || validationFailures != 1 {
		t.Errorf("Expected exactly one success and one validation failure, got %d/%d (errs=%v)",
			successes, validationFailures, errs)
	}
	if got := stockOf(t, pool, 2); got != 2 {
		t.Errorf("Expected final stock 2, got %d", got)
	}
	if n := countRows(t, pool, "sales"); n != 1 {
		t.Errorf("Expected exactly one persisted sale, found %d", n)
	}
}
