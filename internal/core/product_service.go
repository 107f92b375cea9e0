package core

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// ProductService manages the product catalog. Plain reads are
// non-transactional; sale reservations go through the tx-scoped primitives
// below, which SaleService drives inside its own transaction.
type ProductService interface {
	Create(ctx context.Context, name, distributor, arrivalDate string, unitPrice decimal.Decimal, stock int) (*Product, error)
	Get(ctx context.Context, productID int) (*Product, error)
	List(ctx context.Context) ([]Product, error)
	Update(ctx context.Context, productID int, name string, unitPrice decimal.Decimal, stock int) (*Product, error)
	Delete(ctx context.Context, productID int) error
	// Restock atomically adds qty to the product's stock.
	Restock(ctx context.Context, productID, qty int) (*Product, error)
}

type productService struct {
	pool *pgxpool.Pool
}

// NewProductService constructs a ProductService backed by PostgreSQL.
func NewProductService(pool *pgxpool.Pool) ProductService {
	return &productService{pool: pool}
}

const productColumns = "id, name, distributor, arrival_date::text, unit_price, stock, created_at"

func (s *productService) Create(ctx context.Context, name, distributor, arrivalDate string, unitPrice decimal.Decimal, stock int) (*Product, error) {
	if name == "" || distributor == "" {
		return nil, Validationf("product name and distributor are required")
	}
	if _, err := time.Parse("2006-01-02", arrivalDate); err != nil {
		return nil, Validationf("invalid arrival date %q, want YYYY-MM-DD", arrivalDate)
	}
	if unitPrice.IsNegative() {
		return nil, Validationf("unit price cannot be negative, got %s", unitPrice)
	}
	if stock < 0 {
		return nil, Validationf("stock cannot be negative, got %d", stock)
	}

	var p Product
	err := s.pool.QueryRow(ctx, `
		INSERT INTO products (name, distributor, arrival_date, unit_price, stock)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+productColumns,
		name, distributor, arrivalDate, unitPrice, stock,
	).Scan(&p.ID, &p.Name, &p.Distributor, &p.ArrivalDate, &p.UnitPrice, &p.Stock, &p.CreatedAt)
	if err != nil {
		return nil, classifyStorageErr(err, "failed to create product")
	}
	return &p, nil
}

func (s *productService) Get(ctx context.Context, productID int) (*Product, error) {
	var p Product
	err := s.pool.QueryRow(ctx,
		"SELECT "+productColumns+" FROM products WHERE id = $1",
		productID,
	).Scan(&p.ID, &p.Name, &p.Distributor, &p.ArrivalDate, &p.UnitPrice, &p.Stock, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, NotFoundf("product %d not found", productID)
		}
		return nil, classifyStorageErr(err, fmt.Sprintf("failed to fetch product %d", productID))
	}
	return &p, nil
}

func (s *productService) List(ctx context.Context) ([]Product, error) {
	rows, err := s.pool.Query(ctx,
		"SELECT "+productColumns+" FROM products ORDER BY name, id")
	if err != nil {
		return nil, classifyStorageErr(err, "failed to query products")
	}
	defer rows.Close()

	var products []Product
	for rows.Next() {
		var p Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Distributor, &p.ArrivalDate, &p.UnitPrice, &p.Stock, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func (s *productService) Update(ctx context.Context, productID int, name string, unitPrice decimal.Decimal, stock int) (*Product, error) {
	if name == "" {
		return nil, Validationf("product name is required")
	}
	if unitPrice.IsNegative() {
		return nil, Validationf("unit price cannot be negative, got %s", unitPrice)
	}
	if stock < 0 {
		return nil, Validationf("stock cannot be negative, got %d", stock)
	}

	var p Product
	err := s.pool.QueryRow(ctx, `
		UPDATE products SET name = $1, unit_price = $2, stock = $3
		WHERE id = $4
		RETURNING `+productColumns,
		name, unitPrice, stock, productID,
	).Scan(&p.ID, &p.Name, &p.Distributor, &p.ArrivalDate, &p.UnitPrice, &p.Stock, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, NotFoundf("product %d not found", productID)
		}
		return nil, classifyStorageErr(err, fmt.Sprintf("failed to update product %d", productID))
	}
	return &p, nil
}

func (s *productService) Delete(ctx context.Context, productID int) error {
	tag, err := s.pool.Exec(ctx, "DELETE FROM products WHERE id = $1", productID)
	if err != nil {
		// FK restriction from sale_lines surfaces as a conflict.
		return classifyStorageErr(err, fmt.Sprintf("failed to delete product %d", productID))
	}
	if tag.RowsAffected() == 0 {
		return NotFoundf("product %d not found", productID)
	}
	return nil
}

func (s *productService) Restock(ctx context.Context, productID, qty int) (*Product, error) {
	if qty <= 0 {
		return nil, Validationf("restock quantity must be positive, got %d", qty)
	}

	var p Product
	err := s.pool.QueryRow(ctx, `
		UPDATE products SET stock = stock + $1
		WHERE id = $2
		RETURNING `+productColumns,
		qty, productID,
	).Scan(&p.ID, &p.Name, &p.Distributor, &p.ArrivalDate, &p.UnitPrice, &p.Stock, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, NotFoundf("product %d not found", productID)
		}
		return nil, classifyStorageErr(err, fmt.Sprintf("failed to restock product %d", productID))
	}
	return &p, nil
}

// ── TX-scoped reservation primitives ─────────────────────────────────────────

// lockedStock is the price/stock snapshot taken under a row lock. SaleService
// mutates stock in memory as it walks the sale lines, so later lines of the
// same sale see the effects of earlier ones.
type lockedStock struct {
	price decimal.Decimal
	stock int
}

// lockProductsForSale acquires FOR UPDATE row locks on the given products in
// ascending ID order and returns their price and stock. The fixed lock order
// prevents deadlock between concurrent sales over overlapping product sets.
// An unknown product id yields a ValidationError naming it.
func lockProductsForSale(ctx context.Context, tx pgx.Tx, productIDs []int) (map[int]*lockedStock, error) {
	ids := make([]int, 0, len(productIDs))
	seen := make(map[int]bool, len(productIDs))
	for _, id := range productIDs {
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	sort.Ints(ids)

	locked := make(map[int]*lockedStock, len(ids))
	for _, id := range ids {
		var ls lockedStock
		err := tx.QueryRow(ctx,
			"SELECT unit_price, stock FROM products WHERE id = $1 FOR UPDATE",
			id,
		).Scan(&ls.price, &ls.stock)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, Validationf("product %d not found", id)
			}
			return nil, classifyStorageErr(err, fmt.Sprintf("failed to lock product %d", id))
		}
		locked[id] = &ls
	}
	return locked, nil
}

// decrementStockTx applies the reservation to the products row. The WHERE
// clause re-checks availability so stock can never go negative even if the
// in-memory accounting were wrong.
func decrementStockTx(ctx context.Context, tx pgx.Tx, productID, qty int) error {
	tag, err := tx.Exec(ctx,
		"UPDATE products SET stock = stock - $1 WHERE id = $2 AND stock >= $1",
		qty, productID,
	)
	if err != nil {
		return classifyStorageErr(err, fmt.Sprintf("failed to decrement stock for product %d", productID))
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("stock decrement for product %d would go negative (qty %d)", productID, qty)
	}
	return nil
}
