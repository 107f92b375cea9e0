package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// saleLockTimeout bounds how long a sale waits on another transaction's row
// locks. A timed-out wait surfaces as a TransientError for the caller to retry.
const saleLockTimeout = "3s"

// SaleService records and queries sales. RecordSale is the transaction
// coordinator: the stock check, the line inserts, the header insert, and the
// stock decrements commit as one unit or not at all.
type SaleService interface {
	// RecordSale records a multi-line sale on behalf of actingUserID.
	// Line unit prices are frozen from the product prices read under lock
	// inside this same transaction.
	RecordSale(ctx context.Context, actingUserID, customerID int, lines []SaleLineInput) (*Sale, error)

	// ListSales returns all sale headers, newest first, with computed totals.
	ListSales(ctx context.Context) ([]Sale, error)

	// GetSale returns a sale header with its lines.
	GetSale(ctx context.Context, saleID int) (*Sale, error)

	// GetSaleLines returns the lines of a sale in order. An unknown sale id
	// yields an empty slice, not an error.
	GetSaleLines(ctx context.Context, saleID int) ([]SaleLine, error)
}

type saleService struct {
	pool *pgxpool.Pool
}

// NewSaleService constructs a SaleService backed by PostgreSQL.
func NewSaleService(pool *pgxpool.Pool) SaleService {
	return &saleService{pool: pool}
}

func (s *saleService) RecordSale(ctx context.Context, actingUserID, customerID int, lines []SaleLineInput) (*Sale, error) {
	// Shape validation before touching storage.
	if len(lines) == 0 {
		return nil, Validationf("sale must have at least one line")
	}
	for i, l := range lines {
		if l.ProductID <= 0 {
			return nil, Validationf("line %d: product id is required", i+1)
		}
		if l.Quantity <= 0 {
			return nil, Validationf("line %d: quantity must be positive, got %d", i+1, l.Quantity)
		}
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, classifyStorageErr(err, "failed to begin sale transaction")
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, fmt.Sprintf("SET LOCAL lock_timeout = '%s'", saleLockTimeout)); err != nil {
		return nil, classifyStorageErr(err, "failed to set lock timeout")
	}

	// Customer must exist before any stock is touched.
	var custID int
	err = tx.QueryRow(ctx, "SELECT id FROM customers WHERE id = $1", customerID).Scan(&custID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, NotFoundf("customer %d not found", customerID)
		}
		return nil, classifyStorageErr(err, "failed to resolve customer")
	}

	// Lock every referenced product in ascending ID order, then walk the lines
	// in request order against the locked snapshot. Duplicate product lines
	// check sequentially: each sees the stock already taken by earlier lines.
	productIDs := make([]int, len(lines))
	for i, l := range lines {
		productIDs[i] = l.ProductID
	}
	locked, err := lockProductsForSale(ctx, tx, productIDs)
	if err != nil {
		return nil, err
	}

	requested := make(map[int]int, len(locked))
	for i, l := range lines {
		ls := locked[l.ProductID]
		if l.Quantity > ls.stock {
			return nil, Validationf("line %d: insufficient stock for product %d: available %d, requested %d",
				i+1, l.ProductID, ls.stock, l.Quantity)
		}
		ls.stock -= l.Quantity
		requested[l.ProductID] += l.Quantity
	}

	// Header first, then lines with frozen prices, then one decrement per
	// distinct product.
	var sale Sale
	err = tx.QueryRow(ctx, `
		INSERT INTO sales (user_id, customer_id, sold_at)
		VALUES ($1, $2, NOW())
		RETURNING id, sold_at
	`, actingUserID, customerID).Scan(&sale.ID, &sale.SoldAt)
	if err != nil {
		return nil, classifyStorageErr(err, "failed to insert sale header")
	}

	for i, l := range lines {
		_, err = tx.Exec(ctx, `
			INSERT INTO sale_lines (sale_id, line_number, product_id, quantity, unit_price)
			VALUES ($1, $2, $3, $4, $5)
		`, sale.ID, i+1, l.ProductID, l.Quantity, locked[l.ProductID].price)
		if err != nil {
			return nil, classifyStorageErr(err, fmt.Sprintf("failed to insert sale line %d", i+1))
		}
	}

	for id, qty := range requested {
		if err := decrementStockTx(ctx, tx, id, qty); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, classifyStorageErr(err, "failed to commit sale")
	}

	return s.GetSale(ctx, sale.ID)
}

const saleHeaderQuery = `
	SELECT s.id, s.user_id, u.name, s.customer_id, c.name, s.sold_at,
	       COALESCE((SELECT SUM(sl.quantity * sl.unit_price) FROM sale_lines sl WHERE sl.sale_id = s.id), 0)
	FROM sales s
	JOIN users u     ON u.id = s.user_id
	JOIN customers c ON c.id = s.customer_id
`

func (s *saleService) ListSales(ctx context.Context) ([]Sale, error) {
	rows, err := s.pool.Query(ctx, saleHeaderQuery+" ORDER BY s.sold_at DESC, s.id DESC")
	if err != nil {
		return nil, classifyStorageErr(err, "failed to query sales")
	}
	defer rows.Close()

	var sales []Sale
	for rows.Next() {
		var sa Sale
		if err := rows.Scan(&sa.ID, &sa.UserID, &sa.SellerName, &sa.CustomerID, &sa.CustomerName, &sa.SoldAt, &sa.Total); err != nil {
			return nil, fmt.Errorf("failed to scan sale: %w", err)
		}
		sales = append(sales, sa)
	}
	return sales, rows.Err()
}

func (s *saleService) GetSale(ctx context.Context, saleID int) (*Sale, error) {
	var sa Sale
	err := s.pool.QueryRow(ctx, saleHeaderQuery+" WHERE s.id = $1", saleID).Scan(
		&sa.ID, &sa.UserID, &sa.SellerName, &sa.CustomerID, &sa.CustomerName, &sa.SoldAt, &sa.Total,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, NotFoundf("sale %d not found", saleID)
		}
		return nil, classifyStorageErr(err, fmt.Sprintf("failed to fetch sale %d", saleID))
	}

	lines, err := s.GetSaleLines(ctx, saleID)
	if err != nil {
		return nil, err
	}
	sa.Lines = lines
	return &sa, nil
}

func (s *saleService) GetSaleLines(ctx context.Context, saleID int) ([]SaleLine, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT sl.id, sl.sale_id, sl.line_number, sl.product_id, p.name,
		       sl.quantity, sl.unit_price, sl.quantity * sl.unit_price
		FROM sale_lines sl
		JOIN products p ON p.id = sl.product_id
		WHERE sl.sale_id = $1
		ORDER BY sl.line_number
	`, saleID)
	if err != nil {
		return nil, classifyStorageErr(err, fmt.Sprintf("failed to query lines for sale %d", saleID))
	}
	defer rows.Close()

	lines := []SaleLine{}
	for rows.Next() {
		var l SaleLine
		if err := rows.Scan(&l.ID, &l.SaleID, &l.LineNumber, &l.ProductID, &l.ProductName,
			&l.Quantity, &l.UnitPrice, &l.LineTotal); err != nil {
			return nil, fmt.Errorf("failed to scan sale line: %w", err)
		}
		lines = append(lines, l)
	}
	return lines, rows.Err()
}
