package core

import (
	"time"

	"github.com/shopspring/decimal"
)

// Sale is the header of a recorded sale. Created atomically with its lines and
// never mutated afterward.
type Sale struct {
	ID           int             `json:"id"`
	UserID       int             `json:"user_id"`
	SellerName   string          `json:"seller_name"`   // joined from users
	CustomerID   int             `json:"customer_id"`
	CustomerName string          `json:"customer_name"` // joined from customers
	SoldAt       time.Time       `json:"sold_at"`
	Total        decimal.Decimal `json:"total"` // sum of line totals
	Lines        []SaleLine      `json:"lines,omitempty"`
}

// SaleLine is one product/quantity entry within a sale. UnitPrice is the
// product's price frozen at the instant the sale was recorded; later catalog
// price changes do not affect it.
type SaleLine struct {
	ID          int             `json:"id"`
	SaleID      int             `json:"sale_id"`
	LineNumber  int             `json:"line_number"`
	ProductID   int             `json:"product_id"`
	ProductName string          `json:"product_name"` // joined from products
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	LineTotal   decimal.Decimal `json:"line_total"`
}

// SaleLineInput is one requested line in a RecordSale call.
type SaleLineInput struct {
	ProductID int
	Quantity  int
}
