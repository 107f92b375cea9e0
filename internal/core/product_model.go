package core

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a catalog item with its current stock level. Stock never goes
// negative: sale reservations decrement it through a conditional update and
// the schema carries a CHECK constraint as backstop.
type Product struct {
	ID          int             `json:"id"`
	Name        string          `json:"name"`
	Distributor string          `json:"distributor"`
	ArrivalDate string          `json:"arrival_date"` // YYYY-MM-DD
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Stock       int             `json:"stock"`
	CreatedAt   time.Time       `json:"created_at"`
}
