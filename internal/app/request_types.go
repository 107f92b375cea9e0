package app

import "github.com/shopspring/decimal"

// RegisterUserRequest is the input for creating a new account.
// Role is optional and defaults to seller.
type RegisterUserRequest struct {
	Name     string
	Username string
	Email    string
	Phone    string
	Password string
	Role     string
}

// CreateCustomerRequest is the input for creating a customer record.
type CreateCustomerRequest struct {
	Name  string
	Phone string
	Email string
}

// CreateProductRequest is the input for adding a catalog product.
type CreateProductRequest struct {
	Name        string
	Distributor string
	ArrivalDate string // YYYY-MM-DD
	UnitPrice   decimal.Decimal
	Stock       int
}

// UpdateProductRequest is the input for editing a product.
type UpdateProductRequest struct {
	ProductID int
	Name      string
	UnitPrice decimal.Decimal
	Stock     int
}

// RecordSaleRequest is the input for recording a sale. ActingUserID is the
// authenticated seller identity supplied by the web adapter and trusted here.
type RecordSaleRequest struct {
	ActingUserID int
	CustomerID   int
	Lines        []SaleLineInput
}

// SaleLineInput is a single requested line within a RecordSaleRequest.
type SaleLineInput struct {
	ProductID int
	Quantity  int
}
