package app

import "context"

// ApplicationService is the single interface the web adapter calls. It
// decouples presentation from business logic; implementations contain no HTTP
// or display concerns.
type ApplicationService interface {
	// RegisterUser creates a new account with a hashed password.
	RegisterUser(ctx context.Context, req RegisterUserRequest) (*UserResult, error)

	// AuthenticateUser verifies credentials and returns a session on success.
	AuthenticateUser(ctx context.Context, loginIdentifier, password string) (*UserSession, error)

	// GetUser returns a user profile by ID.
	GetUser(ctx context.Context, userID int) (*UserResult, error)

	// ListCustomers returns all customers ordered by name.
	ListCustomers(ctx context.Context) (*CustomerListResult, error)

	// CreateCustomer creates a new customer record.
	CreateCustomer(ctx context.Context, req CreateCustomerRequest) (*CustomerResult, error)

	// ListProducts returns the catalog ordered by name.
	ListProducts(ctx context.Context) (*ProductListResult, error)

	// GetProduct returns a single product by ID.
	GetProduct(ctx context.Context, productID int) (*ProductResult, error)

	// CreateProduct adds a product to the catalog.
	CreateProduct(ctx context.Context, req CreateProductRequest) (*ProductResult, error)

	// UpdateProduct edits a product's name, price, and stock.
	UpdateProduct(ctx context.Context, req UpdateProductRequest) (*ProductResult, error)

	// DeleteProduct removes a product; fails with a conflict if the product
	// appears on any sale.
	DeleteProduct(ctx context.Context, productID int) error

	// RestockProduct atomically adds qty to a product's stock.
	RestockProduct(ctx context.Context, productID, qty int) (*ProductResult, error)

	// RecordSale atomically records a multi-line sale for the acting user,
	// reserving stock per line.
	RecordSale(ctx context.Context, req RecordSaleRequest) (*SaleResult, error)

	// ListSales returns all sale headers, newest first.
	ListSales(ctx context.Context) (*SaleListResult, error)

	// GetSaleLines returns a sale's line detail; empty for an unknown sale.
	GetSaleLines(ctx context.Context, saleID int) (*SaleLinesResult, error)
}
