package app

import (
	"context"

	"stockpos/internal/core"

	"github.com/jackc/pgx/v5/pgxpool"
)

type appService struct {
	pool            *pgxpool.Pool
	userService     core.UserService
	customerService core.CustomerService
	productService  core.ProductService
	saleService     core.SaleService
}

// NewAppService constructs an appService that satisfies ApplicationService.
func NewAppService(
	pool *pgxpool.Pool,
	userService core.UserService,
	customerService core.CustomerService,
	productService core.ProductService,
	saleService core.SaleService,
) ApplicationService {
	return &appService{
		pool:            pool,
		userService:     userService,
		customerService: customerService,
		productService:  productService,
		saleService:     saleService,
	}
}

func (s *appService) RegisterUser(ctx context.Context, req RegisterUserRequest) (*UserResult, error) {
	user, err := s.userService.Register(ctx, req.Name, req.Username, req.Email, req.Phone, req.Password, req.Role)
	if err != nil {
		return nil, err
	}
	return &UserResult{User: user}, nil
}

func (s *appService) AuthenticateUser(ctx context.Context, loginIdentifier, password string) (*UserSession, error) {
	user, err := s.userService.Authenticate(ctx, loginIdentifier, password)
	if err != nil {
		return nil, err
	}
	return &UserSession{UserID: user.ID, Username: user.Username, Role: user.Role}, nil
}

func (s *appService) GetUser(ctx context.Context, userID int) (*UserResult, error) {
	user, err := s.userService.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &UserResult{User: user}, nil
}

func (s *appService) ListCustomers(ctx context.Context) (*CustomerListResult, error) {
	customers, err := s.customerService.List(ctx)
	if err != nil {
		return nil, err
	}
	return &CustomerListResult{Customers: customers}, nil
}

func (s *appService) CreateCustomer(ctx context.Context, req CreateCustomerRequest) (*CustomerResult, error) {
	customer, err := s.customerService.Create(ctx, req.Name, req.Phone, req.Email)
	if err != nil {
		return nil, err
	}
	return &CustomerResult{Customer: customer}, nil
}

func (s *appService) ListProducts(ctx context.Context) (*ProductListResult, error) {
	products, err := s.productService.List(ctx)
	if err != nil {
		return nil, err
	}
	return &ProductListResult{Products: products}, nil
}

func (s *appService) GetProduct(ctx context.Context, productID int) (*ProductResult, error) {
	product, err := s.productService.Get(ctx, productID)
	if err != nil {
		return nil, err
	}
	return &ProductResult{Product: product}, nil
}

func (s *appService) CreateProduct(ctx context.Context, req CreateProductRequest) (*ProductResult, error) {
	product, err := s.productService.Create(ctx, req.Name, req.Distributor, req.ArrivalDate, req.UnitPrice, req.Stock)
	if err != nil {
		return nil, err
	}
	return &ProductResult{Product: product}, nil
}

func (s *appService) UpdateProduct(ctx context.Context, req UpdateProductRequest) (*ProductResult, error) {
	product, err := s.productService.Update(ctx, req.ProductID, req.Name, req.UnitPrice, req.Stock)
	if err != nil {
		return nil, err
	}
	return &ProductResult{Product: product}, nil
}

func (s *appService) DeleteProduct(ctx context.Context, productID int) error {
	return s.productService.Delete(ctx, productID)
}

func (s *appService) RestockProduct(ctx context.Context, productID, qty int) (*ProductResult, error) {
	product, err := s.productService.Restock(ctx, productID, qty)
	if err != nil {
		return nil, err
	}
	return &ProductResult{Product: product}, nil
}

func (s *appService) RecordSale(ctx context.Context, req RecordSaleRequest) (*SaleResult, error) {
	lines := make([]core.SaleLineInput, len(req.Lines))
	for i, l := range req.Lines {
		lines[i] = core.SaleLineInput{ProductID: l.ProductID, Quantity: l.Quantity}
	}

	sale, err := s.saleService.RecordSale(ctx, req.ActingUserID, req.CustomerID, lines)
	if err != nil {
		return nil, err
	}
	return &SaleResult{Sale: sale}, nil
}

func (s *appService) ListSales(ctx context.Context) (*SaleListResult, error) {
	sales, err := s.saleService.ListSales(ctx)
	if err != nil {
		return nil, err
	}
	return &SaleListResult{Sales: sales}, nil
}

func (s *appService) GetSaleLines(ctx context.Context, saleID int) (*SaleLinesResult, error) {
	lines, err := s.saleService.GetSaleLines(ctx, saleID)
	if err != nil {
		return nil, err
	}
	return &SaleLinesResult{SaleID: saleID, Lines: lines}, nil
}
