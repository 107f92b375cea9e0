package core

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// CustomerService manages customer records.
type CustomerService interface {
	Create(ctx context.Context, name, phone, email string) (*Customer, error)
	List(ctx context.Context) ([]Customer, error)
}

type customerService struct {
	pool *pgxpool.Pool
}

// NewCustomerService constructs a CustomerService backed by PostgreSQL.
func NewCustomerService(pool *pgxpool.Pool) CustomerService {
	return &customerService{pool: pool}
}

func (s *customerService) Create(ctx context.Context, name, phone, email string) (*Customer, error) {
	if name == "" || phone == "" || email == "" {
		return nil, Validationf("customer name, phone, and email are required")
	}

	var c Customer
	err := s.pool.QueryRow(ctx, `
		INSERT INTO customers (name, phone, email)
		VALUES ($1, $2, $3)
		RETURNING id, name, phone, email, created_at
	`, name, phone, email).Scan(&c.ID, &c.Name, &c.Phone, &c.Email, &c.CreatedAt)
	if err != nil {
		return nil, classifyStorageErr(err, "failed to create customer")
	}
	return &c, nil
}

func (s *customerService) List(ctx context.Context) ([]Customer, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, name, phone, email, created_at
		FROM customers
		ORDER BY name, id
	`)
	if err != nil {
		return nil, classifyStorageErr(err, "failed to query customers")
	}
	defer rows.Close()

	var customers []Customer
	for rows.Next() {
		var c Customer
		if err := rows.Scan(&c.ID, &c.Name, &c.Phone, &c.Email, &c.CreatedAt); err != nil {
			return nil, err
		}
		customers = append(customers, c)
	}
	return customers, rows.Err()
}
