package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"
)

// defaultRole is assigned when registration omits a role.
const defaultRole = "seller"

// ErrInvalidCredentials is returned by Authenticate for a wrong identifier or
// password. Kept deliberately vague; the web layer maps it to 401.
var ErrInvalidCredentials = errors.New("invalid credentials")

// UserService manages account registration and authentication.
type UserService interface {
	// Register creates an account with a bcrypt-hashed password. A duplicate
	// username or email yields a ConflictError.
	Register(ctx context.Context, name, username, email, phone, password, role string) (*User, error)

	// Authenticate verifies a username-or-email identifier plus password.
	Authenticate(ctx context.Context, loginIdentifier, password string) (*User, error)

	// GetByID returns a user by primary key.
	GetByID(ctx context.Context, userID int) (*User, error)
}

type userService struct {
	pool *pgxpool.Pool
}

// NewUserService constructs a UserService backed by PostgreSQL.
func NewUserService(pool *pgxpool.Pool) UserService {
	return &userService{pool: pool}
}

func (s *userService) Register(ctx context.Context, name, username, email, phone, password, role string) (*User, error) {
	if name == "" || username == "" || email == "" || password == "" {
		return nil, Validationf("name, username, email, and password are required")
	}
	if role == "" {
		role = defaultRole
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	u := &User{}
	err = s.pool.QueryRow(ctx, `
		INSERT INTO users (name, username, email, phone, password_hash, role)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, name, username, email, phone, password_hash, role, created_at
	`, name, username, email, phone, string(hash), role).Scan(
		&u.ID, &u.Name, &u.Username, &u.Email, &u.Phone, &u.PasswordHash, &u.Role, &u.CreatedAt,
	)
	if err != nil {
		return nil, classifyStorageErr(err, "failed to register user")
	}
	return u, nil
}

func (s *userService) Authenticate(ctx context.Context, loginIdentifier, password string) (*User, error) {
	if loginIdentifier == "" || password == "" {
		return nil, Validationf("login identifier and password are required")
	}

	u := &User{}
	err := s.pool.QueryRow(ctx, `
		SELECT id, name, username, email, phone, password_hash, role, created_at
		FROM users
		WHERE username = $1 OR email = $1
		LIMIT 1
	`, loginIdentifier).Scan(
		&u.ID, &u.Name, &u.Username, &u.Email, &u.Phone, &u.PasswordHash, &u.Role, &u.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrInvalidCredentials
		}
		return nil, classifyStorageErr(err, "failed to look up user")
	}

	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

func (s *userService) GetByID(ctx context.Context, userID int) (*User, error) {
	u := &User{}
	err := s.pool.QueryRow(ctx, `
		SELECT id, name, username, email, phone, password_hash, role, created_at
		FROM users
		WHERE id = $1
	`, userID).Scan(
		&u.ID, &u.Name, &u.Username, &u.Email, &u.Phone, &u.PasswordHash, &u.Role, &u.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, NotFoundf("user %d not found", userID)
		}
		return nil, classifyStorageErr(err, fmt.Sprintf("failed to fetch user %d", userID))
	}
	return u, nil
}
