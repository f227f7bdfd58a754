package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	apperrors "github.com/11sap/userService/pkg/errors"

	"github.com/11sap/userService/internal/domain"
	"github.com/11sap/userService/pkg/database"
)

// AccountRepository implements repository.AccountRepository using PostgreSQL.
type AccountRepository struct {
	pool database.DBTX
}

// NewAccountRepository creates a new PostgreSQL-backed account repository.
func NewAccountRepository(pool database.DBTX) *AccountRepository {
	return &AccountRepository{pool: pool}
}

// Create inserts a new account into the database. The unique index on email
// is the source of truth for duplicate detection under concurrency.
func (r *AccountRepository) Create(ctx context.Context, a *domain.Account) error {
	query := `
		INSERT INTO accounts (id, full_name, date_of_birth, email, password_hash, role, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := r.pool.Exec(ctx, query,
		a.ID,
		a.FullName,
		a.DateOfBirth,
		a.Email,
		a.PasswordHash,
		a.Role,
		a.Status,
		a.CreatedAt,
		a.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.AlreadyExists("account", "email", a.Email)
		}
		return fmt.Errorf("insert account: %w", err)
	}

	return nil
}

// GetByID retrieves an account by its ID.
func (r *AccountRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	query := `
		SELECT id, full_name, date_of_birth, email, password_hash, role, status, created_at, updated_at
		FROM accounts
		WHERE id = $1`

	return r.scanAccount(ctx, query, id)
}

// GetByEmail retrieves an account by its email address.
func (r *AccountRepository) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	query := `
		SELECT id, full_name, date_of_birth, email, password_hash, role, status, created_at, updated_at
		FROM accounts
		WHERE email = $1`

	return r.scanAccount(ctx, query, email)
}

// Update modifies an existing account in the database.
func (r *AccountRepository) Update(ctx context.Context, a *domain.Account) error {
	a.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE accounts
		SET full_name = $1, date_of_birth = $2, email = $3, password_hash = $4,
		    role = $5, status = $6, updated_at = $7
		WHERE id = $8`

	ct, err := r.pool.Exec(ctx, query,
		a.FullName,
		a.DateOfBirth,
		a.Email,
		a.PasswordHash,
		a.Role,
		a.Status,
		a.UpdatedAt,
		a.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.AlreadyExists("account", "email", a.Email)
		}
		return fmt.Errorf("update account: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("account", a.ID)
	}

	return nil
}

// List returns all accounts ordered by creation time, newest first.
func (r *AccountRepository) List(ctx context.Context) ([]domain.Account, error) {
	query := `
		SELECT id, full_name, date_of_birth, email, password_hash, role, status, created_at, updated_at
		FROM accounts
		ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	defer rows.Close()

	var accounts []domain.Account
	for rows.Next() {
		var a domain.Account
		if err := rows.Scan(
			&a.ID,
			&a.FullName,
			&a.DateOfBirth,
			&a.Email,
			&a.PasswordHash,
			&a.Role,
			&a.Status,
			&a.CreatedAt,
			&a.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan account row: %w", err)
		}
		accounts = append(accounts, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate account rows: %w", err)
	}

	if accounts == nil {
		accounts = []domain.Account{}
	}

	return accounts, nil
}

// scanAccount is a helper that executes a query expected to return a single account row.
func (r *AccountRepository) scanAccount(ctx context.Context, query string, args ...any) (*domain.Account, error) {
	var a domain.Account

	err := r.pool.QueryRow(ctx, query, args...).Scan(
		&a.ID,
		&a.FullName,
		&a.DateOfBirth,
		&a.Email,
		&a.PasswordHash,
		&a.Role,
		&a.Status,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("scan account: %w", err)
	}

	return &a, nil
}

// isUniqueViolation checks if the error is a PostgreSQL unique constraint violation (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "23505")
}
