package repository

import (
	"context"

	"github.com/11sap/userService/internal/domain"
)

// AccountRepository defines the interface for account persistence operations.
// Implementations must be safe for concurrent use; the email uniqueness
// constraint is enforced atomically by the store.
type AccountRepository interface {
	// Create inserts a new account. A duplicate email surfaces as an
	// already-exists error.
	Create(ctx context.Context, account *domain.Account) error

	// GetByID retrieves an account by its unique identifier.
	GetByID(ctx context.Context, id string) (*domain.Account, error)

	// GetByEmail retrieves an account by its email address. The match is
	// case-sensitive, as stored.
	GetByEmail(ctx context.Context, email string) (*domain.Account, error)

	// Update modifies an existing account and refreshes updated_at.
	Update(ctx context.Context, account *domain.Account) error

	// List returns all accounts ordered by creation time, newest first.
	List(ctx context.Context) ([]domain.Account, error)
}
