package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/11sap/userService/pkg/errors"

	"github.com/11sap/userService/internal/auth"
	"github.com/11sap/userService/internal/domain"
	"github.com/11sap/userService/internal/event"
	"github.com/11sap/userService/internal/repository"
)

// AccountService implements the business logic for account and auth operations.
type AccountService struct {
	accountRepo  repository.AccountRepository
	tokenManager *auth.TokenManager
	producer     *event.Producer
	logger       *slog.Logger
}

// NewAccountService creates a new account service.
func NewAccountService(
	accountRepo repository.AccountRepository,
	tokenManager *auth.TokenManager,
	producer *event.Producer,
	logger *slog.Logger,
) *AccountService {
	return &AccountService{
		accountRepo:  accountRepo,
		tokenManager: tokenManager,
		producer:     producer,
		logger:       logger,
	}
}

// RegisterInput holds the parameters for registering a new account.
type RegisterInput struct {
	FullName    string
	DateOfBirth time.Time
	Email       string
	Password    string
	Role        string
}

// LoginInput holds the parameters for account login.
type LoginInput struct {
	Email    string
	Password string
}

// Register creates a new account, hashes the password, and returns the
// account with a fresh session token. The returned account never carries the
// plaintext password, and its hash is excluded from serialization.
func (s *AccountService) Register(ctx context.Context, input RegisterInput) (*domain.Account, string, error) {
	if input.FullName == "" {
		return nil, "", apperrors.InvalidInput("full name is required")
	}
	if input.Email == "" {
		return nil, "", apperrors.InvalidInput("email is required")
	}
	if input.Password == "" {
		return nil, "", apperrors.InvalidInput("password is required")
	}
	role := input.Role
	if role == "" {
		role = domain.RoleUser
	}
	if !domain.IsValidRole(role) {
		return nil, "", apperrors.InvalidInput("invalid role")
	}

	// Pre-check for a friendlier error; the store's unique index remains the
	// source of truth under concurrent registration.
	existing, err := s.accountRepo.GetByEmail(ctx, input.Email)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, "", fmt.Errorf("check existing email: %w", err)
	}
	if existing != nil {
		return nil, "", apperrors.AlreadyExists("account", "email", input.Email)
	}

	hashedPassword, err := auth.HashPassword(input.Password)
	if err != nil {
		return nil, "", fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	account := &domain.Account{
		ID:           uuid.New().String(),
		FullName:     input.FullName,
		DateOfBirth:  input.DateOfBirth,
		Email:        input.Email,
		PasswordHash: hashedPassword,
		Role:         role,
		Status:       domain.StatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.accountRepo.Create(ctx, account); err != nil {
		if errors.Is(err, apperrors.ErrAlreadyExists) {
			return nil, "", apperrors.AlreadyExists("account", "email", input.Email)
		}
		return nil, "", fmt.Errorf("create account: %w", err)
	}

	token, err := s.tokenManager.Issue(account.ID)
	if err != nil {
		return nil, "", fmt.Errorf("issue token: %w", err)
	}

	// Publish registration event (non-blocking on failure).
	if err := s.producer.PublishAccountRegistered(ctx, account); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish account.registered event",
			slog.String("account_id", account.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "account registered",
		slog.String("account_id", account.ID),
		slog.String("email", account.Email),
		slog.String("role", account.Role),
	)

	return account, token, nil
}

// Login authenticates an account with email and password, returning a fresh
// session token. An unknown email and a wrong password fail with the same
// error so callers cannot probe which emails are registered.
func (s *AccountService) Login(ctx context.Context, input LoginInput) (*domain.Account, string, error) {
	if input.Email == "" {
		return nil, "", apperrors.InvalidInput("email is required")
	}
	if input.Password == "" {
		return nil, "", apperrors.InvalidInput("password is required")
	}

	account, err := s.accountRepo.GetByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, "", apperrors.Unauthorized("invalid email or password")
		}
		return nil, "", fmt.Errorf("lookup account: %w", err)
	}

	if !account.IsActive() {
		return nil, "", apperrors.AccountInactive("account is inactive")
	}

	if !auth.VerifyPassword(input.Password, account.PasswordHash) {
		return nil, "", apperrors.Unauthorized("invalid email or password")
	}

	token, err := s.tokenManager.Issue(account.ID)
	if err != nil {
		return nil, "", fmt.Errorf("issue token: %w", err)
	}

	s.logger.InfoContext(ctx, "account logged in",
		slog.String("account_id", account.ID),
		slog.String("email", account.Email),
	)

	return account, token, nil
}

// ResolveCaller verifies a session token and loads the account it refers to.
// The account must still be active: a token issued before deactivation stops
// working here even though it remains cryptographically valid. Every failure
// is the same unauthenticated error.
func (s *AccountService) ResolveCaller(ctx context.Context, token string) (*domain.Account, error) {
	accountID, err := s.tokenManager.Verify(token)
	if err != nil {
		return nil, apperrors.Unauthorized("invalid or expired token")
	}

	account, err := s.accountRepo.GetByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.Unauthorized("invalid or expired token")
		}
		return nil, fmt.Errorf("lookup caller: %w", err)
	}

	if !account.IsActive() {
		return nil, apperrors.Unauthorized("invalid or expired token")
	}

	return account, nil
}

// GetAccount retrieves an account by its ID.
func (s *AccountService) GetAccount(ctx context.Context, id string) (*domain.Account, error) {
	account, err := s.accountRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NotFound("account", id)
		}
		return nil, fmt.Errorf("get account: %w", err)
	}
	return account, nil
}

// ListAccounts returns all accounts, newest first.
func (s *AccountService) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	accounts, err := s.accountRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	return accounts, nil
}

// UpdateStatus changes an account's status to active or inactive.
func (s *AccountService) UpdateStatus(ctx context.Context, id, status string) (*domain.Account, error) {
	if !domain.IsValidStatus(status) {
		return nil, apperrors.InvalidInput("invalid status")
	}

	account, err := s.accountRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NotFound("account", id)
		}
		return nil, fmt.Errorf("get account for status update: %w", err)
	}

	oldStatus := account.Status
	account.Status = status
	if err := s.accountRepo.Update(ctx, account); err != nil {
		return nil, fmt.Errorf("update account status: %w", err)
	}

	// Publish status change event (non-blocking on failure).
	if err := s.producer.PublishAccountStatusChanged(ctx, account, oldStatus); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish account.status_changed event",
			slog.String("account_id", account.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "account status updated",
		slog.String("account_id", account.ID),
		slog.String("old_status", oldStatus),
		slog.String("new_status", status),
	)

	return account, nil
}
