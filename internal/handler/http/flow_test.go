package http

import (
	"context"
	"encoding/json"
	"net/http"
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/11sap/userService/pkg/errors"
	"github.com/11sap/userService/pkg/health"

	"github.com/11sap/userService/internal/domain"
	"github.com/11sap/userService/internal/service"
)

// memoryAccountRepo is a stateful in-memory repository for end-to-end flows
// where the mock-per-call style gets unwieldy.
type memoryAccountRepo struct {
	mu       sync.Mutex
	accounts map[string]domain.Account
}

func newMemoryAccountRepo() *memoryAccountRepo {
	return &memoryAccountRepo{accounts: make(map[string]domain.Account)}
}

func (r *memoryAccountRepo) Create(_ context.Context, account *domain.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.accounts {
		if a.Email == account.Email {
			return apperrors.AlreadyExists("account", "email", account.Email)
		}
	}
	r.accounts[account.ID] = *account
	return nil
}

func (r *memoryAccountRepo) GetByID(_ context.Context, id string) (*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.accounts[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &a, nil
}

func (r *memoryAccountRepo) GetByEmail(_ context.Context, email string) (*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.accounts {
		if a.Email == email {
			return &a, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (r *memoryAccountRepo) Update(_ context.Context, account *domain.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.accounts[account.ID]; !ok {
		return apperrors.ErrNotFound
	}
	r.accounts[account.ID] = *account
	return nil
}

func (r *memoryAccountRepo) List(_ context.Context) ([]domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Account, 0, len(r.accounts))
	for _, a := range r.accounts {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func flowTestRouter(repo *memoryAccountRepo) http.Handler {
	logger := handlerTestLogger()
	svc := service.NewAccountService(repo, handlerTestTokenManager(), handlerTestEventProducer(), logger)
	return NewRouter(svc, health.NewHandler(), logger, CORSConfig{Environment: "development"})
}

func registerVia(t *testing.T, router http.Handler, fullName, email, password, role string) AuthResponse {
	t.Helper()
	body := map[string]string{
		"full_name":     fullName,
		"date_of_birth": "1990-01-15",
		"email":         email,
		"password":      password,
	}
	if role != "" {
		body["role"] = role
	}
	rec := doRequest(router, http.MethodPost, "/api/v1/auth/register", "", body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var auth AuthResponse
	resp := decodeResponse(t, rec)
	require.NoError(t, json.Unmarshal(resp.Data, &auth))
	return auth
}

func TestAccountLifecycleFlow(t *testing.T) {
	repo := newMemoryAccountRepo()
	router := flowTestRouter(repo)

	// Alice registers and receives a working session token.
	aliceAuth := registerVia(t, router, "Alice Smith", "alice@example.com", "SecurePass123", "")
	alice := aliceAuth.Account.(map[string]any)
	aliceID := alice["id"].(string)
	require.NotEmpty(t, aliceID)
	assert.Equal(t, domain.StatusActive, alice["status"])

	// A login attempt with the wrong password is rejected.
	rec := doRequest(router, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email":    "alice@example.com",
		"password": "WrongPass999",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// The correct password yields a fresh token.
	rec = doRequest(router, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email":    "alice@example.com",
		"password": "SecurePass123",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	var aliceLogin AuthResponse
	resp := decodeResponse(t, rec)
	require.NoError(t, json.Unmarshal(resp.Data, &aliceLogin))
	aliceToken := aliceLogin.Token
	require.NotEmpty(t, aliceToken)

	// Alice can fetch her own account.
	rec = doRequest(router, http.MethodGet, "/api/v1/accounts/"+aliceID, aliceToken, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	// An admin registers and can list every account.
	adminAuth := registerVia(t, router, "Site Admin", "admin@example.com", "AdminPass456", "admin")
	adminToken := adminAuth.Token

	rec = doRequest(router, http.MethodGet, "/api/v1/accounts", adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	resp = decodeResponse(t, rec)
	var listed []domain.Account
	require.NoError(t, json.Unmarshal(resp.Data, &listed))
	assert.Len(t, listed, 2)

	// Alice, not an admin, cannot list accounts.
	rec = doRequest(router, http.MethodGet, "/api/v1/accounts", aliceToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// The admin deactivates Alice.
	rec = doRequest(router, http.MethodPatch, "/api/v1/accounts/"+aliceID+"/status",
		adminToken, UpdateStatusRequest{Status: "inactive"})
	require.Equal(t, http.StatusOK, rec.Code)

	// Alice's still-valid token no longer authenticates requests.
	rec = doRequest(router, http.MethodGet, "/api/v1/accounts/"+aliceID, aliceToken, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Alice can no longer log in, even with the correct password.
	rec = doRequest(router, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email":    "alice@example.com",
		"password": "SecurePass123",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	resp = decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "ACCOUNT_INACTIVE", resp.Error.Code)

	// The admin reactivates Alice and she can log in again.
	rec = doRequest(router, http.MethodPatch, "/api/v1/accounts/"+aliceID+"/status",
		adminToken, UpdateStatusRequest{Status: "active"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(router, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email":    "alice@example.com",
		"password": "SecurePass123",
	})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHealthAndMetricsEndpoints(t *testing.T) {
	router := flowTestRouter(newMemoryAccountRepo())

	rec := doRequest(router, http.MethodGet, "/health/live", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(router, http.MethodGet, "/health/ready", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(router, http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}
