package http

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "github.com/11sap/userService/pkg/errors"

	"github.com/11sap/userService/internal/domain"
)

func validRegisterBody() map[string]string {
	return map[string]string{
		"full_name":     "Alice Smith",
		"date_of_birth": "1990-01-15",
		"email":         "alice@example.com",
		"password":      "SecurePass123",
	}
}

// ============================================================================
// Register
// ============================================================================

func TestRegisterEndpoint_Success(t *testing.T) {
	repo := new(mockAccountRepo)
	router := handlerTestRouter(repo)

	repo.On("GetByEmail", mock.Anything, "alice@example.com").Return(nil, apperrors.ErrNotFound)
	repo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Account")).Return(nil)

	rec := doRequest(router, http.MethodPost, "/api/v1/auth/register", "", validRegisterBody())

	assert.Equal(t, http.StatusCreated, rec.Code)
	resp := decodeResponse(t, rec)
	require.Nil(t, resp.Error)

	var auth AuthResponse
	require.NoError(t, json.Unmarshal(resp.Data, &auth))
	assert.NotEmpty(t, auth.Token)

	account := auth.Account.(map[string]any)
	assert.Equal(t, "alice@example.com", account["email"])
	assert.Equal(t, domain.RoleUser, account["role"])
	assert.Equal(t, domain.StatusActive, account["status"])
	assert.NotEmpty(t, account["id"])

	// Neither the plaintext password nor its hash may leak.
	assert.NotContains(t, rec.Body.String(), "SecurePass123")
	assert.NotContains(t, rec.Body.String(), "password")
}

func TestRegisterEndpoint_DuplicateEmail(t *testing.T) {
	repo := new(mockAccountRepo)
	router := handlerTestRouter(repo)

	existing := handlerTestAccount("acc-1", "alice@example.com", domain.RoleUser, domain.StatusActive)
	repo.On("GetByEmail", mock.Anything, "alice@example.com").Return(existing, nil)

	rec := doRequest(router, http.MethodPost, "/api/v1/auth/register", "", validRegisterBody())

	assert.Equal(t, http.StatusConflict, rec.Code)
	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "ALREADY_EXISTS", resp.Error.Code)
}

func TestRegisterEndpoint_ValidationFailures(t *testing.T) {
	repo := new(mockAccountRepo)
	router := handlerTestRouter(repo)

	tests := []struct {
		name   string
		mutate func(map[string]string)
		field  string
	}{
		{"missing full name", func(b map[string]string) { delete(b, "full_name") }, "full_name"},
		{"bad email", func(b map[string]string) { b["email"] = "not-an-email" }, "email"},
		{"short password", func(b map[string]string) { b["password"] = "short" }, "password"},
		{"bad date format", func(b map[string]string) { b["date_of_birth"] = "15/01/1990" }, "date_of_birth"},
		{"unknown role", func(b map[string]string) { b["role"] = "superuser" }, "role"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := validRegisterBody()
			tt.mutate(body)

			rec := doRequest(router, http.MethodPost, "/api/v1/auth/register", "", body)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			resp := decodeResponse(t, rec)
			require.NotNil(t, resp.Error)
			assert.Equal(t, "VALIDATION_ERROR", resp.Error.Code)
			assert.Contains(t, resp.Error.Fields, tt.field)
		})
	}

	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestRegisterEndpoint_MalformedJSON(t *testing.T) {
	repo := new(mockAccountRepo)
	router := handlerTestRouter(repo)

	rec := doRequest(router, http.MethodPost, "/api/v1/auth/register", "", "not an object")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "INVALID_INPUT", resp.Error.Code)
}

// ============================================================================
// Login
// ============================================================================

func TestLoginEndpoint_Success(t *testing.T) {
	repo := new(mockAccountRepo)
	router := handlerTestRouter(repo)

	stored := handlerTestAccount("acc-1", "alice@example.com", domain.RoleUser, domain.StatusActive)
	repo.On("GetByEmail", mock.Anything, "alice@example.com").Return(stored, nil)

	rec := doRequest(router, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email":    "alice@example.com",
		"password": "SecurePass123",
	})

	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decodeResponse(t, rec)
	require.Nil(t, resp.Error)

	var auth AuthResponse
	require.NoError(t, json.Unmarshal(resp.Data, &auth))
	assert.NotEmpty(t, auth.Token)
}

func TestLoginEndpoint_WrongPassword(t *testing.T) {
	repo := new(mockAccountRepo)
	router := handlerTestRouter(repo)

	stored := handlerTestAccount("acc-1", "alice@example.com", domain.RoleUser, domain.StatusActive)
	repo.On("GetByEmail", mock.Anything, "alice@example.com").Return(stored, nil)

	rec := doRequest(router, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email":    "alice@example.com",
		"password": "WrongPass999",
	})

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "UNAUTHORIZED", resp.Error.Code)
	assert.Equal(t, "invalid email or password", resp.Error.Message)
}

func TestLoginEndpoint_UnknownEmail(t *testing.T) {
	repo := new(mockAccountRepo)
	router := handlerTestRouter(repo)

	repo.On("GetByEmail", mock.Anything, "nobody@example.com").Return(nil, apperrors.ErrNotFound)

	rec := doRequest(router, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email":    "nobody@example.com",
		"password": "SecurePass123",
	})

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "UNAUTHORIZED", resp.Error.Code)
	assert.Equal(t, "invalid email or password", resp.Error.Message)
}

func TestLoginEndpoint_InactiveAccount(t *testing.T) {
	repo := new(mockAccountRepo)
	router := handlerTestRouter(repo)

	stored := handlerTestAccount("acc-1", "alice@example.com", domain.RoleUser, domain.StatusInactive)
	repo.On("GetByEmail", mock.Anything, "alice@example.com").Return(stored, nil)

	rec := doRequest(router, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email":    "alice@example.com",
		"password": "SecurePass123",
	})

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "ACCOUNT_INACTIVE", resp.Error.Code)
}
