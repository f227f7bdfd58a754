package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-for-testing"

func TestTokenManager_IssueAndVerify(t *testing.T) {
	m := NewTokenManager(testSecret, 7*24*time.Hour)

	token, err := m.Issue("acct-1")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	accountID, err := m.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "acct-1", accountID)
}

func TestTokenManager_Expired(t *testing.T) {
	m := NewTokenManager(testSecret, -time.Minute)

	token, err := m.Issue("acct-1")
	require.NoError(t, err)

	_, err = m.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenManager_WrongSecret(t *testing.T) {
	m := NewTokenManager(testSecret, time.Hour)
	other := NewTokenManager("a-completely-different-secret", time.Hour)

	token, err := m.Issue("acct-1")
	require.NoError(t, err)

	_, err = other.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenManager_ExpiredAndForgedAreIndistinguishable(t *testing.T) {
	m := NewTokenManager(testSecret, -time.Minute)

	expired, err := m.Issue("acct-1")
	require.NoError(t, err)

	_, expiredErr := m.Verify(expired)
	_, forgedErr := m.Verify("not.a.token")

	require.Error(t, expiredErr)
	require.Error(t, forgedErr)
	assert.Equal(t, expiredErr.Error(), forgedErr.Error(),
		"expired and forged tokens must fail identically")
}

func TestTokenManager_Tampered(t *testing.T) {
	m := NewTokenManager(testSecret, time.Hour)

	token, err := m.Issue("acct-1")
	require.NoError(t, err)

	tampered := token[:len(token)-2] + "xx"
	_, err = m.Verify(tampered)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenManager_RejectsNonHMACAlgorithm(t *testing.T) {
	m := NewTokenManager(testSecret, time.Hour)

	// alg=none tokens must never verify.
	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{
		AccountID: "acct-1",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	token, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = m.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenManager_EmptySubject(t *testing.T) {
	m := NewTokenManager(testSecret, time.Hour)

	token, err := m.Issue("")
	require.NoError(t, err)

	_, err = m.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
