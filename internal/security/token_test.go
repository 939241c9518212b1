package security

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenManager_RoundTrip(t *testing.T) {
	m := NewTokenManager("test-secret")

	token, err := m.GenerateAccessToken(5, "renter@example.com", []string{RoleCustomer})
	require.NoError(t, err)

	claims, err := m.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, int64(5), claims.UserID)
	assert.Equal(t, "renter@example.com", claims.Email)
	assert.False(t, claims.IsAdmin())
}

func TestTokenManager_AdminRole(t *testing.T) {
	m := NewTokenManager("test-secret")

	token, err := m.GenerateAccessToken(9, "ops@example.com", []string{RoleCustomer, RoleAdmin})
	require.NoError(t, err)

	claims, err := m.ValidateToken(token)
	require.NoError(t, err)
	assert.True(t, claims.IsAdmin())
}

func TestTokenManager_RejectsWrongSecret(t *testing.T) {
	token, err := NewTokenManager("secret-a").GenerateAccessToken(5, "", []string{RoleCustomer})
	require.NoError(t, err)

	_, err = NewTokenManager("secret-b").ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenManager_RejectsGarbage(t *testing.T) {
	_, err := NewTokenManager("test-secret").ValidateToken("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
