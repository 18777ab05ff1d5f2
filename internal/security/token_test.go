package security

import (
	"testing"
	"time"

	"volunteer-hub-backend/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenManager_RoundTrip(t *testing.T) {
	m := NewTokenManager("test-secret", 0, 0)
	account := &domain.Account{ID: "a-1", Email: "org@example.com", Kind: domain.AccountKindOrganization}

	t.Run("AccessToken", func(t *testing.T) {
		tok, err := m.GenerateAccessToken(account)
		require.NoError(t, err)

		claims, err := m.ValidateToken(tok, TokenTypeAccess)
		require.NoError(t, err)
		assert.Equal(t, "a-1", claims.AccountID)
		assert.Equal(t, domain.AccountKindOrganization, claims.Kind)
		assert.True(t, claims.Caller().IsOrganization())
	})

	t.Run("RefreshRejectedAsAccess", func(t *testing.T) {
		tok, err := m.GenerateRefreshToken(account)
		require.NoError(t, err)

		_, err = m.ValidateToken(tok, TokenTypeAccess)
		assert.ErrorIs(t, err, ErrWrongTokenType)
	})

	t.Run("OAuthStateCarriesKind", func(t *testing.T) {
		tok, err := m.GenerateOAuthState(domain.AccountKindVolunteer)
		require.NoError(t, err)

		claims, err := m.ValidateToken(tok, TokenTypeOAuthState)
		require.NoError(t, err)
		assert.Equal(t, domain.AccountKindVolunteer, claims.Kind)
	})

	t.Run("WrongSecret", func(t *testing.T) {
		tok, err := m.GenerateAccessToken(account)
		require.NoError(t, err)

		_, err = NewTokenManager("other-secret", 0, 0).ValidateToken(tok, TokenTypeAccess)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestTokenManager_Expired(t *testing.T) {
	m := NewTokenManager("test-secret", time.Minute, 0).(*tokenManager)
	m.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	tok, err := m.GenerateAccessToken(&domain.Account{ID: "a-1", Kind: domain.AccountKindVolunteer})
	require.NoError(t, err)

	m.now = time.Now
	_, err = m.ValidateToken(tok, TokenTypeAccess)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestPasswordRules(t *testing.T) {
	assert.False(t, PasswordAcceptable("abc1"))
	assert.False(t, PasswordAcceptable("abcdefgh"))
	assert.True(t, PasswordAcceptable("abcde1"))

	hash, err := HashPassword("secret1")
	require.NoError(t, err)
	assert.True(t, CheckPassword(hash, "secret1"))
	assert.False(t, CheckPassword(hash, "secret2"))
	assert.False(t, CheckPassword("", "secret1"))
}

func TestResetToken(t *testing.T) {
	token, hash, err := NewResetToken()
	require.NoError(t, err)
	assert.Len(t, token, 64)
	assert.Equal(t, hash, HashResetToken(token))
	assert.NotEqual(t, token, hash)
}
