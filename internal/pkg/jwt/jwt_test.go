package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskmanager/internal/domain"
)

func TestRoundTrip_AccessToken(t *testing.T) {
	svc := New("test_secret_key_32_characters_min", time.Hour, 30*24*time.Hour)

	tokenStr, err := svc.GenerateAccessToken(42, "admin")
	require.NoError(t, err)

	claims, err := svc.ValidateToken(tokenStr)
	require.NoError(t, err)

	userID, err := claims.UserID()
	require.NoError(t, err)
	assert.Equal(t, int64(42), userID)
	assert.Equal(t, "admin", claims.Role)
	assert.Equal(t, domain.TokenTypeAccess, claims.TokenType)
	assert.NotEmpty(t, claims.ID)
}

func TestTokens_HaveDistinctIDs(t *testing.T) {
	svc := New("test_secret_key_32_characters_min", time.Hour, time.Hour)

	first, err := svc.GenerateAccessToken(1, "user")
	require.NoError(t, err)
	second, err := svc.GenerateAccessToken(1, "user")
	require.NoError(t, err)

	c1, err := svc.ValidateToken(first)
	require.NoError(t, err)
	c2, err := svc.ValidateToken(second)
	require.NoError(t, err)

	assert.NotEqual(t, c1.ID, c2.ID)
}

func TestValidateToken_Expired(t *testing.T) {
	svc := New("test_secret_key_32_characters_min", -time.Minute, time.Hour)

	tokenStr, err := svc.GenerateAccessToken(1, "user")
	require.NoError(t, err)

	_, err = svc.ValidateToken(tokenStr)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestValidateToken_WrongSecret(t *testing.T) {
	svc := New("test_secret_key_32_characters_min", time.Hour, time.Hour)
	other := New("another_secret_key_32_characters", time.Hour, time.Hour)

	tokenStr, err := svc.GenerateAccessToken(1, "user")
	require.NoError(t, err)

	_, err = other.ValidateToken(tokenStr)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestValidateToken_Garbage(t *testing.T) {
	svc := New("test_secret_key_32_characters_min", time.Hour, time.Hour)

	_, err := svc.ValidateToken("not-a-token")
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestRefreshToken_Type(t *testing.T) {
	svc := New("test_secret_key_32_characters_min", time.Hour, time.Hour)

	tokenStr, err := svc.GenerateRefreshToken(7, "user")
	require.NoError(t, err)

	claims, err := svc.ValidateToken(tokenStr)
	require.NoError(t, err)
	assert.Equal(t, domain.TokenTypeRefresh, claims.TokenType)
}
