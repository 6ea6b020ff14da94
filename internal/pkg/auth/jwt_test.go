package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/audease/audease-backend/internal/app/models"
)

func testJWTService(exp time.Duration) *JWTService {
	return NewJWTService(JWTConfig{
		SecretKey:       "test-secret",
		AccessTokenExp:  exp,
		RefreshTokenExp: 24 * time.Hour,
		TokenIssuer:     "audease.test",
	})
}

func TestGenerateAndValidateToken(t *testing.T) {
	svc := testJWTService(time.Hour)
	user := &models.User{ID: 7, SchoolID: 3, Username: "ada.bell"}

	access, refresh, expiresIn, refreshExpiresIn, err := svc.GenerateTokenPair(user)
	require.NoError(t, err)
	assert.NotEmpty(t, refresh)
	assert.Equal(t, 3600, expiresIn)
	assert.Equal(t, 86400, refreshExpiresIn)

	claims, err := svc.ValidateToken(access)
	require.NoError(t, err)
	assert.Equal(t, int64(7), claims.UserID)
	assert.Equal(t, int64(3), claims.SchoolID)
	assert.Equal(t, "ada.bell", claims.Username)
	assert.Equal(t, "audease.test", claims.Issuer)
}

func TestValidateTokenFailures(t *testing.T) {
	svc := testJWTService(time.Hour)
	user := &models.User{ID: 7, SchoolID: 3, Username: "ada.bell"}

	t.Run("expired token", func(t *testing.T) {
		expired := testJWTService(-time.Minute)
		access, _, _, _, err := expired.GenerateTokenPair(user)
		require.NoError(t, err)

		_, err = expired.ValidateToken(access)
		assert.ErrorIs(t, err, ErrExpiredToken)
	})

	t.Run("wrong secret", func(t *testing.T) {
		access, _, _, _, err := svc.GenerateTokenPair(user)
		require.NoError(t, err)

		other := NewJWTService(JWTConfig{SecretKey: "other-secret", AccessTokenExp: time.Hour})
		_, err = other.ValidateToken(access)
		assert.Error(t, err)
	})

	t.Run("garbage input", func(t *testing.T) {
		_, err := svc.ValidateToken("not.a.token")
		assert.Error(t, err)
	})

	t.Run("empty string", func(t *testing.T) {
		_, err := svc.ValidateAndExtractClaims("")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestExtractBearerToken(t *testing.T) {
	token, err := ExtractBearerToken("Bearer abc123")
	require.NoError(t, err)
	assert.Equal(t, "abc123", token)

	// bare tokens are accepted as-is
	token, err = ExtractBearerToken("abc123")
	require.NoError(t, err)
	assert.Equal(t, "abc123", token)

	_, err = ExtractBearerToken("")
	assert.ErrorIs(t, err, ErrInvalidFormat)
}

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("a-strong-password")
	require.NoError(t, err)
	assert.NotEqual(t, "a-strong-password", hash)

	assert.True(t, CheckPassword(hash, "a-strong-password"))
	assert.False(t, CheckPassword(hash, "wrong-password"))
}
