package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openats/openats/config"
	"github.com/openats/openats/internal/models"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		SecretKey:        "test-access-secret",
		RefreshSecretKey: "test-refresh-secret",
		AccessTokenTTL:   time.Hour,
		RefreshTokenTTL:  7 * 24 * time.Hour,
		Issuer:           "openats-test",
	}
}

func TestHashAndCheckPassword(t *testing.T) {
	s := NewTokenService(testJWTConfig())

	hash, err := s.HashPassword("s3cret-password")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret-password", hash)

	ok, err := s.CheckPassword("s3cret-password", hash)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.CheckPassword("wrong-password", hash)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCheckPassword_MalformedHash(t *testing.T) {
	s := NewTokenService(testJWTConfig())

	_, err := s.CheckPassword("whatever", "not-a-bcrypt-hash")
	assert.Error(t, err)
}

func TestAccessTokenRoundTrip(t *testing.T) {
	s := NewTokenService(testJWTConfig())
	user := models.UserProfile{
		ID:    "user_1",
		Email: "jane@example.com",
		Role:  models.RoleRecruiter,
	}

	token, err := s.IssueAccessToken(user)
	require.NoError(t, err)

	claims, err := s.VerifyAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user_1", claims.UserID)
	assert.Equal(t, "jane@example.com", claims.Email)
	assert.Equal(t, models.RoleRecruiter, claims.Role)
	assert.Equal(t, "openats-test", claims.Issuer)
}

func TestVerifyAccessToken_Tampered(t *testing.T) {
	s := NewTokenService(testJWTConfig())

	token, err := s.IssueAccessToken(models.UserProfile{ID: "user_1", Role: models.RoleAdmin})
	require.NoError(t, err)

	_, err = s.VerifyAccessToken(token + "x")
	assert.Error(t, err)
}

func TestVerifyAccessToken_WrongSecret(t *testing.T) {
	issuer := NewTokenService(testJWTConfig())

	cfg := testJWTConfig()
	cfg.SecretKey = "a-different-secret"
	verifier := NewTokenService(cfg)

	token, err := issuer.IssueAccessToken(models.UserProfile{ID: "user_1"})
	require.NoError(t, err)

	_, err = verifier.VerifyAccessToken(token)
	assert.Error(t, err)
}

func TestVerifyAccessToken_Expired(t *testing.T) {
	cfg := testJWTConfig()
	cfg.AccessTokenTTL = -time.Minute
	s := NewTokenService(cfg)

	token, err := s.IssueAccessToken(models.UserProfile{ID: "user_1"})
	require.NoError(t, err)

	_, err = s.VerifyAccessToken(token)
	assert.Error(t, err)
}

func TestRefreshTokenRoundTrip(t *testing.T) {
	s := NewTokenService(testJWTConfig())

	token, err := s.IssueRefreshToken("user_42")
	require.NoError(t, err)

	userID, err := s.VerifyRefreshToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user_42", userID)
}

func TestRefreshTokenNotValidAsAccessToken(t *testing.T) {
	s := NewTokenService(testJWTConfig())

	refresh, err := s.IssueRefreshToken("user_42")
	require.NoError(t, err)

	_, err = s.VerifyAccessToken(refresh)
	assert.Error(t, err)
}
