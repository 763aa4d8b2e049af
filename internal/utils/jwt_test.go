package utils

import (
	"ecommerce_api/internal/domain"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testSecret    = "test-secret"
	testAlgorithm = "HS256"
)

func TestGenerateAndParseToken(t *testing.T) {
	user := &domain.User{ID: 7, Username: "alice", Role: domain.RoleSupplier}

	token, err := GenerateToken(user, testSecret, testAlgorithm, time.Minute)
	require.NoError(t, err)

	claims, err := ParseToken(token, testSecret, testAlgorithm)
	require.NoError(t, err)

	// Identity and role flags round-trip exactly as issued
	assert.Equal(t, "alice", claims.Username())
	assert.Equal(t, uint(7), claims.UserID)
	assert.False(t, claims.IsAdmin)
	assert.True(t, claims.IsSupplier)
	assert.False(t, claims.IsCustomer)
}

func TestGenerateTokenRequiresConfiguration(t *testing.T) {
	user := &domain.User{ID: 1, Username: "alice", Role: domain.RoleCustomer}

	_, err := GenerateToken(user, "", testAlgorithm, time.Minute)
	assert.ErrorIs(t, err, ErrTokenConfig)

	_, err = GenerateToken(user, testSecret, "", time.Minute)
	assert.ErrorIs(t, err, ErrTokenConfig)

	_, err = GenerateToken(user, testSecret, "NOPE256", time.Minute)
	assert.ErrorIs(t, err, ErrTokenConfig)
}

func TestParseTokenExpired(t *testing.T) {
	user := &domain.User{ID: 2, Username: "bob", Role: domain.RoleCustomer}

	// Issue a token that expired a minute ago
	token, err := GenerateToken(user, testSecret, testAlgorithm, -time.Minute)
	require.NoError(t, err)

	_, err = ParseToken(token, testSecret, testAlgorithm)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestParseTokenBadSignature(t *testing.T) {
	user := &domain.User{ID: 3, Username: "carol", Role: domain.RoleCustomer}

	token, err := GenerateToken(user, testSecret, testAlgorithm, time.Minute)
	require.NoError(t, err)

	_, err = ParseToken(token, "other-secret", testAlgorithm)
	assert.ErrorIs(t, err, ErrTokenInvalid)

	_, err = ParseToken("not-a-token", testSecret, testAlgorithm)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestParseTokenMissingExpiry(t *testing.T) {
	// Hand-craft a token that carries identity but no expiry claim
	claims := Claims{
		UserID:           4,
		IsCustomer:       true,
		RegisteredClaims: jwt.RegisteredClaims{Subject: "dave"},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = ParseToken(token, testSecret, testAlgorithm)
	assert.ErrorIs(t, err, ErrTokenMissingExpiry)
}

func TestParseTokenMissingIdentity(t *testing.T) {
	// A token without subject or id must not validate
	claims := Claims{
		Ext:        time.Now().Add(time.Minute).Unix(),
		IsCustomer: true,
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = ParseToken(token, testSecret, testAlgorithm)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestParseTokenRejectsWrongAlgorithm(t *testing.T) {
	user := &domain.User{ID: 5, Username: "erin", Role: domain.RoleCustomer}

	// Signed with HS384 but verified expecting HS256
	token, err := GenerateToken(user, testSecret, "HS384", time.Minute)
	require.NoError(t, err)

	_, err = ParseToken(token, testSecret, testAlgorithm)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}
