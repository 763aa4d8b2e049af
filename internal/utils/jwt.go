package utils

import (
	"ecommerce_api/internal/domain" // Domain models
	"errors"                        // Sentinel errors
	"time"                          // Time for token expiration

	"github.com/golang-jwt/jwt/v5" // JWT library
)

// Token validation errors. The HTTP layer maps them to distinct status
// codes: invalid -> 401, missing expiry -> 400, expired -> 403.
var (
	ErrTokenConfig        = errors.New("jwt secret or algorithm is not configured")
	ErrTokenInvalid       = errors.New("could not validate token")
	ErrTokenMissingExpiry = errors.New("no expiry claim in token")
	ErrTokenExpired       = errors.New("token is expired")
)

// JWT Claims. The role flags are a snapshot taken at issue time; a role
// change does not take effect until the token is reissued.
type Claims struct {
	UserID               uint  `json:"id"`          // Numeric user ID
	IsAdmin              bool  `json:"is_admin"`    // Admin role flag
	IsSupplier           bool  `json:"is_supplier"` // Supplier role flag
	IsCustomer           bool  `json:"is_customer"` // Customer role flag
	Ext                  int64 `json:"ext"`         // Absolute expiry as Unix seconds
	jwt.RegisteredClaims       // Standard JWT claims; Subject carries the username
}

// Username returns the subject username embedded in the claims.
func (c *Claims) Username() string { return c.Subject }

// GenerateToken creates a signed JWT for the given user with an absolute
// expiry ttl from now
func GenerateToken(user *domain.User, secret, algorithm string, ttl time.Duration) (string, error) {
	if secret == "" || algorithm == "" {
		return "", ErrTokenConfig // Signing material must be configured
	}
	method := jwt.GetSigningMethod(algorithm)
	if method == nil {
		return "", ErrTokenConfig // Unknown signing algorithm
	}
	// Set token claims
	claims := Claims{
		UserID:     user.ID,                        // Numeric user ID
		IsAdmin:    user.IsAdmin(),                 // Role flags derived from the enumerated role
		IsSupplier: user.IsSupplier(),
		IsCustomer: user.IsCustomer(),
		Ext:        time.Now().Add(ttl).Unix(),     // Absolute expiry timestamp
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:  user.Username,                  // Subject is the username
			IssuedAt: jwt.NewNumericDate(time.Now()), // Issued at current time
		},
	}
	token := jwt.NewWithClaims(method, claims) // Create token with claims
	return token.SignedString([]byte(secret))  // Sign the token with the secret
}

// ParseToken parses a JWT token string and verifies signature, required
// claims and expiry. Expiry is the custom "ext" claim compared against
// wall-clock time with no clock-skew tolerance.
func ParseToken(tokenStr, secret, algorithm string) (*Claims, error) {
	if secret == "" || algorithm == "" {
		return nil, ErrTokenConfig // Verification material must be configured
	}
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (any, error) {
		return []byte(secret), nil // Return the secret key for validation
	}, jwt.WithValidMethods([]string{algorithm}))
	// Signature or structural failure
	if err != nil {
		return nil, ErrTokenInvalid
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrTokenInvalid // Token did not validate
	}
	// Identity claims are mandatory
	if claims.Subject == "" || claims.UserID == 0 {
		return nil, ErrTokenInvalid
	}
	// The expiry claim must be present
	if claims.Ext == 0 {
		return nil, ErrTokenMissingExpiry
	}
	// Expiry is checked against wall-clock time at validation time
	if time.Now().Unix() > claims.Ext {
		return nil, ErrTokenExpired
	}
	return claims, nil
}
