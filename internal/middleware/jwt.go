package middleware

import (
	"ecommerce_api/internal/utils" // JWT utility functions
	"errors"                       // Error matching
	"net/http"                     // HTTP status codes
	"strings"                      // String manipulation

	"github.com/gin-gonic/gin" // Gin web framework
)

// ClaimsKey is the gin context key the validated token claims are stored
// under.
const ClaimsKey = "claims"

// JWTAuthMiddleware validates bearer tokens and stores the decoded claims
// in the request context. Token failures map to distinct status codes:
// invalid signature or identity -> 401, missing expiry claim -> 400,
// expired -> 403.
func JWTAuthMiddleware(secret, algorithm string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization") // Get Authorization header
		// Check if the Authorization header is present and properly formatted
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing or invalid Authorization header"})
			return
		}
		tokenStr := strings.TrimPrefix(authHeader, "Bearer ") // Extract the token string
		claims, err := utils.ParseToken(tokenStr, secret, algorithm)
		if err != nil {
			switch {
			case errors.Is(err, utils.ErrTokenMissingExpiry):
				// A token without an expiry claim is a malformed request
				c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			case errors.Is(err, utils.ErrTokenExpired):
				// Expired tokens are forbidden, not merely unauthorized
				c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": err.Error()})
			default:
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Could not validate user"})
			}
			return
		}
		c.Set(ClaimsKey, claims) // Store claims in context
		c.Next()                 // Proceed to the next handler
	}
}

// ClaimsFromContext returns the token claims stored by JWTAuthMiddleware.
func ClaimsFromContext(c *gin.Context) (*utils.Claims, bool) {
	value, exists := c.Get(ClaimsKey)
	if !exists {
		return nil, false
	}
	claims, ok := value.(*utils.Claims)
	return claims, ok
}
