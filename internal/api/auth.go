package api

import (
	"ecommerce_api/internal/authz"      // Authorization policy
	"ecommerce_api/internal/config"     // Application configuration
	"ecommerce_api/internal/middleware" // Claims extraction
	"ecommerce_api/internal/service"    // User operations
	"ecommerce_api/internal/utils"      // JWT utility functions
	"net/http"                          // HTTP status codes
	"strconv"                           // String conversion
	"time"                              // Token TTL

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
	"gorm.io/gorm"               // GORM ORM library
)

// RegisterRequest is the registration payload
type RegisterRequest struct {
	FirstName string `json:"first_name"`                        // Optional first name
	LastName  string `json:"last_name"`                         // Optional last name
	Username  string `json:"username" binding:"required"`       // Username must be provided
	Email     string `json:"email" binding:"required,email"`    // Valid email must be provided
	Password  string `json:"password" binding:"required,min=8"` // Password must be provided
}

// TokenRequest is the credential exchange payload, accepted as form data
type TokenRequest struct {
	Username string `form:"username" json:"username" binding:"required"` // Username must be provided
	Password string `form:"password" json:"password" binding:"required"` // Password must be provided
}

// TokenResponse carries the issued bearer token
type TokenResponse struct {
	AccessToken string `json:"access_token"` // Signed JWT
	TokenType   string `json:"token_type"`   // Always "bearer"
}

// RegisterHandler creates a new customer account
func RegisterHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RegisterRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			// Malformed or incomplete payloads are a validation failure
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Invalid request"})
			return
		}
		user, err := service.RegisterUser(db, req.FirstName, req.LastName, req.Username, req.Email, req.Password)
		if err != nil {
			respondError(c, err)
			return
		}
		logrus.WithFields(logrus.Fields{
			"user_id":  user.ID,
			"username": user.Username,
		}).Info("User registered")
		c.JSON(http.StatusCreated, gin.H{"message": "User registered successfully"})
	}
}

// TokenHandler exchanges username/password for a signed bearer token
func TokenHandler(db *gorm.DB, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req TokenRequest // Bind form request to struct
		if err := c.ShouldBind(&req); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Invalid request"})
			return
		}
		user, err := service.AuthenticateUser(db, req.Username, req.Password)
		if err != nil {
			respondError(c, err)
			return
		}
		// Generate a token carrying identity and a role snapshot
		ttl := time.Duration(cfg.TokenTTLMin) * time.Minute
		token, err := utils.GenerateToken(user, cfg.JWTSecret, cfg.JWTAlgorithm, ttl)
		if err != nil {
			// Misconfiguration or signing failure
			logrus.WithField("error", err.Error()).Error("Token generation failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
			return
		}
		c.JSON(http.StatusOK, TokenResponse{AccessToken: token, TokenType: "bearer"})
	}
}

// ReadCurrentUserHandler returns the decoded claims of the calling token
func ReadCurrentUserHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := middleware.ClaimsFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"user": gin.H{
				"username":    claims.Username(),
				"id":          claims.UserID,
				"is_admin":    claims.IsAdmin,
				"is_supplier": claims.IsSupplier,
				"is_customer": claims.IsCustomer,
			},
		})
	}
}

// DeleteUserHandler toggles a user's active flag: deactivates active
// accounts, reactivates inactive ones. Admin only; admin accounts are
// never deactivated.
func DeleteUserHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := middleware.ClaimsFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		// Only admins manage accounts
		if d := authz.Authorize(authz.ActionUserManage, claims, nil); !d.Allowed {
			logrus.WithFields(logrus.Fields{
				"user_id": claims.UserID,
				"reason":  d.Reason,
			}).Warn("User management denied")
			c.JSON(http.StatusUnauthorized, gin.H{"error": "You don't have admin permission"})
			return
		}
		userID, err := strconv.Atoi(c.Query("user_id"))
		if err != nil || userID <= 0 {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Invalid user_id"})
			return
		}
		active, err := service.ToggleUserActive(db, uint(userID))
		if err != nil {
			respondError(c, err)
			return
		}
		// Both directions of the toggle are successes
		detail := "User is deleted"
		if active {
			detail = "User is activated"
		}
		c.JSON(http.StatusOK, gin.H{"detail": detail})
	}
}
