package api

import (
	"ecommerce_api/internal/authz"   // Authorization policy
	"ecommerce_api/internal/domain"  // Domain models
	"ecommerce_api/internal/service" // User operations
	"net/http"                       // HTTP status codes
	"strconv"                        // String conversion

	"github.com/gin-gonic/gin" // Gin web framework
	"gorm.io/gorm"             // GORM ORM library
)

// SwitchPermissionHandler toggles a user between the supplier and
// customer roles, admin only
func SwitchPermissionHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !requireAdmin(c, authz.ActionUserManage) {
			return
		}
		userID, err := strconv.Atoi(c.Query("user_id"))
		if err != nil || userID <= 0 {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Invalid user_id"})
			return
		}
		role, err := service.SwitchUserRole(db, uint(userID))
		if err != nil {
			respondError(c, err)
			return
		}
		detail := "User is a supplier now, not a customer"
		if role == domain.RoleCustomer {
			detail = "User is a customer now, not a supplier"
		}
		c.JSON(http.StatusOK, gin.H{"detail": detail})
	}
}
