package api

import (
	"context"                           // Context for Redis operations
	"ecommerce_api/internal/authz"      // Authorization policy
	"ecommerce_api/internal/domain"     // Domain models
	"ecommerce_api/internal/middleware" // Claims extraction
	"ecommerce_api/internal/service"    // Catalog operations
	"ecommerce_api/internal/utils"      // Cache helpers
	"net/http"                          // HTTP status codes
	"strconv"                           // String conversion
	"time"                              // Cache TTL

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logging library
	"gorm.io/gorm"                 // GORM ORM library
)

// listCacheTTL bounds staleness of cached catalog listings
const listCacheTTL = 60 * time.Second

// CategoryRequest is the create/update payload for categories
type CategoryRequest struct {
	Name     string `json:"name" binding:"required"` // Name must be provided, slug is derived from it
	ParentID *uint  `json:"parent_id"`               // Optional parent category
}

// requireAdmin authorizes admin-gated endpoints and writes the denial
// response itself. Returns false when the request must not proceed.
func requireAdmin(c *gin.Context, action authz.Action) bool {
	claims, ok := middleware.ClaimsFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return false
	}
	if d := authz.Authorize(action, claims, nil); !d.Allowed {
		// Denials are logged with their reason and change no state
		logrus.WithFields(logrus.Fields{
			"user_id": claims.UserID,
			"action":  string(action),
			"reason":  d.Reason,
		}).Warn("Authorization denied")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "You must be admin user for this"})
		return false
	}
	return true
}

// AllCategoriesHandler lists all active categories
func AllCategoriesHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := context.Background() // Context for Redis operations
		// Serve from cache when possible
		var cached []domain.Category
		if found, err := utils.GetCache(ctx, rdb, utils.CategoryListKey, &cached); err == nil && found {
			c.JSON(http.StatusOK, cached)
			return
		}
		categories, err := service.ListCategories(db)
		if err != nil {
			respondError(c, err)
			return
		}
		// Cache failures never fail the request
		_ = utils.SetCache(ctx, rdb, utils.CategoryListKey, categories, listCacheTTL)
		c.JSON(http.StatusOK, categories)
	}
}

// CreateCategoryHandler creates a category, admin only
func CreateCategoryHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !requireAdmin(c, authz.ActionCategoryManage) {
			return
		}
		var req CategoryRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Invalid request"})
			return
		}
		category, err := service.CreateCategory(db, req.Name, req.ParentID)
		if err != nil {
			respondError(c, err)
			return
		}
		// Invalidate the cached listing
		_ = utils.DeleteCache(context.Background(), rdb, utils.CategoryListKey)
		logrus.WithFields(logrus.Fields{
			"category_id": category.ID,
			"slug":        category.Slug,
		}).Info("Category created")
		c.JSON(http.StatusCreated, gin.H{"transaction": "Successful"})
	}
}

// UpdateCategoryHandler renames or reparents a category, admin only
func UpdateCategoryHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !requireAdmin(c, authz.ActionCategoryManage) {
			return
		}
		categoryID, err := strconv.Atoi(c.Query("category_id"))
		if err != nil || categoryID <= 0 {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Invalid category_id"})
			return
		}
		var req CategoryRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Invalid request"})
			return
		}
		if _, err := service.UpdateCategory(db, uint(categoryID), req.Name, req.ParentID); err != nil {
			respondError(c, err)
			return
		}
		_ = utils.DeleteCache(context.Background(), rdb, utils.CategoryListKey)
		c.JSON(http.StatusOK, gin.H{"transaction": "Category update is successful"})
	}
}

// DeleteCategoryHandler soft-deletes a category, admin only
func DeleteCategoryHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !requireAdmin(c, authz.ActionCategoryManage) {
			return
		}
		categoryID, err := strconv.Atoi(c.Query("category_id"))
		if err != nil || categoryID <= 0 {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Invalid category_id"})
			return
		}
		if err := service.DeactivateCategory(db, uint(categoryID)); err != nil {
			respondError(c, err)
			return
		}
		// Category listings and product listings both depend on category state
		_ = utils.DeleteCache(context.Background(), rdb, utils.CategoryListKey, utils.ProductListKey)
		c.JSON(http.StatusOK, gin.H{"transaction": "Category delete is successful"})
	}
}
