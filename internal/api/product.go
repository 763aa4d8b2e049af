package api

import (
	"context"                           // Context for Redis operations
	"ecommerce_api/internal/domain"     // Domain models
	"ecommerce_api/internal/middleware" // Claims extraction
	"ecommerce_api/internal/service"    // Catalog operations
	"ecommerce_api/internal/utils"      // Cache helpers
	"net/http"                          // HTTP status codes

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logging library
	"gorm.io/gorm"                 // GORM ORM library
)

// ProductRequest is the create/update payload for products
type ProductRequest struct {
	Name        string  `json:"name" binding:"required"`                     // Name must be provided, slug is derived from it
	Description string  `json:"description"`                                 // Free-form description
	Price       float64 `json:"price" binding:"required,gt=0"`               // Unit price must be positive
	ImageURL    string  `json:"image_url"`                                   // Image reference
	Stock       int     `json:"stock" binding:"gte=0,lte=1000"`              // Stock must be within [0,1000]
	CategoryID  uint    `json:"category" binding:"required"`                 // Target category
	SupplierID  *uint   `json:"supplier_id"`                                 // Optional owner, honoured for admins only
}

// ListProductsHandler lists all visible products
func ListProductsHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := context.Background() // Context for Redis operations
		// Serve from cache when possible
		var cached []domain.Product
		if found, err := utils.GetCache(ctx, rdb, utils.ProductListKey, &cached); err == nil && found {
			c.JSON(http.StatusOK, cached)
			return
		}
		products, err := service.ListProducts(db)
		if err != nil {
			respondError(c, err)
			return
		}
		// Cache failures never fail the request
		_ = utils.SetCache(ctx, rdb, utils.ProductListKey, products, listCacheTTL)
		c.JSON(http.StatusOK, products)
	}
}

// CreateProductHandler creates a product, admin or supplier only
func CreateProductHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := middleware.ClaimsFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		var req ProductRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Invalid request"})
			return
		}
		product, err := service.CreateProduct(db, service.CreateProductInput{
			Name:        req.Name,
			Description: req.Description,
			Price:       req.Price,
			ImageURL:    req.ImageURL,
			Stock:       req.Stock,
			CategoryID:  req.CategoryID,
			SupplierID:  req.SupplierID,
		}, claims)
		if err != nil {
			respondError(c, err)
			return
		}
		_ = utils.DeleteCache(context.Background(), rdb, utils.ProductListKey)
		logrus.WithFields(logrus.Fields{
			"product_id": product.ID,
			"slug":       product.Slug,
			"user_id":    claims.UserID,
		}).Info("Product created")
		c.JSON(http.StatusCreated, gin.H{"transaction": "Successful"})
	}
}

// ProductsByCategoryHandler lists visible products in a category and its
// direct subcategories
func ProductsByCategoryHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		products, err := service.ListProductsByCategory(db, c.Param("category_slug"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, products)
	}
}

// ProductDetailHandler fetches a visible product by slug
func ProductDetailHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		slug := c.Param("product_slug")
		ctx := context.Background() // Context for Redis operations
		var cached domain.Product
		if found, err := utils.GetCache(ctx, rdb, utils.ProductDetailKey(slug), &cached); err == nil && found {
			c.JSON(http.StatusOK, cached)
			return
		}
		product, err := service.GetProduct(db, slug)
		if err != nil {
			respondError(c, err)
			return
		}
		_ = utils.SetCache(ctx, rdb, utils.ProductDetailKey(slug), product, listCacheTTL)
		c.JSON(http.StatusOK, product)
	}
}

// UpdateProductHandler mutates a product, admin or owning supplier only
func UpdateProductHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := middleware.ClaimsFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		slug := c.Param("product_slug")
		var req ProductRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Invalid request"})
			return
		}
		_, err := service.UpdateProduct(db, slug, service.CreateProductInput{
			Name:        req.Name,
			Description: req.Description,
			Price:       req.Price,
			ImageURL:    req.ImageURL,
			Stock:       req.Stock,
			CategoryID:  req.CategoryID,
		}, claims)
		if err != nil {
			respondError(c, err)
			return
		}
		_ = utils.DeleteCache(context.Background(), rdb, utils.ProductListKey, utils.ProductDetailKey(slug))
		c.JSON(http.StatusOK, gin.H{"transaction": "Product update is successful"})
	}
}

// DeleteProductHandler soft-deletes a product by slug, admin or owning
// supplier only
func DeleteProductHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := middleware.ClaimsFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		slug := c.Param("product_slug")
		if err := service.DeactivateProductBySlug(db, slug, claims); err != nil {
			respondError(c, err)
			return
		}
		_ = utils.DeleteCache(context.Background(), rdb, utils.ProductListKey, utils.ProductDetailKey(slug))
		c.JSON(http.StatusOK, gin.H{"transaction": "Product delete is successful"})
	}
}
