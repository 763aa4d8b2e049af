package api

import (
	"context"                           // Context for Redis operations
	"ecommerce_api/internal/middleware" // Claims extraction
	"ecommerce_api/internal/service"    // Review operations
	"ecommerce_api/internal/utils"      // Cache helpers
	"net/http"                          // HTTP status codes
	"strconv"                           // String conversion

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logging library
	"gorm.io/gorm"                 // GORM ORM library
)

// ReviewRequest is the review submission payload
type ReviewRequest struct {
	Grade   int    `json:"grade" binding:"required,gte=1,lte=5"`        // Grade must be within [1,5]
	Comment string `json:"comment" binding:"required,min=10,max=999"`   // Comment must be 10-999 characters
}

// ProductReviewsHandler lists active reviews of a visible product
func ProductReviewsHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		reviews, err := service.ListReviews(db, c.Param("product_slug"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, reviews)
	}
}

// AddReviewHandler submits a review with its rating, customer only
func AddReviewHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := middleware.ClaimsFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		var req ReviewRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Invalid request"})
			return
		}
		slug := c.Param("product_slug")
		review, err := service.AddReview(db, slug, claims, req.Grade, req.Comment)
		if err != nil {
			respondError(c, err)
			return
		}
		// The product's derived rating changed, drop affected cache entries
		_ = utils.DeleteCache(context.Background(), rdb, utils.ProductListKey, utils.ProductDetailKey(slug))
		logrus.WithFields(logrus.Fields{
			"review_id":    review.ID,
			"product_slug": slug,
			"user_id":      claims.UserID,
			"grade":        req.Grade,
		}).Info("Review submitted")
		c.JSON(http.StatusCreated, gin.H{"transaction": "Successful"})
	}
}

// AllReviewsHandler lists every active review
func AllReviewsHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		reviews, err := service.ListAllReviews(db)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, reviews)
	}
}

// DeleteReviewHandler soft-deletes a review and its rating, admin only
func DeleteReviewHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := middleware.ClaimsFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		reviewID, err := strconv.Atoi(c.Query("review_id"))
		if err != nil || reviewID <= 0 {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Invalid review_id"})
			return
		}
		productSlug, err := service.DeleteReview(db, uint(reviewID), claims)
		if err != nil {
			respondError(c, err)
			return
		}
		// The product's derived rating may have changed
		_ = utils.DeleteCache(context.Background(), rdb, utils.ProductListKey, utils.ProductDetailKey(productSlug))
		c.JSON(http.StatusOK, gin.H{"transaction": "Review delete is successful"})
	}
}
