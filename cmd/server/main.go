package main

import (
	"context"                           // context package is needed for Redis operations
	"ecommerce_api/internal/api"        // Custom package for API handlers
	"ecommerce_api/internal/config"     // Custom package for configuration
	"ecommerce_api/internal/middleware" // Custom package for middleware
	"log"                               // log package is needed for logging

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logrus for structured logging
	"gorm.io/driver/mysql"         // MySQL driver for GORM
	"gorm.io/gorm"                 // GORM ORM library
)

// Main function to set up and run the server
func main() {
	cfg := config.LoadConfig() // Load configuration

	// Setup logger
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	// Setup Data Source Name (DSN) and connect to the database
	dsn := cfg.DBUser + ":" + cfg.DBPassword + "@tcp(" + cfg.DBHost + ":" + cfg.DBPort + ")/" + cfg.DBName + "?parseTime=true"
	// TranslateError maps duplicate-key violations to gorm.ErrDuplicatedKey
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		logrus.Fatalf("failed to connect to DB: %v", err) // Fatal error if DB connection fails
	}

	// Setup Redis client
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr, // Redis server address
		Password: cfg.RedisPass, // Redis password
		DB:       cfg.RedisDB,   // Redis database number
	})

	// Test Redis connection
	_, err = redisClient.Ping(context.Background()).Result()
	if err != nil {
		logrus.Fatalf("failed to connect to Redis: %v", err)
	}

	// Set Mode to Release if in production
	if cfg.IsProd {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup Gin
	r := gin.Default() // Gin router instance

	// Set trusted proxies for Gin
	if err := r.SetTrustedProxies([]string{"127.0.0.1"}); err != nil {
		logrus.Fatalf("failed to set trusted proxies: %v", err)
	}

	// Bearer token middleware shared by the protected routes
	authRequired := middleware.JWTAuthMiddleware(cfg.JWTSecret, cfg.JWTAlgorithm)

	// Auth routes
	auth := r.Group("/auth")
	auth.POST("/", api.RegisterHandler(db))           // Registration endpoint
	auth.POST("/token", api.TokenHandler(db, cfg))    // Credential exchange endpoint
	auth.GET("/read_current_user", authRequired, api.ReadCurrentUserHandler()) // Decoded claims endpoint
	auth.DELETE("/delete", authRequired, api.DeleteUserHandler(db))            // Admin toggle of a user's active flag

	// Category routes
	category := r.Group("/category")
	category.GET("/all_categories", api.AllCategoriesHandler(db, redisClient))                  // Active category listing
	category.POST("/create", authRequired, api.CreateCategoryHandler(db, redisClient))          // Admin-only create
	category.PUT("/update_category", authRequired, api.UpdateCategoryHandler(db, redisClient))  // Admin-only update
	category.DELETE("/delete", authRequired, api.DeleteCategoryHandler(db, redisClient))        // Admin-only soft delete

	// Product routes
	product := r.Group("/product")
	product.GET("/", api.ListProductsHandler(db, redisClient))                          // Visible product listing
	product.POST("/create", authRequired, api.CreateProductHandler(db, redisClient))    // Admin/supplier create
	product.GET("/category/:category_slug", api.ProductsByCategoryHandler(db))          // Listing by category and direct children
	product.GET("/detail/:product_slug", api.ProductDetailHandler(db, redisClient))     // Product detail
	product.PUT("/detail/:product_slug", authRequired, api.UpdateProductHandler(db, redisClient))    // Admin/owner update
	product.DELETE("/detail/:product_slug", authRequired, api.DeleteProductHandler(db, redisClient)) // Admin/owner soft delete
	product.GET("/detail/:product_slug/reviews", api.ProductReviewsHandler(db))                      // Review listing
	product.POST("/detail/:product_slug/reviews", authRequired, api.AddReviewHandler(db, redisClient)) // Customer-only review submission

	// Review routes
	reviews := r.Group("/reviews")
	reviews.GET("/", api.AllReviewsHandler(db))                                   // All active reviews
	reviews.DELETE("/", authRequired, api.DeleteReviewHandler(db, redisClient))   // Admin-only soft delete

	// Permission routes
	r.PATCH("/permission/", authRequired, api.SwitchPermissionHandler(db)) // Admin-only supplier/customer switch

	log.Println("Server running on " + cfg.AppPort) // Log server start
	r.Run(":" + cfg.AppPort)                        // Start the server on port cfg.AppPort
}
