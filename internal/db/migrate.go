package db

import (
	"ecommerce_api/internal/domain" // Domain models

	"github.com/sirupsen/logrus" // Logging library

	"gorm.io/driver/mysql" // MySQL driver for GORM
	"gorm.io/gorm"         // GORM ORM library
)

// Migrate performs automatic migration for the database schema
func Migrate(dsn string) {
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{}) // Open a connection to the database
	if err != nil {
		logrus.Fatalf("failed to connect database: %v", err) // Log fatal error if connection fails
	}
	// AutoMigrate will create tables, missing foreign keys, constraints, columns and indexes
	err = db.AutoMigrate(
		&domain.User{},
		&domain.Category{},
		&domain.Product{},
		&domain.Rating{},
		&domain.Review{},
	)
	if err != nil {
		logrus.Fatalf("migration failed: %v", err) // Log fatal error if migration fails
	}
	logrus.Info("Migration completed.") // Log successful migration
}
