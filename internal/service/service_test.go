package service

import (
	"ecommerce_api/internal/domain"
	"ecommerce_api/internal/utils"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens an in-memory sqlite database with the full schema.
// A single connection keeps the in-memory database alive for the test.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(
		&domain.User{},
		&domain.Category{},
		&domain.Product{},
		&domain.Rating{},
		&domain.Review{},
	))
	return db
}

// seedUser inserts a user with the given role and returns it.
func seedUser(t *testing.T, db *gorm.DB, username, role string) *domain.User {
	t.Helper()
	user := domain.User{
		Username:       username,
		Email:          username + "@example.com",
		HashedPassword: "x",
		IsActive:       true,
		Role:           role,
	}
	require.NoError(t, db.Create(&user).Error)
	return &user
}

// claimsFor builds token claims matching a user, the way issuance would.
func claimsFor(user *domain.User) *utils.Claims {
	return &utils.Claims{
		UserID:     user.ID,
		IsAdmin:    user.IsAdmin(),
		IsSupplier: user.IsSupplier(),
		IsCustomer: user.IsCustomer(),
	}
}

// seedProduct inserts a category and a visible product owned by supplierID.
func seedProduct(t *testing.T, db *gorm.DB, name string, supplierID *uint) *domain.Product {
	t.Helper()
	category := domain.Category{Name: "Seed " + name, Slug: "seed-" + name, IsActive: true}
	require.NoError(t, db.Create(&category).Error)
	product := domain.Product{
		Name:       name,
		Slug:       name,
		Price:      9.99,
		Stock:      5,
		CategoryID: category.ID,
		SupplierID: supplierID,
		IsActive:   true,
	}
	require.NoError(t, db.Create(&product).Error)
	return &product
}
