package service

import (
	"ecommerce_api/internal/authz"  // Authorization policy
	"ecommerce_api/internal/domain" // Domain models
	"ecommerce_api/internal/utils"  // Token claims
	"errors"                        // Error matching
	"fmt"                           // Error wrapping

	"github.com/gosimple/slug" // Unicode-normalized slug derivation
	"gorm.io/gorm"             // GORM ORM library
)

// CreateCategory creates an active category with a slug derived from the
// name. A duplicate slug surfaces as ErrConflict.
func CreateCategory(db *gorm.DB, name string, parentID *uint) (*domain.Category, error) {
	category := domain.Category{
		Name:     name,
		Slug:     slug.Make(name), // Lossy, lowercase, hyphenated, unicode-normalized
		ParentID: parentID,
		IsActive: true,
	}
	if err := db.Create(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: category slug %q", ErrConflict, category.Slug)
		}
		return nil, fmt.Errorf("%w: create category: %v", ErrInternal, err)
	}
	return &category, nil
}

// ListCategories returns all active categories.
func ListCategories(db *gorm.DB) ([]domain.Category, error) {
	var categories []domain.Category
	if err := db.Where("is_active = ?", true).Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("%w: list categories: %v", ErrInternal, err)
	}
	return categories, nil
}

// UpdateCategory renames a category, re-deriving its slug, and reparents
// it. Unknown id surfaces as ErrNotFound, a slug collision as ErrConflict.
func UpdateCategory(db *gorm.DB, id uint, name string, parentID *uint) (*domain.Category, error) {
	var category domain.Category
	if err := db.First(&category, id).Error; err != nil {
		return nil, fmt.Errorf("%w: category %d", ErrNotFound, id)
	}
	updates := map[string]any{
		"name":      name,
		"slug":      slug.Make(name), // Slug always follows the name
		"parent_id": parentID,
	}
	if err := db.Model(&category).Updates(updates).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: category slug %q", ErrConflict, slug.Make(name))
		}
		return nil, fmt.Errorf("%w: update category %d: %v", ErrInternal, id, err)
	}
	return &category, nil
}

// DeactivateCategory soft-deletes a category. Deactivating an already
// inactive category is a no-op success; an unknown id is ErrNotFound.
func DeactivateCategory(db *gorm.DB, id uint) error {
	var category domain.Category
	if err := db.First(&category, id).Error; err != nil {
		return fmt.Errorf("%w: category %d", ErrNotFound, id)
	}
	// Idempotent: nothing to do when already inactive
	if !category.IsActive {
		return nil
	}
	if err := db.Model(&category).Update("is_active", false).Error; err != nil {
		return fmt.Errorf("%w: deactivate category %d: %v", ErrInternal, id, err)
	}
	return nil
}

// CreateProductInput carries the product fields accepted on create and
// update.
type CreateProductInput struct {
	Name        string  // Display name, slug source
	Description string  // Free-form description
	Price       float64 // Unit price
	ImageURL    string  // Image reference
	Stock       int     // Units in stock
	CategoryID  uint    // Target category
	SupplierID  *uint   // Owning supplier; only honoured for admin callers
}

// CreateProduct creates a product with a derived slug and a fixed initial
// rating of 0.0. A supplier actor always becomes the owner; an admin may
// name a supplier or leave the product unowned.
func CreateProduct(db *gorm.DB, in CreateProductInput, claims *utils.Claims) (*domain.Product, error) {
	if d := authz.Authorize(authz.ActionProductCreate, claims, nil); !d.Allowed {
		return nil, fmt.Errorf("%w: %s", ErrDenied, d.Reason)
	}
	supplierID := in.SupplierID // Admins may assign ownership explicitly
	if claims.IsSupplier {
		supplierID = &claims.UserID // Suppliers always own what they create
	}
	product := domain.Product{
		Name:        in.Name,
		Slug:        slug.Make(in.Name),
		Description: in.Description,
		Price:       in.Price,
		ImageURL:    in.ImageURL,
		Stock:       in.Stock,
		CategoryID:  in.CategoryID,
		SupplierID:  supplierID,
		Rating:      0.0, // Ratings start from zero until reviews arrive
		IsActive:    true,
	}
	if err := db.Create(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: product slug %q", ErrConflict, product.Slug)
		}
		return nil, fmt.Errorf("%w: create product: %v", ErrInternal, err)
	}
	return &product, nil
}

// visibleProducts scopes a query to the visibility invariant: active rows
// with stock on hand.
func visibleProducts(db *gorm.DB) *gorm.DB {
	return db.Where("is_active = ? AND stock > ?", true, 0)
}

// ListProducts returns all visible products.
func ListProducts(db *gorm.DB) ([]domain.Product, error) {
	var products []domain.Product
	if err := visibleProducts(db).Find(&products).Error; err != nil {
		return nil, fmt.Errorf("%w: list products: %v", ErrInternal, err)
	}
	return products, nil
}

// ListProductsByCategory returns visible products in the active category
// with the given slug and in its direct active children (one level only).
func ListProductsByCategory(db *gorm.DB, categorySlug string) ([]domain.Product, error) {
	var category domain.Category
	if err := db.Where("slug = ? AND is_active = ?", categorySlug, true).First(&category).Error; err != nil {
		return nil, fmt.Errorf("%w: category %q", ErrNotFound, categorySlug)
	}
	// Collect the category itself plus its direct children
	var children []domain.Category
	if err := db.Where("parent_id = ? AND is_active = ?", category.ID, true).Find(&children).Error; err != nil {
		return nil, fmt.Errorf("%w: list subcategories of %q: %v", ErrInternal, categorySlug, err)
	}
	ids := []uint{category.ID}
	for _, child := range children {
		ids = append(ids, child.ID)
	}
	var products []domain.Product
	if err := visibleProducts(db).Where("category_id IN ?", ids).Find(&products).Error; err != nil {
		return nil, fmt.Errorf("%w: list products of %q: %v", ErrInternal, categorySlug, err)
	}
	return products, nil
}

// GetProduct fetches a visible product by slug.
func GetProduct(db *gorm.DB, productSlug string) (*domain.Product, error) {
	var product domain.Product
	if err := visibleProducts(db).Where("slug = ?", productSlug).First(&product).Error; err != nil {
		return nil, fmt.Errorf("%w: product %q", ErrNotFound, productSlug)
	}
	return &product, nil
}

// UpdateProduct mutates a visible product in place. The slug is the
// product's identity and is never re-derived on update. Only an admin or
// the owning supplier may update.
func UpdateProduct(db *gorm.DB, productSlug string, in CreateProductInput, claims *utils.Claims) (*domain.Product, error) {
	product, err := GetProduct(db, productSlug)
	if err != nil {
		return nil, err
	}
	if d := authz.Authorize(authz.ActionProductMutate, claims, product.SupplierID); !d.Allowed {
		return nil, fmt.Errorf("%w: %s", ErrDenied, d.Reason)
	}
	updates := map[string]any{
		"name":        in.Name,
		"description": in.Description,
		"price":       in.Price,
		"image_url":   in.ImageURL,
		"stock":       in.Stock,
		"category_id": in.CategoryID,
	}
	if err := db.Model(product).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("%w: update product %q: %v", ErrInternal, productSlug, err)
	}
	return product, nil
}

// DeactivateProduct soft-deletes a product. Re-deactivating an inactive
// row is a no-op success; an active but out-of-stock row fails the
// visibility requirement and is reported as not found. Only an admin or
// the owning supplier may deactivate.
func DeactivateProduct(db *gorm.DB, id uint, claims *utils.Claims) error {
	var product domain.Product
	if err := db.First(&product, id).Error; err != nil {
		return fmt.Errorf("%w: product %d", ErrNotFound, id)
	}
	// Idempotent: already inactive means nothing to do
	if !product.IsActive {
		return nil
	}
	// Mutation requires the visibility invariant on the target row
	if product.Stock <= 0 {
		return fmt.Errorf("%w: product %d", ErrNotFound, id)
	}
	if d := authz.Authorize(authz.ActionProductMutate, claims, product.SupplierID); !d.Allowed {
		return fmt.Errorf("%w: %s", ErrDenied, d.Reason)
	}
	if err := db.Model(&product).Update("is_active", false).Error; err != nil {
		return fmt.Errorf("%w: deactivate product %d: %v", ErrInternal, id, err)
	}
	return nil
}

// DeactivateProductBySlug resolves a product by slug regardless of state
// and soft-deletes it via DeactivateProduct.
func DeactivateProductBySlug(db *gorm.DB, productSlug string, claims *utils.Claims) error {
	var product domain.Product
	if err := db.Where("slug = ?", productSlug).First(&product).Error; err != nil {
		return fmt.Errorf("%w: product %q", ErrNotFound, productSlug)
	}
	return DeactivateProduct(db, product.ID, claims)
}
