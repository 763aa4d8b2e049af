package service

import (
	"database/sql"                  // Nullable aggregate scan
	"ecommerce_api/internal/authz"  // Authorization policy
	"ecommerce_api/internal/domain" // Domain models
	"ecommerce_api/internal/utils"  // Token claims
	"fmt"                           // Error wrapping
	"math"                          // Rating rounding
	"unicode/utf8"                  // Character-based length checks

	"github.com/sirupsen/logrus" // Logging library
	"gorm.io/gorm"               // GORM ORM library
)

// Review input bounds
const (
	MinGrade         = 1   // Lowest rating grade
	MaxGrade         = 5   // Highest rating grade
	MinCommentLength = 10  // Shortest accepted comment
	MaxCommentLength = 999 // Longest accepted comment
)

// roundRating rounds a mean grade to one decimal place.
func roundRating(mean float64) float64 {
	return math.Round(mean*10) / 10
}

// recomputeProductRating sets the product's derived rating to the rounded
// mean of all active rating grades, 0.0 when none exist. Runs inside the
// caller's transaction.
func recomputeProductRating(tx *gorm.DB, productID uint) error {
	var mean sql.NullFloat64 // NULL when the product has no active ratings
	err := tx.Model(&domain.Rating{}).
		Where("product_id = ? AND is_active = ?", productID, true).
		Select("AVG(grade)").
		Scan(&mean).Error
	if err != nil {
		return err
	}
	rating := 0.0 // Default when no ratings exist
	if mean.Valid {
		rating = roundRating(mean.Float64)
	}
	return tx.Model(&domain.Product{}).
		Where("id = ?", productID).
		Update("rating", rating).Error
}

// AddReview persists a rating and a review referencing it for the visible
// product with the given slug, then recomputes the product's derived
// rating. The three writes are one transaction; any failure rolls all of
// them back. Only customers may review, and a user may review a product
// at most once.
func AddReview(db *gorm.DB, productSlug string, claims *utils.Claims, grade int, comment string) (*domain.Review, error) {
	if d := authz.Authorize(authz.ActionReviewCreate, claims, nil); !d.Allowed {
		return nil, fmt.Errorf("%w: %s", ErrDenied, d.Reason)
	}
	// Range checks mirror the HTTP binding rules so the service is safe on
	// its own; length counts characters, not bytes
	if grade < MinGrade || grade > MaxGrade {
		return nil, fmt.Errorf("%w: grade must be between %d and %d", ErrValidation, MinGrade, MaxGrade)
	}
	if n := utf8.RuneCountInString(comment); n < MinCommentLength || n > MaxCommentLength {
		return nil, fmt.Errorf("%w: comment must be %d-%d characters", ErrValidation, MinCommentLength, MaxCommentLength)
	}
	product, err := GetProduct(db, productSlug)
	if err != nil {
		return nil, err
	}
	// One review per user per product
	var prior int64
	err = db.Model(&domain.Rating{}).
		Where("user_id = ? AND product_id = ? AND is_active = ?", claims.UserID, product.ID, true).
		Count(&prior).Error
	if err != nil {
		return nil, fmt.Errorf("%w: check prior rating: %v", ErrInternal, err)
	}
	if prior > 0 {
		return nil, fmt.Errorf("%w: product %q already reviewed by user %d", ErrConflict, productSlug, claims.UserID)
	}
	var review domain.Review
	// Rating insert, review insert and rating recomputation are one atomic
	// unit
	err = db.Transaction(func(tx *gorm.DB) error {
		rating := domain.Rating{
			Grade:     grade,
			UserID:    claims.UserID,
			ProductID: product.ID,
			IsActive:  true,
		}
		if err := tx.Create(&rating).Error; err != nil {
			return err // Return error to rollback
		}
		review = domain.Review{
			UserID:    claims.UserID,
			ProductID: product.ID,
			RatingID:  rating.ID,
			Comment:   comment,
			IsActive:  true,
		}
		if err := tx.Create(&review).Error; err != nil {
			return err // Return error to rollback
		}
		return recomputeProductRating(tx, product.ID)
	})
	// Handle transaction result
	if err != nil {
		// Log the failure with context, surface a generic error
		logrus.WithFields(logrus.Fields{
			"product_slug": productSlug,
			"user_id":      claims.UserID,
			"grade":        grade,
			"error":        err.Error(),
		}).Error("Review submission failed")
		return nil, fmt.Errorf("%w: add review", ErrInternal)
	}
	return &review, nil
}

// ListReviews returns the active reviews of the visible product with the
// given slug.
func ListReviews(db *gorm.DB, productSlug string) ([]domain.Review, error) {
	product, err := GetProduct(db, productSlug)
	if err != nil {
		return nil, err
	}
	var reviews []domain.Review
	err = db.Preload("Rating").
		Where("product_id = ? AND is_active = ?", product.ID, true).
		Find(&reviews).Error
	if err != nil {
		return nil, fmt.Errorf("%w: list reviews of %q: %v", ErrInternal, productSlug, err)
	}
	return reviews, nil
}

// ListAllReviews returns every active review.
func ListAllReviews(db *gorm.DB) ([]domain.Review, error) {
	var reviews []domain.Review
	if err := db.Preload("Rating").Where("is_active = ?", true).Find(&reviews).Error; err != nil {
		return nil, fmt.Errorf("%w: list reviews: %v", ErrInternal, err)
	}
	return reviews, nil
}

// DeleteReview soft-deletes a review together with its rating and
// recomputes the product's derived rating, all in one transaction.
// Admin only; re-deleting an inactive review is a no-op success.
// Returns the slug of the affected product so callers can invalidate
// its cache entries.
func DeleteReview(db *gorm.DB, reviewID uint, claims *utils.Claims) (string, error) {
	if d := authz.Authorize(authz.ActionReviewDelete, claims, nil); !d.Allowed {
		return "", fmt.Errorf("%w: %s", ErrDenied, d.Reason)
	}
	var review domain.Review
	if err := db.First(&review, reviewID).Error; err != nil {
		return "", fmt.Errorf("%w: review %d", ErrNotFound, reviewID)
	}
	// The review row only carries the product id, the cache keys need the slug
	var product domain.Product
	if err := db.First(&product, review.ProductID).Error; err != nil {
		return "", fmt.Errorf("%w: product %d of review %d: %v", ErrInternal, review.ProductID, reviewID, err)
	}
	// Idempotent: already soft-deleted
	if !review.IsActive {
		return product.Slug, nil
	}
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&review).Update("is_active", false).Error; err != nil {
			return err // Return error to rollback
		}
		err := tx.Model(&domain.Rating{}).
			Where("id = ?", review.RatingID).
			Update("is_active", false).Error
		if err != nil {
			return err // Return error to rollback
		}
		return recomputeProductRating(tx, review.ProductID)
	})
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"review_id": reviewID,
			"error":     err.Error(),
		}).Error("Review deletion failed")
		return "", fmt.Errorf("%w: delete review", ErrInternal)
	}
	return product.Slug, nil
}
