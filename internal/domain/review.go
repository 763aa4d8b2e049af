package domain

import "time"

// Review Model
type Review struct {
	ID          uint      `gorm:"primaryKey"`          // Primary key
	UserID      uint      `gorm:"not null"`            // Foreign key to the authoring User
	ProductID   uint      `gorm:"not null"`            // Foreign key to the reviewed Product
	RatingID    uint      `gorm:"not null"`            // Foreign key to the Rating created alongside
	Rating      *Rating   `gorm:"foreignKey:RatingID"` // The linked rating row
	Comment     string    `gorm:"not null"`            // Comment text, 10-999 characters
	CommentDate time.Time `gorm:"autoCreateTime"`      // Creation timestamp
	IsActive    bool      `gorm:"default:true"`        // Soft-delete flag
}
