package domain

// Product Model
type Product struct {
	ID          uint    `gorm:"primaryKey"`           // Primary key
	Name        string  `gorm:"not null"`             // Display name
	Slug        string  `gorm:"uniqueIndex;not null"` // Unique slug derived from the name
	Description string  // Free-form description
	Price       float64 `gorm:"not null"`             // Unit price
	ImageURL    string  // Image reference
	Stock       int     `gorm:"not null;default:0"`   // Units in stock; a product with zero stock is not visible
	CategoryID  uint    `gorm:"not null"`             // Foreign key to Category
	SupplierID  *uint   // Optional foreign key to the owning supplier User
	Rating      float64 `gorm:"not null;default:0"`   // Derived mean of active rating grades, one decimal place
	IsActive    bool    `gorm:"default:true"`         // Soft-delete flag
}

// Visible reports whether the product shows up in listings: it must be
// active and have stock on hand.
func (p *Product) Visible() bool {
	return p.IsActive && p.Stock > 0
}
