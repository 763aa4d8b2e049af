package domain

// Category Model
type Category struct {
	ID       uint      `gorm:"primaryKey"`         // Primary key
	Name     string    `gorm:"not null"`           // Display name
	Slug     string    `gorm:"uniqueIndex;not null"` // Unique slug derived from the name
	ParentID *uint     // Optional parent category (one level of nesting is honoured by listings)
	Parent   *Category `gorm:"foreignKey:ParentID"` // Self-referential parent
	IsActive bool      `gorm:"default:true"`       // Soft-delete flag
}
