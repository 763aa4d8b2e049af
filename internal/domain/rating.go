package domain

// Rating Model
type Rating struct {
	ID        uint `gorm:"primaryKey"`    // Primary key
	Grade     int  `gorm:"not null"`      // Grade in [1,5]
	UserID    uint `gorm:"not null"`      // Foreign key to the grading User
	ProductID uint `gorm:"not null"`      // Foreign key to the graded Product
	IsActive  bool `gorm:"default:true"`  // Soft-delete flag; only active rows feed the product average
}
