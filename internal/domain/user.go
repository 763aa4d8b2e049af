package domain

// User roles. A user holds exactly one role at a time; the permission
// endpoint may switch supplier and customer back and forth, admin is
// never a transition source or target.
const (
	RoleAdmin    = "admin"    // Full access, manages users and the catalog
	RoleSupplier = "supplier" // Owns products, may create and mutate them
	RoleCustomer = "customer" // May submit reviews
)

// User Model
type User struct {
	ID             uint   `gorm:"primaryKey"`       // Primary key
	FirstName      string // Optional first name
	LastName       string // Optional last name
	Username       string `gorm:"unique;not null"`  // Unique username
	Email          string `gorm:"unique;not null"`  // Unique email
	HashedPassword string `gorm:"not null"`         // Bcrypt hash
	IsActive       bool   `gorm:"default:true"`     // Soft-delete flag
	Role           string `gorm:"default:customer"` // Role: admin, supplier or customer
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool { return u.Role == RoleAdmin }

// IsSupplier reports whether the user holds the supplier role.
func (u *User) IsSupplier() bool { return u.Role == RoleSupplier }

// IsCustomer reports whether the user holds the customer role.
func (u *User) IsCustomer() bool { return u.Role == RoleCustomer }
