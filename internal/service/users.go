package service

import (
	"ecommerce_api/internal/domain" // Domain models
	"errors"                        // Error matching
	"fmt"                           // Error wrapping

	"golang.org/x/crypto/bcrypt" // Password hashing
	"gorm.io/gorm"               // GORM ORM library
)

// RegisterUser creates a new active customer account with a bcrypt-hashed
// password. Duplicate username or email surfaces as ErrConflict.
func RegisterUser(db *gorm.DB, firstName, lastName, username, email, password string) (*domain.User, error) {
	// Hash the password before it ever touches the store
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("%w: hash password: %v", ErrInternal, err)
	}
	// New accounts start as active customers
	user := domain.User{
		FirstName:      firstName,
		LastName:       lastName,
		Username:       username,
		Email:          email,
		HashedPassword: string(hash),
		IsActive:       true,
		Role:           domain.RoleCustomer,
	}
	if err := db.Create(&user).Error; err != nil {
		// Unique index on username/email
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: username or email taken", ErrConflict)
		}
		return nil, fmt.Errorf("%w: create user: %v", ErrInternal, err)
	}
	return &user, nil
}

// AuthenticateUser verifies username and password against the credential
// store. Unknown user, wrong password and inactive account are all the
// same ErrInvalidCredentials to the caller.
func AuthenticateUser(db *gorm.DB, username, password string) (*domain.User, error) {
	var user domain.User // Fetch user from database
	if err := db.Where("username = ?", username).First(&user).Error; err != nil {
		return nil, ErrInvalidCredentials
	}
	// Compare provided password with stored hash
	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	// Deactivated accounts cannot log in
	if !user.IsActive {
		return nil, ErrInvalidCredentials
	}
	return &user, nil
}

// ToggleUserActive flips a user's active flag: deactivates an active
// account, reactivates an inactive one. Admin accounts can never be
// toggled. Returns the new active state.
func ToggleUserActive(db *gorm.DB, userID uint) (bool, error) {
	var user domain.User
	if err := db.First(&user, userID).Error; err != nil {
		return false, fmt.Errorf("%w: user %d", ErrNotFound, userID)
	}
	// Admin accounts are protected from deactivation
	if user.IsAdmin() {
		return false, fmt.Errorf("%w: admin accounts cannot be deactivated", ErrDenied)
	}
	next := !user.IsActive // New state is the opposite of the current one
	if err := db.Model(&user).Update("is_active", next).Error; err != nil {
		return false, fmt.Errorf("%w: toggle user %d: %v", ErrInternal, userID, err)
	}
	return next, nil
}

// SwitchUserRole toggles a user between the supplier and customer roles.
// Admin accounts are not a valid source or target of the switch. Returns
// the new role.
func SwitchUserRole(db *gorm.DB, userID uint) (string, error) {
	var user domain.User
	if err := db.First(&user, userID).Error; err != nil {
		return "", fmt.Errorf("%w: user %d", ErrNotFound, userID)
	}
	// The supplier/customer switch never touches admins
	if user.IsAdmin() {
		return "", fmt.Errorf("%w: admin role cannot be switched", ErrValidation)
	}
	next := domain.RoleSupplier // Customer becomes supplier
	if user.IsSupplier() {
		next = domain.RoleCustomer // Supplier becomes customer
	}
	if err := db.Model(&user).Update("role", next).Error; err != nil {
		return "", fmt.Errorf("%w: switch role of user %d: %v", ErrInternal, userID, err)
	}
	return next, nil
}
