package models

import (
	"time"

	"gorm.io/gorm"
)

// Customer roles.
const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

// Customer represents a storefront account.
type Customer struct {
	ID       string `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Name     string `json:"name" gorm:"type:varchar(100)" validate:"required,min=2,max=100"`
	Phone    string `json:"phone" gorm:"type:varchar(20)" validate:"required,e164"`
	Email    string `json:"email" gorm:"uniqueIndex;type:varchar(255)" validate:"required,email"`
	Password string `gorm:"type:varchar(255)" validate:"required,min=8"` // No json tag for security
	Role     string `json:"role" gorm:"type:varchar(20);default:customer" validate:"omitempty,oneof=customer admin"`
	Verified bool   `json:"verified" gorm:"default:false"`

	// One-time password challenge. Only the SHA-256 hash of the code is stored.
	OTPHash   string     `json:"-" gorm:"type:varchar(64)"`
	OTPExpiry *time.Time `json:"-"`

	// Password reset token, also stored hashed.
	ResetTokenHash   string     `json:"-" gorm:"type:varchar(64)"`
	ResetTokenExpiry *time.Time `json:"-"`

	// Login lockout bookkeeping.
	FailedLoginAttempts int        `json:"-" gorm:"default:0"`
	LockUntil           *time.Time `json:"-"`

	TermsAccepted bool `json:"terms_accepted" validate:"required,eq=true"`
	gorm.Model         // Embed gorm.Model for CreatedAt, UpdatedAt, DeletedAt
}

// Locked reports whether the account is currently locked out of login.
func (c *Customer) Locked(now time.Time) bool {
	return c.LockUntil != nil && now.Before(*c.LockUntil)
}
