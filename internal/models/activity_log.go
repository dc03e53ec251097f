package models

import "time"

// Audit actions recorded by the activity log.
const (
	ActionRegister      = "register"
	ActionLogin         = "login"
	ActionVerifyOTP     = "verify_otp"
	ActionLockout       = "lockout"
	ActionPasswordReset = "password_reset"
	ActionOrderCreated  = "order_created"
	ActionOrderPaid     = "order_paid"
)

// ActivityLog is an append-only audit record. Every record carries both a
// success flag and non-empty details.
type ActivityLog struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	CustomerID *string   `json:"customer_id,omitempty" gorm:"index;type:varchar(36)"`
	Action     string    `json:"action" gorm:"type:varchar(40)" validate:"required"`
	Success    bool      `json:"success"`
	Details    string    `json:"details" validate:"required"`
	IP         string    `json:"ip" gorm:"type:varchar(45)"`
	CreatedAt  time.Time `json:"created_at"`
}
