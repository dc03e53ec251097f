package services

import "errors"

// Typed service errors, mapped to stable HTTP error codes by the handlers.
var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountLocked      = errors.New("account temporarily locked")
	ErrCaptchaFailed      = errors.New("recaptcha verification failed")
	ErrInvalidOTP         = errors.New("invalid otp")
	ErrOTPExpired         = errors.New("otp expired")
	ErrInvalidResetToken  = errors.New("invalid or expired reset token")
	ErrInvalidQuantity    = errors.New("quantity must be at least 1")
	ErrInvalidTransition  = errors.New("illegal order status transition")
	ErrInvalidStatus      = errors.New("unknown order status")
	ErrInvalidAmount      = errors.New("amount must be greater than zero")
	ErrBadSignature       = errors.New("webhook signature verification failed")
)
