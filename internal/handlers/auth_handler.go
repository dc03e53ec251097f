package handlers

import (
	"errors"
	"log"
	"unicode"

	"melodia/internal/models"
	"melodia/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// AuthHandler handles HTTP requests for registration, the OTP challenge flow
// and password resets.
type AuthHandler struct {
	authService *services.AuthService
	validate    *validator.Validate
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	v := validator.New()
	// Password complexity: at least one upper, one lower and one digit.
	_ = v.RegisterValidation("complexity", func(fl validator.FieldLevel) bool {
		var upper, lower, digit bool
		for _, r := range fl.Field().String() {
			switch {
			case unicode.IsUpper(r):
				upper = true
			case unicode.IsLower(r):
				lower = true
			case unicode.IsDigit(r):
				digit = true
			}
		}
		return upper && lower && digit
	})
	return &AuthHandler{
		authService: authService,
		validate:    v,
	}
}

// RegisterRoutes registers the authentication routes with the Fiber app.
func (h *AuthHandler) RegisterRoutes(router fiber.Router) {
	authRoutes := router.Group("/auth")
	authRoutes.Post("/register", h.HandleRegister)
	authRoutes.Post("/login", h.HandleLogin)
	authRoutes.Post("/verify-otp", h.HandleVerifyOTP)
	authRoutes.Post("/forgot-password", h.HandleForgotPassword)
	authRoutes.Post("/reset-password", h.HandleResetPassword)
}

// RegisterRequest represents the request body for registration.
type RegisterRequest struct {
	Name          string `json:"name" validate:"required,min=2,max=100"`
	Phone         string `json:"phone" validate:"required,e164"`
	Email         string `json:"email" validate:"required,email"`
	Password      string `json:"password" validate:"required,min=8,complexity"`
	TermsAccepted bool   `json:"terms_accepted" validate:"required,eq=true"`
}

// HandleRegister creates an unverified customer and sends the first OTP.
func (h *AuthHandler) HandleRegister(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "INVALID_BODY", "Invalid request body", err)
	}
	if err := h.validate.Struct(req); err != nil {
		return validationFailed(c, err)
	}

	customer := &models.Customer{
		Name:          req.Name,
		Phone:         req.Phone,
		Email:         req.Email,
		Password:      req.Password,
		TermsAccepted: req.TermsAccepted,
	}
	if err := h.authService.RegisterCustomer(customer, c.IP()); err != nil {
		if errors.Is(err, services.ErrEmailTaken) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"success": false,
				"code":    "EMAIL_TAKEN",
				"message": "Email is already registered",
			})
		}
		log.Printf("Error registering customer: %v", err)
		return internalError(c, "Could not register customer")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Registered. Check your email for the verification code.",
	})
}

// LoginRequest represents the request body for login.
type LoginRequest struct {
	Email          string `json:"email" validate:"required,email"`
	Password       string `json:"password" validate:"required"`
	RecaptchaToken string `json:"recaptcha_token"`
}

// HandleLogin checks credentials and, on success, sends an OTP challenge.
// No token is issued here; the JWT comes from verify-otp.
func (h *AuthHandler) HandleLogin(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "INVALID_BODY", "Invalid request body", err)
	}
	if err := h.validate.Struct(req); err != nil {
		return validationFailed(c, err)
	}

	userID, err := h.authService.Login(req.Email, req.Password, req.RecaptchaToken, c.IP())
	if err != nil {
		switch {
		case errors.Is(err, services.ErrCaptchaFailed):
			return badRequest(c, "CAPTCHA_FAILED", "reCAPTCHA verification failed", nil)
		case errors.Is(err, services.ErrAccountLocked):
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"success": false,
				"code":    "ACCOUNT_LOCKED",
				"message": "Account temporarily locked, try again later",
			})
		case errors.Is(err, services.ErrInvalidCredentials):
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"code":    "INVALID_CREDENTIALS",
				"message": "Authentication failed",
			})
		default:
			log.Printf("Error during login for %s: %v", req.Email, err)
			return internalError(c, "Could not log in")
		}
	}

	return c.JSON(fiber.Map{
		"success": true,
		"userId":  userID,
		"message": "OTP sent to your email",
	})
}

// VerifyOTPRequest represents the request body for OTP verification.
type VerifyOTPRequest struct {
	UserID string `json:"user_id" validate:"required"`
	OTP    string `json:"otp" validate:"required,len=6,numeric"`
}

// HandleVerifyOTP confirms the emailed code and issues the JWT.
func (h *AuthHandler) HandleVerifyOTP(c *fiber.Ctx) error {
	var req VerifyOTPRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "INVALID_BODY", "Invalid request body", err)
	}
	if err := h.validate.Struct(req); err != nil {
		return validationFailed(c, err)
	}

	token, customer, err := h.authService.VerifyOTP(req.UserID, req.OTP, c.IP())
	if err != nil {
		switch {
		case errors.Is(err, services.ErrOTPExpired):
			return badRequest(c, "OTP_EXPIRED", "OTP has expired, request a new one", nil)
		case errors.Is(err, services.ErrInvalidOTP):
			return badRequest(c, "OTP_INVALID", "Invalid OTP", nil)
		default:
			log.Printf("Error verifying OTP for %s: %v", req.UserID, err)
			return internalError(c, "Could not verify OTP")
		}
	}

	return c.JSON(fiber.Map{
		"success": true,
		"token":   token,
		"userId":  customer.ID,
		"role":    customer.Role,
	})
}

// ForgotPasswordRequest represents the request body for a reset-token request.
type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// HandleForgotPassword emails a reset token. Unknown emails get the same
// response as known ones.
func (h *AuthHandler) HandleForgotPassword(c *fiber.Ctx) error {
	var req ForgotPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "INVALID_BODY", "Invalid request body", err)
	}
	if err := h.validate.Struct(req); err != nil {
		return validationFailed(c, err)
	}

	if err := h.authService.ForgotPassword(req.Email); err != nil {
		log.Printf("Error issuing reset token for %s: %v", req.Email, err)
		return internalError(c, "Could not process request")
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "If the email is registered, a reset token has been sent.",
	})
}

// ResetPasswordRequest represents the request body for completing a reset.
type ResetPasswordRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Token    string `json:"token" validate:"required"`
	Password string `json:"password" validate:"required,min=8,complexity"`
}

// HandleResetPassword validates the reset token and replaces the password.
func (h *AuthHandler) HandleResetPassword(c *fiber.Ctx) error {
	var req ResetPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "INVALID_BODY", "Invalid request body", err)
	}
	if err := h.validate.Struct(req); err != nil {
		return validationFailed(c, err)
	}

	if err := h.authService.ResetPassword(req.Email, req.Token, req.Password, c.IP()); err != nil {
		if errors.Is(err, services.ErrInvalidResetToken) {
			return badRequest(c, "RESET_TOKEN_INVALID", "Invalid or expired reset token", nil)
		}
		log.Printf("Error resetting password for %s: %v", req.Email, err)
		return internalError(c, "Could not reset password")
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Password updated",
	})
}
