package services

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log"
	"math/big"
	"time"

	"melodia/internal/models"
	"melodia/internal/repositories"
	"melodia/pkg/mailer"
	"melodia/pkg/recaptcha"

	"github.com/dgrijalva/jwt-go"
	"golang.org/x/crypto/bcrypt"
)

// Auth policy knobs.
const (
	otpTTL           = 10 * time.Minute
	resetTokenTTL    = time.Hour
	maxLoginAttempts = 5
	lockDuration     = 15 * time.Minute
)

// AuthService handles registration, the OTP challenge flow, password resets
// and JWT issuance. A successful password login never yields a token directly;
// it issues a fresh OTP, and only OTP verification mints the JWT.
type AuthService struct {
	customerRepo repositories.CustomerRepository
	activityRepo repositories.ActivityLogRepository
	mail         mailer.Mailer
	captcha      recaptcha.Verifier
	jwtSecret    []byte
	tokenDurat   time.Duration // Duration for which JWT is valid
}

// NewAuthService creates a new AuthService.
func NewAuthService(
	customerRepo repositories.CustomerRepository,
	activityRepo repositories.ActivityLogRepository,
	mail mailer.Mailer,
	captcha recaptcha.Verifier,
	jwtSecret string,
) *AuthService {
	return &AuthService{
		customerRepo: customerRepo,
		activityRepo: activityRepo,
		mail:         mail,
		captcha:      captcha,
		jwtSecret:    []byte(jwtSecret),
		tokenDurat:   24 * time.Hour, // Token valid for 24 hours
	}
}

// RegisterCustomer stores an unverified account with a hashed password and
// emails the first OTP challenge.
func (s *AuthService) RegisterCustomer(customer *models.Customer, ip string) error {
	if existing, err := s.customerRepo.GetByEmail(customer.Email); err == nil && existing != nil {
		recordActivity(s.activityRepo, nil, models.ActionRegister, false,
			fmt.Sprintf("registration rejected, email %s already registered", customer.Email), ip)
		return ErrEmailTaken
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(customer.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	customer.Password = string(hashedPassword) // Store the hashed password
	customer.Verified = false
	if customer.Role == "" {
		customer.Role = models.RoleCustomer
	}

	if err := s.customerRepo.Create(customer); err != nil {
		return fmt.Errorf("failed to register customer: %w", err)
	}

	if err := s.issueOTP(customer); err != nil {
		return err
	}

	recordActivity(s.activityRepo, &customer.ID, models.ActionRegister, true,
		fmt.Sprintf("customer %s registered, verification OTP sent", customer.Email), ip)
	return nil
}

// Login checks credentials and the reCAPTCHA token. On success it issues a
// fresh OTP challenge and returns the customer id; the JWT is only minted once
// the OTP is verified. Failed attempts count toward a temporary lockout.
func (s *AuthService) Login(email, password, captchaToken, ip string) (string, error) {
	if err := s.captcha.Verify(captchaToken, ip); err != nil {
		log.Printf("reCAPTCHA rejected login for %s: %v", email, err)
		return "", ErrCaptchaFailed
	}

	customer, err := s.customerRepo.GetByEmail(email)
	if err != nil {
		// Do not reveal whether the email exists.
		return "", ErrInvalidCredentials
	}

	now := time.Now()
	if customer.Locked(now) {
		recordActivity(s.activityRepo, &customer.ID, models.ActionLogin, false,
			"login rejected, account locked", ip)
		return "", ErrAccountLocked
	}

	if err := bcrypt.CompareHashAndPassword([]byte(customer.Password), []byte(password)); err != nil {
		customer.FailedLoginAttempts++
		details := fmt.Sprintf("wrong password, attempt %d of %d", customer.FailedLoginAttempts, maxLoginAttempts)
		if customer.FailedLoginAttempts >= maxLoginAttempts {
			lockUntil := now.Add(lockDuration)
			customer.LockUntil = &lockUntil
			customer.FailedLoginAttempts = 0
			recordActivity(s.activityRepo, &customer.ID, models.ActionLockout, true,
				fmt.Sprintf("account locked until %s", lockUntil.Format(time.RFC3339)), ip)
		}
		if err := s.customerRepo.Update(customer); err != nil {
			log.Printf("Failed to persist lockout counters for %s: %v", email, err)
		}
		recordActivity(s.activityRepo, &customer.ID, models.ActionLogin, false, details, ip)
		return "", ErrInvalidCredentials
	}

	customer.FailedLoginAttempts = 0
	customer.LockUntil = nil
	if err := s.issueOTP(customer); err != nil {
		return "", err
	}

	recordActivity(s.activityRepo, &customer.ID, models.ActionLogin, true,
		"credentials accepted, OTP challenge sent", ip)
	return customer.ID, nil
}

// VerifyOTP hashes the submitted code, compares it to the stored hash and
// checks the expiry. On match it marks the account verified, clears the
// challenge and returns a signed JWT carrying {id, role}.
func (s *AuthService) VerifyOTP(customerID, code, ip string) (string, *models.Customer, error) {
	customer, err := s.customerRepo.GetByID(customerID)
	if err != nil {
		return "", nil, ErrInvalidOTP
	}

	if customer.OTPHash == "" || customer.OTPExpiry == nil {
		return "", nil, ErrInvalidOTP
	}
	if time.Now().After(*customer.OTPExpiry) {
		recordActivity(s.activityRepo, &customer.ID, models.ActionVerifyOTP, false, "otp expired", ip)
		return "", nil, ErrOTPExpired
	}
	if hashToken(code) != customer.OTPHash {
		recordActivity(s.activityRepo, &customer.ID, models.ActionVerifyOTP, false, "otp mismatch", ip)
		return "", nil, ErrInvalidOTP
	}

	customer.OTPHash = ""
	customer.OTPExpiry = nil
	customer.Verified = true
	if err := s.customerRepo.Update(customer); err != nil {
		return "", nil, fmt.Errorf("failed to clear otp challenge: %w", err)
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":   customer.ID,
		"role": customer.Role,
		"exp":  time.Now().Add(s.tokenDurat).Unix(), // Token expiration time
		"iat":  time.Now().Unix(),                   // Issued at time
	})
	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", nil, fmt.Errorf("failed to generate token: %w", err)
	}

	recordActivity(s.activityRepo, &customer.ID, models.ActionVerifyOTP, true, "otp accepted, token issued", ip)
	return tokenString, customer, nil
}

// ForgotPassword issues a reset token (stored hashed, one hour expiry) and
// emails it. An unknown email is reported as success to avoid enumeration.
func (s *AuthService) ForgotPassword(email string) error {
	customer, err := s.customerRepo.GetByEmail(email)
	if err != nil {
		return nil
	}

	tokenBytes := make([]byte, 32)
	if _, err := rand.Read(tokenBytes); err != nil {
		return fmt.Errorf("failed to generate reset token: %w", err)
	}
	token := hex.EncodeToString(tokenBytes)
	expiry := time.Now().Add(resetTokenTTL)

	customer.ResetTokenHash = hashToken(token)
	customer.ResetTokenExpiry = &expiry
	if err := s.customerRepo.Update(customer); err != nil {
		return fmt.Errorf("failed to store reset token: %w", err)
	}

	body := fmt.Sprintf("Hello %s,\n\nUse this token to reset your password: %s\nIt expires in one hour.", customer.Name, token)
	if err := s.mail.Send(customer.Email, "Password reset", body); err != nil {
		return fmt.Errorf("failed to send reset email: %w", err)
	}
	return nil
}

// ResetPassword validates the emailed token against the stored hash and
// expiry, then replaces the password.
func (s *AuthService) ResetPassword(email, token, newPassword, ip string) error {
	customer, err := s.customerRepo.GetByEmail(email)
	if err != nil {
		return ErrInvalidResetToken
	}
	if customer.ResetTokenHash == "" || customer.ResetTokenExpiry == nil {
		return ErrInvalidResetToken
	}
	if time.Now().After(*customer.ResetTokenExpiry) || hashToken(token) != customer.ResetTokenHash {
		recordActivity(s.activityRepo, &customer.ID, models.ActionPasswordReset, false, "reset token rejected", ip)
		return ErrInvalidResetToken
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	customer.Password = string(hashedPassword)
	customer.ResetTokenHash = ""
	customer.ResetTokenExpiry = nil
	if err := s.customerRepo.Update(customer); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	recordActivity(s.activityRepo, &customer.ID, models.ActionPasswordReset, true, "password reset completed", ip)
	return nil
}

// ValidateToken parses and validates a JWT token, returning the claims if valid.
func (s *AuthService) ValidateToken(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		// Validate the alg is what we expect:
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		log.Printf("Token validation error: %v", err)
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, fmt.Errorf("invalid token")
}

// GetCustomer loads a customer and blanks the password hash before returning.
func (s *AuthService) GetCustomer(id string) (*models.Customer, error) {
	customer, err := s.customerRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	customer.Password = ""
	return customer, nil
}

// issueOTP stores a fresh 6-digit challenge (hashed, 10 minute expiry) and
// emails the plain code.
func (s *AuthService) issueOTP(customer *models.Customer) error {
	code, err := generateOTP()
	if err != nil {
		return err
	}
	expiry := time.Now().Add(otpTTL)
	customer.OTPHash = hashToken(code)
	customer.OTPExpiry = &expiry
	if err := s.customerRepo.Update(customer); err != nil {
		return fmt.Errorf("failed to store otp challenge: %w", err)
	}

	body := fmt.Sprintf("Hello %s,\n\nYour verification code is %s. It expires in 10 minutes.", customer.Name, code)
	if err := s.mail.Send(customer.Email, "Your verification code", body); err != nil {
		return fmt.Errorf("failed to send otp email: %w", err)
	}
	return nil
}

// generateOTP returns a random 6-digit code.
func generateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", fmt.Errorf("failed to generate otp: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

// hashToken returns the hex SHA-256 of an OTP code or reset token.
func hashToken(value string) string {
	sum := sha256.Sum256([]byte(value))
	return hex.EncodeToString(sum[:])
}
