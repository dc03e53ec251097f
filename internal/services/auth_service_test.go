package services_test

import (
	"regexp"
	"testing"
	"time"

	"melodia/internal/models"
	"melodia/internal/services"

	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"
)

var (
	otpPattern        = regexp.MustCompile(`\d{6}`)
	resetTokenPattern = regexp.MustCompile(`[0-9a-f]{64}`)
)

func newAuthFixture() (*services.AuthService, *fakeCustomerRepo, *recordingMailer) {
	customerRepo := newFakeCustomerRepo()
	mail := &recordingMailer{}
	svc := services.NewAuthService(customerRepo, &fakeActivityRepo{}, mail, &stubCaptcha{}, "test_jwt_secret")
	return svc, customerRepo, mail
}

func registerTestCustomer(t *testing.T, svc *services.AuthService, email string) *models.Customer {
	t.Helper()
	customer := &models.Customer{
		Name:          "Ava Strings",
		Phone:         "+15550001111",
		Email:         email,
		Password:      "Sup3rSecret",
		TermsAccepted: true,
	}
	err := svc.RegisterCustomer(customer, "127.0.0.1")
	assert.NoError(t, err)
	return customer
}

func TestRegisterHashesPasswordAndSendsOTP(t *testing.T) {
	svc, customerRepo, mail := newAuthFixture()

	customer := registerTestCustomer(t, svc, "ava@example.com")

	stored, err := customerRepo.GetByEmail("ava@example.com")
	assert.NoError(t, err)
	assert.NotEqual(t, "Sup3rSecret", stored.Password, "password must not be stored in plain text")
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte("Sup3rSecret")))
	assert.False(t, stored.Verified)
	assert.NotEmpty(t, stored.OTPHash)
	assert.NotNil(t, stored.OTPExpiry)

	assert.Equal(t, 1, mail.count())
	assert.Equal(t, customer.Email, mail.last().To)
	assert.Regexp(t, otpPattern, mail.last().Body)

	// Registering the same email again is a conflict.
	err = svc.RegisterCustomer(&models.Customer{
		Name: "Imposter", Phone: "+15550002222", Email: "ava@example.com",
		Password: "An0therPass", TermsAccepted: true,
	}, "127.0.0.1")
	assert.ErrorIs(t, err, services.ErrEmailTaken)
}

func TestLoginIssuesOTPChallengeNotToken(t *testing.T) {
	svc, customerRepo, mail := newAuthFixture()
	customer := registerTestCustomer(t, svc, "ben@example.com")

	userID, err := svc.Login("ben@example.com", "Sup3rSecret", "captcha-token", "127.0.0.1")
	assert.NoError(t, err)
	assert.Equal(t, customer.ID, userID)

	// Login sent a second mail carrying a fresh OTP; no JWT exists yet.
	assert.Equal(t, 2, mail.count())
	code := otpPattern.FindString(mail.last().Body)
	assert.Len(t, code, 6)

	token, verified, err := svc.VerifyOTP(userID, code, "127.0.0.1")
	assert.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, customer.ID, verified.ID)

	claims, err := svc.ValidateToken(token)
	assert.NoError(t, err)
	assert.Equal(t, customer.ID, claims["id"])
	assert.Equal(t, models.RoleCustomer, claims["role"])

	stored, err := customerRepo.GetByID(customer.ID)
	assert.NoError(t, err)
	assert.True(t, stored.Verified)
	assert.Empty(t, stored.OTPHash, "challenge must be cleared after use")
}

func TestLoginLockoutAfterRepeatedFailures(t *testing.T) {
	svc, customerRepo, _ := newAuthFixture()
	customer := registerTestCustomer(t, svc, "carl@example.com")

	for i := 0; i < 5; i++ {
		_, err := svc.Login("carl@example.com", "WrongPass1", "captcha-token", "127.0.0.1")
		assert.ErrorIs(t, err, services.ErrInvalidCredentials)
	}

	stored, err := customerRepo.GetByID(customer.ID)
	assert.NoError(t, err)
	assert.NotNil(t, stored.LockUntil)
	assert.True(t, stored.LockUntil.After(time.Now()))

	// Even the correct password is rejected while the lock holds.
	_, err = svc.Login("carl@example.com", "Sup3rSecret", "captcha-token", "127.0.0.1")
	assert.ErrorIs(t, err, services.ErrAccountLocked)

	// Once the lock expires the correct password works again.
	expired := time.Now().Add(-time.Minute)
	stored.LockUntil = &expired
	assert.NoError(t, customerRepo.Update(stored))

	userID, err := svc.Login("carl@example.com", "Sup3rSecret", "captcha-token", "127.0.0.1")
	assert.NoError(t, err)
	assert.Equal(t, customer.ID, userID)
}

func TestLoginRejectedByCaptcha(t *testing.T) {
	customerRepo := newFakeCustomerRepo()
	mail := &recordingMailer{}
	svc := services.NewAuthService(customerRepo, &fakeActivityRepo{}, mail, &stubCaptcha{err: assert.AnError}, "test_jwt_secret")

	_, err := svc.Login("whoever@example.com", "Sup3rSecret", "bad-token", "127.0.0.1")
	assert.ErrorIs(t, err, services.ErrCaptchaFailed)
}

func TestVerifyOTPExpired(t *testing.T) {
	svc, customerRepo, mail := newAuthFixture()
	customer := registerTestCustomer(t, svc, "dora@example.com")
	code := otpPattern.FindString(mail.last().Body)

	stored, err := customerRepo.GetByID(customer.ID)
	assert.NoError(t, err)
	past := time.Now().Add(-time.Minute)
	stored.OTPExpiry = &past
	assert.NoError(t, customerRepo.Update(stored))

	_, _, err = svc.VerifyOTP(customer.ID, code, "127.0.0.1")
	assert.ErrorIs(t, err, services.ErrOTPExpired)
}

func TestVerifyOTPWrongCode(t *testing.T) {
	svc, _, mail := newAuthFixture()
	customer := registerTestCustomer(t, svc, "elsa@example.com")

	wrong := "000000"
	if otpPattern.FindString(mail.last().Body) == wrong {
		wrong = "000001"
	}
	_, _, err := svc.VerifyOTP(customer.ID, wrong, "127.0.0.1")
	assert.ErrorIs(t, err, services.ErrInvalidOTP)
}

func TestPasswordResetFlow(t *testing.T) {
	svc, _, mail := newAuthFixture()
	registerTestCustomer(t, svc, "finn@example.com")

	assert.NoError(t, svc.ForgotPassword("finn@example.com"))
	token := resetTokenPattern.FindString(mail.last().Body)
	assert.Len(t, token, 64)

	assert.NoError(t, svc.ResetPassword("finn@example.com", token, "Fresh3rPass", "127.0.0.1"))

	// The old password no longer works, the new one does.
	_, err := svc.Login("finn@example.com", "Sup3rSecret", "captcha-token", "127.0.0.1")
	assert.ErrorIs(t, err, services.ErrInvalidCredentials)
	_, err = svc.Login("finn@example.com", "Fresh3rPass", "captcha-token", "127.0.0.1")
	assert.NoError(t, err)

	// Tokens are single use.
	err = svc.ResetPassword("finn@example.com", token, "Y3tAnother", "127.0.0.1")
	assert.ErrorIs(t, err, services.ErrInvalidResetToken)
}

func TestForgotPasswordUnknownEmailIsSilent(t *testing.T) {
	svc, _, mail := newAuthFixture()

	assert.NoError(t, svc.ForgotPassword("nobody@example.com"))
	assert.Equal(t, 0, mail.count(), "unknown email must not trigger a mail")
}
