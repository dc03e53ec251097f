package services_test

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"testing"
	"time"

	"melodia/internal/models"
	"melodia/internal/repositories"
	"melodia/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stripe/stripe-go/v81"
)

const testWebhookSecret = "whsec_test_secret"

// signWebhookPayload produces a Stripe-Signature header for the payload the
// way the gateway does: v1 = HMAC-SHA256 over "<timestamp>.<payload>".
func signWebhookPayload(payload []byte, secret string) string {
	timestamp := time.Now().Unix()
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%d.%s", timestamp, payload)
	return fmt.Sprintf("t=%d,v1=%s", timestamp, hex.EncodeToString(mac.Sum(nil)))
}

func checkoutCompletedPayload(sessionID, orderID string) []byte {
	return []byte(fmt.Sprintf(`{
		"id": "evt_test_1",
		"object": "event",
		"api_version": %q,
		"type": "checkout.session.completed",
		"data": {
			"object": {
				"id": %q,
				"object": "checkout.session",
				"metadata": {"order_id": %q}
			}
		}
	}`, stripe.APIVersion, sessionID, orderID))
}

func paymentIntentSucceededPayload(intentID, orderID string) []byte {
	return []byte(fmt.Sprintf(`{
		"id": "evt_test_2",
		"object": "event",
		"api_version": %q,
		"type": "payment_intent.succeeded",
		"data": {
			"object": {
				"id": %q,
				"object": "payment_intent",
				"metadata": {"order_id": %q}
			}
		}
	}`, stripe.APIVersion, intentID, orderID))
}

func newPaymentFixture() (*services.PaymentService, *services.OrderService, *repositories.MockOrderRepository, *fakeCartRepo) {
	orderRepo := repositories.NewMockOrderRepository()
	orderService := services.NewOrderService(orderRepo, &fakeActivityRepo{}, &recordingPublisher{}, "")
	cartRepo := newFakeCartRepo()
	cartService := services.NewCartService(cartRepo)
	paymentService := services.NewPaymentService(orderService, cartService, services.PaymentConfig{
		WebhookSecret:  testWebhookSecret,
		FrontendOrigin: "http://localhost:3000",
	})
	return paymentService, orderService, orderRepo, cartRepo
}

func TestCreateCheckoutSessionRejectsNonPositiveTotal(t *testing.T) {
	svc, _, _, _ := newPaymentFixture()

	_, err := svc.CreateCheckoutSession("order-1", nil)
	assert.ErrorIs(t, err, services.ErrInvalidAmount)

	_, err = svc.CreateCheckoutSession("order-1", []services.CheckoutLine{
		{Name: "Concert Ukulele", UnitAmount: 0, Quantity: 3},
	})
	assert.ErrorIs(t, err, services.ErrInvalidAmount)
}

func TestCreatePaymentIntentRejectsNonPositiveAmount(t *testing.T) {
	svc, _, _, _ := newPaymentFixture()

	_, err := svc.CreatePaymentIntent(0, "order-1")
	assert.ErrorIs(t, err, services.ErrInvalidAmount)
	_, err = svc.CreatePaymentIntent(-500, "order-1")
	assert.ErrorIs(t, err, services.ErrInvalidAmount)
}

func TestHandleWebhookRejectsBadSignature(t *testing.T) {
	svc, _, _, _ := newPaymentFixture()

	payload := checkoutCompletedPayload("cs_test_1", "order-1")

	err := svc.HandleWebhook(payload, "t=123,v1=deadbeef")
	assert.ErrorIs(t, err, services.ErrBadSignature)

	// A signature minted with the wrong secret is just as invalid.
	err = svc.HandleWebhook(payload, signWebhookPayload(payload, "whsec_other"))
	assert.ErrorIs(t, err, services.ErrBadSignature)
}

func TestHandleWebhookFinalizesOrderAndClearsCart(t *testing.T) {
	svc, orderService, orderRepo, cartRepo := newPaymentFixture()

	created, err := orderService.CreateOrder(sampleOrder("user-1", 20))
	assert.NoError(t, err)
	assert.NoError(t, cartRepo.Create(&models.Cart{CustomerID: "user-1", Items: []models.CartItem{
		{ItemID: "item-a", Quantity: 2},
	}}))

	payload := checkoutCompletedPayload("cs_test_1", created.ID)
	assert.NoError(t, svc.HandleWebhook(payload, signWebhookPayload(payload, testWebhookSecret)))

	stored, err := orderRepo.GetByID(created.ID)
	assert.NoError(t, err)
	assert.Equal(t, models.PaymentStatusPaid, stored.PaymentStatus)
	assert.Equal(t, models.OrderStatusConfirmed, stored.OrderStatus)
	assert.Equal(t, "cs_test_1", stored.StripeTransactionID)

	// The payer's cart is gone after the payment lands.
	_, err = cartRepo.GetByCustomer("user-1")
	assert.ErrorIs(t, err, repositories.ErrCartNotFound)
}

func TestHandleWebhookReplayIsAbsorbed(t *testing.T) {
	svc, orderService, orderRepo, _ := newPaymentFixture()

	created, err := orderService.CreateOrder(sampleOrder("user-1", 20))
	assert.NoError(t, err)

	payload := checkoutCompletedPayload("cs_test_1", created.ID)
	assert.NoError(t, svc.HandleWebhook(payload, signWebhookPayload(payload, testWebhookSecret)))
	// Gateways redeliver; the second delivery must not change the order.
	assert.NoError(t, svc.HandleWebhook(payload, signWebhookPayload(payload, testWebhookSecret)))

	stored, err := orderRepo.GetByID(created.ID)
	assert.NoError(t, err)
	assert.Equal(t, "cs_test_1", stored.StripeTransactionID)
}

func TestHandleWebhookResolvesOrderBySession(t *testing.T) {
	svc, orderService, orderRepo, _ := newPaymentFixture()

	created, err := orderService.CreateOrder(sampleOrder("user-1", 20))
	assert.NoError(t, err)
	assert.NoError(t, orderService.AttachSession(created.ID, "cs_attached_1"))

	// The event carries no order metadata; the stored session id resolves it.
	payload := checkoutCompletedPayload("cs_attached_1", "")
	assert.NoError(t, svc.HandleWebhook(payload, signWebhookPayload(payload, testWebhookSecret)))

	stored, err := orderRepo.GetByID(created.ID)
	assert.NoError(t, err)
	assert.Equal(t, models.PaymentStatusPaid, stored.PaymentStatus)
}

func TestHandleWebhookPaymentIntentSucceeded(t *testing.T) {
	svc, orderService, orderRepo, _ := newPaymentFixture()

	created, err := orderService.CreateOrder(sampleOrder("user-1", 20))
	assert.NoError(t, err)

	payload := paymentIntentSucceededPayload("pi_test_1", created.ID)
	assert.NoError(t, svc.HandleWebhook(payload, signWebhookPayload(payload, testWebhookSecret)))

	stored, err := orderRepo.GetByID(created.ID)
	assert.NoError(t, err)
	assert.Equal(t, models.PaymentStatusPaid, stored.PaymentStatus)
	assert.Equal(t, "pi_test_1", stored.StripeTransactionID)
}

func TestHandleWebhookUnknownOrderIsDropped(t *testing.T) {
	svc, _, _, _ := newPaymentFixture()

	payload := checkoutCompletedPayload("cs_unknown", "no-such-order")
	// Events for unknown orders are logged and acknowledged, not retried forever.
	assert.NoError(t, svc.HandleWebhook(payload, signWebhookPayload(payload, testWebhookSecret)))
}
