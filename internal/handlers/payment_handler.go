package handlers

import (
	"errors"
	"log"

	"melodia/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// PaymentHandler handles HTTP requests for the payment gateway adapter.
type PaymentHandler struct {
	paymentService *services.PaymentService
	validate       *validator.Validate
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(paymentService *services.PaymentService) *PaymentHandler {
	return &PaymentHandler{
		paymentService: paymentService,
		validate:       validator.New(),
	}
}

// RegisterRoutes registers the payment routes with the Fiber app.
func (h *PaymentHandler) RegisterRoutes(router fiber.Router) {
	stripeRoutes := router.Group("/stripe")
	stripeRoutes.Post("/create-checkout-session", h.HandleCreateCheckoutSession)
	stripeRoutes.Post("/create-payment-intent", h.HandleCreatePaymentIntent)
	stripeRoutes.Post("/webhook", h.HandleWebhook)
}

// CheckoutSessionRequest represents the request body for a hosted checkout
// session. Unit amounts are in minor currency units.
type CheckoutSessionRequest struct {
	OrderID string                  `json:"order_id"`
	Items   []services.CheckoutLine `json:"items" validate:"required,min=1,dive"`
}

// HandleCreateCheckoutSession creates a hosted payment session and returns
// its id and redirect URL.
func (h *PaymentHandler) HandleCreateCheckoutSession(c *fiber.Ctx) error {
	var req CheckoutSessionRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "INVALID_BODY", "Invalid request body", err)
	}
	if err := h.validate.Struct(req); err != nil {
		return validationFailed(c, err)
	}

	sess, err := h.paymentService.CreateCheckoutSession(req.OrderID, req.Items)
	if err != nil {
		if errors.Is(err, services.ErrInvalidAmount) {
			return badRequest(c, "INVALID_AMOUNT", "Checkout amount must be greater than zero", nil)
		}
		log.Printf("Error creating checkout session: %v", err)
		return internalError(c, "Could not create checkout session")
	}
	return c.JSON(fiber.Map{
		"sessionId": sess.SessionID,
		"url":       sess.URL,
	})
}

// PaymentIntentRequest represents the request body for the legacy
// payment-intent flow.
type PaymentIntentRequest struct {
	Amount  int64  `json:"amount" validate:"required"`
	OrderID string `json:"order_id"`
}

// HandleCreatePaymentIntent creates a payment intent and returns its client
// secret.
func (h *PaymentHandler) HandleCreatePaymentIntent(c *fiber.Ctx) error {
	var req PaymentIntentRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "INVALID_BODY", "Invalid request body", err)
	}
	if err := h.validate.Struct(req); err != nil {
		return validationFailed(c, err)
	}

	clientSecret, err := h.paymentService.CreatePaymentIntent(req.Amount, req.OrderID)
	if err != nil {
		if errors.Is(err, services.ErrInvalidAmount) {
			return badRequest(c, "INVALID_AMOUNT", "Amount must be greater than zero", nil)
		}
		log.Printf("Error creating payment intent: %v", err)
		return internalError(c, "Could not create payment intent")
	}
	return c.JSON(fiber.Map{
		"clientSecret": clientSecret,
	})
}

// HandleWebhook receives gateway event callbacks. Signature verification runs
// against the raw, unparsed request body.
func (h *PaymentHandler) HandleWebhook(c *fiber.Ctx) error {
	payload := c.Body()
	sigHeader := c.Get("Stripe-Signature")

	if err := h.paymentService.HandleWebhook(payload, sigHeader); err != nil {
		if errors.Is(err, services.ErrBadSignature) {
			return badRequest(c, "BAD_SIGNATURE", "Webhook signature verification failed", nil)
		}
		log.Printf("Error handling webhook: %v", err)
		return internalError(c, "Could not process webhook event")
	}
	return c.JSON(fiber.Map{
		"received": true,
	})
}
