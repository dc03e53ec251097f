package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"melodia/internal/repositories"

	"github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/checkout/session"
	"github.com/stripe/stripe-go/v81/paymentintent"
	"github.com/stripe/stripe-go/v81/webhook"
)

// PaymentConfig holds the gateway settings.
type PaymentConfig struct {
	SecretKey      string
	WebhookSecret  string
	FrontendOrigin string
	Currency       string
	// DeliveryCharge in minor currency units, added as its own line item on
	// every checkout session.
	DeliveryCharge int64
}

// CheckoutLine is one cart entry translated for the hosted payment page.
// UnitAmount is in minor currency units.
type CheckoutLine struct {
	Name       string `json:"name" validate:"required"`
	Image      string `json:"image"`
	UnitAmount int64  `json:"unit_amount" validate:"required,gt=0"`
	Quantity   int64  `json:"quantity" validate:"required,min=1"`
}

// CheckoutSession is the handle returned to the client for redirecting to the
// hosted payment page.
type CheckoutSession struct {
	SessionID string `json:"sessionId"`
	URL       string `json:"url"`
}

// PaymentService wraps the Stripe SDK. The webhook handler is the source of
// truth for payment completion: it finalizes the order idempotently, so a
// closed browser tab after payment cannot lose the order.
type PaymentService struct {
	orderService *OrderService
	cartService  *CartService
	cfg          PaymentConfig
}

// NewPaymentService creates a new PaymentService and sets the SDK key.
func NewPaymentService(orderService *OrderService, cartService *CartService, cfg PaymentConfig) *PaymentService {
	if cfg.Currency == "" {
		cfg.Currency = string(stripe.CurrencyUSD)
	}
	if cfg.SecretKey != "" {
		stripe.Key = cfg.SecretKey
	}
	return &PaymentService{
		orderService: orderService,
		cartService:  cartService,
		cfg:          cfg,
	}
}

// CreateCheckoutSession builds one line item per cart entry plus the fixed
// delivery-charge line, requests a hosted checkout session with success and
// cancel URLs on the configured frontend origin, and links the session to the
// order for webhook finalization.
func (s *PaymentService) CreateCheckoutSession(orderID string, lines []CheckoutLine) (*CheckoutSession, error) {
	var total int64
	for _, line := range lines {
		total += line.UnitAmount * line.Quantity
	}
	if total <= 0 {
		return nil, ErrInvalidAmount
	}

	lineItems := make([]*stripe.CheckoutSessionLineItemParams, 0, len(lines)+1)
	for _, line := range lines {
		product := &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
			Name: stripe.String(line.Name),
		}
		if line.Image != "" {
			product.Images = []*string{stripe.String(line.Image)}
		}
		lineItems = append(lineItems, &stripe.CheckoutSessionLineItemParams{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency:    stripe.String(s.cfg.Currency),
				ProductData: product,
				UnitAmount:  stripe.Int64(line.UnitAmount),
			},
			Quantity: stripe.Int64(line.Quantity),
		})
	}
	if s.cfg.DeliveryCharge > 0 {
		lineItems = append(lineItems, &stripe.CheckoutSessionLineItemParams{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency: stripe.String(s.cfg.Currency),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name: stripe.String("Delivery charge"),
				},
				UnitAmount: stripe.Int64(s.cfg.DeliveryCharge),
			},
			Quantity: stripe.Int64(1),
		})
	}

	params := &stripe.CheckoutSessionParams{
		Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems:  lineItems,
		SuccessURL: stripe.String(s.cfg.FrontendOrigin + "/payment/success?session_id={CHECKOUT_SESSION_ID}"),
		CancelURL:  stripe.String(s.cfg.FrontendOrigin + "/payment/cancel"),
	}
	params.AddMetadata("order_id", orderID)

	sess, err := session.New(params)
	if err != nil {
		return nil, fmt.Errorf("failed to create checkout session: %w", err)
	}

	if orderID != "" {
		if err := s.orderService.AttachSession(orderID, sess.ID); err != nil {
			log.Printf("Warning: failed to attach session %s to order %s: %v", sess.ID, orderID, err)
		}
	}

	return &CheckoutSession{SessionID: sess.ID, URL: sess.URL}, nil
}

// CreatePaymentIntent is the legacy alternate flow: it creates a bare payment
// intent and returns its client secret.
func (s *PaymentService) CreatePaymentIntent(amount int64, orderID string) (string, error) {
	if amount <= 0 {
		return "", ErrInvalidAmount
	}

	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(amount),
		Currency: stripe.String(s.cfg.Currency),
	}
	if orderID != "" {
		params.AddMetadata("order_id", orderID)
	}

	intent, err := paymentintent.New(params)
	if err != nil {
		return "", fmt.Errorf("failed to create payment intent: %w", err)
	}
	return intent.ClientSecret, nil
}

// HandleWebhook verifies the gateway signature against the RAW request body
// and finalizes the referenced order on payment-success events. Finalization
// is idempotent on the order, so replayed deliveries are harmless.
func (s *PaymentService) HandleWebhook(payload []byte, sigHeader string) error {
	event, err := webhook.ConstructEvent(payload, sigHeader, s.cfg.WebhookSecret)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBadSignature, err)
	}

	switch event.Type {
	case "checkout.session.completed":
		var sess stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
			return fmt.Errorf("failed to unmarshal checkout session: %w", err)
		}
		transactionID := sess.ID
		if sess.PaymentIntent != nil {
			transactionID = sess.PaymentIntent.ID
		}
		return s.finalize(sess.Metadata["order_id"], sess.ID, transactionID)

	case "payment_intent.succeeded":
		var intent stripe.PaymentIntent
		if err := json.Unmarshal(event.Data.Raw, &intent); err != nil {
			return fmt.Errorf("failed to unmarshal payment intent: %w", err)
		}
		return s.finalize(intent.Metadata["order_id"], "", intent.ID)

	default:
		log.Printf("Unhandled webhook event type %s", event.Type)
		return nil
	}
}

// finalize resolves the order by metadata or session id, marks it paid and
// clears the payer's cart. An event that references no known order is logged
// and dropped rather than retried forever by the gateway.
func (s *PaymentService) finalize(orderID, sessionID, transactionID string) error {
	if orderID == "" && sessionID != "" {
		order, err := s.orderService.OrderBySession(sessionID)
		if err == nil {
			orderID = order.ID
		}
	}
	if orderID == "" {
		log.Printf("Payment event %s carries no resolvable order reference", transactionID)
		return nil
	}

	if err := s.orderService.FinalizePayment(orderID, transactionID); err != nil {
		if errors.Is(err, repositories.ErrOrderNotFound) {
			log.Printf("Payment event %s references unknown order %s", transactionID, orderID)
			return nil
		}
		return err
	}

	if s.cartService != nil {
		if order, err := s.orderService.GetOrderByID(orderID); err == nil {
			if err := s.cartService.Clear(order.UserID); err != nil {
				log.Printf("Warning: failed to clear cart after payment for order %s: %v", orderID, err)
			}
		}
	}
	return nil
}
