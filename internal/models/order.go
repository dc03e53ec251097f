package models

import "time"

// Order statuses. An order only moves forward (pending -> confirmed ->
// processing -> completed); "cancel" is reachable from any pre-completed state.
const (
	OrderStatusPending    = "pending"
	OrderStatusConfirmed  = "confirmed"
	OrderStatusProcessing = "processing"
	OrderStatusCompleted  = "completed"
	OrderStatusCancel     = "cancel"
)

// Payment statuses.
const (
	PaymentStatusPending = "pending"
	PaymentStatusPaid    = "paid"
	PaymentStatusFailed  = "failed"
)

// Payment methods.
const (
	PaymentMethodCOD    = "cod"
	PaymentMethodKhalti = "khalti"
	PaymentMethodStripe = "stripe"
)

// BillingDetails is the address block captured with an order.
type BillingDetails struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required,email"`
	Phone   string `json:"phone" validate:"required"`
	Address string `json:"address" validate:"required"`
	City    string `json:"city" validate:"required"`
	Zip     string `json:"zip" validate:"required"`
}

// Order is an immutable-once-created snapshot of a checkout. Line-item prices
// are frozen at creation and never recomputed from the live catalog. Only the
// status fields may change afterwards.
type Order struct {
	ID             string         `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID         string         `json:"user_id" gorm:"index;type:varchar(36)" validate:"required"`
	Items          []OrderItem    `json:"items" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" validate:"required,min=1,dive"`
	BillingDetails BillingDetails `json:"billing_details" gorm:"embedded;embeddedPrefix:billing_" validate:"required"`
	PaymentMethod  string         `json:"payment_method" gorm:"type:varchar(20)" validate:"required,oneof=cod khalti stripe"`
	PaymentStatus  string         `json:"payment_status" gorm:"type:varchar(20);default:pending" validate:"omitempty,oneof=pending paid failed"`
	Subtotal       float64        `json:"subtotal" validate:"gte=0"`
	DeliveryCharge float64        `json:"delivery_charge" validate:"gte=0"`
	TotalPrice     float64        `json:"total_price" validate:"gte=0"`
	OrderStatus    string         `json:"order_status" gorm:"type:varchar(20);default:pending"`

	// Gateway transaction references, used to make webhook handling idempotent.
	StripeSessionID     string `json:"-" gorm:"index;type:varchar(255)"`
	StripeTransactionID string `json:"-" gorm:"type:varchar(255)"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// OrderItem is one (item, quantity, price) line within an order. Price is the
// unit price at order time, decoupled from the live Item price.
type OrderItem struct {
	ID       uint    `json:"-" gorm:"primaryKey"`
	OrderID  string  `json:"-" gorm:"index;type:varchar(36)"`
	ItemID   string  `json:"item_id" gorm:"type:varchar(36)" validate:"required"`
	Quantity int     `json:"quantity" validate:"required,min=1"`
	Price    float64 `json:"price" validate:"gte=0"`
}
