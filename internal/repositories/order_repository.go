package repositories

import (
	"melodia/internal/models"
)

// MonthlyRevenue is one (year, month) revenue/order-count bucket.
type MonthlyRevenue struct {
	Year    int     `json:"year"`
	Month   int     `json:"month"`
	Revenue float64 `json:"revenue"`
	Orders  int     `json:"orders"`
}

// TopItem ranks a catalog item by ordered quantity.
type TopItem struct {
	ItemID   string `json:"item_id"`
	Quantity int    `json:"quantity"`
	Orders   int    `json:"orders"`
}

// TopCategory ranks a category by order count across its items.
type TopCategory struct {
	CategoryID string `json:"category_id"`
	Orders     int    `json:"orders"`
	Quantity   int    `json:"quantity"`
}

// OrderRepository defines the interface for order data access. Orders are
// never deleted in the normal flow; only their status fields change.
type OrderRepository interface {
	GetAll() ([]models.Order, error)
	GetByID(id string) (*models.Order, error)
	GetByUser(userID string) ([]models.Order, error)
	// GetBySessionID looks an order up by its gateway checkout-session id,
	// used for idempotent webhook handling.
	GetBySessionID(sessionID string) (*models.Order, error)
	Create(order *models.Order) error
	UpdateStatus(id string, status string) error
	// AttachSession links an order to the gateway checkout session created
	// for it.
	AttachSession(id string, sessionID string) error
	// MarkPaid records the gateway transaction id and flips the payment
	// status to paid.
	MarkPaid(id string, transactionID string) error
	// TotalRevenue sums total_price over orders whose status equals the given
	// sentinel exactly (case-sensitive).
	TotalRevenue(status string) (float64, error)
	TopItems(limit int) ([]TopItem, error)
	TopCategories(limit int) ([]TopCategory, error)
}
