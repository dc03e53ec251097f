package repositories

import (
	"errors"
	"fmt"

	"melodia/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMOrderRepository is a GORM implementation of OrderRepository.
type GORMOrderRepository struct {
	db *gorm.DB
}

// NewGORMOrderRepository creates a new instance of GORMOrderRepository.
func NewGORMOrderRepository(db *gorm.DB) *GORMOrderRepository {
	return &GORMOrderRepository{
		db: db,
	}
}

// GetAll retrieves all orders with their line items.
func (r *GORMOrderRepository) GetAll() ([]models.Order, error) {
	var orders []models.Order
	if err := r.db.Preload("Items").Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to get all orders: %w", err)
	}
	return orders, nil
}

// GetByID retrieves a single order by its ID.
func (r *GORMOrderRepository) GetByID(id string) (*models.Order, error) {
	var order models.Order
	if err := r.db.Preload("Items").First(&order, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to get order by ID %s: %w", id, err)
	}
	return &order, nil
}

// GetByUser retrieves all orders placed by a user.
func (r *GORMOrderRepository) GetByUser(userID string) ([]models.Order, error) {
	var orders []models.Order
	if err := r.db.Preload("Items").Find(&orders, "user_id = ?", userID).Error; err != nil {
		return nil, fmt.Errorf("failed to get orders for user %s: %w", userID, err)
	}
	return orders, nil
}

// GetBySessionID retrieves the order tied to a gateway checkout session.
func (r *GORMOrderRepository) GetBySessionID(sessionID string) (*models.Order, error) {
	var order models.Order
	if err := r.db.Preload("Items").First(&order, "stripe_session_id = ?", sessionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to get order by session %s: %w", sessionID, err)
	}
	return &order, nil
}

// Create persists a new order snapshot with its line items.
func (r *GORMOrderRepository) Create(order *models.Order) error {
	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	if err := r.db.Create(order).Error; err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}
	return nil
}

// UpdateStatus updates the status of an order.
func (r *GORMOrderRepository) UpdateStatus(id string, status string) error {
	res := r.db.Model(&models.Order{}).Where("id = ?", id).Update("order_status", status)
	if res.Error != nil {
		return fmt.Errorf("failed to update order status: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrOrderNotFound
	}
	return nil
}

// AttachSession stores the checkout-session id on an order.
func (r *GORMOrderRepository) AttachSession(id string, sessionID string) error {
	res := r.db.Model(&models.Order{}).Where("id = ?", id).Update("stripe_session_id", sessionID)
	if res.Error != nil {
		return fmt.Errorf("failed to attach session to order: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrOrderNotFound
	}
	return nil
}

// MarkPaid records the gateway transaction id and sets payment status to paid.
func (r *GORMOrderRepository) MarkPaid(id string, transactionID string) error {
	res := r.db.Model(&models.Order{}).Where("id = ?", id).Updates(map[string]interface{}{
		"payment_status":        models.PaymentStatusPaid,
		"stripe_transaction_id": transactionID,
	})
	if res.Error != nil {
		return fmt.Errorf("failed to mark order paid: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrOrderNotFound
	}
	return nil
}

// TotalRevenue sums total_price over orders matching the status sentinel
// exactly. The comparison is deliberately case-sensitive.
func (r *GORMOrderRepository) TotalRevenue(status string) (float64, error) {
	var total *float64
	err := r.db.Model(&models.Order{}).
		Select("SUM(total_price)").
		Where("order_status = ?", status).
		Scan(&total).Error
	if err != nil {
		return 0, fmt.Errorf("failed to aggregate revenue: %w", err)
	}
	if total == nil {
		return 0, nil
	}
	return *total, nil
}

// TopItems ranks items by ordered quantity across all orders.
func (r *GORMOrderRepository) TopItems(limit int) ([]TopItem, error) {
	var rows []TopItem
	err := r.db.Model(&models.OrderItem{}).
		Select("item_id, SUM(quantity) AS quantity, COUNT(DISTINCT order_id) AS orders").
		Group("item_id").
		Order("quantity DESC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate top items: %w", err)
	}
	return rows, nil
}

// TopCategories ranks categories by order count, joining order lines to the
// live catalog for the category reference.
func (r *GORMOrderRepository) TopCategories(limit int) ([]TopCategory, error) {
	var rows []TopCategory
	err := r.db.Model(&models.OrderItem{}).
		Select("items.category_id AS category_id, COUNT(DISTINCT order_items.order_id) AS orders, SUM(order_items.quantity) AS quantity").
		Joins("JOIN items ON items.id = order_items.item_id").
		Group("items.category_id").
		Order("orders DESC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate top categories: %w", err)
	}
	return rows, nil
}
