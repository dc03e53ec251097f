package repositories

import (
	"sort"
	"sync"
	"time"

	"melodia/internal/models"

	"github.com/google/uuid"
)

// MockOrderRepository is an in-memory implementation of OrderRepository.
// The category join in TopCategories is resolved through an item->category
// map seeded by the caller.
type MockOrderRepository struct {
	orders         map[string]models.Order
	itemCategories map[string]string
	mu             sync.RWMutex
}

// NewMockOrderRepository creates a new instance of MockOrderRepository.
func NewMockOrderRepository() *MockOrderRepository {
	return &MockOrderRepository{
		orders:         make(map[string]models.Order),
		itemCategories: make(map[string]string),
	}
}

// SeedItemCategory records which category an item belongs to, standing in for
// the catalog join used by the GORM implementation.
func (r *MockOrderRepository) SeedItemCategory(itemID, categoryID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.itemCategories[itemID] = categoryID
}

// GetAll returns all orders.
func (r *MockOrderRepository) GetAll() ([]models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	orderList := make([]models.Order, 0, len(r.orders))
	for _, order := range r.orders {
		orderList = append(orderList, order)
	}
	return orderList, nil
}

// GetByID returns an order by its ID.
func (r *MockOrderRepository) GetByID(id string) (*models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	order, ok := r.orders[id]
	if !ok {
		return nil, ErrOrderNotFound
	}
	return &order, nil
}

// GetByUser returns all orders placed by a user.
func (r *MockOrderRepository) GetByUser(userID string) ([]models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var orderList []models.Order
	for _, order := range r.orders {
		if order.UserID == userID {
			orderList = append(orderList, order)
		}
	}
	return orderList, nil
}

// GetBySessionID returns the order tied to a checkout session.
func (r *MockOrderRepository) GetBySessionID(sessionID string) (*models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, order := range r.orders {
		if order.StripeSessionID != "" && order.StripeSessionID == sessionID {
			return &order, nil
		}
	}
	return nil, ErrOrderNotFound
}

// Create adds a new order.
func (r *MockOrderRepository) Create(order *models.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	order.CreatedAt = time.Now()
	order.UpdatedAt = time.Now()
	r.orders[order.ID] = *order
	return nil
}

// UpdateStatus updates the status of an order.
func (r *MockOrderRepository) UpdateStatus(id string, status string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, ok := r.orders[id]
	if !ok {
		return ErrOrderNotFound
	}
	order.OrderStatus = status
	order.UpdatedAt = time.Now()
	r.orders[id] = order
	return nil
}

// AttachSession stores the checkout-session id on an order.
func (r *MockOrderRepository) AttachSession(id string, sessionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, ok := r.orders[id]
	if !ok {
		return ErrOrderNotFound
	}
	order.StripeSessionID = sessionID
	order.UpdatedAt = time.Now()
	r.orders[id] = order
	return nil
}

// MarkPaid records the transaction id and flips the payment status.
func (r *MockOrderRepository) MarkPaid(id string, transactionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, ok := r.orders[id]
	if !ok {
		return ErrOrderNotFound
	}
	order.PaymentStatus = models.PaymentStatusPaid
	order.StripeTransactionID = transactionID
	order.UpdatedAt = time.Now()
	r.orders[id] = order
	return nil
}

// TotalRevenue sums total_price over orders matching the sentinel exactly.
func (r *MockOrderRepository) TotalRevenue(status string) (float64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var total float64
	for _, order := range r.orders {
		if order.OrderStatus == status {
			total += order.TotalPrice
		}
	}
	return total, nil
}

// TopItems ranks items by ordered quantity.
func (r *MockOrderRepository) TopItems(limit int) ([]TopItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	byItem := make(map[string]*TopItem)
	for _, order := range r.orders {
		for _, line := range order.Items {
			row, ok := byItem[line.ItemID]
			if !ok {
				row = &TopItem{ItemID: line.ItemID}
				byItem[line.ItemID] = row
			}
			row.Quantity += line.Quantity
			row.Orders++
		}
	}

	rows := make([]TopItem, 0, len(byItem))
	for _, row := range byItem {
		rows = append(rows, *row)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Quantity > rows[j].Quantity })
	if len(rows) > limit {
		rows = rows[:limit]
	}
	return rows, nil
}

// TopCategories ranks categories by order count using the seeded item map.
func (r *MockOrderRepository) TopCategories(limit int) ([]TopCategory, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	byCategory := make(map[string]*TopCategory)
	for _, order := range r.orders {
		for _, line := range order.Items {
			categoryID, ok := r.itemCategories[line.ItemID]
			if !ok {
				continue
			}
			row, ok := byCategory[categoryID]
			if !ok {
				row = &TopCategory{CategoryID: categoryID}
				byCategory[categoryID] = row
			}
			row.Orders++
			row.Quantity += line.Quantity
		}
	}

	rows := make([]TopCategory, 0, len(byCategory))
	for _, row := range byCategory {
		rows = append(rows, *row)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Orders > rows[j].Orders })
	if len(rows) > limit {
		rows = rows[:limit]
	}
	return rows, nil
}
