package services

import (
	"fmt"
	"log"
	"sort"
	"time"

	"melodia/internal/models"
	"melodia/internal/repositories"
	"melodia/pkg/rabbitmq"
)

// Forward-only order progression; cancel is handled separately.
var statusRank = map[string]int{
	models.OrderStatusPending:    0,
	models.OrderStatusConfirmed:  1,
	models.OrderStatusProcessing: 2,
	models.OrderStatusCompleted:  3,
}

const topListLimit = 5

// OrderService handles order snapshots, status transitions and the sales
// analytics derived from them.
type OrderService struct {
	orderRepo    repositories.OrderRepository
	activityRepo repositories.ActivityLogRepository
	mqClient     rabbitmq.Publisher
	// Sentinel matched (case-sensitively) by the revenue aggregation. The
	// historical default is "Completed", which does not match the lowercase
	// status enum; see TotalRevenue.
	revenueStatus string
}

// NewOrderService creates a new OrderService.
func NewOrderService(
	orderRepo repositories.OrderRepository,
	activityRepo repositories.ActivityLogRepository,
	mqClient rabbitmq.Publisher,
	revenueStatus string,
) *OrderService {
	if revenueStatus == "" {
		revenueStatus = "Completed"
	}
	return &OrderService{
		orderRepo:     orderRepo,
		activityRepo:  activityRepo,
		mqClient:      mqClient,
		revenueStatus: revenueStatus,
	}
}

// CreateOrder persists the client-supplied snapshot verbatim: line-item
// prices, subtotal, delivery charge and total are stored as given, NOT
// recomputed against the live catalog. The status always starts at pending.
func (s *OrderService) CreateOrder(order *models.Order) (*models.Order, error) {
	order.OrderStatus = models.OrderStatusPending
	if order.PaymentStatus == "" {
		order.PaymentStatus = models.PaymentStatusPending
	}

	if err := s.orderRepo.Create(order); err != nil {
		return nil, fmt.Errorf("failed to create order in repository: %w", err)
	}

	if s.mqClient != nil {
		if err := s.mqClient.PublishOrderCreated(order.ID, order.UserID, order.TotalPrice); err != nil {
			log.Printf("Warning: Failed to publish order created event for order %s: %v", order.ID, err)
		}
	}

	recordActivity(s.activityRepo, &order.UserID, models.ActionOrderCreated, true,
		fmt.Sprintf("order %s created, total %.2f", order.ID, order.TotalPrice), "")
	return order, nil
}

// GetAllOrders retrieves all orders.
func (s *OrderService) GetAllOrders() ([]models.Order, error) {
	return s.orderRepo.GetAll()
}

// GetOrderByID retrieves a single order by its ID.
func (s *OrderService) GetOrderByID(id string) (*models.Order, error) {
	return s.orderRepo.GetByID(id)
}

// GetOrdersByUser retrieves a user's orders. An empty result set is reported
// as not-found, unlike the cart's always-return-a-shape policy.
func (s *OrderService) GetOrdersByUser(userID string) ([]models.Order, error) {
	orders, err := s.orderRepo.GetByUser(userID)
	if err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return nil, repositories.ErrOrderNotFound
	}
	return orders, nil
}

// UpdateOrderStatus enforces forward-only movement through
// pending -> confirmed -> processing -> completed. Cancel is allowed from any
// state before completed; everything else is rejected.
func (s *OrderService) UpdateOrderStatus(id string, status string) error {
	if status != models.OrderStatusCancel {
		if _, ok := statusRank[status]; !ok {
			return ErrInvalidStatus
		}
	}

	order, err := s.orderRepo.GetByID(id)
	if err != nil {
		return err
	}

	current := order.OrderStatus
	switch {
	case status == models.OrderStatusCancel:
		if current == models.OrderStatusCompleted || current == models.OrderStatusCancel {
			return ErrInvalidTransition
		}
	case current == models.OrderStatusCancel:
		return ErrInvalidTransition
	case statusRank[status] != statusRank[current]+1:
		return ErrInvalidTransition
	}

	if err := s.orderRepo.UpdateStatus(id, status); err != nil {
		return fmt.Errorf("failed to update order status for order %s: %w", id, err)
	}
	return nil
}

// TotalRevenue sums totalPrice over orders whose status matches the configured
// sentinel exactly. With the default sentinel "Completed" this never matches
// the lowercase "completed" enum value, so the sum stays at zero; the mismatch
// is preserved deliberately and surfaced by a regression test rather than
// normalized away.
func (s *OrderService) TotalRevenue() (float64, error) {
	return s.orderRepo.TotalRevenue(s.revenueStatus)
}

// MonthlyRevenue buckets revenue and order counts by (year, month), newest
// bucket last.
func (s *OrderService) MonthlyRevenue() ([]repositories.MonthlyRevenue, error) {
	orders, err := s.orderRepo.GetAll()
	if err != nil {
		return nil, err
	}

	type key struct {
		year  int
		month time.Month
	}
	buckets := make(map[key]*repositories.MonthlyRevenue)
	for _, order := range orders {
		k := key{order.CreatedAt.Year(), order.CreatedAt.Month()}
		bucket, ok := buckets[k]
		if !ok {
			bucket = &repositories.MonthlyRevenue{Year: k.year, Month: int(k.month)}
			buckets[k] = bucket
		}
		bucket.Revenue += order.TotalPrice
		bucket.Orders++
	}

	rows := make([]repositories.MonthlyRevenue, 0, len(buckets))
	for _, bucket := range buckets {
		rows = append(rows, *bucket)
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Year != rows[j].Year {
			return rows[i].Year < rows[j].Year
		}
		return rows[i].Month < rows[j].Month
	})
	return rows, nil
}

// TopItems returns the five most-ordered items by quantity.
func (s *OrderService) TopItems() ([]repositories.TopItem, error) {
	return s.orderRepo.TopItems(topListLimit)
}

// TopCategories returns the five categories with the most orders.
func (s *OrderService) TopCategories() ([]repositories.TopCategory, error) {
	return s.orderRepo.TopCategories(topListLimit)
}

// FinalizePayment idempotently marks an order paid and confirmed once the
// gateway reports success. Repeated webhook deliveries for the same order are
// absorbed: an already-paid order is left untouched.
func (s *OrderService) FinalizePayment(orderID, transactionID string) error {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return err
	}
	if order.PaymentStatus == models.PaymentStatusPaid {
		return nil
	}

	if err := s.orderRepo.MarkPaid(orderID, transactionID); err != nil {
		return fmt.Errorf("failed to mark order %s paid: %w", orderID, err)
	}
	if order.OrderStatus == models.OrderStatusPending {
		if err := s.orderRepo.UpdateStatus(orderID, models.OrderStatusConfirmed); err != nil {
			log.Printf("Warning: order %s paid but confirm failed: %v", orderID, err)
		}
	}

	if s.mqClient != nil {
		if err := s.mqClient.PublishOrderPaid(orderID, transactionID); err != nil {
			log.Printf("Warning: Failed to publish order paid event for order %s: %v", orderID, err)
		}
	}

	recordActivity(s.activityRepo, &order.UserID, models.ActionOrderPaid, true,
		fmt.Sprintf("order %s paid, transaction %s", orderID, transactionID), "")
	return nil
}

// AttachSession links an order to the gateway checkout session created for it.
func (s *OrderService) AttachSession(orderID, sessionID string) error {
	return s.orderRepo.AttachSession(orderID, sessionID)
}

// OrderBySession resolves an order from a checkout-session id.
func (s *OrderService) OrderBySession(sessionID string) (*models.Order, error) {
	return s.orderRepo.GetBySessionID(sessionID)
}
