package handlers

import (
	"errors"
	"log"

	"melodia/internal/models"
	"melodia/internal/repositories"
	"melodia/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// OrderHandler handles HTTP requests for order snapshots, status transitions
// and sales analytics.
type OrderHandler struct {
	service  *services.OrderService
	validate *validator.Validate
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(service *services.OrderService) *OrderHandler {
	return &OrderHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the order routes with the Fiber app.
func (h *OrderHandler) RegisterRoutes(router fiber.Router) {
	orderRoutes := router.Group("/order")
	orderRoutes.Post("/orders", h.HandleCreateOrder)
	orderRoutes.Get("/orders", h.HandleGetOrders)
	orderRoutes.Get("/orders/:id", h.HandleGetOrderByID)
	orderRoutes.Get("/user/:userId", h.HandleGetOrdersByUser)
	orderRoutes.Patch("/orders/:id/status", h.HandleUpdateOrderStatus)
	orderRoutes.Get("/revenue", h.HandleTotalRevenue)
	orderRoutes.Get("/revenue/monthly", h.HandleMonthlyRevenue)
	orderRoutes.Get("/top/items", h.HandleTopItems)
	orderRoutes.Get("/top/categories", h.HandleTopCategories)
}

// HandleCreateOrder persists the client-supplied order snapshot and returns
// it with a 201. Totals are stored exactly as sent.
func (h *OrderHandler) HandleCreateOrder(c *fiber.Ctx) error {
	var order models.Order
	if err := c.BodyParser(&order); err != nil {
		return badRequest(c, "INVALID_BODY", "Invalid request body", err)
	}
	if err := h.validate.Struct(order); err != nil {
		return validationFailed(c, err)
	}

	createdOrder, err := h.service.CreateOrder(&order)
	if err != nil {
		log.Printf("Error creating order: %v", err)
		return internalError(c, "Could not create order")
	}
	return c.Status(fiber.StatusCreated).JSON(createdOrder)
}

// HandleGetOrders retrieves all orders.
func (h *OrderHandler) HandleGetOrders(c *fiber.Ctx) error {
	orders, err := h.service.GetAllOrders()
	if err != nil {
		log.Printf("Error getting all orders: %v", err)
		return internalError(c, "Could not retrieve orders")
	}
	return c.JSON(orders)
}

// HandleGetOrderByID retrieves a single order by its ID.
func (h *OrderHandler) HandleGetOrderByID(c *fiber.Ctx) error {
	orderID := c.Params("id")
	order, err := h.service.GetOrderByID(orderID)
	if err != nil {
		if errors.Is(err, repositories.ErrOrderNotFound) {
			return notFound(c, "ORDER_NOT_FOUND", "Order not found")
		}
		log.Printf("Error getting order by ID %s: %v", orderID, err)
		return internalError(c, "Could not retrieve order")
	}
	return c.JSON(order)
}

// HandleGetOrdersByUser retrieves a user's orders. An empty set is a 404,
// unlike the cart's always-return-a-shape policy.
func (h *OrderHandler) HandleGetOrdersByUser(c *fiber.Ctx) error {
	userID := c.Params("userId")
	orders, err := h.service.GetOrdersByUser(userID)
	if err != nil {
		if errors.Is(err, repositories.ErrOrderNotFound) {
			return notFound(c, "ORDER_NOT_FOUND", "No orders for this user")
		}
		log.Printf("Error getting orders for user %s: %v", userID, err)
		return internalError(c, "Could not retrieve orders")
	}
	return c.JSON(orders)
}

// HandleUpdateOrderStatus applies one status transition.
func (h *OrderHandler) HandleUpdateOrderStatus(c *fiber.Ctx) error {
	orderID := c.Params("id")
	var updateData struct {
		Status string `json:"status" validate:"required"`
	}
	if err := c.BodyParser(&updateData); err != nil {
		return badRequest(c, "INVALID_BODY", "Invalid request body for status update", err)
	}
	if err := h.validate.Struct(updateData); err != nil {
		return validationFailed(c, err)
	}

	err := h.service.UpdateOrderStatus(orderID, updateData.Status)
	if err != nil {
		switch {
		case errors.Is(err, repositories.ErrOrderNotFound):
			return notFound(c, "ORDER_NOT_FOUND", "Order not found")
		case errors.Is(err, services.ErrInvalidStatus):
			return badRequest(c, "INVALID_STATUS", "Unknown order status", nil)
		case errors.Is(err, services.ErrInvalidTransition):
			return badRequest(c, "INVALID_TRANSITION", "Order status can only move forward, or to cancel before completion", nil)
		default:
			log.Printf("Error updating order status for order %s: %v", orderID, err)
			return internalError(c, "Could not update order status")
		}
	}
	return c.JSON(fiber.Map{
		"message": "Order status updated to " + updateData.Status,
	})
}

// HandleTotalRevenue sums revenue over orders matching the configured
// completed sentinel.
func (h *OrderHandler) HandleTotalRevenue(c *fiber.Ctx) error {
	total, err := h.service.TotalRevenue()
	if err != nil {
		log.Printf("Error aggregating revenue: %v", err)
		return internalError(c, "Could not aggregate revenue")
	}
	return c.JSON(fiber.Map{
		"totalRevenue": total,
	})
}

// HandleMonthlyRevenue returns revenue/order counts per (year, month).
func (h *OrderHandler) HandleMonthlyRevenue(c *fiber.Ctx) error {
	rows, err := h.service.MonthlyRevenue()
	if err != nil {
		log.Printf("Error aggregating monthly revenue: %v", err)
		return internalError(c, "Could not aggregate monthly revenue")
	}
	return c.JSON(rows)
}

// HandleTopItems returns the five most-ordered items.
func (h *OrderHandler) HandleTopItems(c *fiber.Ctx) error {
	rows, err := h.service.TopItems()
	if err != nil {
		log.Printf("Error aggregating top items: %v", err)
		return internalError(c, "Could not aggregate top items")
	}
	return c.JSON(rows)
}

// HandleTopCategories returns the five categories with the most orders.
func (h *OrderHandler) HandleTopCategories(c *fiber.Ctx) error {
	rows, err := h.service.TopCategories()
	if err != nil {
		log.Printf("Error aggregating top categories: %v", err)
		return internalError(c, "Could not aggregate top categories")
	}
	return c.JSON(rows)
}
