package handlers

import (
	"errors"
	"log"

	"melodia/internal/repositories"
	"melodia/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// CartHandler handles HTTP requests for the per-customer cart.
type CartHandler struct {
	cartService *services.CartService
	validate    *validator.Validate
}

// NewCartHandler creates a new CartHandler.
func NewCartHandler(cartService *services.CartService) *CartHandler {
	return &CartHandler{
		cartService: cartService,
		validate:    validator.New(),
	}
}

// RegisterRoutes registers the cart routes with the Fiber app.
func (h *CartHandler) RegisterRoutes(router fiber.Router) {
	cartRoutes := router.Group("/cart")
	cartRoutes.Get("/:customerId", h.HandleGetCart)
	cartRoutes.Post("/add", h.HandleAddItem)
	cartRoutes.Put("/update", h.HandleUpdateQuantity)
	// The remove route takes the item id as a path parameter and the customer
	// id as a query parameter.
	cartRoutes.Delete("/remove/:itemId", h.HandleRemoveItem)
	cartRoutes.Delete("/clear/:customerId", h.HandleClearCart)
}

// HandleGetCart returns the customer's cart. A missing cart yields an empty
// placeholder, never a 404.
func (h *CartHandler) HandleGetCart(c *fiber.Ctx) error {
	customerID := c.Params("customerId")
	cart, err := h.cartService.GetCart(customerID)
	if err != nil {
		log.Printf("Error getting cart for customer %s: %v", customerID, err)
		return internalError(c, "Could not retrieve cart")
	}
	return c.JSON(cart)
}

// CartMutationRequest represents the body of add and update calls.
type CartMutationRequest struct {
	CustomerID string `json:"customer_id" validate:"required"`
	ItemID     string `json:"item_id" validate:"required"`
	Quantity   int    `json:"quantity" validate:"required,min=1"`
}

// HandleAddItem upserts a cart line for the customer.
func (h *CartHandler) HandleAddItem(c *fiber.Ctx) error {
	var req CartMutationRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "INVALID_BODY", "Invalid request body", err)
	}
	if err := h.validate.Struct(req); err != nil {
		return validationFailed(c, err)
	}

	cart, err := h.cartService.AddItem(req.CustomerID, req.ItemID, req.Quantity)
	if err != nil {
		if errors.Is(err, services.ErrInvalidQuantity) {
			return badRequest(c, "INVALID_QUANTITY", "Quantity must be at least 1", nil)
		}
		log.Printf("Error adding item %s to cart of %s: %v", req.ItemID, req.CustomerID, err)
		return internalError(c, "Could not add item to cart")
	}
	return c.JSON(cart)
}

// HandleUpdateQuantity sets the quantity of an existing line.
func (h *CartHandler) HandleUpdateQuantity(c *fiber.Ctx) error {
	var req CartMutationRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "INVALID_BODY", "Invalid request body", err)
	}
	if err := h.validate.Struct(req); err != nil {
		return validationFailed(c, err)
	}

	cart, err := h.cartService.UpdateQuantity(req.CustomerID, req.ItemID, req.Quantity)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidQuantity):
			return badRequest(c, "INVALID_QUANTITY", "Quantity must be at least 1", nil)
		case errors.Is(err, repositories.ErrCartNotFound):
			return notFound(c, "CART_NOT_FOUND", "Cart not found")
		case errors.Is(err, repositories.ErrCartItemNotFound):
			return notFound(c, "CART_ITEM_NOT_FOUND", "Item not in cart")
		default:
			log.Printf("Error updating cart line for %s: %v", req.CustomerID, err)
			return internalError(c, "Could not update cart")
		}
	}
	return c.JSON(cart)
}

// HandleRemoveItem filters one line out of the cart.
func (h *CartHandler) HandleRemoveItem(c *fiber.Ctx) error {
	itemID := c.Params("itemId")
	customerID := c.Query("customerId")
	if customerID == "" {
		return badRequest(c, "MISSING_CUSTOMER_ID", "customerId query parameter is required", nil)
	}

	cart, err := h.cartService.RemoveItem(customerID, itemID)
	if err != nil {
		if errors.Is(err, repositories.ErrCartNotFound) {
			return notFound(c, "CART_NOT_FOUND", "Cart not found")
		}
		log.Printf("Error removing item %s from cart of %s: %v", itemID, customerID, err)
		return internalError(c, "Could not remove item from cart")
	}
	return c.JSON(fiber.Map{
		"message": "Item removed from cart",
		"cart":    cart,
	})
}

// HandleClearCart deletes the whole cart row for the customer.
func (h *CartHandler) HandleClearCart(c *fiber.Ctx) error {
	customerID := c.Params("customerId")
	if err := h.cartService.Clear(customerID); err != nil {
		log.Printf("Error clearing cart for %s: %v", customerID, err)
		return internalError(c, "Could not clear cart")
	}
	return c.JSON(fiber.Map{
		"message": "Cart cleared",
	})
}
