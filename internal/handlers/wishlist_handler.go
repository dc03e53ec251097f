package handlers

import (
	"errors"
	"log"

	"melodia/internal/repositories"
	"melodia/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// WishlistHandler handles HTTP requests for per-customer wishlists.
type WishlistHandler struct {
	wishlistService *services.WishlistService
	validate        *validator.Validate
}

// NewWishlistHandler creates a new WishlistHandler.
func NewWishlistHandler(wishlistService *services.WishlistService) *WishlistHandler {
	return &WishlistHandler{
		wishlistService: wishlistService,
		validate:        validator.New(),
	}
}

// RegisterRoutes registers the wishlist routes with the Fiber app.
func (h *WishlistHandler) RegisterRoutes(router fiber.Router) {
	wishlistRoutes := router.Group("/wishlist")
	wishlistRoutes.Get("/:customerId", h.HandleGetWishlist)
	wishlistRoutes.Post("/add", h.HandleAdd)
	wishlistRoutes.Delete("/remove", h.HandleRemove)
}

// HandleGetWishlist returns all wishlist entries for a customer. An empty
// wishlist is an empty list, not a 404.
func (h *WishlistHandler) HandleGetWishlist(c *fiber.Ctx) error {
	customerID := c.Params("customerId")
	entries, err := h.wishlistService.GetWishlist(customerID)
	if err != nil {
		log.Printf("Error getting wishlist for customer %s: %v", customerID, err)
		return internalError(c, "Could not retrieve wishlist")
	}
	return c.JSON(entries)
}

// WishlistMutationRequest represents the body of add and remove calls.
type WishlistMutationRequest struct {
	CustomerID string `json:"customer_id" validate:"required"`
	ItemID     string `json:"item_id" validate:"required"`
}

// HandleAdd records a (customer, item) pair. Adding an item twice is a
// conflict, not a quantity bump.
func (h *WishlistHandler) HandleAdd(c *fiber.Ctx) error {
	var req WishlistMutationRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "INVALID_BODY", "Invalid request body", err)
	}
	if err := h.validate.Struct(req); err != nil {
		return validationFailed(c, err)
	}

	entry, err := h.wishlistService.Add(req.CustomerID, req.ItemID)
	if err != nil {
		switch {
		case errors.Is(err, repositories.ErrItemNotFound):
			return notFound(c, "ITEM_NOT_FOUND", "Item not found")
		case errors.Is(err, repositories.ErrDuplicate):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"success": false,
				"code":    "ALREADY_IN_WISHLIST",
				"message": "Item is already in the wishlist",
			})
		default:
			log.Printf("Error adding item %s to wishlist of %s: %v", req.ItemID, req.CustomerID, err)
			return internalError(c, "Could not add item to wishlist")
		}
	}
	return c.Status(fiber.StatusCreated).JSON(entry)
}

// HandleRemove drops a (customer, item) pair from the wishlist.
func (h *WishlistHandler) HandleRemove(c *fiber.Ctx) error {
	var req WishlistMutationRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "INVALID_BODY", "Invalid request body", err)
	}
	if err := h.validate.Struct(req); err != nil {
		return validationFailed(c, err)
	}

	if err := h.wishlistService.Remove(req.CustomerID, req.ItemID); err != nil {
		if errors.Is(err, repositories.ErrWishlistNotFound) {
			return notFound(c, "WISHLIST_ENTRY_NOT_FOUND", "Item not in wishlist")
		}
		log.Printf("Error removing item %s from wishlist of %s: %v", req.ItemID, req.CustomerID, err)
		return internalError(c, "Could not remove item from wishlist")
	}
	return c.JSON(fiber.Map{
		"message": "Item removed from wishlist",
	})
}
