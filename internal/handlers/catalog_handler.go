package handlers

import (
	"errors"
	"log"

	"melodia/internal/repositories"
	"melodia/internal/services"

	"github.com/gofiber/fiber/v2"
)

// CatalogHandler handles read-only storefront requests for categories,
// subcategories and items.
type CatalogHandler struct {
	catalogService *services.CatalogService
}

// NewCatalogHandler creates a new CatalogHandler.
func NewCatalogHandler(catalogService *services.CatalogService) *CatalogHandler {
	return &CatalogHandler{
		catalogService: catalogService,
	}
}

// RegisterRoutes registers the catalog routes with the Fiber app.
func (h *CatalogHandler) RegisterRoutes(router fiber.Router) {
	categoryRoutes := router.Group("/categories")
	categoryRoutes.Get("/", h.HandleGetCategories)
	categoryRoutes.Get("/:id/subcategories", h.HandleGetSubcategories)

	itemRoutes := router.Group("/items")
	itemRoutes.Get("/", h.HandleGetItems)
	itemRoutes.Get("/tag/:tag", h.HandleGetItemsByTag)
	itemRoutes.Get("/:id", h.HandleGetItemByID)
}

// HandleGetCategories retrieves all categories.
func (h *CatalogHandler) HandleGetCategories(c *fiber.Ctx) error {
	categories, err := h.catalogService.GetAllCategories()
	if err != nil {
		log.Printf("Error getting categories: %v", err)
		return internalError(c, "Could not retrieve categories")
	}
	return c.JSON(categories)
}

// HandleGetSubcategories retrieves the subcategories under one category.
func (h *CatalogHandler) HandleGetSubcategories(c *fiber.Ctx) error {
	categoryID := c.Params("id")
	subcategories, err := h.catalogService.GetSubcategories(categoryID)
	if err != nil {
		if errors.Is(err, repositories.ErrCategoryNotFound) {
			return notFound(c, "CATEGORY_NOT_FOUND", "Category not found")
		}
		log.Printf("Error getting subcategories for category %s: %v", categoryID, err)
		return internalError(c, "Could not retrieve subcategories")
	}
	return c.JSON(subcategories)
}

// HandleGetItems retrieves all catalog items.
func (h *CatalogHandler) HandleGetItems(c *fiber.Ctx) error {
	items, err := h.catalogService.GetAllItems()
	if err != nil {
		log.Printf("Error getting items: %v", err)
		return internalError(c, "Could not retrieve items")
	}
	return c.JSON(items)
}

// HandleGetItemByID retrieves a single item.
func (h *CatalogHandler) HandleGetItemByID(c *fiber.Ctx) error {
	itemID := c.Params("id")
	item, err := h.catalogService.GetItemByID(itemID)
	if err != nil {
		if errors.Is(err, repositories.ErrItemNotFound) {
			return notFound(c, "ITEM_NOT_FOUND", "Item not found")
		}
		log.Printf("Error getting item %s: %v", itemID, err)
		return internalError(c, "Could not retrieve item")
	}
	return c.JSON(item)
}

// HandleGetItemsByTag retrieves one storefront shelf (Featured, Popular,
// Trending or Special).
func (h *CatalogHandler) HandleGetItemsByTag(c *fiber.Ctx) error {
	tag := c.Params("tag")
	items, err := h.catalogService.GetItemsByTag(tag)
	if err != nil {
		log.Printf("Error getting items for tag %s: %v", tag, err)
		return internalError(c, "Could not retrieve items")
	}
	return c.JSON(items)
}
