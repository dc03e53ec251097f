package handlers

import (
	"log"

	"melodia/internal/repositories"

	"github.com/gofiber/fiber/v2"
)

const defaultActivityPageSize = 100

// ActivityHandler exposes the audit trail to administrators.
type ActivityHandler struct {
	activityRepo repositories.ActivityLogRepository
}

// NewActivityHandler creates a new ActivityHandler.
func NewActivityHandler(activityRepo repositories.ActivityLogRepository) *ActivityHandler {
	return &ActivityHandler{
		activityRepo: activityRepo,
	}
}

// RegisterRoutes registers the activity log routes with the Fiber app.
func (h *ActivityHandler) RegisterRoutes(router fiber.Router) {
	activityRoutes := router.Group("/activity")
	activityRoutes.Get("/", h.HandleListRecent)
}

// HandleListRecent returns the newest audit records, most recent first.
func (h *ActivityHandler) HandleListRecent(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", defaultActivityPageSize)
	if limit < 1 || limit > 1000 {
		limit = defaultActivityPageSize
	}

	entries, err := h.activityRepo.ListRecent(limit)
	if err != nil {
		log.Printf("Error listing activity log: %v", err)
		return internalError(c, "Could not retrieve activity log")
	}
	return c.JSON(entries)
}
