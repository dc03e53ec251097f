package services

import (
	"log"

	"melodia/internal/models"
	"melodia/internal/repositories"
)

// recordActivity appends an audit record. Every record must carry the success
// flag and non-empty details; an empty detail string is dropped rather than
// written. Audit failures are logged, never propagated into the request path.
func recordActivity(repo repositories.ActivityLogRepository, customerID *string, action string, success bool, details, ip string) {
	if repo == nil {
		return
	}
	if details == "" {
		log.Printf("Dropping activity record %s without details", action)
		return
	}
	entry := &models.ActivityLog{
		CustomerID: customerID,
		Action:     action,
		Success:    success,
		Details:    details,
		IP:         ip,
	}
	if err := repo.Create(entry); err != nil {
		log.Printf("Failed to append activity log for %s: %v", action, err)
	}
}
