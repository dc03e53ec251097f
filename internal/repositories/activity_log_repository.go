package repositories

import (
	"fmt"

	"melodia/internal/models"

	"gorm.io/gorm"
)

// ActivityLogRepository defines the interface for the append-only audit trail.
type ActivityLogRepository interface {
	Create(entry *models.ActivityLog) error
	ListRecent(limit int) ([]models.ActivityLog, error)
}

// GORMActivityLogRepository is a GORM implementation of ActivityLogRepository.
type GORMActivityLogRepository struct {
	db *gorm.DB
}

// NewGORMActivityLogRepository creates a new instance of GORMActivityLogRepository.
func NewGORMActivityLogRepository(db *gorm.DB) *GORMActivityLogRepository {
	return &GORMActivityLogRepository{
		db: db,
	}
}

// Create appends an audit record. Records are never updated or deleted.
func (r *GORMActivityLogRepository) Create(entry *models.ActivityLog) error {
	if err := r.db.Create(entry).Error; err != nil {
		return fmt.Errorf("failed to append activity log: %w", err)
	}
	return nil
}

// ListRecent returns the newest audit records, most recent first.
func (r *GORMActivityLogRepository) ListRecent(limit int) ([]models.ActivityLog, error) {
	var entries []models.ActivityLog
	if err := r.db.Order("created_at DESC").Limit(limit).Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("failed to list activity log: %w", err)
	}
	return entries, nil
}
