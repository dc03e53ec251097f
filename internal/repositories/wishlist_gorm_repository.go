package repositories

import (
	"errors"
	"fmt"

	"melodia/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMWishlistRepository is a GORM implementation of WishlistRepository.
type GORMWishlistRepository struct {
	db *gorm.DB
}

// NewGORMWishlistRepository creates a new instance of GORMWishlistRepository.
func NewGORMWishlistRepository(db *gorm.DB) *GORMWishlistRepository {
	return &GORMWishlistRepository{
		db: db,
	}
}

// GetByCustomer retrieves all wishlist entries for a customer.
func (r *GORMWishlistRepository) GetByCustomer(customerID string) ([]models.Wishlist, error) {
	var entries []models.Wishlist
	if err := r.db.Find(&entries, "customer_id = ?", customerID).Error; err != nil {
		return nil, fmt.Errorf("failed to get wishlist for customer %s: %w", customerID, err)
	}
	return entries, nil
}

// Add inserts a (customer, item) pair. The composite unique index turns a
// repeated add into ErrDuplicate.
func (r *GORMWishlistRepository) Add(entry *models.Wishlist) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	var existing models.Wishlist
	err := r.db.First(&existing, "customer_id = ? AND item_id = ?", entry.CustomerID, entry.ItemID).Error
	if err == nil {
		return ErrDuplicate
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to check wishlist entry: %w", err)
	}
	if err := r.db.Create(entry).Error; err != nil {
		return fmt.Errorf("failed to add wishlist entry: %w", err)
	}
	return nil
}

// Remove deletes a (customer, item) pair from the wishlist.
func (r *GORMWishlistRepository) Remove(customerID, itemID string) error {
	res := r.db.Where("customer_id = ? AND item_id = ?", customerID, itemID).Delete(&models.Wishlist{})
	if res.Error != nil {
		return fmt.Errorf("failed to remove wishlist entry: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrWishlistNotFound
	}
	return nil
}
