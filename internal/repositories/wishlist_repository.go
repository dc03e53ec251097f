package repositories

import "melodia/internal/models"

// WishlistRepository defines the interface for wishlist data access.
type WishlistRepository interface {
	GetByCustomer(customerID string) ([]models.Wishlist, error)
	// Add inserts the (customer, item) pair, returning ErrDuplicate when the
	// pair already exists.
	Add(entry *models.Wishlist) error
	// Remove deletes the pair, returning ErrWishlistNotFound when absent.
	Remove(customerID, itemID string) error
}
