package services

import (
	"melodia/internal/models"
	"melodia/internal/repositories"
)

// WishlistService handles per-customer wishlists. Membership is encoded by
// row presence; there is no quantity.
type WishlistService struct {
	wishlistRepo repositories.WishlistRepository
	itemRepo     repositories.ItemRepository
}

// NewWishlistService creates a new WishlistService.
func NewWishlistService(wishlistRepo repositories.WishlistRepository, itemRepo repositories.ItemRepository) *WishlistService {
	return &WishlistService{
		wishlistRepo: wishlistRepo,
		itemRepo:     itemRepo,
	}
}

// GetWishlist retrieves all wishlist entries for a customer. An empty
// wishlist comes back as an empty slice so it serializes as [], not null.
func (s *WishlistService) GetWishlist(customerID string) ([]models.Wishlist, error) {
	entries, err := s.wishlistRepo.GetByCustomer(customerID)
	if err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []models.Wishlist{}
	}
	return entries, nil
}

// Add records a (customer, item) pair after checking the item exists.
func (s *WishlistService) Add(customerID, itemID string) (*models.Wishlist, error) {
	if _, err := s.itemRepo.GetByID(itemID); err != nil {
		return nil, err
	}
	entry := &models.Wishlist{CustomerID: customerID, ItemID: itemID}
	if err := s.wishlistRepo.Add(entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// Remove drops a (customer, item) pair from the wishlist.
func (s *WishlistService) Remove(customerID, itemID string) error {
	return s.wishlistRepo.Remove(customerID, itemID)
}
