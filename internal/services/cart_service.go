package services

import (
	"errors"
	"fmt"

	"melodia/internal/models"
	"melodia/internal/repositories"
)

// CartService handles the mutable per-customer line-item list. Mutations
// persist immediately; there is no optimistic concurrency control, so the
// last write wins for concurrent updates to the same cart.
type CartService struct {
	cartRepo repositories.CartRepository
}

// NewCartService creates a new CartService.
func NewCartService(cartRepo repositories.CartRepository) *CartService {
	return &CartService{
		cartRepo: cartRepo,
	}
}

// GetCart returns the customer's cart. A customer without a cart row gets an
// empty-items placeholder, never a not-found error.
func (s *CartService) GetCart(customerID string) (*models.Cart, error) {
	cart, err := s.cartRepo.GetByCustomer(customerID)
	if err != nil {
		if errors.Is(err, repositories.ErrCartNotFound) {
			return &models.Cart{CustomerID: customerID, Items: []models.CartItem{}}, nil
		}
		return nil, err
	}
	return cart, nil
}

// AddItem upserts a line: it creates the cart if absent, increments the
// quantity when the item reference is already present, and appends a new line
// otherwise. No stock-availability check is performed here.
func (s *CartService) AddItem(customerID, itemID string, quantity int) (*models.Cart, error) {
	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}

	cart, err := s.cartRepo.GetByCustomer(customerID)
	if err != nil {
		if !errors.Is(err, repositories.ErrCartNotFound) {
			return nil, err
		}
		cart = &models.Cart{
			CustomerID: customerID,
			Items: []models.CartItem{
				{ItemID: itemID, Quantity: quantity},
			},
		}
		if err := s.cartRepo.Create(cart); err != nil {
			return nil, err
		}
		return s.cartRepo.GetByCustomer(customerID)
	}

	for _, line := range cart.Items {
		if line.ItemID == itemID {
			if err := s.cartRepo.UpdateItemQuantity(cart.ID, itemID, line.Quantity+quantity); err != nil {
				return nil, err
			}
			return s.cartRepo.GetByCustomer(customerID)
		}
	}

	if err := s.cartRepo.AddItem(&models.CartItem{CartID: cart.ID, ItemID: itemID, Quantity: quantity}); err != nil {
		return nil, err
	}
	return s.cartRepo.GetByCustomer(customerID)
}

// UpdateQuantity sets the quantity of an existing line. Both a missing cart
// and a missing line are not-found conditions.
func (s *CartService) UpdateQuantity(customerID, itemID string, quantity int) (*models.Cart, error) {
	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}

	cart, err := s.cartRepo.GetByCustomer(customerID)
	if err != nil {
		return nil, err
	}
	if err := s.cartRepo.UpdateItemQuantity(cart.ID, itemID, quantity); err != nil {
		return nil, err
	}
	return s.cartRepo.GetByCustomer(customerID)
}

// RemoveItem filters the matching line out of the cart. Other lines are left
// untouched and the cart row itself survives; only Clear deletes the cart.
func (s *CartService) RemoveItem(customerID, itemID string) (*models.Cart, error) {
	cart, err := s.cartRepo.GetByCustomer(customerID)
	if err != nil {
		return nil, err
	}
	if err := s.cartRepo.RemoveItem(cart.ID, itemID); err != nil {
		return nil, err
	}
	return s.cartRepo.GetByCustomer(customerID)
}

// Clear deletes the whole cart row for the customer. Clearing an absent cart
// is a no-op.
func (s *CartService) Clear(customerID string) error {
	err := s.cartRepo.DeleteByCustomer(customerID)
	if err != nil && !errors.Is(err, repositories.ErrCartNotFound) {
		return fmt.Errorf("failed to clear cart for customer %s: %w", customerID, err)
	}
	return nil
}
