package repositories

import "melodia/internal/models"

// CartRepository defines the interface for cart data access. Line items are
// manipulated directly; the upsert semantics live in the cart service.
type CartRepository interface {
	// GetByCustomer returns the customer's cart with its line items, or
	// ErrCartNotFound when no cart row exists.
	GetByCustomer(customerID string) (*models.Cart, error)
	Create(cart *models.Cart) error
	AddItem(item *models.CartItem) error
	// UpdateItemQuantity sets the quantity of one line, returning
	// ErrCartItemNotFound if the line does not exist.
	UpdateItemQuantity(cartID, itemID string, quantity int) error
	// RemoveItem drops a line if present; removing an absent line is not an error.
	RemoveItem(cartID, itemID string) error
	// DeleteByCustomer deletes the whole cart row (and its lines).
	DeleteByCustomer(customerID string) error
}
