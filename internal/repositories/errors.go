package repositories

import "errors"

// Sentinel errors returned by repositories so callers can map them to stable
// HTTP error codes with errors.Is instead of matching message substrings.
var (
	ErrCustomerNotFound = errors.New("customer not found")
	ErrCartNotFound     = errors.New("cart not found")
	ErrCartItemNotFound = errors.New("cart item not found")
	ErrItemNotFound     = errors.New("item not found")
	ErrCategoryNotFound = errors.New("category not found")
	ErrOrderNotFound    = errors.New("order not found")
	ErrWishlistNotFound = errors.New("wishlist entry not found")
	ErrDuplicate        = errors.New("duplicate record")
)
