package repositories

import (
	"errors"
	"fmt"

	"melodia/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMCartRepository is a GORM implementation of CartRepository.
type GORMCartRepository struct {
	db *gorm.DB
}

// NewGORMCartRepository creates a new instance of GORMCartRepository.
func NewGORMCartRepository(db *gorm.DB) *GORMCartRepository {
	return &GORMCartRepository{
		db: db,
	}
}

// GetByCustomer retrieves the customer's cart with its line items preloaded.
func (r *GORMCartRepository) GetByCustomer(customerID string) (*models.Cart, error) {
	var cart models.Cart
	if err := r.db.Preload("Items").First(&cart, "customer_id = ?", customerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCartNotFound
		}
		return nil, fmt.Errorf("failed to get cart for customer %s: %w", customerID, err)
	}
	return &cart, nil
}

// Create creates a new cart row (with any initial line items).
func (r *GORMCartRepository) Create(cart *models.Cart) error {
	if cart.ID == "" {
		cart.ID = uuid.New().String()
	}
	if err := r.db.Create(cart).Error; err != nil {
		return fmt.Errorf("failed to create cart: %w", err)
	}
	return nil
}

// AddItem appends a new line to an existing cart.
func (r *GORMCartRepository) AddItem(item *models.CartItem) error {
	if err := r.db.Create(item).Error; err != nil {
		return fmt.Errorf("failed to add cart item: %w", err)
	}
	return nil
}

// UpdateItemQuantity sets the quantity of one line item.
func (r *GORMCartRepository) UpdateItemQuantity(cartID, itemID string, quantity int) error {
	res := r.db.Model(&models.CartItem{}).
		Where("cart_id = ? AND item_id = ?", cartID, itemID).
		Update("quantity", quantity)
	if res.Error != nil {
		return fmt.Errorf("failed to update cart item quantity: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrCartItemNotFound
	}
	return nil
}

// RemoveItem drops a line from the cart. A missing line is not an error;
// the matching line is simply filtered out.
func (r *GORMCartRepository) RemoveItem(cartID, itemID string) error {
	res := r.db.Where("cart_id = ? AND item_id = ?", cartID, itemID).Delete(&models.CartItem{})
	if res.Error != nil {
		return fmt.Errorf("failed to remove cart item: %w", res.Error)
	}
	return nil
}

// DeleteByCustomer removes the whole cart row for a customer, lines included.
func (r *GORMCartRepository) DeleteByCustomer(customerID string) error {
	var cart models.Cart
	if err := r.db.First(&cart, "customer_id = ?", customerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCartNotFound
		}
		return fmt.Errorf("failed to find cart for customer %s: %w", customerID, err)
	}
	if err := r.db.Where("cart_id = ?", cart.ID).Delete(&models.CartItem{}).Error; err != nil {
		return fmt.Errorf("failed to clear cart items: %w", err)
	}
	if err := r.db.Delete(&cart).Error; err != nil {
		return fmt.Errorf("failed to delete cart: %w", err)
	}
	return nil
}
