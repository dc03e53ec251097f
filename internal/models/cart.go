package models

import "time"

// Cart holds the mutable line items for one customer. There is at most one
// cart per customer; clearing it deletes the whole row.
type Cart struct {
	ID         string     `json:"id" gorm:"primaryKey;type:varchar(36)"`
	CustomerID string     `json:"customer_id" gorm:"uniqueIndex;type:varchar(36)"` // Enforces one cart per customer
	Items      []CartItem `json:"items" gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// CartItem is one (item, quantity) line within a cart. Quantity is always >= 1;
// removing the last unit removes the line, never the cart.
type CartItem struct {
	ID       uint   `json:"-" gorm:"primaryKey"`
	CartID   string `json:"-" gorm:"index;type:varchar(36)"`
	ItemID   string `json:"item_id" gorm:"type:varchar(36)" validate:"required"`
	Quantity int    `json:"quantity" validate:"required,min=1"`
}
