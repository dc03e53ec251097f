package models

import "time"

// Wishlist is one row per (customer, item) pair; presence encodes membership.
type Wishlist struct {
	ID         string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	CustomerID string    `json:"customer_id" gorm:"index:idx_wishlist_customer_item,unique;type:varchar(36)" validate:"required"`
	ItemID     string    `json:"item_id" gorm:"index:idx_wishlist_customer_item,unique;type:varchar(36)" validate:"required"`
	CreatedAt  time.Time `json:"created_at"`
}
