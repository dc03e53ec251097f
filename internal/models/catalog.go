package models

import "gorm.io/gorm"

// Category groups items at the top level (e.g. "Guitars").
type Category struct {
	ID          string `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Name        string `json:"name" gorm:"uniqueIndex;type:varchar(100)" validate:"required,min=2,max=100"`
	Description string `json:"description" validate:"omitempty,max=500"`
	Image       string `json:"image" validate:"omitempty"`
	gorm.Model
}

// Subcategory refines a Category (e.g. "Electric Guitars"). It cannot exist
// without a valid parent Category.
type Subcategory struct {
	ID          string   `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Name        string   `json:"name" gorm:"type:varchar(100)" validate:"required,min=2,max=100"`
	Description string   `json:"description" validate:"omitempty,max=500"`
	Image       string   `json:"image" validate:"omitempty"`
	CategoryID  string   `json:"category_id" gorm:"index;type:varchar(36);not null" validate:"required,uuid"`
	Category    Category `json:"-" gorm:"foreignKey:CategoryID"`
	gorm.Model
}

// Item availability states.
const (
	AvailabilityInStock    = "in_stock"
	AvailabilityOutOfStock = "out_of_stock"
)

// Item tags used for storefront shelves.
const (
	TagFeatured = "Featured"
	TagPopular  = "Popular"
	TagTrending = "Trending"
	TagSpecial  = "Special"
)

// Item is a catalog entry referenced by carts, wishlists and order snapshots.
// Both category references are required.
type Item struct {
	ID            string      `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Name          string      `json:"name" gorm:"type:varchar(100)" validate:"required,min=2,max=100"`
	Description   string      `json:"description" validate:"omitempty,max=1000"`
	Price         float64     `json:"price" validate:"required,gt=0"`
	Availability  string      `json:"availability" gorm:"type:varchar(20);default:in_stock" validate:"omitempty,oneof=in_stock out_of_stock"`
	Image         string      `json:"image"`
	CategoryID    string      `json:"category_id" gorm:"index;type:varchar(36);not null" validate:"required,uuid"`
	Category      Category    `json:"-" gorm:"foreignKey:CategoryID"`
	SubcategoryID string      `json:"subcategory_id" gorm:"index;type:varchar(36);not null" validate:"required,uuid"`
	Subcategory   Subcategory `json:"-" gorm:"foreignKey:SubcategoryID"`
	Tags          []string    `json:"tags" gorm:"serializer:json" validate:"omitempty,dive,oneof=Featured Popular Trending Special"`
	gorm.Model
}
