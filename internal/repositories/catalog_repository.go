package repositories

import "melodia/internal/models"

// CategoryRepository defines the interface for category/subcategory reads.
// Admin CRUD for the catalog lives outside this service; carts, wishlists and
// orders only need lookups and existence checks.
type CategoryRepository interface {
	GetAll() ([]models.Category, error)
	GetByID(id string) (*models.Category, error)
	GetSubcategories(categoryID string) ([]models.Subcategory, error)
}

// ItemRepository defines the interface for catalog item data access.
type ItemRepository interface {
	GetAll() ([]models.Item, error)
	GetByID(id string) (*models.Item, error)
	GetByTag(tag string) ([]models.Item, error)
	Create(item *models.Item) error
	Update(item *models.Item) error
}
