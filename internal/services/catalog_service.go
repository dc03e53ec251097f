package services

import (
	"melodia/internal/models"
	"melodia/internal/repositories"
)

// CatalogService exposes read-only storefront views of the catalog. Admin
// CRUD for categories, subcategories and items lives outside this service.
type CatalogService struct {
	categoryRepo repositories.CategoryRepository
	itemRepo     repositories.ItemRepository
}

// NewCatalogService creates a new CatalogService.
func NewCatalogService(categoryRepo repositories.CategoryRepository, itemRepo repositories.ItemRepository) *CatalogService {
	return &CatalogService{
		categoryRepo: categoryRepo,
		itemRepo:     itemRepo,
	}
}

// GetAllCategories retrieves all categories.
func (s *CatalogService) GetAllCategories() ([]models.Category, error) {
	return s.categoryRepo.GetAll()
}

// GetSubcategories retrieves the subcategories under a category, checking the
// parent exists first.
func (s *CatalogService) GetSubcategories(categoryID string) ([]models.Subcategory, error) {
	if _, err := s.categoryRepo.GetByID(categoryID); err != nil {
		return nil, err
	}
	return s.categoryRepo.GetSubcategories(categoryID)
}

// GetAllItems retrieves all catalog items.
func (s *CatalogService) GetAllItems() ([]models.Item, error) {
	return s.itemRepo.GetAll()
}

// GetItemByID retrieves a single item.
func (s *CatalogService) GetItemByID(id string) (*models.Item, error) {
	return s.itemRepo.GetByID(id)
}

// GetItemsByTag retrieves the items on one storefront shelf
// (Featured, Popular, Trending or Special).
func (s *CatalogService) GetItemsByTag(tag string) ([]models.Item, error) {
	return s.itemRepo.GetByTag(tag)
}
