package services_test

import (
	"testing"

	"melodia/internal/models"
	"melodia/internal/repositories"
	"melodia/internal/services"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type fakeWishlistRepo struct {
	entries []models.Wishlist
}

func (r *fakeWishlistRepo) GetByCustomer(customerID string) ([]models.Wishlist, error) {
	var out []models.Wishlist
	for _, entry := range r.entries {
		if entry.CustomerID == customerID {
			out = append(out, entry)
		}
	}
	return out, nil
}

func (r *fakeWishlistRepo) Add(entry *models.Wishlist) error {
	for _, existing := range r.entries {
		if existing.CustomerID == entry.CustomerID && existing.ItemID == entry.ItemID {
			return repositories.ErrDuplicate
		}
	}
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	r.entries = append(r.entries, *entry)
	return nil
}

func (r *fakeWishlistRepo) Remove(customerID, itemID string) error {
	for i, entry := range r.entries {
		if entry.CustomerID == customerID && entry.ItemID == itemID {
			r.entries = append(r.entries[:i], r.entries[i+1:]...)
			return nil
		}
	}
	return repositories.ErrWishlistNotFound
}

type fakeItemRepo struct {
	items map[string]models.Item
}

func (r *fakeItemRepo) GetAll() ([]models.Item, error) {
	out := make([]models.Item, 0, len(r.items))
	for _, item := range r.items {
		out = append(out, item)
	}
	return out, nil
}

func (r *fakeItemRepo) GetByID(id string) (*models.Item, error) {
	item, ok := r.items[id]
	if !ok {
		return nil, repositories.ErrItemNotFound
	}
	return &item, nil
}

func (r *fakeItemRepo) GetByTag(tag string) ([]models.Item, error) {
	var out []models.Item
	for _, item := range r.items {
		for _, t := range item.Tags {
			if t == tag {
				out = append(out, item)
				break
			}
		}
	}
	return out, nil
}

func (r *fakeItemRepo) Create(item *models.Item) error {
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	r.items[item.ID] = *item
	return nil
}

func (r *fakeItemRepo) Update(item *models.Item) error {
	if _, ok := r.items[item.ID]; !ok {
		return repositories.ErrItemNotFound
	}
	r.items[item.ID] = *item
	return nil
}

func newWishlistFixture() (*services.WishlistService, *fakeItemRepo) {
	itemRepo := &fakeItemRepo{items: make(map[string]models.Item)}
	svc := services.NewWishlistService(&fakeWishlistRepo{}, itemRepo)
	return svc, itemRepo
}

func TestWishlistAddAndList(t *testing.T) {
	svc, itemRepo := newWishlistFixture()
	itemRepo.items["item-a"] = models.Item{ID: "item-a", Name: "Alto Sax"}

	entry, err := svc.Add("customer-1", "item-a")
	assert.NoError(t, err)
	assert.Equal(t, "item-a", entry.ItemID)

	entries, err := svc.GetWishlist("customer-1")
	assert.NoError(t, err)
	assert.Len(t, entries, 1)

	// Other customers see their own, empty, list. The slice must be non-nil
	// so handlers serialize it as [] instead of null.
	entries, err = svc.GetWishlist("customer-2")
	assert.NoError(t, err)
	assert.NotNil(t, entries)
	assert.Empty(t, entries)
}

func TestWishlistAddUnknownItem(t *testing.T) {
	svc, _ := newWishlistFixture()

	_, err := svc.Add("customer-1", "no-such-item")
	assert.ErrorIs(t, err, repositories.ErrItemNotFound)
}

func TestWishlistAddDuplicateIsConflict(t *testing.T) {
	svc, itemRepo := newWishlistFixture()
	itemRepo.items["item-a"] = models.Item{ID: "item-a", Name: "Alto Sax"}

	_, err := svc.Add("customer-1", "item-a")
	assert.NoError(t, err)
	_, err = svc.Add("customer-1", "item-a")
	assert.ErrorIs(t, err, repositories.ErrDuplicate)
}

func TestWishlistRemove(t *testing.T) {
	svc, itemRepo := newWishlistFixture()
	itemRepo.items["item-a"] = models.Item{ID: "item-a", Name: "Alto Sax"}

	_, err := svc.Add("customer-1", "item-a")
	assert.NoError(t, err)
	assert.NoError(t, svc.Remove("customer-1", "item-a"))
	assert.ErrorIs(t, svc.Remove("customer-1", "item-a"), repositories.ErrWishlistNotFound)
}
