package services_test

import (
	"testing"

	"melodia/internal/repositories"
	"melodia/internal/services"

	"github.com/stretchr/testify/assert"
)

func TestGetCartReturnsPlaceholderForMissingCart(t *testing.T) {
	svc := services.NewCartService(newFakeCartRepo())

	cart, err := svc.GetCart("customer-1")
	assert.NoError(t, err)
	assert.Equal(t, "customer-1", cart.CustomerID)
	assert.Empty(t, cart.Items)
	assert.Empty(t, cart.ID, "placeholder cart is not persisted")
}

func TestAddItemCreatesCartAndMergesLines(t *testing.T) {
	svc := services.NewCartService(newFakeCartRepo())

	cart, err := svc.AddItem("customer-1", "item-a", 2)
	assert.NoError(t, err)
	assert.Len(t, cart.Items, 1)
	assert.Equal(t, 2, cart.Items[0].Quantity)

	// Same item again: the quantity accumulates on the existing line.
	cart, err = svc.AddItem("customer-1", "item-a", 3)
	assert.NoError(t, err)
	assert.Len(t, cart.Items, 1)
	assert.Equal(t, 5, cart.Items[0].Quantity)

	// A different item gets its own line.
	cart, err = svc.AddItem("customer-1", "item-b", 1)
	assert.NoError(t, err)
	assert.Len(t, cart.Items, 2)
}

func TestAddItemRejectsNonPositiveQuantity(t *testing.T) {
	svc := services.NewCartService(newFakeCartRepo())

	_, err := svc.AddItem("customer-1", "item-a", 0)
	assert.ErrorIs(t, err, services.ErrInvalidQuantity)
	_, err = svc.AddItem("customer-1", "item-a", -3)
	assert.ErrorIs(t, err, services.ErrInvalidQuantity)
}

func TestUpdateQuantitySetsAbsoluteValue(t *testing.T) {
	svc := services.NewCartService(newFakeCartRepo())

	_, err := svc.AddItem("customer-1", "item-a", 2)
	assert.NoError(t, err)

	cart, err := svc.UpdateQuantity("customer-1", "item-a", 7)
	assert.NoError(t, err)
	assert.Equal(t, 7, cart.Items[0].Quantity)
}

func TestUpdateQuantityMissingLineAndCart(t *testing.T) {
	svc := services.NewCartService(newFakeCartRepo())

	_, err := svc.UpdateQuantity("customer-1", "item-a", 2)
	assert.ErrorIs(t, err, repositories.ErrCartNotFound)

	_, err = svc.AddItem("customer-1", "item-a", 1)
	assert.NoError(t, err)
	_, err = svc.UpdateQuantity("customer-1", "item-missing", 2)
	assert.ErrorIs(t, err, repositories.ErrCartItemNotFound)
}

func TestRemoveLastLineKeepsCartRow(t *testing.T) {
	repo := newFakeCartRepo()
	svc := services.NewCartService(repo)

	_, err := svc.AddItem("customer-1", "item-a", 2)
	assert.NoError(t, err)

	cart, err := svc.RemoveItem("customer-1", "item-a")
	assert.NoError(t, err)
	assert.Empty(t, cart.Items)

	// The cart row itself survives an empty item list; only Clear deletes it.
	persisted, err := repo.GetByCustomer("customer-1")
	assert.NoError(t, err)
	assert.NotEmpty(t, persisted.ID)
}

func TestRemoveItemLeavesOtherLinesUntouched(t *testing.T) {
	svc := services.NewCartService(newFakeCartRepo())

	_, err := svc.AddItem("customer-1", "item-a", 2)
	assert.NoError(t, err)
	_, err = svc.AddItem("customer-1", "item-b", 4)
	assert.NoError(t, err)

	cart, err := svc.RemoveItem("customer-1", "item-a")
	assert.NoError(t, err)
	assert.Len(t, cart.Items, 1)
	assert.Equal(t, "item-b", cart.Items[0].ItemID)
	assert.Equal(t, 4, cart.Items[0].Quantity)
}

func TestClearDeletesCartAndToleratesAbsence(t *testing.T) {
	repo := newFakeCartRepo()
	svc := services.NewCartService(repo)

	_, err := svc.AddItem("customer-1", "item-a", 2)
	assert.NoError(t, err)

	assert.NoError(t, svc.Clear("customer-1"))
	_, err = repo.GetByCustomer("customer-1")
	assert.ErrorIs(t, err, repositories.ErrCartNotFound)

	// Clearing a customer without a cart is a no-op, not an error.
	assert.NoError(t, svc.Clear("customer-without-cart"))
}
