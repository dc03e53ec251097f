package services_test

import (
	"testing"
	"time"

	"melodia/internal/models"
	"melodia/internal/services"

	"github.com/stretchr/testify/assert"
)

func TestCleanupPurgesOnlyStaleUnverifiedAccounts(t *testing.T) {
	repo := newFakeCustomerRepo()
	svc := services.NewCleanupService(repo)

	stale := &models.Customer{Name: "Stale", Phone: "+15550000001", Email: "stale@example.com", Password: "x", TermsAccepted: true}
	assert.NoError(t, repo.Create(stale))
	stale.CreatedAt = time.Now().Add(-48 * time.Hour)
	assert.NoError(t, repo.Update(stale))

	verified := &models.Customer{Name: "Old But Verified", Phone: "+15550000002", Email: "verified@example.com", Password: "x", TermsAccepted: true, Verified: true}
	assert.NoError(t, repo.Create(verified))
	verified.CreatedAt = time.Now().Add(-48 * time.Hour)
	assert.NoError(t, repo.Update(verified))

	fresh := &models.Customer{Name: "Fresh", Phone: "+15550000003", Email: "fresh@example.com", Password: "x", TermsAccepted: true}
	assert.NoError(t, repo.Create(fresh))

	purged, err := svc.RunOnce()
	assert.NoError(t, err)
	assert.Equal(t, int64(1), purged)

	_, err = repo.GetByID(stale.ID)
	assert.Error(t, err)
	_, err = repo.GetByID(verified.ID)
	assert.NoError(t, err)
	_, err = repo.GetByID(fresh.ID)
	assert.NoError(t, err)
}
