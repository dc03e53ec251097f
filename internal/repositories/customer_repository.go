package repositories

import (
	"time"

	"melodia/internal/models"
)

// CustomerRepository defines the interface for customer data access.
type CustomerRepository interface {
	Create(customer *models.Customer) error
	GetByID(id string) (*models.Customer, error)
	GetByEmail(email string) (*models.Customer, error)
	Update(customer *models.Customer) error
	// DeleteUnverifiedBefore removes unverified accounts created before the
	// cutoff and reports how many rows were purged.
	DeleteUnverifiedBefore(cutoff time.Time) (int64, error)
}
