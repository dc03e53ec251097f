package services

import (
	"log"
	"time"

	"melodia/internal/repositories"
)

// CleanupService purges unverified accounts older than 24 hours on a fixed
// daily schedule. It runs independently of request handling and does not
// coordinate with concurrent verifications.
type CleanupService struct {
	customerRepo repositories.CustomerRepository
	interval     time.Duration
	maxAge       time.Duration
}

// NewCleanupService creates a new CleanupService with the daily schedule.
func NewCleanupService(customerRepo repositories.CustomerRepository) *CleanupService {
	return &CleanupService{
		customerRepo: customerRepo,
		interval:     24 * time.Hour,
		maxAge:       24 * time.Hour,
	}
}

// RunOnce purges unverified accounts past the age limit and reports the count.
func (s *CleanupService) RunOnce() (int64, error) {
	return s.customerRepo.DeleteUnverifiedBefore(time.Now().Add(-s.maxAge))
}

// Run executes RunOnce on the wall-clock schedule until stop is closed.
// Intended to be started as a goroutine from main.
func (s *CleanupService) Run(stop <-chan struct{}) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			purged, err := s.RunOnce()
			if err != nil {
				log.Printf("Unverified-account cleanup failed: %v", err)
				continue
			}
			if purged > 0 {
				log.Printf("Purged %d unverified accounts", purged)
			}
		case <-stop:
			return
		}
	}
}
