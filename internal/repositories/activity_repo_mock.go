package repositories

import (
	"fmt"
	"sync"
	"time"

	"phoneshop/internal/models"

	"github.com/google/uuid"
)

// MockActivityRepository is an in-memory implementation of ActivityRepository.
type MockActivityRepository struct {
	activities map[string]models.UserActivity // keyed by user ID
	mu         sync.RWMutex
}

// NewMockActivityRepository creates a new instance of MockActivityRepository.
func NewMockActivityRepository() *MockActivityRepository {
	return &MockActivityRepository{
		activities: make(map[string]models.UserActivity),
	}
}

// GetByUser returns a user's activity record.
func (r *MockActivityRepository) GetByUser(userID string) (*models.UserActivity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	activity, ok := r.activities[userID]
	if !ok {
		return nil, fmt.Errorf("activity for user %s: %w", userID, ErrNotFound)
	}
	return &activity, nil
}

// Create adds a new activity record.
func (r *MockActivityRepository) Create(activity *models.UserActivity) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if activity.ID == "" {
		activity.ID = uuid.New().String()
	}
	activity.CreatedAt = time.Now()
	activity.UpdatedAt = time.Now()
	r.activities[activity.UserID] = *activity
	return nil
}

// Update replaces an existing activity record.
func (r *MockActivityRepository) Update(activity *models.UserActivity) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.activities[activity.UserID]; !ok {
		return fmt.Errorf("activity record %s: %w", activity.ID, ErrNotFound)
	}
	activity.UpdatedAt = time.Now()
	r.activities[activity.UserID] = *activity
	return nil
}
