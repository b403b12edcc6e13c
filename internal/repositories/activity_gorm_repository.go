package repositories

import (
	"fmt"

	"phoneshop/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMActivityRepository is a GORM implementation of ActivityRepository.
type GORMActivityRepository struct {
	db *gorm.DB
}

// NewGORMActivityRepository creates a new instance of GORMActivityRepository.
func NewGORMActivityRepository(db *gorm.DB) *GORMActivityRepository {
	return &GORMActivityRepository{db: db}
}

// GetByUser retrieves a user's activity record.
func (r *GORMActivityRepository) GetByUser(userID string) (*models.UserActivity, error) {
	var activity models.UserActivity
	if err := r.db.First(&activity, "user_id = ?", userID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("activity for user %s: %w", userID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get activity for user %s: %w", userID, err)
	}
	return &activity, nil
}

// Create creates a new activity record.
func (r *GORMActivityRepository) Create(activity *models.UserActivity) error {
	if activity.ID == "" {
		activity.ID = uuid.New().String()
	}
	if err := r.db.Create(activity).Error; err != nil {
		return fmt.Errorf("failed to create activity record: %w", err)
	}
	return nil
}

// Update persists changes to an existing activity record.
func (r *GORMActivityRepository) Update(activity *models.UserActivity) error {
	res := r.db.Save(activity)
	if res.Error != nil {
		return fmt.Errorf("failed to update activity record: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("activity record %s: %w", activity.ID, ErrNotFound)
	}
	return nil
}
