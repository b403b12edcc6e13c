package repositories

import "phoneshop/internal/models"

// ActivityRepository defines the interface for user-activity data access.
type ActivityRepository interface {
	GetByUser(userID string) (*models.UserActivity, error)
	Create(activity *models.UserActivity) error
	Update(activity *models.UserActivity) error
}
