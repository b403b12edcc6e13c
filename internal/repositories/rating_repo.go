package repositories

import "phoneshop/internal/models"

// RatingRepository defines the interface for rating data access.
type RatingRepository interface {
	GetByUserAndProduct(userID, productID string) (*models.Rating, error)
	ListByProduct(productID string) ([]models.Rating, error)
	Create(rating *models.Rating) error
	Update(rating *models.Rating) error
	DeleteByUserAndProduct(userID, productID string) error
}
