package repositories

import (
	"fmt"

	"phoneshop/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMRatingRepository is a GORM implementation of RatingRepository.
type GORMRatingRepository struct {
	db *gorm.DB
}

// NewGORMRatingRepository creates a new instance of GORMRatingRepository.
func NewGORMRatingRepository(db *gorm.DB) *GORMRatingRepository {
	return &GORMRatingRepository{db: db}
}

// GetByUserAndProduct retrieves a user's rating of a product.
func (r *GORMRatingRepository) GetByUserAndProduct(userID, productID string) (*models.Rating, error) {
	var rating models.Rating
	err := r.db.First(&rating, "user_id = ? AND product_id = ?", userID, productID).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("rating by user %s for product %s: %w", userID, productID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get rating: %w", err)
	}
	return &rating, nil
}

// ListByProduct retrieves every rating of a product.
func (r *GORMRatingRepository) ListByProduct(productID string) ([]models.Rating, error) {
	var ratings []models.Rating
	if err := r.db.Where("product_id = ?", productID).Find(&ratings).Error; err != nil {
		return nil, fmt.Errorf("failed to list ratings for product %s: %w", productID, err)
	}
	return ratings, nil
}

// Create creates a new rating.
func (r *GORMRatingRepository) Create(rating *models.Rating) error {
	if rating.ID == "" {
		rating.ID = uuid.New().String()
	}
	if err := r.db.Create(rating).Error; err != nil {
		return fmt.Errorf("failed to create rating: %w", err)
	}
	return nil
}

// Update updates an existing rating.
func (r *GORMRatingRepository) Update(rating *models.Rating) error {
	res := r.db.Save(rating)
	if res.Error != nil {
		return fmt.Errorf("failed to update rating: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("rating with ID %s: %w", rating.ID, ErrNotFound)
	}
	return nil
}

// DeleteByUserAndProduct removes a user's rating of a product.
func (r *GORMRatingRepository) DeleteByUserAndProduct(userID, productID string) error {
	res := r.db.Where("user_id = ? AND product_id = ?", userID, productID).
		Delete(&models.Rating{})
	if res.Error != nil {
		return fmt.Errorf("failed to delete rating: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("rating by user %s for product %s: %w", userID, productID, ErrNotFound)
	}
	return nil
}
