package repositories

import (
	"fmt"
	"sync"
	"time"

	"phoneshop/internal/models"

	"github.com/google/uuid"
)

// MockRatingRepository is an in-memory implementation of RatingRepository.
type MockRatingRepository struct {
	ratings map[string]models.Rating // keyed by userID+"/"+productID
	mu      sync.RWMutex
}

// NewMockRatingRepository creates a new instance of MockRatingRepository.
func NewMockRatingRepository() *MockRatingRepository {
	return &MockRatingRepository{
		ratings: make(map[string]models.Rating),
	}
}

func ratingKey(userID, productID string) string {
	return userID + "/" + productID
}

// GetByUserAndProduct returns a user's rating of a product.
func (r *MockRatingRepository) GetByUserAndProduct(userID, productID string) (*models.Rating, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rating, ok := r.ratings[ratingKey(userID, productID)]
	if !ok {
		return nil, fmt.Errorf("rating by user %s for product %s: %w", userID, productID, ErrNotFound)
	}
	return &rating, nil
}

// ListByProduct returns every rating of a product.
func (r *MockRatingRepository) ListByProduct(productID string) ([]models.Rating, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var ratings []models.Rating
	for _, rating := range r.ratings {
		if rating.ProductID == productID {
			ratings = append(ratings, rating)
		}
	}
	return ratings, nil
}

// Create adds a new rating.
func (r *MockRatingRepository) Create(rating *models.Rating) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if rating.ID == "" {
		rating.ID = uuid.New().String()
	}
	if rating.CreatedAt.IsZero() {
		rating.CreatedAt = time.Now()
	}
	r.ratings[ratingKey(rating.UserID, rating.ProductID)] = *rating
	return nil
}

// Update replaces an existing rating.
func (r *MockRatingRepository) Update(rating *models.Rating) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := ratingKey(rating.UserID, rating.ProductID)
	if _, ok := r.ratings[key]; !ok {
		return fmt.Errorf("rating with ID %s: %w", rating.ID, ErrNotFound)
	}
	r.ratings[key] = *rating
	return nil
}

// DeleteByUserAndProduct removes a user's rating of a product.
func (r *MockRatingRepository) DeleteByUserAndProduct(userID, productID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := ratingKey(userID, productID)
	if _, ok := r.ratings[key]; !ok {
		return fmt.Errorf("rating by user %s for product %s: %w", userID, productID, ErrNotFound)
	}
	delete(r.ratings, key)
	return nil
}
