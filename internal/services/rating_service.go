package services

import (
	"errors"
	"log"

	"phoneshop/internal/models"
	"phoneshop/internal/repositories"
)

// RatingService handles product ratings and keeps each product's average
// rating in sync with the rating records.
type RatingService struct {
	ratingRepo  repositories.RatingRepository
	productRepo repositories.ProductRepository
	activity    *ActivityService
}

// NewRatingService creates a new RatingService. activity may be nil.
func NewRatingService(
	ratingRepo repositories.RatingRepository,
	productRepo repositories.ProductRepository,
	activity *ActivityService,
) *RatingService {
	return &RatingService{
		ratingRepo:  ratingRepo,
		productRepo: productRepo,
		activity:    activity,
	}
}

// AddOrUpdate upserts a user's rating of a product and recomputes the
// product's average. Each user holds at most one rating per product.
func (s *RatingService) AddOrUpdate(userID, productID string, value int, review string) (*models.Rating, error) {
	product, err := s.productRepo.GetByID(productID)
	if err != nil {
		return nil, err
	}

	rating, err := s.ratingRepo.GetByUserAndProduct(userID, productID)
	switch {
	case err == nil:
		rating.Rating = value
		rating.Review = review
		if err := s.ratingRepo.Update(rating); err != nil {
			return nil, err
		}
	case errors.Is(err, repositories.ErrNotFound):
		rating = &models.Rating{
			UserID:    userID,
			ProductID: productID,
			Rating:    value,
			Review:    review,
		}
		if err := s.ratingRepo.Create(rating); err != nil {
			return nil, err
		}
	default:
		return nil, err
	}

	if err := s.recomputeAverage(product); err != nil {
		return nil, err
	}

	if s.activity != nil {
		if err := s.activity.LogRating(userID, productID, value, review); err != nil {
			log.Printf("Warning: failed to log rating activity for user %s: %v", userID, err)
		}
	}
	return rating, nil
}

// Delete removes a user's rating of a product and recomputes the product's
// average, which falls back to zero when no ratings remain.
func (s *RatingService) Delete(userID, productID string) error {
	product, err := s.productRepo.GetByID(productID)
	if err != nil {
		return err
	}
	if _, err := s.ratingRepo.GetByUserAndProduct(userID, productID); err != nil {
		return err
	}
	if err := s.ratingRepo.DeleteByUserAndProduct(userID, productID); err != nil {
		return err
	}

	if err := s.recomputeAverage(product); err != nil {
		return err
	}

	if s.activity != nil {
		if err := s.activity.RemoveRating(userID, productID); err != nil {
			log.Printf("Warning: failed to remove rating activity for user %s: %v", userID, err)
		}
	}
	return nil
}

// HasRated reports whether the user has rated the product, returning the
// rating when present.
func (s *RatingService) HasRated(userID, productID string) (*models.Rating, bool, error) {
	rating, err := s.ratingRepo.GetByUserAndProduct(userID, productID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return rating, true, nil
}

// GetProductRatings lists all ratings of a product, newest first.
func (s *RatingService) GetProductRatings(productID string) ([]models.Rating, error) {
	if _, err := s.productRepo.GetByID(productID); err != nil {
		return nil, err
	}
	return s.ratingRepo.ListByProduct(productID)
}

func (s *RatingService) recomputeAverage(product *models.Product) error {
	ratings, err := s.ratingRepo.ListByProduct(product.ID)
	if err != nil {
		return err
	}

	average := 0.0
	if len(ratings) > 0 {
		sum := 0
		for _, r := range ratings {
			sum += r.Rating
		}
		average = float64(sum) / float64(len(ratings))
	}
	product.AverageRating = average
	product.TotalRatings = len(ratings)
	return s.productRepo.Update(product)
}
