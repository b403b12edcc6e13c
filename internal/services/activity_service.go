package services

import (
	"errors"
	"log"

	"phoneshop/internal/models"
	"phoneshop/internal/repositories"
	"phoneshop/pkg/rabbitmq"
)

// ActivityService maintains the per-user interaction log consumed by the
// external recommendation service.
type ActivityService struct {
	activityRepo repositories.ActivityRepository
	mqClient     *rabbitmq.Client
}

// NewActivityService creates a new ActivityService. mqClient may be nil, in
// which case no events are published.
func NewActivityService(activityRepo repositories.ActivityRepository, mqClient *rabbitmq.Client) *ActivityService {
	return &ActivityService{
		activityRepo: activityRepo,
		mqClient:     mqClient,
	}
}

// GetActivity retrieves a user's activity record.
func (s *ActivityService) GetActivity(userID string) (*models.UserActivity, error) {
	return s.activityRepo.GetByUser(userID)
}

// LogView records that a user viewed a product. The viewed set holds no
// duplicates, so repeated views are idempotent.
func (s *ActivityService) LogView(userID, productID string) error {
	activity, err := s.getOrCreate(userID)
	if err != nil {
		return err
	}
	for _, id := range activity.ViewedProducts {
		if id == productID {
			return nil
		}
	}
	activity.ViewedProducts = append(activity.ViewedProducts, productID)
	return s.activityRepo.Update(activity)
}

// LogPurchase appends one purchase entry per order line item and publishes
// the purchase to the recommendation queue.
func (s *ActivityService) LogPurchase(userID string, productIDs []string) error {
	activity, err := s.getOrCreate(userID)
	if err != nil {
		return err
	}
	activity.PurchasedProducts = append(activity.PurchasedProducts, productIDs...)
	if err := s.activityRepo.Update(activity); err != nil {
		return err
	}

	if s.mqClient != nil {
		if err := s.mqClient.PublishPurchase(userID, productIDs); err != nil {
			log.Printf("Warning: failed to publish purchase event for user %s: %v", userID, err)
		}
	}
	return nil
}

// LogRating mirrors a rating into the activity log, one entry per product,
// updated in place.
func (s *ActivityService) LogRating(userID, productID string, rating int, review string) error {
	activity, err := s.getOrCreate(userID)
	if err != nil {
		return err
	}

	updated := false
	for i := range activity.Ratings {
		if activity.Ratings[i].ProductID == productID {
			activity.Ratings[i].Rating = rating
			activity.Ratings[i].Review = review
			updated = true
			break
		}
	}
	if !updated {
		activity.Ratings = append(activity.Ratings, models.ActivityRating{
			ProductID: productID,
			Rating:    rating,
			Review:    review,
		})
	}
	return s.activityRepo.Update(activity)
}

// RemoveRating drops a product's entry from the user's rating log. A user
// without an activity record is a no-op.
func (s *ActivityService) RemoveRating(userID, productID string) error {
	activity, err := s.activityRepo.GetByUser(userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil
		}
		return err
	}

	ratings := activity.Ratings[:0]
	for _, r := range activity.Ratings {
		if r.ProductID != productID {
			ratings = append(ratings, r)
		}
	}
	activity.Ratings = ratings
	return s.activityRepo.Update(activity)
}

func (s *ActivityService) getOrCreate(userID string) (*models.UserActivity, error) {
	activity, err := s.activityRepo.GetByUser(userID)
	if err == nil {
		return activity, nil
	}
	if !errors.Is(err, repositories.ErrNotFound) {
		return nil, err
	}
	activity = &models.UserActivity{
		UserID:            userID,
		ViewedProducts:    []string{},
		PurchasedProducts: []string{},
		Ratings:           []models.ActivityRating{},
	}
	if err := s.activityRepo.Create(activity); err != nil {
		return nil, err
	}
	return activity, nil
}
