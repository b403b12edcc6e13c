package services

import (
	"testing"

	"phoneshop/internal/models"
	"phoneshop/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRatingTestEnv(t *testing.T) (*RatingService, *repositories.MockProductRepository, *repositories.MockActivityRepository) {
	t.Helper()
	products := repositories.NewMockProductRepository()
	ratings := repositories.NewMockRatingRepository()
	activityRepo := repositories.NewMockActivityRepository()
	activity := NewActivityService(activityRepo, nil)

	require.NoError(t, products.Create(&models.Product{ID: "p1", Name: "Phone", Price: 100, Stock: 5}))
	return NewRatingService(ratings, products, activity), products, activityRepo
}

func TestAddRatingRecomputesAverage(t *testing.T) {
	service, products, _ := newRatingTestEnv(t)

	_, err := service.AddOrUpdate("user-1", "p1", 5, "great phone")
	require.NoError(t, err)
	_, err = service.AddOrUpdate("user-2", "p1", 2, "")
	require.NoError(t, err)

	product, err := products.GetByID("p1")
	require.NoError(t, err)
	assert.Equal(t, 3.5, product.AverageRating)
	assert.Equal(t, 2, product.TotalRatings)
}

func TestAddRatingStoresExactMean(t *testing.T) {
	service, products, _ := newRatingTestEnv(t)

	_, err := service.AddOrUpdate("user-1", "p1", 5, "")
	require.NoError(t, err)
	_, err = service.AddOrUpdate("user-2", "p1", 4, "")
	require.NoError(t, err)
	_, err = service.AddOrUpdate("user-3", "p1", 4, "")
	require.NoError(t, err)

	// The stored average is the raw mean, never rounded.
	product, err := products.GetByID("p1")
	require.NoError(t, err)
	assert.Equal(t, 13.0/3.0, product.AverageRating)
	assert.Equal(t, 3, product.TotalRatings)
}

func TestAddRatingUpsertsPerUser(t *testing.T) {
	service, products, _ := newRatingTestEnv(t)

	_, err := service.AddOrUpdate("user-1", "p1", 5, "great")
	require.NoError(t, err)

	// The same user rating again replaces, it never adds a second record.
	rating, err := service.AddOrUpdate("user-1", "p1", 1, "changed my mind")
	require.NoError(t, err)
	assert.Equal(t, 1, rating.Rating)
	assert.Equal(t, "changed my mind", rating.Review)

	product, err := products.GetByID("p1")
	require.NoError(t, err)
	assert.Equal(t, 1.0, product.AverageRating)
	assert.Equal(t, 1, product.TotalRatings)
}

func TestAddRatingMirrorsIntoActivity(t *testing.T) {
	service, _, activityRepo := newRatingTestEnv(t)

	_, err := service.AddOrUpdate("user-1", "p1", 4, "solid")
	require.NoError(t, err)
	_, err = service.AddOrUpdate("user-1", "p1", 2, "broke")
	require.NoError(t, err)

	record, err := activityRepo.GetByUser("user-1")
	require.NoError(t, err)
	require.Len(t, record.Ratings, 1)
	assert.Equal(t, 2, record.Ratings[0].Rating)
	assert.Equal(t, "broke", record.Ratings[0].Review)
}

func TestAddRatingUnknownProduct(t *testing.T) {
	service, _, _ := newRatingTestEnv(t)

	_, err := service.AddOrUpdate("user-1", "missing", 4, "")
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestDeleteRatingRecomputesToZero(t *testing.T) {
	service, products, activityRepo := newRatingTestEnv(t)

	_, err := service.AddOrUpdate("user-1", "p1", 4, "")
	require.NoError(t, err)

	require.NoError(t, service.Delete("user-1", "p1"))

	product, err := products.GetByID("p1")
	require.NoError(t, err)
	assert.Zero(t, product.AverageRating)
	assert.Zero(t, product.TotalRatings)

	record, err := activityRepo.GetByUser("user-1")
	require.NoError(t, err)
	assert.Empty(t, record.Ratings)
}

func TestDeleteRatingAbsent(t *testing.T) {
	service, _, _ := newRatingTestEnv(t)

	err := service.Delete("user-1", "p1")
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestHasRated(t *testing.T) {
	service, _, _ := newRatingTestEnv(t)

	_, rated, err := service.HasRated("user-1", "p1")
	require.NoError(t, err)
	assert.False(t, rated)

	_, err = service.AddOrUpdate("user-1", "p1", 3, "")
	require.NoError(t, err)

	rating, rated, err := service.HasRated("user-1", "p1")
	require.NoError(t, err)
	assert.True(t, rated)
	require.NotNil(t, rating)
	assert.Equal(t, 3, rating.Rating)
}

func TestGetProductRatings(t *testing.T) {
	service, _, _ := newRatingTestEnv(t)

	_, err := service.AddOrUpdate("user-1", "p1", 5, "")
	require.NoError(t, err)
	_, err = service.AddOrUpdate("user-2", "p1", 3, "")
	require.NoError(t, err)

	ratings, err := service.GetProductRatings("p1")
	require.NoError(t, err)
	assert.Len(t, ratings, 2)

	_, err = service.GetProductRatings("missing")
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}
