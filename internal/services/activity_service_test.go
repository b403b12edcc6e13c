package services

import (
	"testing"

	"phoneshop/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogViewIsIdempotent(t *testing.T) {
	repo := repositories.NewMockActivityRepository()
	service := NewActivityService(repo, nil)

	require.NoError(t, service.LogView("user-1", "p1"))
	require.NoError(t, service.LogView("user-1", "p1"))
	require.NoError(t, service.LogView("user-1", "p2"))

	record, err := repo.GetByUser("user-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"p1", "p2"}, record.ViewedProducts)
}

func TestLogPurchaseAppendsPerLine(t *testing.T) {
	repo := repositories.NewMockActivityRepository()
	service := NewActivityService(repo, nil)

	require.NoError(t, service.LogPurchase("user-1", []string{"p1", "p2"}))
	require.NoError(t, service.LogPurchase("user-1", []string{"p1"}))

	record, err := repo.GetByUser("user-1")
	require.NoError(t, err)
	// Purchases append, repeat buys are kept.
	assert.Equal(t, []string{"p1", "p2", "p1"}, record.PurchasedProducts)
}

func TestGetActivityUnknownUser(t *testing.T) {
	service := NewActivityService(repositories.NewMockActivityRepository(), nil)

	_, err := service.GetActivity("nobody")
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestRemoveRatingWithoutRecordIsNoOp(t *testing.T) {
	service := NewActivityService(repositories.NewMockActivityRepository(), nil)

	assert.NoError(t, service.RemoveRating("nobody", "p1"))
}
