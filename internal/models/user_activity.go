package models

import "time"

// ActivityRating mirrors a user's rating inside the activity log, one entry
// per product, updated in place.
type ActivityRating struct {
	ProductID string `json:"product"`
	Rating    int    `json:"rating"`
	Review    string `json:"review,omitempty"`
}

// UserActivity is the append-only per-user interaction log consumed by the
// external recommendation service. ViewedProducts is a set (no duplicates);
// PurchasedProducts is append-only, one entry per order line item.
type UserActivity struct {
	ID                string           `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID            string           `json:"user" gorm:"type:varchar(36);uniqueIndex"`
	ViewedProducts    []string         `json:"viewedProducts" gorm:"serializer:json"`
	PurchasedProducts []string         `json:"purchasedProducts" gorm:"serializer:json"`
	Ratings           []ActivityRating `json:"ratings" gorm:"serializer:json"`
	CreatedAt         time.Time        `json:"created_at"`
	UpdatedAt         time.Time        `json:"updated_at"`
}
