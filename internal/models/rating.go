package models

import "time"

// Rating is one user's rating of one product. There is at most one per
// (user, product) pair, enforced by upsert semantics in the service.
type Rating struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID    string    `json:"user" gorm:"type:varchar(36);index:idx_rating_user_product"`
	ProductID string    `json:"product" gorm:"type:varchar(36);index:idx_rating_user_product"`
	Rating    int       `json:"rating" validate:"required,gte=1,lte=5"`
	Review    string    `json:"review,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}
