package models

import "time"

// CartItem is a single (product, quantity) line inside a cart.
type CartItem struct {
	ID        uint   `json:"-" gorm:"primaryKey"`
	CartID    string `json:"-" gorm:"type:varchar(36);index"`
	ProductID string `json:"product" gorm:"type:varchar(36)"`
	Quantity  int    `json:"quantity" validate:"gte=1"`
}

// Cart is the per-user mutable shopping cart. There is at most one per user;
// it is created lazily and destroyed when converted into an order.
type Cart struct {
	ID        string     `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID    string     `json:"user" gorm:"type:varchar(36);uniqueIndex"`
	Items     []CartItem `json:"items" gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// CartView is the cart response DTO: the cart plus derived totals. Prices are
// live, so TotalPrice reflects current product prices, not add-time prices.
type CartView struct {
	Cart       Cart    `json:"cart"`
	TotalPrice float64 `json:"totalPrice"`
	Total      int     `json:"total"`
}
