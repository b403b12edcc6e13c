package repositories

import "phoneshop/internal/models"

// OrderRepository defines the interface for order data access.
type OrderRepository interface {
	List(page, limit int) ([]models.Order, int64, error)
	GetByID(id string) (*models.Order, error)
	// GetDetails retrieves an order with the product behind each line item
	// populated.
	GetDetails(id string) (*models.Order, error)
	GetByUser(userID string) ([]models.Order, error)
	Search(query string) ([]models.Order, error)
	// Place persists a new order atomically: every line item's stock is
	// decremented with a guard against overselling, the order and its items
	// are inserted, and the user's cart is removed. Any failure rolls the
	// whole placement back.
	Place(order *models.Order) error
	UpdateStatus(id, status, paymentStatus string) error
	UpdatePaymentStatus(id, paymentStatus string) error
	// ContainsProduct reports whether any order line references the product.
	ContainsProduct(productID string) (bool, error)
}
