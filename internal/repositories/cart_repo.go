package repositories

import "phoneshop/internal/models"

// CartRepository defines the interface for cart data access.
type CartRepository interface {
	GetByUser(userID string) (*models.Cart, error)
	Create(cart *models.Cart) error
	// Save persists the cart's current line items, replacing whatever was
	// stored before.
	Save(cart *models.Cart) error
	DeleteByUser(userID string) error
	// ContainsProduct reports whether any cart holds a line item for the
	// product.
	ContainsProduct(productID string) (bool, error)
}
