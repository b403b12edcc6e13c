package repositories

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a referenced entity does not exist. Callers
// match it with errors.Is.
var ErrNotFound = errors.New("not found")

// ProductMissingError reports an order line referencing a product that no
// longer exists.
type ProductMissingError struct {
	ProductID string
}

func (e *ProductMissingError) Error() string {
	return fmt.Sprintf("product with id %s not found", e.ProductID)
}

// InsufficientStockError reports a guarded stock decrement that failed
// because the product cannot cover the requested quantity.
type InsufficientStockError struct {
	ProductID string
	Name      string
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("not enough stock for product: %s. Available: %d", e.Name, e.Available)
}
