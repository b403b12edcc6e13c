package repositories

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"phoneshop/internal/models"

	"github.com/google/uuid"
)

// MockOrderRepository is an in-memory implementation of OrderRepository. It
// collaborates with the mock product and cart repositories to reproduce the
// all-or-nothing placement semantics of the GORM implementation.
type MockOrderRepository struct {
	orders   map[string]models.Order
	mu       sync.RWMutex
	products *MockProductRepository
	carts    *MockCartRepository
}

// NewMockOrderRepository creates a new instance of MockOrderRepository.
func NewMockOrderRepository(products *MockProductRepository, carts *MockCartRepository) *MockOrderRepository {
	return &MockOrderRepository{
		orders:   make(map[string]models.Order),
		products: products,
		carts:    carts,
	}
}

// List returns one page of orders, newest first.
func (r *MockOrderRepository) List(page, limit int) ([]models.Order, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	all := make([]models.Order, 0, len(r.orders))
	for _, o := range r.orders {
		all = append(all, o)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })

	total := int64(len(all))
	start := (page - 1) * limit
	if start >= len(all) {
		return []models.Order{}, total, nil
	}
	end := start + limit
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], total, nil
}

// GetByID returns an order by its ID.
func (r *MockOrderRepository) GetByID(id string) (*models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	order, ok := r.orders[id]
	if !ok {
		return nil, fmt.Errorf("order with ID %s: %w", id, ErrNotFound)
	}
	return &order, nil
}

// GetDetails returns an order with product records attached to its items.
func (r *MockOrderRepository) GetDetails(id string) (*models.Order, error) {
	order, err := r.GetByID(id)
	if err != nil {
		return nil, err
	}
	for i := range order.Items {
		if product, err := r.products.GetByID(order.Items[i].ProductID); err == nil {
			order.Items[i].Product = product
		}
	}
	return order, nil
}

// GetByUser returns a user's orders, newest first.
func (r *MockOrderRepository) GetByUser(userID string) ([]models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var orders []models.Order
	for _, o := range r.orders {
		if o.UserID == userID {
			orders = append(orders, o)
		}
	}
	sort.Slice(orders, func(i, j int) bool { return orders[i].CreatedAt.After(orders[j].CreatedAt) })
	return orders, nil
}

// Search matches order IDs against a case-insensitive substring.
func (r *MockOrderRepository) Search(query string) ([]models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	q := strings.ToLower(query)
	var orders []models.Order
	for _, o := range r.orders {
		if strings.Contains(strings.ToLower(o.ID), q) {
			orders = append(orders, o)
		}
	}
	sort.Slice(orders, func(i, j int) bool { return orders[i].CreatedAt.After(orders[j].CreatedAt) })
	return orders, nil
}

// Place reproduces the transactional placement: stock is checked for every
// line item before anything is decremented, so a failure leaves all stock
// untouched, and the user's cart is removed on success.
func (r *MockOrderRepository) Place(order *models.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.products.mu.Lock()
	defer r.products.mu.Unlock()

	for _, item := range order.Items {
		product, ok := r.products.products[item.ProductID]
		if !ok {
			return &ProductMissingError{ProductID: item.ProductID}
		}
		if product.Stock < item.Quantity {
			return &InsufficientStockError{
				ProductID: product.ID,
				Name:      product.Name,
				Available: product.Stock,
			}
		}
	}

	for _, item := range order.Items {
		product := r.products.products[item.ProductID]
		product.Stock -= item.Quantity
		r.products.products[item.ProductID] = product
	}

	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	for i := range order.Items {
		order.Items[i].OrderID = order.ID
	}
	order.CreatedAt = time.Now()
	order.UpdatedAt = time.Now()
	r.orders[order.ID] = *order

	_ = r.carts.DeleteByUser(order.UserID)
	return nil
}

// UpdateStatus transitions an order's status and payment status.
func (r *MockOrderRepository) UpdateStatus(id, status, paymentStatus string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, ok := r.orders[id]
	if !ok {
		return fmt.Errorf("order with ID %s: %w", id, ErrNotFound)
	}
	order.Status = status
	order.PaymentStatus = paymentStatus
	order.UpdatedAt = time.Now()
	r.orders[id] = order
	return nil
}

// UpdatePaymentStatus transitions only the payment status.
func (r *MockOrderRepository) UpdatePaymentStatus(id, paymentStatus string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, ok := r.orders[id]
	if !ok {
		return fmt.Errorf("order with ID %s: %w", id, ErrNotFound)
	}
	order.PaymentStatus = paymentStatus
	order.UpdatedAt = time.Now()
	r.orders[id] = order
	return nil
}

// ContainsProduct reports whether any order line references the product.
func (r *MockOrderRepository) ContainsProduct(productID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, order := range r.orders {
		for _, item := range order.Items {
			if item.ProductID == productID {
				return true, nil
			}
		}
	}
	return false, nil
}
