package repositories

import (
	"fmt"

	"phoneshop/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMOrderRepository is a GORM implementation of OrderRepository.
type GORMOrderRepository struct {
	db *gorm.DB
}

// NewGORMOrderRepository creates a new instance of GORMOrderRepository.
func NewGORMOrderRepository(db *gorm.DB) *GORMOrderRepository {
	return &GORMOrderRepository{db: db}
}

// List retrieves one page of orders, newest first.
func (r *GORMOrderRepository) List(page, limit int) ([]models.Order, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	var orders []models.Order
	if err := r.db.Preload("Items").Order("created_at DESC").
		Offset((page - 1) * limit).Limit(limit).Find(&orders).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list orders: %w", err)
	}

	var total int64
	if err := r.db.Model(&models.Order{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count orders: %w", err)
	}
	return orders, total, nil
}

// GetByID retrieves an order with its line items.
func (r *GORMOrderRepository) GetByID(id string) (*models.Order, error) {
	var order models.Order
	if err := r.db.Preload("Items").First(&order, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("order with ID %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get order by ID %s: %w", id, err)
	}
	return &order, nil
}

// GetDetails retrieves an order with the product record behind each line
// item populated. Products deleted since purchase stay nil.
func (r *GORMOrderRepository) GetDetails(id string) (*models.Order, error) {
	var order models.Order
	if err := r.db.Preload("Items.Product").First(&order, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("order with ID %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get order details for %s: %w", id, err)
	}
	return &order, nil
}

// GetByUser retrieves a user's orders, newest first.
func (r *GORMOrderRepository) GetByUser(userID string) ([]models.Order, error) {
	var orders []models.Order
	if err := r.db.Preload("Items").Where("user_id = ?", userID).
		Order("created_at DESC").Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to get orders for user %s: %w", userID, err)
	}
	return orders, nil
}

// Search matches order IDs against a case-insensitive substring.
func (r *GORMOrderRepository) Search(query string) ([]models.Order, error) {
	var orders []models.Order
	pattern := "%" + query + "%"
	if err := r.db.Preload("Items").Where("LOWER(id) LIKE LOWER(?)", pattern).
		Order("created_at DESC").Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to search orders: %w", err)
	}
	return orders, nil
}

// Place runs the order placement as a single transaction. Each stock
// decrement is conditional on sufficient stock so that concurrent placements
// against the same product cannot oversell; a failed guard aborts the whole
// placement and restores every prior decrement via rollback.
func (r *GORMOrderRepository) Place(order *models.Order) error {
	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	for i := range order.Items {
		order.Items[i].OrderID = order.ID
	}

	return r.db.Transaction(func(tx *gorm.DB) error {
		for _, item := range order.Items {
			res := tx.Model(&models.Product{}).
				Where("id = ? AND stock >= ?", item.ProductID, item.Quantity).
				UpdateColumn("stock", gorm.Expr("stock - ?", item.Quantity))
			if res.Error != nil {
				return fmt.Errorf("failed to decrement stock for product %s: %w", item.ProductID, res.Error)
			}
			if res.RowsAffected == 0 {
				var product models.Product
				if err := tx.First(&product, "id = ?", item.ProductID).Error; err != nil {
					if err == gorm.ErrRecordNotFound {
						return &ProductMissingError{ProductID: item.ProductID}
					}
					return fmt.Errorf("failed to inspect product %s: %w", item.ProductID, err)
				}
				return &InsufficientStockError{
					ProductID: product.ID,
					Name:      product.Name,
					Available: product.Stock,
				}
			}
		}

		if err := tx.Create(order).Error; err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}

		// The cart is consumed by the order; remove it in the same
		// transaction.
		var cart models.Cart
		if err := tx.First(&cart, "user_id = ?", order.UserID).Error; err == nil {
			if err := tx.Where("cart_id = ?", cart.ID).Delete(&models.CartItem{}).Error; err != nil {
				return fmt.Errorf("failed to clear cart items: %w", err)
			}
			if err := tx.Delete(&cart).Error; err != nil {
				return fmt.Errorf("failed to delete cart: %w", err)
			}
		}
		return nil
	})
}

// UpdateStatus transitions an order's status and payment status.
func (r *GORMOrderRepository) UpdateStatus(id, status, paymentStatus string) error {
	updates := map[string]interface{}{"status": status, "payment_status": paymentStatus}
	res := r.db.Model(&models.Order{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return fmt.Errorf("failed to update order %s status: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("order with ID %s: %w", id, ErrNotFound)
	}
	return nil
}

// UpdatePaymentStatus transitions only the payment status, used by gateway
// callback verification.
func (r *GORMOrderRepository) UpdatePaymentStatus(id, paymentStatus string) error {
	res := r.db.Model(&models.Order{}).Where("id = ?", id).
		Update("payment_status", paymentStatus)
	if res.Error != nil {
		return fmt.Errorf("failed to update order %s payment status: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("order with ID %s: %w", id, ErrNotFound)
	}
	return nil
}

// ContainsProduct reports whether any order line references the product.
func (r *GORMOrderRepository) ContainsProduct(productID string) (bool, error) {
	var count int64
	if err := r.db.Model(&models.OrderItem{}).
		Where("product_id = ?", productID).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check orders for product %s: %w", productID, err)
	}
	return count > 0, nil
}
