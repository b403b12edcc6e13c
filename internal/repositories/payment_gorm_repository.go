package repositories

import (
	"fmt"
	"time"

	"phoneshop/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMPaymentRepository is a GORM implementation of PaymentRepository.
type GORMPaymentRepository struct {
	db *gorm.DB
}

// NewGORMPaymentRepository creates a new instance of GORMPaymentRepository.
func NewGORMPaymentRepository(db *gorm.DB) *GORMPaymentRepository {
	return &GORMPaymentRepository{db: db}
}

// Create persists a payment record. Cash-on-delivery payments with no
// gateway transaction id get one synthesized from the payment's own id.
func (r *GORMPaymentRepository) Create(payment *models.Payment) error {
	if payment.ID == "" {
		payment.ID = uuid.New().String()
	}
	if payment.PaymentGateway == models.GatewayCOD && payment.TransactionID == "" {
		payment.TransactionID = "COD-" + payment.ID
	}
	if payment.PaymentDate.IsZero() {
		payment.PaymentDate = time.Now()
	}
	if err := r.db.Create(payment).Error; err != nil {
		return fmt.Errorf("failed to create payment: %w", err)
	}
	return nil
}

// GetByID retrieves a payment by its ID.
func (r *GORMPaymentRepository) GetByID(id string) (*models.Payment, error) {
	var payment models.Payment
	if err := r.db.First(&payment, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("payment with ID %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get payment by ID %s: %w", id, err)
	}
	return &payment, nil
}

// GetByOrder retrieves the payments recorded against an order.
func (r *GORMPaymentRepository) GetByOrder(orderID string) ([]models.Payment, error) {
	var payments []models.Payment
	if err := r.db.Where("order_id = ?", orderID).Find(&payments).Error; err != nil {
		return nil, fmt.Errorf("failed to get payments for order %s: %w", orderID, err)
	}
	return payments, nil
}

// GroupByStatusGateway aggregates payment counts and sums per status and
// gateway. Plain GROUP BY keeps the query portable across the postgres and
// sqlite drivers.
func (r *GORMPaymentRepository) GroupByStatusGateway() ([]PaymentGroup, error) {
	var groups []PaymentGroup
	err := r.db.Model(&models.Payment{}).
		Select("status, payment_gateway, COUNT(*) AS count, SUM(amount) AS total_amount").
		Group("status, payment_gateway").
		Scan(&groups).Error
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate payments: %w", err)
	}
	return groups, nil
}

// ListSuccessful returns successful payments, oldest first. Date bucketing
// happens in the service to stay database-agnostic.
func (r *GORMPaymentRepository) ListSuccessful() ([]models.Payment, error) {
	var payments []models.Payment
	if err := r.db.Where("status = ?", models.PaymentSuccess).
		Order("payment_date ASC").Find(&payments).Error; err != nil {
		return nil, fmt.Errorf("failed to list successful payments: %w", err)
	}
	return payments, nil
}
