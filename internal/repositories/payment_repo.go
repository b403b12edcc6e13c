package repositories

import "phoneshop/internal/models"

// PaymentGroup is one row of the status×gateway aggregation.
type PaymentGroup struct {
	Status         string
	PaymentGateway string
	Count          int64
	TotalAmount    float64
}

// PaymentRepository defines the interface for payment data access.
type PaymentRepository interface {
	Create(payment *models.Payment) error
	GetByID(id string) (*models.Payment, error)
	GetByOrder(orderID string) ([]models.Payment, error)
	// GroupByStatusGateway aggregates counts and amount sums per
	// (status, gateway) pair.
	GroupByStatusGateway() ([]PaymentGroup, error)
	// ListSuccessful returns all successful payments ordered by payment
	// date ascending.
	ListSuccessful() ([]models.Payment, error)
}
