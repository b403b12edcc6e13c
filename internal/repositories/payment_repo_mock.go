package repositories

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"phoneshop/internal/models"

	"github.com/google/uuid"
)

// MockPaymentRepository is an in-memory implementation of PaymentRepository.
type MockPaymentRepository struct {
	payments map[string]models.Payment
	mu       sync.RWMutex
}

// NewMockPaymentRepository creates a new instance of MockPaymentRepository.
func NewMockPaymentRepository() *MockPaymentRepository {
	return &MockPaymentRepository{
		payments: make(map[string]models.Payment),
	}
}

// Create adds a payment record, synthesizing a COD transaction id when
// absent.
func (r *MockPaymentRepository) Create(payment *models.Payment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if payment.ID == "" {
		payment.ID = uuid.New().String()
	}
	if payment.PaymentGateway == models.GatewayCOD && payment.TransactionID == "" {
		payment.TransactionID = "COD-" + payment.ID
	}
	if payment.PaymentDate.IsZero() {
		payment.PaymentDate = time.Now()
	}
	payment.CreatedAt = time.Now()
	payment.UpdatedAt = time.Now()
	r.payments[payment.ID] = *payment
	return nil
}

// GetByID returns a payment by its ID.
func (r *MockPaymentRepository) GetByID(id string) (*models.Payment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	payment, ok := r.payments[id]
	if !ok {
		return nil, fmt.Errorf("payment with ID %s: %w", id, ErrNotFound)
	}
	return &payment, nil
}

// GetByOrder returns the payments recorded against an order.
func (r *MockPaymentRepository) GetByOrder(orderID string) ([]models.Payment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var payments []models.Payment
	for _, p := range r.payments {
		if p.OrderID == orderID {
			payments = append(payments, p)
		}
	}
	return payments, nil
}

// GroupByStatusGateway aggregates counts and sums per (status, gateway).
func (r *MockPaymentRepository) GroupByStatusGateway() ([]PaymentGroup, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	type key struct{ status, gateway string }
	grouped := make(map[key]*PaymentGroup)
	for _, p := range r.payments {
		k := key{p.Status, p.PaymentGateway}
		g, ok := grouped[k]
		if !ok {
			g = &PaymentGroup{Status: p.Status, PaymentGateway: p.PaymentGateway}
			grouped[k] = g
		}
		g.Count++
		g.TotalAmount += p.Amount
	}

	groups := make([]PaymentGroup, 0, len(grouped))
	for _, g := range grouped {
		groups = append(groups, *g)
	}
	sort.Slice(groups, func(i, j int) bool {
		if groups[i].Status != groups[j].Status {
			return groups[i].Status < groups[j].Status
		}
		return groups[i].PaymentGateway < groups[j].PaymentGateway
	})
	return groups, nil
}

// ListSuccessful returns successful payments, oldest first.
func (r *MockPaymentRepository) ListSuccessful() ([]models.Payment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var payments []models.Payment
	for _, p := range r.payments {
		if p.Status == models.PaymentSuccess {
			payments = append(payments, p)
		}
	}
	sort.Slice(payments, func(i, j int) bool {
		return payments[i].PaymentDate.Before(payments[j].PaymentDate)
	})
	return payments, nil
}
