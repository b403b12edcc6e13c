package services

import (
	"context"
	"fmt"
	"time"

	"phoneshop/internal/gateway"
	"phoneshop/internal/models"
	"phoneshop/internal/repositories"
)

// PaymentService verifies gateway callbacks and aggregates payment records
// for the admin dashboard.
type PaymentService struct {
	paymentRepo repositories.PaymentRepository
	orderRepo   repositories.OrderRepository
	esewa       *gateway.Esewa
	khalti      *gateway.Khalti
}

// NewPaymentService creates a new PaymentService.
func NewPaymentService(
	paymentRepo repositories.PaymentRepository,
	orderRepo repositories.OrderRepository,
	esewa *gateway.Esewa,
	khalti *gateway.Khalti,
) *PaymentService {
	return &PaymentService{
		paymentRepo: paymentRepo,
		orderRepo:   orderRepo,
		esewa:       esewa,
		khalti:      khalti,
	}
}

// ChartDataset is one series of a dashboard chart.
type ChartDataset struct {
	Label string    `json:"label"`
	Data  []float64 `json:"data"`
}

// ChartData is the chart-shaped aggregation consumed by the admin frontend.
type ChartData struct {
	Labels   []string       `json:"labels"`
	Datasets []ChartDataset `json:"datasets"`
}

// CompleteEsewaPayment verifies an eSewa success callback, records the
// payment, and marks the order paid. It returns the order id for the
// frontend redirect.
func (s *PaymentService) CompleteEsewaPayment(ctx context.Context, encodedData, rawQuery string) (string, error) {
	verification, err := s.esewa.VerifyCallback(ctx, encodedData)
	if err != nil {
		return "", err
	}

	order, err := s.orderRepo.GetByID(verification.OrderID)
	if err != nil {
		return "", err
	}

	payment := &models.Payment{
		OrderID:          order.ID,
		Pidx:             verification.TransactionID,
		TransactionID:    verification.TransactionID,
		Amount:           order.TotalAmount,
		PaymentGateway:   models.GatewayEsewa,
		Status:           models.PaymentSuccess,
		VerificationData: verification.RawPayload,
		CallbackQuery:    rawQuery,
	}
	if err := s.paymentRepo.Create(payment); err != nil {
		return "", fmt.Errorf("esewa payment verified but not recorded for order %s: %w", order.ID, err)
	}

	if err := s.orderRepo.UpdatePaymentStatus(order.ID, models.PaymentStatusPaid); err != nil {
		return "", err
	}
	return order.ID, nil
}

// CompleteKhaltiPayment looks up a Khalti callback with the gateway, records
// the payment, and marks the order paid. It returns the order id for the
// frontend redirect.
func (s *PaymentService) CompleteKhaltiPayment(ctx context.Context, callback gateway.KhaltiCallback, rawQuery string) (string, error) {
	verification, err := s.khalti.VerifyCallback(ctx, callback)
	if err != nil {
		return "", err
	}

	order, err := s.orderRepo.GetByID(verification.OrderID)
	if err != nil {
		return "", err
	}

	payment := &models.Payment{
		OrderID:          order.ID,
		Pidx:             callback.Pidx,
		TransactionID:    verification.TransactionID,
		Amount:           verification.Amount,
		PaymentGateway:   models.GatewayKhalti,
		Status:           models.PaymentSuccess,
		VerificationData: verification.RawPayload,
		CallbackQuery:    rawQuery,
	}
	if err := s.paymentRepo.Create(payment); err != nil {
		return "", fmt.Errorf("khalti payment verified but not recorded for order %s: %w", order.ID, err)
	}

	if err := s.orderRepo.UpdatePaymentStatus(order.ID, models.PaymentStatusPaid); err != nil {
		return "", err
	}
	return order.ID, nil
}

var statGateways = []string{models.GatewayEsewa, models.GatewayKhalti, models.GatewayCOD}
var statStatuses = []string{models.PaymentSuccess, models.PaymentPending, models.PaymentFailed}

// GetPaymentStats aggregates payment counts per gateway and status into a
// chart with one dataset per status.
func (s *PaymentService) GetPaymentStats() (*ChartData, error) {
	groups, err := s.paymentRepo.GroupByStatusGateway()
	if err != nil {
		return nil, err
	}

	counts := make(map[string]map[string]int64)
	for _, g := range groups {
		if counts[g.Status] == nil {
			counts[g.Status] = make(map[string]int64)
		}
		counts[g.Status][g.PaymentGateway] = g.Count
	}

	chart := &ChartData{Labels: statGateways}
	for _, status := range statStatuses {
		data := make([]float64, len(statGateways))
		for i, gw := range statGateways {
			data[i] = float64(counts[status][gw])
		}
		chart.Datasets = append(chart.Datasets, ChartDataset{Label: status, Data: data})
	}
	return chart, nil
}

// GetPaymentsByDate sums successful payment amounts into day, month, or year
// buckets. groupBy accepts "day", "month", or "year".
func (s *PaymentService) GetPaymentsByDate(groupBy string) (*ChartData, error) {
	var layout string
	switch groupBy {
	case "day":
		layout = "2006-01-02"
	case "month":
		layout = "2006-01"
	case "year":
		layout = "2006"
	default:
		return nil, fmt.Errorf("%w: invalid groupBy %q", ErrConflict, groupBy)
	}

	payments, err := s.paymentRepo.ListSuccessful()
	if err != nil {
		return nil, err
	}

	totals := make(map[string]float64)
	var labels []string
	for _, p := range payments {
		bucket := p.PaymentDate.In(time.UTC).Format(layout)
		if _, ok := totals[bucket]; !ok {
			labels = append(labels, bucket)
		}
		totals[bucket] += p.Amount
	}

	data := make([]float64, len(labels))
	for i, label := range labels {
		data[i] = totals[label]
	}
	return &ChartData{
		Labels:   labels,
		Datasets: []ChartDataset{{Label: "Revenue", Data: data}},
	}, nil
}
