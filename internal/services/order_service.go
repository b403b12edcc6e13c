package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"phoneshop/internal/gateway"
	"phoneshop/internal/models"
	"phoneshop/internal/notify"
	"phoneshop/internal/repositories"
	"phoneshop/pkg/rabbitmq"
)

// OrderService handles the order/inventory transition sequence: turning a
// cart into an order, decrementing stock, and the later confirm/cancel
// transitions.
type OrderService struct {
	orderRepo   repositories.OrderRepository
	cartRepo    repositories.CartRepository
	productRepo repositories.ProductRepository
	paymentRepo repositories.PaymentRepository
	activity    *ActivityService
	esewa       *gateway.Esewa
	khalti      *gateway.Khalti
	mqClient    *rabbitmq.Client
	mailer      *notify.EmailService
}

// NewOrderService creates a new OrderService. mqClient and mailer may be
// nil; their side effects are skipped.
func NewOrderService(
	orderRepo repositories.OrderRepository,
	cartRepo repositories.CartRepository,
	productRepo repositories.ProductRepository,
	paymentRepo repositories.PaymentRepository,
	activity *ActivityService,
	esewa *gateway.Esewa,
	khalti *gateway.Khalti,
	mqClient *rabbitmq.Client,
	mailer *notify.EmailService,
) *OrderService {
	return &OrderService{
		orderRepo:   orderRepo,
		cartRepo:    cartRepo,
		productRepo: productRepo,
		paymentRepo: paymentRepo,
		activity:    activity,
		esewa:       esewa,
		khalti:      khalti,
		mqClient:    mqClient,
		mailer:      mailer,
	}
}

// OrderCreationResult is the create-order response: the persisted order plus
// the payment record (cash on delivery) or the gateway handoff payload
// (eSewa / Khalti).
type OrderCreationResult struct {
	Order   *models.Order             `json:"order"`
	Payment *models.Payment           `json:"payment,omitempty"`
	Esewa   *gateway.EsewaInitiation  `json:"esewaPayment,omitempty"`
	Khalti  *gateway.KhaltiInitiation `json:"khaltiPayment,omitempty"`
}

// StockRestoreReport lists the per-item outcomes of a cancellation's stock
// restoration.
type StockRestoreReport struct {
	Restored []string `json:"restored"`
	Skipped  []string `json:"skipped,omitempty"`
}

// CreateOrder converts the user's cart into an order. Validation and the
// price snapshot happen up front; the stock decrements, order insert, and
// cart deletion run atomically in the repository so a failure leaves stock
// untouched. Payment branching happens after the order is placed.
func (s *OrderService) CreateOrder(ctx context.Context, userID string, billing models.BillingInfo) (*OrderCreationResult, error) {
	switch billing.PaymentMethod {
	case models.PaymentMethodCOD, models.PaymentMethodEsewa, models.PaymentMethodKhalti:
	default:
		return nil, fmt.Errorf("%w: %s", ErrInvalidPaymentMethod, billing.PaymentMethod)
	}

	cart, err := s.cartRepo.GetByUser(userID)
	if err != nil {
		return nil, err
	}
	if len(cart.Items) == 0 {
		return nil, fmt.Errorf("no products in cart: %w", repositories.ErrNotFound)
	}

	var totalAmount float64
	items := make([]models.OrderItem, 0, len(cart.Items))
	for _, line := range cart.Items {
		product, err := s.productRepo.GetByID(line.ProductID)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return nil, &repositories.ProductMissingError{ProductID: line.ProductID}
			}
			return nil, err
		}
		if product.Stock < line.Quantity {
			return nil, &repositories.InsufficientStockError{
				ProductID: product.ID,
				Name:      product.Name,
				Available: product.Stock,
			}
		}
		items = append(items, models.OrderItem{
			ProductID: product.ID,
			Quantity:  line.Quantity,
			Price:     product.Price,
		})
		totalAmount += product.Price * float64(line.Quantity)
	}

	order := &models.Order{
		UserID:        userID,
		Items:         items,
		Status:        models.OrderStatusPending,
		TotalAmount:   totalAmount,
		BillingInfo:   billing,
		PaymentStatus: models.PaymentStatusPending,
	}
	if err := s.orderRepo.Place(order); err != nil {
		return nil, err
	}

	s.afterPlacement(order)

	result := &OrderCreationResult{Order: order}
	switch billing.PaymentMethod {
	case models.PaymentMethodCOD:
		payment := &models.Payment{
			OrderID:        order.ID,
			Amount:         totalAmount,
			PaymentGateway: models.GatewayCOD,
			Status:         models.PaymentPending,
		}
		if err := s.paymentRepo.Create(payment); err != nil {
			return nil, fmt.Errorf("order %s placed but payment record failed: %w", order.ID, err)
		}
		result.Payment = payment
	case models.PaymentMethodEsewa:
		initiation, err := s.esewa.Initiate(order.TotalAmount, order.ID)
		if err != nil {
			return nil, fmt.Errorf("order %s placed but esewa initiation failed: %w", order.ID, err)
		}
		result.Esewa = initiation
	case models.PaymentMethodKhalti:
		initiation, err := s.khalti.Initiate(ctx, order.TotalAmount, order.ID)
		if err != nil {
			return nil, fmt.Errorf("order %s placed but khalti initiation failed: %w", order.ID, err)
		}
		result.Khalti = initiation
	}
	return result, nil
}

// afterPlacement runs the best-effort side effects of a placed order:
// activity logging, the recommendation event, and the confirmation email.
func (s *OrderService) afterPlacement(order *models.Order) {
	productIDs := make([]string, len(order.Items))
	for i, item := range order.Items {
		productIDs[i] = item.ProductID
	}

	if s.activity != nil {
		if err := s.activity.LogPurchase(order.UserID, productIDs); err != nil {
			log.Printf("Warning: failed to log purchase for order %s: %v", order.ID, err)
		}
	}
	if s.mqClient != nil {
		if err := s.mqClient.PublishOrderCreated(order.ID, order.UserID, order.TotalAmount); err != nil {
			log.Printf("Warning: failed to publish order created event for order %s: %v", order.ID, err)
		}
	}
	if s.mailer != nil {
		if err := s.mailer.SendOrderConfirmation(order); err != nil {
			log.Printf("Warning: failed to send confirmation for order %s: %v", order.ID, err)
		}
	}
}

// ConfirmOrder marks a pending order delivered and paid.
func (s *OrderService) ConfirmOrder(id string) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if order.Status == models.OrderStatusCancelled {
		return nil, fmt.Errorf("cancelled orders cannot be confirmed: %w", ErrConflict)
	}
	if order.Status == models.OrderStatusDelivered {
		return nil, fmt.Errorf("order has already been delivered: %w", ErrConflict)
	}

	if err := s.orderRepo.UpdateStatus(id, models.OrderStatusDelivered, models.PaymentStatusPaid); err != nil {
		return nil, err
	}
	order.Status = models.OrderStatusDelivered
	order.PaymentStatus = models.PaymentStatusPaid
	return order, nil
}

// CancelOrder cancels a pending order and restores stock to every product it
// references. Restoration is best-effort per item: products deleted since
// purchase are skipped, and the report carries both outcomes.
func (s *OrderService) CancelOrder(id string) (*models.Order, *StockRestoreReport, error) {
	order, err := s.orderRepo.GetByID(id)
	if err != nil {
		return nil, nil, err
	}
	if order.Status == models.OrderStatusCancelled {
		return nil, nil, fmt.Errorf("order is already cancelled: %w", ErrConflict)
	}
	if order.Status == models.OrderStatusDelivered {
		return nil, nil, fmt.Errorf("order has already been delivered: %w", ErrConflict)
	}

	report := &StockRestoreReport{}
	for _, item := range order.Items {
		if err := s.productRepo.RestoreStock(item.ProductID, item.Quantity); err != nil {
			log.Printf("Warning: could not restore stock for product %s on order %s: %v", item.ProductID, id, err)
			report.Skipped = append(report.Skipped, item.ProductID)
			continue
		}
		report.Restored = append(report.Restored, item.ProductID)
	}

	if err := s.orderRepo.UpdateStatus(id, models.OrderStatusCancelled, models.PaymentStatusFailed); err != nil {
		return nil, nil, err
	}
	order.Status = models.OrderStatusCancelled
	order.PaymentStatus = models.PaymentStatusFailed
	return order, report, nil
}

// ListOrders retrieves one page of all orders, newest first.
func (s *OrderService) ListOrders(page, limit int) ([]models.Order, int64, error) {
	return s.orderRepo.List(page, limit)
}

// GetOrdersForUser retrieves a user's orders, newest first.
func (s *OrderService) GetOrdersForUser(userID string) ([]models.Order, error) {
	return s.orderRepo.GetByUser(userID)
}

// GetOrderDetails retrieves an order with product records populated on its
// line items.
func (s *OrderService) GetOrderDetails(id string) (*models.Order, error) {
	return s.orderRepo.GetDetails(id)
}

// SearchOrders matches order ids against a case-insensitive substring.
func (s *OrderService) SearchOrders(query string) ([]models.Order, error) {
	return s.orderRepo.Search(query)
}
