// Package notify sends customer-facing email through Postmark.
package notify

import (
	"fmt"

	"phoneshop/internal/models"

	"github.com/keighl/postmark"
)

// EmailService sends transactional mail. It is best-effort: order placement
// never fails on a mail error.
type EmailService struct {
	client *postmark.Client
	sender string
}

// NewEmailService creates an EmailService from the Postmark server token and
// the verified sender address.
func NewEmailService(apiToken, sender string) *EmailService {
	return &EmailService{
		client: postmark.NewClient(apiToken, ""),
		sender: sender,
	}
}

// SendOrderConfirmation mails the billing contact that their order was
// placed.
func (es *EmailService) SendOrderConfirmation(order *models.Order) error {
	html := fmt.Sprintf(
		"<strong>Dear %s,</strong><br><br>Thank you for your purchase! Your order (ID: %s) has been placed successfully.<br><br>Total Amount: <strong>Rs %.2f</strong><br>Payment Method: <strong>%s</strong><br><br>Thank you for shopping with us!",
		order.BillingInfo.Name,
		order.ID,
		order.TotalAmount,
		order.BillingInfo.PaymentMethod,
	)

	_, err := es.client.SendEmail(postmark.Email{
		From:     es.sender,
		To:       order.BillingInfo.Email,
		Subject:  "Order Confirmation",
		HtmlBody: html,
		TextBody: fmt.Sprintf("Your order %s for Rs %.2f has been placed successfully.", order.ID, order.TotalAmount),
	})
	if err != nil {
		return fmt.Errorf("failed to send order confirmation: %w", err)
	}
	return nil
}
