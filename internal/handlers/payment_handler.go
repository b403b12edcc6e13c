package handlers

import (
	"log"
	"strconv"
	"strings"

	"phoneshop/internal/gateway"
	"phoneshop/internal/services"

	"github.com/gofiber/fiber/v2"
)

// PaymentHandler handles gateway redirect callbacks and the payment
// analytics endpoints. Successful callbacks redirect the browser back to the
// frontend's success page.
type PaymentHandler struct {
	service     *services.PaymentService
	frontendURL string
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(service *services.PaymentService, frontendURL string) *PaymentHandler {
	return &PaymentHandler{
		service:     service,
		frontendURL: strings.TrimRight(frontendURL, "/"),
	}
}

// RegisterRoutes registers the payment routes with the Fiber app.
func (h *PaymentHandler) RegisterRoutes(router fiber.Router) {
	paymentRoutes := router.Group("/payment")
	paymentRoutes.Get("/complete-payment", h.HandleEsewaCallback)
	paymentRoutes.Get("/complete-payment2", h.HandleKhaltiCallback)
	paymentRoutes.Get("/stats", h.HandleStats)
	paymentRoutes.Get("/by-date", h.HandleByDate)
}

// HandleEsewaCallback verifies the base64 payload eSewa appends to the
// redirect and sends the browser to the frontend success page.
func (h *PaymentHandler) HandleEsewaCallback(c *fiber.Ctx) error {
	data := c.Query("data")
	if data == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Missing data parameter",
		})
	}

	orderID, err := h.service.CompleteEsewaPayment(c.Context(), data, string(c.Request().URI().QueryString()))
	if err != nil {
		log.Printf("eSewa payment verification failed: %v", err)
		return respondError(c, err)
	}
	return c.Redirect(h.frontendURL+"/payment/success?orderId="+orderID, fiber.StatusSeeOther)
}

// HandleKhaltiCallback looks up the pidx Khalti appends to the redirect and
// sends the browser to the frontend success page.
func (h *PaymentHandler) HandleKhaltiCallback(c *fiber.Ctx) error {
	amount, err := strconv.ParseFloat(c.Query("amount", "0"), 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid amount parameter",
		})
	}
	callback := gateway.KhaltiCallback{
		Pidx:            c.Query("pidx"),
		Amount:          amount,
		PurchaseOrderID: c.Query("purchase_order_id"),
		TransactionID:   c.Query("transaction_id"),
	}
	if callback.Pidx == "" || callback.PurchaseOrderID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Missing pidx or purchase_order_id parameter",
		})
	}

	orderID, err := h.service.CompleteKhaltiPayment(c.Context(), callback, string(c.Request().URI().QueryString()))
	if err != nil {
		log.Printf("Khalti payment verification failed: %v", err)
		return respondError(c, err)
	}
	return c.Redirect(h.frontendURL+"/payment/success?orderId="+orderID, fiber.StatusSeeOther)
}

// HandleStats returns payment counts per gateway and status, chart-shaped.
func (h *PaymentHandler) HandleStats(c *fiber.Ctx) error {
	chart, err := h.service.GetPaymentStats()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(chart)
}

// HandleByDate returns successful payment amounts bucketed by day, month,
// or year.
func (h *PaymentHandler) HandleByDate(c *fiber.Ctx) error {
	chart, err := h.service.GetPaymentsByDate(c.Query("groupBy", "month"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(chart)
}
