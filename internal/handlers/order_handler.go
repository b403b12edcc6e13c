package handlers

import (
	"phoneshop/internal/models"
	"phoneshop/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// OrderHandler handles HTTP requests for orders.
type OrderHandler struct {
	service  *services.OrderService
	validate *validator.Validate
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(service *services.OrderService) *OrderHandler {
	return &OrderHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the order routes with the Fiber app.
func (h *OrderHandler) RegisterRoutes(router fiber.Router) {
	orderRoutes := router.Group("/order")
	orderRoutes.Get("/", h.HandleList)
	orderRoutes.Post("/", h.HandleCreate)
	orderRoutes.Post("/my", h.HandleListForUser)
	orderRoutes.Get("/search", h.HandleSearch)
	orderRoutes.Get("/:id", h.HandleDetails)
	orderRoutes.Put("/:id/confirm", h.HandleConfirm)
	orderRoutes.Put("/:id/cancel", h.HandleCancel)
}

// HandleList retrieves one page of all orders, newest first.
func (h *OrderHandler) HandleList(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 10)

	orders, total, err := h.service.ListOrders(page, limit)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"orders": orders,
		"total":  total,
		"page":   page,
		"limit":  limit,
	})
}

// HandleCreate converts the user's cart into an order. The response carries
// the order plus either the payment record (cash on delivery) or the gateway
// handoff payload.
func (h *OrderHandler) HandleCreate(c *fiber.Ctx) error {
	var req struct {
		UserID      string             `json:"userId" validate:"required"`
		BillingInfo models.BillingInfo `json:"billingInfo" validate:"required"`
	}
	if err := c.BodyParser(&req); err != nil {
		return respondBadBody(c, err)
	}
	if err := h.validate.Struct(req); err != nil {
		return respondValidation(c, err)
	}

	result, err := h.service.CreateOrder(c.Context(), req.UserID, req.BillingInfo)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(result)
}

// HandleListForUser retrieves the requesting user's orders, newest first.
func (h *OrderHandler) HandleListForUser(c *fiber.Ctx) error {
	var req struct {
		UserID string `json:"userId" validate:"required"`
	}
	if err := c.BodyParser(&req); err != nil {
		return respondBadBody(c, err)
	}
	if err := h.validate.Struct(req); err != nil {
		return respondValidation(c, err)
	}

	orders, err := h.service.GetOrdersForUser(req.UserID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(orders)
}

// HandleDetails retrieves an order with product records populated on its
// line items.
func (h *OrderHandler) HandleDetails(c *fiber.Ctx) error {
	order, err := h.service.GetOrderDetails(c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(order)
}

// HandleSearch matches order ids against a case-insensitive substring.
func (h *OrderHandler) HandleSearch(c *fiber.Ctx) error {
	orders, err := h.service.SearchOrders(c.Query("q"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(orders)
}

// HandleConfirm marks a pending order delivered and paid.
func (h *OrderHandler) HandleConfirm(c *fiber.Ctx) error {
	order, err := h.service.ConfirmOrder(c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Order confirmed successfully",
		"order":   order,
	})
}

// HandleCancel cancels a pending order, restoring stock where the products
// still exist.
func (h *OrderHandler) HandleCancel(c *fiber.Ctx) error {
	order, report, err := h.service.CancelOrder(c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"message":      "Order cancelled successfully",
		"order":        order,
		"stockRestore": report,
	})
}
