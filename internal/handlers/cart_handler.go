package handlers

import (
	"phoneshop/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// CartHandler handles HTTP requests for shopping carts.
type CartHandler struct {
	service  *services.CartService
	validate *validator.Validate
}

// NewCartHandler creates a new CartHandler.
func NewCartHandler(service *services.CartService) *CartHandler {
	return &CartHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the cart routes with the Fiber app.
func (h *CartHandler) RegisterRoutes(router fiber.Router) {
	cartRoutes := router.Group("/cart")
	cartRoutes.Post("/", h.HandleView)
	cartRoutes.Post("/addToCart", h.HandleAdd)
	cartRoutes.Delete("/", h.HandleRemove)
}

// HandleView returns the user's cart with derived totals, creating it on
// first view.
func (h *CartHandler) HandleView(c *fiber.Ctx) error {
	var req struct {
		UserID string `json:"userId" validate:"required"`
	}
	if err := c.BodyParser(&req); err != nil {
		return respondBadBody(c, err)
	}
	if err := h.validate.Struct(req); err != nil {
		return respondValidation(c, err)
	}

	view, err := h.service.ViewCart(req.UserID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(view)
}

// HandleAdd puts a product into the user's cart.
func (h *CartHandler) HandleAdd(c *fiber.Ctx) error {
	var req struct {
		UserID    string `json:"userId" validate:"required"`
		ProductID string `json:"productId" validate:"required"`
		Quantity  int    `json:"quantity" validate:"required,gt=0"`
	}
	if err := c.BodyParser(&req); err != nil {
		return respondBadBody(c, err)
	}
	if err := h.validate.Struct(req); err != nil {
		return respondValidation(c, err)
	}

	if err := h.service.AddItem(req.UserID, req.ProductID, req.Quantity); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Product added to cart"})
}

// HandleRemove drops a product from the user's cart.
func (h *CartHandler) HandleRemove(c *fiber.Ctx) error {
	var req struct {
		UserID    string `json:"userId" validate:"required"`
		ProductID string `json:"productId" validate:"required"`
	}
	if err := c.BodyParser(&req); err != nil {
		return respondBadBody(c, err)
	}
	if err := h.validate.Struct(req); err != nil {
		return respondValidation(c, err)
	}

	if err := h.service.RemoveItem(req.UserID, req.ProductID); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Product removed from cart"})
}
