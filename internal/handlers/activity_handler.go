package handlers

import (
	"phoneshop/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// ActivityHandler handles HTTP requests for the user activity log.
type ActivityHandler struct {
	service  *services.ActivityService
	validate *validator.Validate
}

// NewActivityHandler creates a new ActivityHandler.
func NewActivityHandler(service *services.ActivityService) *ActivityHandler {
	return &ActivityHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the activity routes with the Fiber app.
func (h *ActivityHandler) RegisterRoutes(router fiber.Router) {
	activityRoutes := router.Group("/activity")
	activityRoutes.Post("/", h.HandleGet)
	activityRoutes.Post("/view", h.HandleLogView)
}

// HandleGet retrieves a user's activity record.
func (h *ActivityHandler) HandleGet(c *fiber.Ctx) error {
	var req struct {
		UserID string `json:"userId" validate:"required"`
	}
	if err := c.BodyParser(&req); err != nil {
		return respondBadBody(c, err)
	}
	if err := h.validate.Struct(req); err != nil {
		return respondValidation(c, err)
	}

	activity, err := h.service.GetActivity(req.UserID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(activity)
}

// HandleLogView records a product view. Repeated views are idempotent.
func (h *ActivityHandler) HandleLogView(c *fiber.Ctx) error {
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

	if err := h.service.LogView(req.UserID, req.ProductID); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "View logged"})
}
