package handlers

import (
	"phoneshop/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// RatingHandler handles HTTP requests for product ratings.
type RatingHandler struct {
	service  *services.RatingService
	validate *validator.Validate
}

// NewRatingHandler creates a new RatingHandler.
func NewRatingHandler(service *services.RatingService) *RatingHandler {
	return &RatingHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the rating routes with the Fiber app.
func (h *RatingHandler) RegisterRoutes(router fiber.Router) {
	ratingRoutes := router.Group("/rating")
	ratingRoutes.Post("/", h.HandleAddOrUpdate)
	ratingRoutes.Get("/has-rated/:userId/:productId", h.HandleHasRated)
	ratingRoutes.Get("/:productId", h.HandleListForProduct)
	ratingRoutes.Delete("/:userId/:productId", h.HandleDelete)
}

// HandleAddOrUpdate upserts a user's rating of a product.
func (h *RatingHandler) HandleAddOrUpdate(c *fiber.Ctx) error {
	var req struct {
		UserID    string `json:"userId" validate:"required"`
		ProductID string `json:"productId" validate:"required"`
		Rating    int    `json:"rating" validate:"required,min=1,max=5"`
		Review    string `json:"review"`
	}
	if err := c.BodyParser(&req); err != nil {
		return respondBadBody(c, err)
	}
	if err := h.validate.Struct(req); err != nil {
		return respondValidation(c, err)
	}

	rating, err := h.service.AddOrUpdate(req.UserID, req.ProductID, req.Rating, req.Review)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(rating)
}

// HandleListForProduct lists all ratings of a product, newest first.
func (h *RatingHandler) HandleListForProduct(c *fiber.Ctx) error {
	ratings, err := h.service.GetProductRatings(c.Params("productId"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(ratings)
}

// HandleHasRated reports whether the user has rated the product.
func (h *RatingHandler) HandleHasRated(c *fiber.Ctx) error {
	rating, rated, err := h.service.HasRated(c.Params("userId"), c.Params("productId"))
	if err != nil {
		return respondError(c, err)
	}
	if !rated {
		return c.JSON(fiber.Map{"hasRated": false})
	}
	return c.JSON(fiber.Map{
		"hasRated": true,
		"rating":   rating,
	})
}

// HandleDelete removes a user's rating of a product.
func (h *RatingHandler) HandleDelete(c *fiber.Ctx) error {
	if err := h.service.Delete(c.Params("userId"), c.Params("productId")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Rating deleted successfully"})
}
