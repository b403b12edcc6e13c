package handlers

import (
	"phoneshop/internal/models"
	"phoneshop/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// BrandHandler handles HTTP requests for brands.
type BrandHandler struct {
	service  *services.BrandService
	validate *validator.Validate
}

// NewBrandHandler creates a new BrandHandler.
func NewBrandHandler(service *services.BrandService) *BrandHandler {
	return &BrandHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the brand routes with the Fiber app.
func (h *BrandHandler) RegisterRoutes(router fiber.Router) {
	brandRoutes := router.Group("/brand")
	brandRoutes.Get("/", h.HandleList)
	brandRoutes.Post("/", h.HandleCreate)
	brandRoutes.Get("/search", h.HandleSearch)
	brandRoutes.Get("/:id", h.HandleGet)
	brandRoutes.Put("/:id", h.HandleUpdate)
	brandRoutes.Delete("/:id", h.HandleDelete)
}

// HandleList retrieves all brands, newest first.
func (h *BrandHandler) HandleList(c *fiber.Ctx) error {
	brands, err := h.service.GetAllBrands()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(brands)
}

// HandleGet retrieves a single brand by its ID.
func (h *BrandHandler) HandleGet(c *fiber.Ctx) error {
	brand, err := h.service.GetBrandByID(c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(brand)
}

// HandleCreate creates a new brand.
func (h *BrandHandler) HandleCreate(c *fiber.Ctx) error {
	var brand models.Brand
	if err := c.BodyParser(&brand); err != nil {
		return respondBadBody(c, err)
	}
	if err := h.validate.Struct(brand); err != nil {
		return respondValidation(c, err)
	}

	if err := h.service.CreateBrand(&brand); err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(brand)
}

// HandleUpdate renames a brand.
func (h *BrandHandler) HandleUpdate(c *fiber.Ctx) error {
	var req struct {
		Name string `json:"name" validate:"required,min=2,max=50"`
	}
	if err := c.BodyParser(&req); err != nil {
		return respondBadBody(c, err)
	}
	if err := h.validate.Struct(req); err != nil {
		return respondValidation(c, err)
	}

	brand, err := h.service.UpdateBrand(c.Params("id"), req.Name)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(brand)
}

// HandleDelete deletes a brand. Brands still referenced by products are
// rejected with a conflict.
func (h *BrandHandler) HandleDelete(c *fiber.Ctx) error {
	if err := h.service.DeleteBrand(c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Brand deleted successfully"})
}

// HandleSearch matches brand names against a case-insensitive substring.
func (h *BrandHandler) HandleSearch(c *fiber.Ctx) error {
	brands, err := h.service.SearchBrands(c.Query("q"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(brands)
}
