package handlers

import (
	"mime/multipart"
	"strconv"

	"phoneshop/internal/models"
	"phoneshop/internal/repositories"
	"phoneshop/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// ProductHandler handles HTTP requests for the product catalog. Create and
// update are multipart endpoints carrying the image files under the "images"
// field.
type ProductHandler struct {
	service  *services.ProductService
	validate *validator.Validate
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(service *services.ProductService) *ProductHandler {
	return &ProductHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the product routes with the Fiber app.
func (h *ProductHandler) RegisterRoutes(router fiber.Router) {
	productRoutes := router.Group("/product")
	productRoutes.Get("/", h.HandleList)
	productRoutes.Post("/", h.HandleCreate)
	productRoutes.Get("/search", h.HandleSearch)
	productRoutes.Get("/:id", h.HandleGet)
	productRoutes.Put("/:id", h.HandleUpdate)
	productRoutes.Delete("/:id", h.HandleDelete)
	productRoutes.Delete("/:id/image/:imageName", h.HandleDeleteImage)
}

// HandleList retrieves one catalog page. Supports page, limit, and sort
// (asc, desc, def) query parameters.
func (h *ProductHandler) HandleList(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 10)
	sort := c.Query("sort", repositories.SortDefault)

	products, total, err := h.service.ListProducts(page, limit, sort)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"products": products,
		"total":    total,
		"page":     page,
		"limit":    limit,
	})
}

// HandleGet retrieves a single product with its brand name.
func (h *ProductHandler) HandleGet(c *fiber.Ctx) error {
	product, err := h.service.GetProduct(c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(product)
}

// HandleCreate creates a product from a multipart form: scalar fields plus
// 1 to 5 files under "images".
func (h *ProductHandler) HandleCreate(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		return respondBadBody(c, err)
	}

	product, err := productFromForm(c)
	if err != nil {
		return respondBadBody(c, err)
	}
	if err := h.validate.Struct(product); err != nil {
		return respondValidation(c, err)
	}

	if err := h.service.CreateProduct(product, form.File["images"]); err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(product)
}

// HandleUpdate merges changed form fields into a product and appends any
// uploaded images.
func (h *ProductHandler) HandleUpdate(c *fiber.Ctx) error {
	update, err := updateFromForm(c)
	if err != nil {
		return respondBadBody(c, err)
	}

	var files []*multipart.FileHeader
	if form, err := c.MultipartForm(); err == nil {
		files = form.File["images"]
	}

	product, err := h.service.UpdateProduct(c.Params("id"), update, files)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(product)
}

// HandleDelete deletes a product unless a cart or order still references it.
func (h *ProductHandler) HandleDelete(c *fiber.Ctx) error {
	if err := h.service.DeleteProduct(c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Product deleted successfully"})
}

// HandleDeleteImage removes one image file from a product.
func (h *ProductHandler) HandleDeleteImage(c *fiber.Ctx) error {
	product, err := h.service.DeleteImage(c.Params("id"), c.Params("imageName"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(product)
}

// HandleSearch matches product names, capped at eight results.
func (h *ProductHandler) HandleSearch(c *fiber.Ctx) error {
	products, total, err := h.service.SearchProducts(c.Query("q"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"products": products,
		"total":    total,
	})
}

// productFromForm reads the flat multipart fields of a product create.
func productFromForm(c *fiber.Ctx) (*models.Product, error) {
	price, err := strconv.ParseFloat(c.FormValue("price"), 64)
	if err != nil {
		return nil, err
	}
	stock, err := strconv.Atoi(c.FormValue("stock", "0"))
	if err != nil {
		return nil, err
	}
	specs, err := specsFromForm(c)
	if err != nil {
		return nil, err
	}

	return &models.Product{
		Name:           c.FormValue("name"),
		Price:          price,
		BrandID:        c.FormValue("brand"),
		Stock:          stock,
		Specifications: *specs,
	}, nil
}

func specsFromForm(c *fiber.Ctx) (*models.Specifications, error) {
	ram, err := strconv.Atoi(c.FormValue("ram_capacity", "0"))
	if err != nil {
		return nil, err
	}
	memory, err := strconv.Atoi(c.FormValue("internal_memory", "0"))
	if err != nil {
		return nil, err
	}
	screen, err := strconv.ParseFloat(c.FormValue("screen_size", "0"), 64)
	if err != nil {
		return nil, err
	}
	battery, err := strconv.Atoi(c.FormValue("battery_capacity", "0"))
	if err != nil {
		return nil, err
	}
	rear, err := strconv.Atoi(c.FormValue("primary_camera_rear", "0"))
	if err != nil {
		return nil, err
	}
	front, err := strconv.Atoi(c.FormValue("primary_camera_front", "0"))
	if err != nil {
		return nil, err
	}

	return &models.Specifications{
		RAMCapacity:        ram,
		InternalMemory:     memory,
		ScreenSize:         screen,
		BatteryCapacity:    battery,
		Processor:          c.FormValue("processor"),
		PrimaryCameraRear:  rear,
		PrimaryCameraFront: front,
	}, nil
}

// updateFromForm reads the fields present in an update form, leaving absent
// fields nil so the service keeps the stored values.
func updateFromForm(c *fiber.Ctx) (services.ProductUpdate, error) {
	var update services.ProductUpdate

	if v := c.FormValue("name"); v != "" {
		update.Name = &v
	}
	if v := c.FormValue("price"); v != "" {
		price, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return update, err
		}
		update.Price = &price
	}
	if v := c.FormValue("brand"); v != "" {
		update.BrandID = &v
	}
	if v := c.FormValue("stock"); v != "" {
		stock, err := strconv.Atoi(v)
		if err != nil {
			return update, err
		}
		update.Stock = &stock
	}
	if c.FormValue("processor") != "" || c.FormValue("ram_capacity") != "" {
		specs, err := specsFromForm(c)
		if err != nil {
			return update, err
		}
		update.Specifications = specs
	}
	return update, nil
}
