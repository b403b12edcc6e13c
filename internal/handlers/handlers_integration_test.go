package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"phoneshop/internal/handlers"
	"phoneshop/internal/models"
	"phoneshop/internal/repositories"
	"phoneshop/internal/services"
	"phoneshop/internal/storage"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupApp wires the full HTTP surface against an in-memory SQLite database.
func setupApp(t *testing.T) *fiber.App {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.Brand{},
		&models.Product{},
		&models.Cart{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderItem{},
		&models.Payment{},
		&models.Rating{},
		&models.UserActivity{},
		&models.User{},
	))

	images, err := storage.NewImageStore(t.TempDir())
	require.NoError(t, err)

	brandRepo := repositories.NewGORMBrandRepository(db)
	productRepo := repositories.NewGORMProductRepository(db)
	cartRepo := repositories.NewGORMCartRepository(db)
	orderRepo := repositories.NewGORMOrderRepository(db)
	paymentRepo := repositories.NewGORMPaymentRepository(db)
	ratingRepo := repositories.NewGORMRatingRepository(db)
	activityRepo := repositories.NewGORMActivityRepository(db)
	userRepo := repositories.NewGORMUserRepository(db)

	activityService := services.NewActivityService(activityRepo, nil)
	brandService := services.NewBrandService(brandRepo, productRepo)
	productService := services.NewProductService(productRepo, brandRepo, cartRepo, orderRepo, images)
	cartService := services.NewCartService(cartRepo, productRepo)
	orderService := services.NewOrderService(
		orderRepo, cartRepo, productRepo, paymentRepo,
		activityService, nil, nil, nil, nil)
	paymentService := services.NewPaymentService(paymentRepo, orderRepo, nil, nil)
	ratingService := services.NewRatingService(ratingRepo, productRepo, activityService)
	authService := services.NewAuthService(userRepo, "test-secret")

	app := fiber.New()
	handlers.NewBrandHandler(brandService).RegisterRoutes(app)
	handlers.NewProductHandler(productService).RegisterRoutes(app)
	handlers.NewCartHandler(cartService).RegisterRoutes(app)
	handlers.NewOrderHandler(orderService).RegisterRoutes(app)
	handlers.NewPaymentHandler(paymentService, "http://localhost:5173").RegisterRoutes(app)
	handlers.NewRatingHandler(ratingService).RegisterRoutes(app)
	handlers.NewActivityHandler(activityService).RegisterRoutes(app)
	handlers.NewUserHandler(authService).RegisterRoutes(app)
	return app
}

// TestMain suppresses request logging for cleaner output.
func TestMain(m *testing.M) {
	log.SetOutput(io.Discard)
	os.Exit(m.Run())
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body interface{}) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

// createBrand posts a brand and returns its id.
func createBrand(t *testing.T, app *fiber.App, name string) string {
	t.Helper()

	resp := doJSON(t, app, http.MethodPost, "/brand", map[string]string{"name": name})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var brand models.Brand
	decodeBody(t, resp, &brand)
	return brand.ID
}

// createProduct posts a multipart product form with one image and returns
// the product id.
func createProduct(t *testing.T, app *fiber.App, brandID, name string, price float64, stock int) string {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	fields := map[string]string{
		"name":                 name,
		"price":                fmt.Sprintf("%v", price),
		"brand":                brandID,
		"stock":                fmt.Sprintf("%d", stock),
		"ram_capacity":         "8",
		"internal_memory":      "256",
		"screen_size":          "6.1",
		"battery_capacity":     "4500",
		"processor":            "Snapdragon 8",
		"primary_camera_rear":  "50",
		"primary_camera_front": "12",
	}
	for key, value := range fields {
		require.NoError(t, writer.WriteField(key, value))
	}
	part, err := writer.CreateFormFile("images", "front.jpg")
	require.NoError(t, err)
	_, err = part.Write([]byte("image-bytes"))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/product", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var product models.Product
	decodeBody(t, resp, &product)
	return product.ID
}

func orderBilling() map[string]interface{} {
	return map[string]interface{}{
		"name":  "Sita Sharma",
		"email": "sita@example.com",
		"phone": "9800000000",
		"address": map[string]string{
			"street":  "Durbar Marg",
			"city":    "Kathmandu",
			"country": "Nepal",
		},
		"paymentMethod": models.PaymentMethodCOD,
	}
}

func TestBrandLifecycle(t *testing.T) {
	app := setupApp(t)

	brandID := createBrand(t, app, "Samsung")

	resp := doJSON(t, app, http.MethodGet, "/brand", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var brands []models.Brand
	decodeBody(t, resp, &brands)
	require.Len(t, brands, 1)

	// Deleting a referenced brand is refused.
	createProduct(t, app, brandID, "Galaxy S24", 999, 5)
	resp = doJSON(t, app, http.MethodDelete, "/brand/"+brandID, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, app, http.MethodGet, "/brand/search?q=sam", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &brands)
	assert.Len(t, brands, 1)

	resp = doJSON(t, app, http.MethodGet, "/brand/missing", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestShopFlowCartToOrder(t *testing.T) {
	app := setupApp(t)
	brandID := createBrand(t, app, "Samsung")
	productID := createProduct(t, app, brandID, "Galaxy S24", 100, 5)

	// Add twice: quantities accumulate on one line.
	for i := 0; i < 2; i++ {
		resp := doJSON(t, app, http.MethodPost, "/cart/addToCart", map[string]interface{}{
			"userId":    "user-1",
			"productId": productID,
			"quantity":  1,
		})
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		resp.Body.Close()
	}

	resp := doJSON(t, app, http.MethodPost, "/cart", map[string]string{"userId": "user-1"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var view models.CartView
	decodeBody(t, resp, &view)
	assert.Equal(t, 2, view.Total)
	assert.Equal(t, 200.0, view.TotalPrice)

	// Place the order.
	resp = doJSON(t, app, http.MethodPost, "/order", map[string]interface{}{
		"userId":      "user-1",
		"billingInfo": orderBilling(),
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var result struct {
		Order   models.Order   `json:"order"`
		Payment models.Payment `json:"payment"`
	}
	decodeBody(t, resp, &result)
	assert.Equal(t, 200.0, result.Order.TotalAmount)
	assert.Equal(t, models.OrderStatusPending, result.Order.Status)
	assert.Equal(t, models.PaymentPending, result.Payment.Status)
	assert.Equal(t, "COD-"+result.Payment.ID, result.Payment.TransactionID)

	// Stock went down.
	resp = doJSON(t, app, http.MethodGet, "/product/"+productID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var product models.ProductWithBrand
	decodeBody(t, resp, &product)
	assert.Equal(t, 3, product.Stock)
	assert.Equal(t, "Samsung", product.BrandName)

	// The cart was destroyed by the placement.
	resp = doJSON(t, app, http.MethodPost, "/cart", map[string]string{"userId": "user-1"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &view)
	assert.Zero(t, view.Total)

	// Order details carry the product snapshot.
	resp = doJSON(t, app, http.MethodGet, "/order/"+result.Order.ID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var details models.Order
	decodeBody(t, resp, &details)
	require.Len(t, details.Items, 1)
	assert.Equal(t, 100.0, details.Items[0].Price)
	require.NotNil(t, details.Items[0].Product)
	assert.Equal(t, "Galaxy S24", details.Items[0].Product.Name)

	// Confirm the order.
	resp = doJSON(t, app, http.MethodPut, "/order/"+result.Order.ID+"/confirm", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	// Confirming twice is a client error.
	resp = doJSON(t, app, http.MethodPut, "/order/"+result.Order.ID+"/confirm", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func TestOrderInsufficientStock(t *testing.T) {
	app := setupApp(t)
	brandID := createBrand(t, app, "Samsung")
	productID := createProduct(t, app, brandID, "Galaxy S24", 100, 1)

	resp := doJSON(t, app, http.MethodPost, "/cart/addToCart", map[string]interface{}{
		"userId":    "user-1",
		"productId": productID,
		"quantity":  3,
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, app, http.MethodPost, "/order", map[string]interface{}{
		"userId":      "user-1",
		"billingInfo": orderBilling(),
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	var body map[string]string
	decodeBody(t, resp, &body)
	assert.Contains(t, body["message"], "not enough stock")

	// Stock untouched by the failed placement.
	resp = doJSON(t, app, http.MethodGet, "/product/"+productID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var product models.ProductWithBrand
	decodeBody(t, resp, &product)
	assert.Equal(t, 1, product.Stock)
}

func TestOrderCancelRestoresStock(t *testing.T) {
	app := setupApp(t)
	brandID := createBrand(t, app, "Samsung")
	productID := createProduct(t, app, brandID, "Galaxy S24", 100, 5)

	resp := doJSON(t, app, http.MethodPost, "/cart/addToCart", map[string]interface{}{
		"userId":    "user-1",
		"productId": productID,
		"quantity":  2,
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, app, http.MethodPost, "/order", map[string]interface{}{
		"userId":      "user-1",
		"billingInfo": orderBilling(),
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var result struct {
		Order models.Order `json:"order"`
	}
	decodeBody(t, resp, &result)

	resp = doJSON(t, app, http.MethodPut, "/order/"+result.Order.ID+"/cancel", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var cancel struct {
		Order        models.Order `json:"order"`
		StockRestore struct {
			Restored []string `json:"restored"`
		} `json:"stockRestore"`
	}
	decodeBody(t, resp, &cancel)
	assert.Equal(t, models.OrderStatusCancelled, cancel.Order.Status)
	assert.Equal(t, []string{productID}, cancel.StockRestore.Restored)

	resp = doJSON(t, app, http.MethodGet, "/product/"+productID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var product models.ProductWithBrand
	decodeBody(t, resp, &product)
	assert.Equal(t, 5, product.Stock)
}

func TestRatingFlow(t *testing.T) {
	app := setupApp(t)
	brandID := createBrand(t, app, "Samsung")
	productID := createProduct(t, app, brandID, "Galaxy S24", 100, 5)

	resp := doJSON(t, app, http.MethodGet, "/rating/has-rated/user-1/"+productID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var hasRated map[string]interface{}
	decodeBody(t, resp, &hasRated)
	assert.Equal(t, false, hasRated["hasRated"])

	for _, rating := range []map[string]interface{}{
		{"userId": "user-1", "productId": productID, "rating": 5, "review": "great"},
		{"userId": "user-2", "productId": productID, "rating": 2},
	} {
		resp = doJSON(t, app, http.MethodPost, "/rating", rating)
		assert.Equal(t, http.StatusCreated, resp.StatusCode)
		resp.Body.Close()
	}

	resp = doJSON(t, app, http.MethodGet, "/product/"+productID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var product models.ProductWithBrand
	decodeBody(t, resp, &product)
	assert.Equal(t, 3.5, product.AverageRating)
	assert.Equal(t, 2, product.TotalRatings)

	resp = doJSON(t, app, http.MethodGet, "/rating/"+productID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var ratings []models.Rating
	decodeBody(t, resp, &ratings)
	assert.Len(t, ratings, 2)

	resp = doJSON(t, app, http.MethodDelete, "/rating/user-2/"+productID, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, app, http.MethodGet, "/product/"+productID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &product)
	assert.Equal(t, 5.0, product.AverageRating)
	assert.Equal(t, 1, product.TotalRatings)

	// An out-of-range rating is a validation error.
	resp = doJSON(t, app, http.MethodPost, "/rating", map[string]interface{}{
		"userId": "user-1", "productId": productID, "rating": 6,
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func TestActivityEndpoints(t *testing.T) {
	app := setupApp(t)

	resp := doJSON(t, app, http.MethodPost, "/activity", map[string]string{"userId": "user-1"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	for i := 0; i < 2; i++ {
		resp = doJSON(t, app, http.MethodPost, "/activity/view", map[string]string{
			"userId":    "user-1",
			"productId": "p1",
		})
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		resp.Body.Close()
	}

	resp = doJSON(t, app, http.MethodPost, "/activity", map[string]string{"userId": "user-1"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var activity models.UserActivity
	decodeBody(t, resp, &activity)
	assert.Equal(t, []string{"p1"}, activity.ViewedProducts)
}

func TestUserRegisterLoginProfile(t *testing.T) {
	app := setupApp(t)

	resp := doJSON(t, app, http.MethodPost, "/user/register", map[string]string{
		"name":     "Sita Sharma",
		"email":    "sita@example.com",
		"password": "hunter22",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	// Duplicate email is rejected.
	resp = doJSON(t, app, http.MethodPost, "/user/register", map[string]string{
		"name":     "Sita Again",
		"email":    "sita@example.com",
		"password": "hunter23",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, app, http.MethodPost, "/user/login", map[string]string{
		"email":    "sita@example.com",
		"password": "hunter22",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var login map[string]interface{}
	decodeBody(t, resp, &login)
	token, _ := login["token"].(string)
	require.NotEmpty(t, token)

	// The profile endpoint needs the bearer token.
	req := httptest.NewRequest(http.MethodGet, "/user/me", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	req = httptest.NewRequest(http.MethodGet, "/user/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var me models.User
	decodeBody(t, resp, &me)
	assert.Equal(t, "sita@example.com", me.Email)
	assert.Empty(t, me.Password)
}

func TestPaymentStatsEmpty(t *testing.T) {
	app := setupApp(t)

	resp := doJSON(t, app, http.MethodGet, "/payment/stats", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var chart services.ChartData
	decodeBody(t, resp, &chart)
	assert.Len(t, chart.Labels, 3)
	assert.Len(t, chart.Datasets, 3)

	// Without groupBy the endpoint falls back to monthly buckets.
	resp = doJSON(t, app, http.MethodGet, "/payment/by-date", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &chart)
	assert.Empty(t, chart.Labels)

	resp = doJSON(t, app, http.MethodGet, "/payment/by-date?groupBy=week", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}
