package services

import (
	"errors"
	"log"

	"phoneshop/internal/models"
	"phoneshop/internal/repositories"
)

// CartService handles business logic related to shopping carts.
type CartService struct {
	cartRepo    repositories.CartRepository
	productRepo repositories.ProductRepository
}

// NewCartService creates a new CartService.
func NewCartService(cartRepo repositories.CartRepository, productRepo repositories.ProductRepository) *CartService {
	return &CartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
	}
}

// ViewCart returns the user's cart with derived totals, creating an empty
// cart on first view. Prices are live: totals reflect the current product
// price, not the price at add time.
func (s *CartService) ViewCart(userID string) (*models.CartView, error) {
	cart, err := s.cartRepo.GetByUser(userID)
	if err != nil {
		if !errors.Is(err, repositories.ErrNotFound) {
			return nil, err
		}
		cart = &models.Cart{UserID: userID, Items: []models.CartItem{}}
		if err := s.cartRepo.Create(cart); err != nil {
			return nil, err
		}
	}

	view := &models.CartView{Cart: *cart}
	for _, item := range cart.Items {
		view.Total += item.Quantity
		product, err := s.productRepo.GetByID(item.ProductID)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				log.Printf("cart %s references missing product %s", cart.ID, item.ProductID)
				continue
			}
			return nil, err
		}
		view.TotalPrice += float64(item.Quantity) * product.Price
	}
	return view, nil
}

// AddItem puts a product into the user's cart, creating the cart when
// absent and incrementing the quantity of an existing line item.
func (s *CartService) AddItem(userID, productID string, quantity int) error {
	if _, err := s.productRepo.GetByID(productID); err != nil {
		return err
	}

	cart, err := s.cartRepo.GetByUser(userID)
	if err != nil {
		if !errors.Is(err, repositories.ErrNotFound) {
			return err
		}
		return s.cartRepo.Create(&models.Cart{
			UserID: userID,
			Items:  []models.CartItem{{ProductID: productID, Quantity: quantity}},
		})
	}

	found := false
	for i := range cart.Items {
		if cart.Items[i].ProductID == productID {
			cart.Items[i].Quantity += quantity
			found = true
			break
		}
	}
	if !found {
		cart.Items = append(cart.Items, models.CartItem{ProductID: productID, Quantity: quantity})
	}
	return s.cartRepo.Save(cart)
}

// RemoveItem drops any line item referencing the product from the user's
// cart. Removing a product that is not in the cart is a no-op.
func (s *CartService) RemoveItem(userID, productID string) error {
	cart, err := s.cartRepo.GetByUser(userID)
	if err != nil {
		return err
	}

	items := cart.Items[:0]
	for _, item := range cart.Items {
		if item.ProductID != productID {
			items = append(items, item)
		}
	}
	cart.Items = items
	return s.cartRepo.Save(cart)
}
