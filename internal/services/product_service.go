package services

import (
	"fmt"
	"mime/multipart"
	"strings"

	"phoneshop/internal/models"
	"phoneshop/internal/repositories"
	"phoneshop/internal/storage"
)

// SearchResultLimit caps product search responses.
const SearchResultLimit = 8

// ProductService handles business logic related to the product catalog.
type ProductService struct {
	productRepo repositories.ProductRepository
	brandRepo   repositories.BrandRepository
	cartRepo    repositories.CartRepository
	orderRepo   repositories.OrderRepository
	images      *storage.ImageStore
}

// NewProductService creates a new ProductService.
func NewProductService(
	productRepo repositories.ProductRepository,
	brandRepo repositories.BrandRepository,
	cartRepo repositories.CartRepository,
	orderRepo repositories.OrderRepository,
	images *storage.ImageStore,
) *ProductService {
	return &ProductService{
		productRepo: productRepo,
		brandRepo:   brandRepo,
		cartRepo:    cartRepo,
		orderRepo:   orderRepo,
		images:      images,
	}
}

// ProductUpdate carries the mergeable fields of a product update. Nil
// pointers leave the stored value untouched.
type ProductUpdate struct {
	Name           *string
	Price          *float64
	BrandID        *string
	Stock          *int
	Specifications *models.Specifications
}

// ListProducts retrieves one catalog page with brand names joined in.
func (s *ProductService) ListProducts(page, limit int, sort string) ([]models.ProductWithBrand, int64, error) {
	products, total, err := s.productRepo.List(page, limit, sort)
	if err != nil {
		return nil, 0, err
	}
	joined, err := s.joinBrands(products)
	if err != nil {
		return nil, 0, err
	}
	return joined, total, nil
}

// GetProduct retrieves a single product with its brand name.
func (s *ProductService) GetProduct(id string) (*models.ProductWithBrand, error) {
	product, err := s.productRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	joined, err := s.joinBrands([]models.Product{*product})
	if err != nil {
		return nil, err
	}
	return &joined[0], nil
}

// CreateProduct validates the brand reference, stores 1 to 5 uploaded
// images, and persists the product. Stored files are removed again when the
// insert fails.
func (s *ProductService) CreateProduct(product *models.Product, files []*multipart.FileHeader) error {
	if len(files) == 0 {
		return fmt.Errorf("at least one image is required: %w", ErrConflict)
	}
	if len(files) > models.MaxProductImages {
		return fmt.Errorf("maximum %d images are allowed: %w", models.MaxProductImages, ErrConflict)
	}
	if _, err := s.brandRepo.GetByID(product.BrandID); err != nil {
		return err
	}

	paths, err := s.images.SaveAll(files)
	if err != nil {
		return err
	}
	product.Images = paths

	if err := s.productRepo.Create(product); err != nil {
		s.images.Remove(paths...)
		return err
	}
	return nil
}

// UpdateProduct merges changed fields and appends any uploaded images.
// Updates that would push the product past the image cap are rejected before
// any file is written.
func (s *ProductService) UpdateProduct(id string, update ProductUpdate, files []*multipart.FileHeader) (*models.Product, error) {
	product, err := s.productRepo.GetByID(id)
	if err != nil {
		return nil, err
	}

	if len(files) > 0 {
		if len(product.Images)+len(files) > models.MaxProductImages {
			return nil, fmt.Errorf("a maximum of %d images are allowed per product: %w",
				models.MaxProductImages, ErrConflict)
		}
		paths, err := s.images.SaveAll(files)
		if err != nil {
			return nil, err
		}
		product.Images = append(product.Images, paths...)
	}

	if update.Name != nil {
		product.Name = *update.Name
	}
	if update.Price != nil {
		product.Price = *update.Price
	}
	if update.BrandID != nil {
		if _, err := s.brandRepo.GetByID(*update.BrandID); err != nil {
			return nil, err
		}
		product.BrandID = *update.BrandID
	}
	if update.Stock != nil {
		product.Stock = *update.Stock
	}
	if update.Specifications != nil {
		product.Specifications = *update.Specifications
	}

	if err := s.productRepo.Update(product); err != nil {
		return nil, err
	}
	return product, nil
}

// DeleteProduct removes a product and its image files. Deletion is refused
// while any cart or order still references the product.
func (s *ProductService) DeleteProduct(id string) error {
	product, err := s.productRepo.GetByID(id)
	if err != nil {
		return err
	}

	inCart, err := s.cartRepo.ContainsProduct(id)
	if err != nil {
		return err
	}
	if inCart {
		return fmt.Errorf("cannot delete product as it exists in a cart: %w", ErrConflict)
	}

	inOrder, err := s.orderRepo.ContainsProduct(id)
	if err != nil {
		return err
	}
	if inOrder {
		return fmt.Errorf("cannot delete product as it exists in an order: %w", ErrConflict)
	}

	if err := s.productRepo.Delete(id); err != nil {
		return err
	}
	s.images.Remove(product.Images...)
	return nil
}

// DeleteImage removes one image from a product. The last remaining image
// cannot be deleted.
func (s *ProductService) DeleteImage(id, imageName string) (*models.Product, error) {
	product, err := s.productRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if len(product.Images) <= 1 {
		return nil, fmt.Errorf("cannot delete the last remaining image of the product: %w", ErrConflict)
	}

	target := storage.ProductImagePath(imageName)
	index := -1
	for i, image := range product.Images {
		if strings.ReplaceAll(image, "\\", "/") == target {
			index = i
			break
		}
	}
	if index == -1 {
		return nil, fmt.Errorf("image not found in the product: %w", repositories.ErrNotFound)
	}

	removed := product.Images[index]
	product.Images = append(product.Images[:index], product.Images[index+1:]...)
	if err := s.productRepo.Update(product); err != nil {
		return nil, err
	}
	s.images.Remove(removed)
	return product, nil
}

// SearchProducts matches product names case-insensitively, newest first,
// capped at SearchResultLimit, with brand names joined in.
func (s *ProductService) SearchProducts(query string) ([]models.ProductWithBrand, int64, error) {
	products, total, err := s.productRepo.Search(query, SearchResultLimit)
	if err != nil {
		return nil, 0, err
	}
	joined, err := s.joinBrands(products)
	if err != nil {
		return nil, 0, err
	}
	return joined, total, nil
}

// joinBrands assembles ProductWithBrand DTOs with a single brand fetch.
func (s *ProductService) joinBrands(products []models.Product) ([]models.ProductWithBrand, error) {
	ids := make([]string, 0, len(products))
	seen := make(map[string]bool)
	for _, p := range products {
		if !seen[p.BrandID] {
			seen[p.BrandID] = true
			ids = append(ids, p.BrandID)
		}
	}

	brands, err := s.brandRepo.GetByIDs(ids)
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(brands))
	for _, b := range brands {
		names[b.ID] = b.Name
	}

	joined := make([]models.ProductWithBrand, len(products))
	for i, p := range products {
		joined[i] = models.ProductWithBrand{Product: p, BrandName: names[p.BrandID]}
	}
	return joined, nil
}
