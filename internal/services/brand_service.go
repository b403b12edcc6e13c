package services

import (
	"fmt"

	"phoneshop/internal/models"
	"phoneshop/internal/repositories"
)

// BrandService handles business logic related to brands.
type BrandService struct {
	brandRepo   repositories.BrandRepository
	productRepo repositories.ProductRepository
}

// NewBrandService creates a new BrandService.
func NewBrandService(brandRepo repositories.BrandRepository, productRepo repositories.ProductRepository) *BrandService {
	return &BrandService{
		brandRepo:   brandRepo,
		productRepo: productRepo,
	}
}

// GetAllBrands retrieves all brands, newest first.
func (s *BrandService) GetAllBrands() ([]models.Brand, error) {
	return s.brandRepo.GetAll()
}

// GetBrandByID retrieves a single brand by its ID.
func (s *BrandService) GetBrandByID(id string) (*models.Brand, error) {
	return s.brandRepo.GetByID(id)
}

// CreateBrand creates a new brand.
func (s *BrandService) CreateBrand(brand *models.Brand) error {
	return s.brandRepo.Create(brand)
}

// UpdateBrand merges the new name into an existing brand.
func (s *BrandService) UpdateBrand(id, name string) (*models.Brand, error) {
	brand, err := s.brandRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if name != "" {
		brand.Name = name
	}
	if err := s.brandRepo.Update(brand); err != nil {
		return nil, err
	}
	return brand, nil
}

// DeleteBrand deletes a brand unless products still reference it.
func (s *BrandService) DeleteBrand(id string) error {
	count, err := s.productRepo.CountByBrand(id)
	if err != nil {
		return err
	}
	if count > 0 {
		return fmt.Errorf("brand cannot be deleted as it is associated with products: %w", ErrConflict)
	}
	return s.brandRepo.Delete(id)
}

// SearchBrands matches brand names against a case-insensitive substring.
func (s *BrandService) SearchBrands(query string) ([]models.Brand, error) {
	return s.brandRepo.Search(query)
}
