package repositories

import (
	"fmt"

	"phoneshop/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMBrandRepository is a GORM implementation of BrandRepository.
type GORMBrandRepository struct {
	db *gorm.DB
}

// NewGORMBrandRepository creates a new instance of GORMBrandRepository.
func NewGORMBrandRepository(db *gorm.DB) *GORMBrandRepository {
	return &GORMBrandRepository{db: db}
}

// GetAll retrieves all brands, newest first.
func (r *GORMBrandRepository) GetAll() ([]models.Brand, error) {
	var brands []models.Brand
	if err := r.db.Order("created_at DESC").Find(&brands).Error; err != nil {
		return nil, fmt.Errorf("failed to get all brands: %w", err)
	}
	return brands, nil
}

// GetByID retrieves a single brand by its ID.
func (r *GORMBrandRepository) GetByID(id string) (*models.Brand, error) {
	var brand models.Brand
	if err := r.db.First(&brand, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("brand with ID %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get brand by ID %s: %w", id, err)
	}
	return &brand, nil
}

// GetByIDs retrieves the brands matching the given IDs.
func (r *GORMBrandRepository) GetByIDs(ids []string) ([]models.Brand, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var brands []models.Brand
	if err := r.db.Where("id IN ?", ids).Find(&brands).Error; err != nil {
		return nil, fmt.Errorf("failed to get brands by IDs: %w", err)
	}
	return brands, nil
}

// Create creates a new brand.
func (r *GORMBrandRepository) Create(brand *models.Brand) error {
	if brand.ID == "" {
		brand.ID = uuid.New().String()
	}
	if err := r.db.Create(brand).Error; err != nil {
		return fmt.Errorf("failed to create brand: %w", err)
	}
	return nil
}

// Update updates an existing brand.
func (r *GORMBrandRepository) Update(brand *models.Brand) error {
	res := r.db.Save(brand)
	if res.Error != nil {
		return fmt.Errorf("failed to update brand: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("brand with ID %s: %w", brand.ID, ErrNotFound)
	}
	return nil
}

// Delete deletes a brand by its ID. Referential guards live in the service.
func (r *GORMBrandRepository) Delete(id string) error {
	res := r.db.Delete(&models.Brand{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete brand: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("brand with ID %s: %w", id, ErrNotFound)
	}
	return nil
}

// Search matches brand names against a case-insensitive substring.
func (r *GORMBrandRepository) Search(query string) ([]models.Brand, error) {
	var brands []models.Brand
	pattern := "%" + query + "%"
	if err := r.db.Where("LOWER(name) LIKE LOWER(?)", pattern).
		Order("created_at DESC").Find(&brands).Error; err != nil {
		return nil, fmt.Errorf("failed to search brands: %w", err)
	}
	return brands, nil
}
