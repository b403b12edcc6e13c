package repositories

import "phoneshop/internal/models"

// BrandRepository defines the interface for brand data access.
type BrandRepository interface {
	GetAll() ([]models.Brand, error)
	GetByID(id string) (*models.Brand, error)
	GetByIDs(ids []string) ([]models.Brand, error)
	Create(brand *models.Brand) error
	Update(brand *models.Brand) error
	Delete(id string) error
	Search(query string) ([]models.Brand, error)
}
