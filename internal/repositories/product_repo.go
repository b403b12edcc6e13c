package repositories

import "phoneshop/internal/models"

// Sort orders accepted by ProductRepository.List.
const (
	SortPriceAsc  = "asc"
	SortPriceDesc = "desc"
	SortDefault   = "def"
)

// ProductRepository defines the interface for product data access.
type ProductRepository interface {
	List(page, limit int, sort string) ([]models.Product, int64, error)
	GetByID(id string) (*models.Product, error)
	Create(product *models.Product) error
	Update(product *models.Product) error
	Delete(id string) error
	Search(query string, limit int) ([]models.Product, int64, error)
	CountByBrand(brandID string) (int64, error)
	// RestoreStock adds quantity back to a product's stock. Returns
	// ErrNotFound when the product no longer exists.
	RestoreStock(id string, quantity int) error
}
