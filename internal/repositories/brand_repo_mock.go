package repositories

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"phoneshop/internal/models"

	"github.com/google/uuid"
)

// MockBrandRepository is an in-memory implementation of BrandRepository.
type MockBrandRepository struct {
	brands map[string]models.Brand
	mu     sync.RWMutex
}

// NewMockBrandRepository creates a new instance of MockBrandRepository.
func NewMockBrandRepository() *MockBrandRepository {
	return &MockBrandRepository{
		brands: make(map[string]models.Brand),
	}
}

// GetAll returns all brands, newest first.
func (r *MockBrandRepository) GetAll() ([]models.Brand, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	all := make([]models.Brand, 0, len(r.brands))
	for _, b := range r.brands {
		all = append(all, b)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	return all, nil
}

// GetByID returns a brand by its ID.
func (r *MockBrandRepository) GetByID(id string) (*models.Brand, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	brand, ok := r.brands[id]
	if !ok {
		return nil, fmt.Errorf("brand with ID %s: %w", id, ErrNotFound)
	}
	return &brand, nil
}

// GetByIDs returns the brands matching the given IDs.
func (r *MockBrandRepository) GetByIDs(ids []string) ([]models.Brand, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var brands []models.Brand
	for _, id := range ids {
		if brand, ok := r.brands[id]; ok {
			brands = append(brands, brand)
		}
	}
	return brands, nil
}

// Create adds a new brand.
func (r *MockBrandRepository) Create(brand *models.Brand) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if brand.ID == "" {
		brand.ID = uuid.New().String()
	}
	if brand.CreatedAt.IsZero() {
		brand.CreatedAt = time.Now()
	}
	brand.UpdatedAt = time.Now()
	r.brands[brand.ID] = *brand
	return nil
}

// Update replaces an existing brand.
func (r *MockBrandRepository) Update(brand *models.Brand) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.brands[brand.ID]; !ok {
		return fmt.Errorf("brand with ID %s: %w", brand.ID, ErrNotFound)
	}
	brand.UpdatedAt = time.Now()
	r.brands[brand.ID] = *brand
	return nil
}

// Delete removes a brand.
func (r *MockBrandRepository) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.brands[id]; !ok {
		return fmt.Errorf("brand with ID %s: %w", id, ErrNotFound)
	}
	delete(r.brands, id)
	return nil
}

// Search matches brand names case-insensitively.
func (r *MockBrandRepository) Search(query string) ([]models.Brand, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	q := strings.ToLower(query)
	var matches []models.Brand
	for _, b := range r.brands {
		if strings.Contains(strings.ToLower(b.Name), q) {
			matches = append(matches, b)
		}
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].CreatedAt.After(matches[j].CreatedAt) })
	return matches, nil
}
