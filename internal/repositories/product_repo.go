package repositories

import (
	"kriya/internal/models"
)

// ProductRepository defines the interface for product data access.
type ProductRepository interface {
	// GetAll returns products newest first, optionally filtered by a text
	// search over name+description and/or a category ID. Category and
	// artisan associations are resolved.
	GetAll(search, categoryID string) ([]models.Product, error)
	GetByID(id string) (*models.Product, error)
	Create(product *models.Product) error
	Update(product *models.Product) error
	Delete(id string) error
	Count() (int64, error)
}
