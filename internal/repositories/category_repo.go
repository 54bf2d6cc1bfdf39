package repositories

import "kriya/internal/models"

// CategoryRepository defines the interface for category data access.
type CategoryRepository interface {
	Create(category *models.Category) error
	GetByName(name string) (*models.Category, error)
	GetByID(id string) (*models.Category, error)
	// GetAllActive returns active categories sorted alphabetically by name.
	GetAllActive() ([]models.Category, error)
}
