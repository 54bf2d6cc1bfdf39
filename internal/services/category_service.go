package services

import (
	"fmt"

	"kriya/internal/models"
	"kriya/internal/repositories"

	"github.com/go-playground/validator/v10"
)

// CategoryService handles business logic related to categories.
type CategoryService struct {
	repo     repositories.CategoryRepository
	validate *validator.Validate
}

// NewCategoryService creates a new CategoryService.
func NewCategoryService(repo repositories.CategoryRepository) *CategoryService {
	return &CategoryService{
		repo:     repo,
		validate: validator.New(),
	}
}

// CreateCategoryInput is the payload for category creation.
type CreateCategoryInput struct {
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description" validate:"omitempty,max=500"`
}

// CreateCategory persists a new category. A duplicate name is rejected with
// a conflict; the slug is derived on save.
func (s *CategoryService) CreateCategory(input CreateCategoryInput) (*models.Category, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, validationError(err)
	}

	if existing, err := s.repo.GetByName(input.Name); err == nil && existing != nil {
		return nil, fmt.Errorf("category '%s' %w", input.Name, ErrConflict)
	}

	category := &models.Category{
		Name:        input.Name,
		Description: input.Description,
		IsActive:    true,
	}
	if err := s.repo.Create(category); err != nil {
		return nil, err
	}
	return category, nil
}

// GetCategories returns all active categories sorted alphabetically by name.
func (s *CategoryService) GetCategories() ([]models.Category, error) {
	return s.repo.GetAllActive()
}
