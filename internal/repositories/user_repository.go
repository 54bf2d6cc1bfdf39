package repositories

import "kriya/internal/models"

// UserRepository defines the interface for user data access.
type UserRepository interface {
	Create(user *models.User) error
	Update(user *models.User) error
	GetByEmail(email string) (*models.User, error)
	GetByID(id string) (*models.User, error)
	GetByVerificationToken(token string) (*models.User, error)
	GetAll() ([]models.User, error)
	Delete(id string) error
	Count() (int64, error)
}
