package models

import "gorm.io/gorm"

// Roles a user can hold. Artisans create and own products; admins may act
// on any resource.
const (
	RoleBuyer   = "buyer"
	RoleArtisan = "artisan"
	RoleAdmin   = "admin"
)

// User represents an account on the marketplace.
type User struct {
	ID                     string `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Name                   string `json:"name" gorm:"type:varchar(100)" validate:"required,min=2,max=100"`
	Email                  string `json:"email" gorm:"uniqueIndex;type:varchar(255)" validate:"required,email"`
	Password               string `gorm:"type:varchar(255)" validate:"required,min=6"` // No json tag for security
	Role                   string `json:"role" gorm:"type:varchar(20);default:buyer" validate:"omitempty,oneof=buyer artisan admin"`
	Phone                  string `json:"phone" gorm:"type:varchar(30)"`
	EmailVerificationToken string `json:"-" gorm:"type:varchar(64)"`
	IsEmailVerified        bool   `json:"is_email_verified"`
	gorm.Model                    // Embed gorm.Model for CreatedAt, UpdatedAt, DeletedAt
}
