package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Product represents an item listed by an artisan. Images holds retrieval
// paths in display order; the first entry is the primary image.
type Product struct {
	ID          string                      `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Name        string                      `json:"name" gorm:"type:varchar(100)" validate:"required,max=100"`
	Description string                      `json:"description" gorm:"type:varchar(2000)" validate:"required,max=2000"`
	Price       float64                     `json:"price" validate:"gte=0"`
	CategoryID  string                      `json:"category_id" gorm:"type:varchar(36);index" validate:"required"`
	Category    Category                    `json:"-" validate:"-"`
	Stock       int                         `json:"stock" validate:"gte=0"`
	Materials   string                      `json:"materials" gorm:"type:varchar(500)"`
	ArtisanID   string                      `json:"artisan_id" gorm:"type:varchar(36);index" validate:"required"`
	Artisan     User                        `json:"-" validate:"-"`
	Images      datatypes.JSONSlice[string] `json:"images"`
	gorm.Model                              // Embed gorm.Model for CreatedAt, UpdatedAt, DeletedAt
}
