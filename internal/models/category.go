package models

import (
	"regexp"
	"strings"

	"gorm.io/gorm"
)

var slugSpaces = regexp.MustCompile(`\s+`)

// Category groups products for browsing.
type Category struct {
	ID          string `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Name        string `json:"name" gorm:"uniqueIndex;type:varchar(100)" validate:"required,max=100"`
	Description string `json:"description" gorm:"type:varchar(500)" validate:"omitempty,max=500"`
	Slug        string `json:"slug" gorm:"uniqueIndex;type:varchar(100)"`
	IsActive    bool   `json:"is_active" gorm:"default:true"`
	gorm.Model         // Embed gorm.Model for CreatedAt, UpdatedAt, DeletedAt
}

// BeforeSave keeps the slug a pure function of the name: lowercased, with
// whitespace runs replaced by hyphens. Recomputed on every save.
func (c *Category) BeforeSave(tx *gorm.DB) error {
	c.Slug = slugSpaces.ReplaceAllString(strings.ToLower(strings.TrimSpace(c.Name)), "-")
	return nil
}
