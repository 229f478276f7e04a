package catalog

import (
	"github.com/DiVotek/smart-cms-products-import/internal/domain/shared"
)

// Category represents a product category.
// Import rows reference categories by name, so names act as lookup keys.
type Category struct {
	shared.BaseEntity
	Name string `gorm:"type:varchar(255);not null;index"`
	Slug string `gorm:"type:varchar(255);not null;uniqueIndex"`
}

// TableName returns the table name for GORM
func (Category) TableName() string {
	return "categories"
}

// NewCategory creates a new category
func NewCategory(name, slug string) (*Category, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Category name cannot be empty")
	}
	if slug == "" {
		return nil, shared.NewDomainError("INVALID_SLUG", "Category slug cannot be empty")
	}
	return &Category{Name: name, Slug: slug}, nil
}
