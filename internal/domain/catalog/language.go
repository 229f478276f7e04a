package catalog

import (
	"github.com/DiVotek/smart-cms-products-import/internal/domain/shared"
)

// Language represents a site language. Parametric field keys embed the
// language slug (e.g. title_en), resolved against the active set.
type Language struct {
	shared.BaseEntity
	Name   string `gorm:"type:varchar(100);not null"`
	Slug   string `gorm:"type:varchar(10);not null;uniqueIndex"`
	Active bool   `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (Language) TableName() string {
	return "languages"
}

// NewLanguage creates a new active language
func NewLanguage(name, slug string) (*Language, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Language name cannot be empty")
	}
	if slug == "" {
		return nil, shared.NewDomainError("INVALID_SLUG", "Language slug cannot be empty")
	}
	return &Language{Name: name, Slug: slug, Active: true}, nil
}
