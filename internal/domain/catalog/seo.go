package catalog

import (
	"github.com/DiVotek/smart-cms-products-import/internal/domain/shared"
)

// ProductSeo holds per-language SEO text for a product.
// At most one record exists per (product, language) pair.
type ProductSeo struct {
	shared.BaseEntity
	ProductID   uint   `gorm:"not null;uniqueIndex:idx_seo_product_language,priority:1"`
	LanguageID  uint   `gorm:"not null;uniqueIndex:idx_seo_product_language,priority:2"`
	Title       string `gorm:"type:varchar(255)"`
	Heading     string `gorm:"type:varchar(255)"`
	Summary     string `gorm:"type:text"`
	Description string `gorm:"type:text"`
	Content     string `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (ProductSeo) TableName() string {
	return "product_seo"
}

// SeoFields carries the writable SEO text for one upsert
type SeoFields struct {
	Title       string
	Heading     string
	Summary     string
	Description string
	Content     string
}

// Apply overwrites the record's text fields
func (s *ProductSeo) Apply(f SeoFields) {
	s.Title = f.Title
	s.Heading = f.Heading
	s.Summary = f.Summary
	s.Description = f.Description
	s.Content = f.Content
	s.Touch()
}
