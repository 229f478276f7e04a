package catalog

import (
	"github.com/DiVotek/smart-cms-products-import/internal/domain/shared"
)

// ProductTranslation holds the localized display name of a product.
// At most one record exists per (product, language) pair.
type ProductTranslation struct {
	shared.BaseEntity
	ProductID  uint   `gorm:"not null;uniqueIndex:idx_translation_product_language,priority:1"`
	LanguageID uint   `gorm:"not null;uniqueIndex:idx_translation_product_language,priority:2"`
	Value      string `gorm:"type:varchar(255);not null"`
}

// TableName returns the table name for GORM
func (ProductTranslation) TableName() string {
	return "product_translations"
}
