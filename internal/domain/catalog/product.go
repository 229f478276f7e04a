package catalog

import (
	"time"

	"github.com/DiVotek/smart-cms-products-import/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Product represents a store product.
// It is the aggregate root for catalog synchronization: the import/export
// engine reads and mutates the fields named by the active template and
// replaces the association sets as whole values.
type Product struct {
	shared.BaseEntity
	Name          string          `gorm:"type:varchar(255);not null"`
	Slug          string          `gorm:"type:varchar(255);not null;uniqueIndex"`
	SKU           string          `gorm:"column:sku;type:varchar(64);uniqueIndex"`
	CategoryID    *uint           `gorm:"index"`
	Category      *Category       `gorm:"foreignKey:CategoryID"`
	StockStatusID *uint           `gorm:"index"`
	StockStatus   *StockStatus    `gorm:"foreignKey:StockStatusID"`
	OriginPrice   decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Sorting       int             `gorm:"not null;default:0"`
	Status        bool            `gorm:"not null;default:true"`
	Images        []string        `gorm:"serializer:json"`
	IsIndex       bool            `gorm:"not null;default:false"`
	IsMerchant    bool            `gorm:"not null;default:false"`

	// Additional categories beyond the primary CategoryID reference.
	Categories      []Category           `gorm:"many2many:product_categories"`
	AttributeValues []AttributeValue     `gorm:"many2many:product_attribute_values"`
	Seo             []ProductSeo         `gorm:"foreignKey:ProductID"`
	Translations    []ProductTranslation `gorm:"foreignKey:ProductID"`
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// NewProduct creates a new product with the required fields
func NewProduct(name, slug, sku string, categoryID uint, price decimal.Decimal) (*Product, error) {
	if err := validateProductName(name); err != nil {
		return nil, err
	}
	if slug == "" {
		return nil, shared.NewDomainError("INVALID_SLUG", "Product slug cannot be empty")
	}
	if price.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Price cannot be negative")
	}

	now := time.Now()
	return &Product{
		BaseEntity:  shared.BaseEntity{CreatedAt: now, UpdatedAt: now},
		Name:        name,
		Slug:        slug,
		SKU:         sku,
		CategoryID:  &categoryID,
		OriginPrice: price,
		Status:      true,
	}, nil
}

// Rename updates the product's display name
func (p *Product) Rename(name string) error {
	if err := validateProductName(name); err != nil {
		return err
	}
	p.Name = name
	p.Touch()
	return nil
}

// SetSKU updates the stock-keeping code
func (p *Product) SetSKU(sku string) error {
	if len(sku) > 64 {
		return shared.NewDomainError("INVALID_SKU", "SKU cannot exceed 64 characters")
	}
	p.SKU = sku
	p.Touch()
	return nil
}

// SetCategory sets the primary category reference
func (p *Product) SetCategory(categoryID uint) {
	p.CategoryID = &categoryID
	p.Touch()
}

// SetStockStatus sets the stock-status reference; nil clears it
func (p *Product) SetStockStatus(statusID *uint) {
	p.StockStatusID = statusID
	p.Touch()
}

// SetPrice updates the origin price
func (p *Product) SetPrice(price decimal.Decimal) error {
	if price.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Price cannot be negative")
	}
	p.OriginPrice = price
	p.Touch()
	return nil
}

// SetSorting updates the display order
func (p *Product) SetSorting(sorting int) {
	p.Sorting = sorting
	p.Touch()
}

// SetStatus sets the active flag
func (p *Product) SetStatus(active bool) {
	p.Status = active
	p.Touch()
}

// SetImages replaces the image URL list
func (p *Product) SetImages(images []string) {
	p.Images = images
	p.Touch()
}

// SetIndexFlag sets the search-index flag
func (p *Product) SetIndexFlag(indexed bool) {
	p.IsIndex = indexed
	p.Touch()
}

// SetMerchantFlag sets the merchant-feed flag
func (p *Product) SetMerchantFlag(merchant bool) {
	p.IsMerchant = merchant
	p.Touch()
}

// SetCreatedAt overrides the creation timestamp.
// Imports may carry the original creation time of a migrated record.
func (p *Product) SetCreatedAt(t time.Time) {
	p.CreatedAt = t
	p.Touch()
}

// SeoForLanguage returns the SEO record for a language, or nil
func (p *Product) SeoForLanguage(languageID uint) *ProductSeo {
	for i := range p.Seo {
		if p.Seo[i].LanguageID == languageID {
			return &p.Seo[i]
		}
	}
	return nil
}

// TranslationForLanguage returns the localized display name record, or nil
func (p *Product) TranslationForLanguage(languageID uint) *ProductTranslation {
	for i := range p.Translations {
		if p.Translations[i].LanguageID == languageID {
			return &p.Translations[i]
		}
	}
	return nil
}

// AttributeValuesFor returns the product's values for one attribute
func (p *Product) AttributeValuesFor(attributeID uint) []AttributeValue {
	var values []AttributeValue
	for _, v := range p.AttributeValues {
		if v.AttributeID == attributeID {
			values = append(values, v)
		}
	}
	return values
}

// ExtraCategories returns the additional categories excluding the primary one
func (p *Product) ExtraCategories() []Category {
	var out []Category
	for _, c := range p.Categories {
		if p.CategoryID != nil && c.ID == *p.CategoryID {
			continue
		}
		out = append(out, c)
	}
	return out
}

// validateProductName validates the product name
func validateProductName(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot be empty")
	}
	if len(name) > 255 {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot exceed 255 characters")
	}
	return nil
}
