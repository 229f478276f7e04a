package catalog

import (
	"context"

	"github.com/DiVotek/smart-cms-products-import/internal/domain/shared"
)

// ProductRepository defines the interface for product persistence.
// Find methods load the product with its category, stock status,
// association sets, SEO and translation records.
type ProductRepository interface {
	// FindByID finds a product with its relations by ID
	FindByID(ctx context.Context, id uint) (*Product, error)

	// ExistsByID checks whether a product with the given ID exists
	ExistsByID(ctx context.Context, id uint) (bool, error)

	// ExistsBySlug checks whether a product with the given slug exists
	ExistsBySlug(ctx context.Context, slug string) (bool, error)

	// ExistsBySKU checks whether a product with the given SKU exists
	ExistsBySKU(ctx context.Context, sku string) (bool, error)

	// FindPage finds a page of products with relations; the filter may
	// carry a "category_id" entry to scope the result to one category
	FindPage(ctx context.Context, filter shared.Filter) ([]Product, error)

	// Save creates or updates a product
	Save(ctx context.Context, product *Product) error

	// ReplaceCategories replaces the product's additional-category set
	ReplaceCategories(ctx context.Context, product *Product, categories []Category) error

	// ReplaceAttributeValues replaces the product's attribute-value set
	ReplaceAttributeValues(ctx context.Context, product *Product, values []AttributeValue) error
}

// CategoryRepository defines the interface for category persistence
type CategoryRepository interface {
	// FindByID finds a category by its ID
	FindByID(ctx context.Context, id uint) (*Category, error)

	// FindByName finds a category by its exact name
	FindByName(ctx context.Context, name string) (*Category, error)

	// FindByNames finds all categories whose name is in the given set
	FindByNames(ctx context.Context, names []string) ([]Category, error)

	// Save creates or updates a category
	Save(ctx context.Context, category *Category) error
}

// StockStatusRepository defines the interface for stock-status persistence
type StockStatusRepository interface {
	// FindByName finds a stock status by its exact name
	FindByName(ctx context.Context, name string) (*StockStatus, error)

	// FindFirst returns the first available stock status by ID order
	FindFirst(ctx context.Context) (*StockStatus, error)

	// Save creates or updates a stock status
	Save(ctx context.Context, status *StockStatus) error
}

// AttributeValueRepository defines the interface for attribute-value persistence
type AttributeValueRepository interface {
	// FindByNames finds all attribute values whose name is in the given set
	FindByNames(ctx context.Context, names []string) ([]AttributeValue, error)

	// Save creates or updates an attribute value
	Save(ctx context.Context, value *AttributeValue) error
}

// LanguageRepository defines the interface for language persistence
type LanguageRepository interface {
	// FindActive returns all active languages
	FindActive(ctx context.Context) ([]Language, error)

	// FindBySlug finds a language by its slug
	FindBySlug(ctx context.Context, slug string) (*Language, error)

	// Save creates or updates a language
	Save(ctx context.Context, language *Language) error
}

// SeoRepository defines the interface for per-language SEO persistence
type SeoRepository interface {
	// Upsert creates or overwrites the SEO record for (product, language)
	Upsert(ctx context.Context, productID, languageID uint, fields SeoFields) error
}

// TranslationRepository defines the interface for localized-name persistence
type TranslationRepository interface {
	// Upsert creates or overwrites the translation for (product, language)
	Upsert(ctx context.Context, productID, languageID uint, value string) error
}
