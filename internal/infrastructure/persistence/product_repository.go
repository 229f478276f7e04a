package persistence

import (
	"context"
	"errors"

	"github.com/DiVotek/smart-cms-products-import/internal/domain/catalog"
	"github.com/DiVotek/smart-cms-products-import/internal/domain/shared"
	"gorm.io/gorm"
)

// GormProductRepository implements catalog.ProductRepository using GORM
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GormProductRepository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// withRelations preloads everything the row codec reads
func (r *GormProductRepository) withRelations(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Category").
		Preload("StockStatus").
		Preload("Categories").
		Preload("AttributeValues").
		Preload("Seo").
		Preload("Translations")
}

// FindByID finds a product with its relations by ID
func (r *GormProductRepository) FindByID(ctx context.Context, id uint) (*catalog.Product, error) {
	var product catalog.Product
	if err := r.withRelations(ctx).First(&product, "products.id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &product, nil
}

// ExistsByID checks whether a product with the given ID exists
func (r *GormProductRepository) ExistsByID(ctx context.Context, id uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&catalog.Product{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

// ExistsBySlug checks whether a product with the given slug exists
func (r *GormProductRepository) ExistsBySlug(ctx context.Context, slug string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&catalog.Product{}).Where("slug = ?", slug).Count(&count).Error
	return count > 0, err
}

// ExistsBySKU checks whether a product with the given SKU exists
func (r *GormProductRepository) ExistsBySKU(ctx context.Context, sku string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&catalog.Product{}).Where("sku = ?", sku).Count(&count).Error
	return count > 0, err
}

// FindPage finds a page of products with relations. A "category_id"
// filter entry scopes the page to one primary category.
func (r *GormProductRepository) FindPage(ctx context.Context, filter shared.Filter) ([]catalog.Product, error) {
	query := r.withRelations(ctx)

	if categoryID, ok := filter.Filters["category_id"]; ok {
		query = query.Where("category_id = ?", categoryID)
	}
	if filter.Search != "" {
		query = query.Where("name ILIKE ?", "%"+filter.Search+"%")
	}

	orderBy := filter.OrderBy
	if orderBy == "" {
		orderBy = "id"
	}
	direction := "ASC"
	if filter.OrderDir == "desc" {
		direction = "DESC"
	}
	query = query.Order(orderBy + " " + direction)

	if filter.PageSize > 0 {
		query = query.Limit(filter.PageSize).Offset((filter.Page - 1) * filter.PageSize)
	}

	var products []catalog.Product
	if err := query.Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// Save creates or updates a product
func (r *GormProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	return r.db.WithContext(ctx).Save(product).Error
}

// ReplaceCategories replaces the product's additional-category set
func (r *GormProductRepository) ReplaceCategories(ctx context.Context, product *catalog.Product, categories []catalog.Category) error {
	return r.db.WithContext(ctx).Model(product).Association("Categories").Replace(categories)
}

// ReplaceAttributeValues replaces the product's attribute-value set
func (r *GormProductRepository) ReplaceAttributeValues(ctx context.Context, product *catalog.Product, values []catalog.AttributeValue) error {
	return r.db.WithContext(ctx).Model(product).Association("AttributeValues").Replace(values)
}
