package persistence

import (
	"context"

	"github.com/DiVotek/smart-cms-products-import/internal/domain/catalog"
	"gorm.io/gorm"
)

// GormAttributeValueRepository implements catalog.AttributeValueRepository using GORM
type GormAttributeValueRepository struct {
	db *gorm.DB
}

// NewGormAttributeValueRepository creates a new GormAttributeValueRepository
func NewGormAttributeValueRepository(db *gorm.DB) *GormAttributeValueRepository {
	return &GormAttributeValueRepository{db: db}
}

// FindByNames finds all attribute values whose name is in the given set
func (r *GormAttributeValueRepository) FindByNames(ctx context.Context, names []string) ([]catalog.AttributeValue, error) {
	if len(names) == 0 {
		return nil, nil
	}
	var values []catalog.AttributeValue
	if err := r.db.WithContext(ctx).Where("name IN ?", names).Find(&values).Error; err != nil {
		return nil, err
	}
	return values, nil
}

// Save creates or updates an attribute value
func (r *GormAttributeValueRepository) Save(ctx context.Context, value *catalog.AttributeValue) error {
	return r.db.WithContext(ctx).Save(value).Error
}
