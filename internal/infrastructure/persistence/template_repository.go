package persistence

import (
	"context"
	"errors"

	"github.com/DiVotek/smart-cms-products-import/internal/domain/shared"
	syncdomain "github.com/DiVotek/smart-cms-products-import/internal/domain/sync"
	"gorm.io/gorm"
)

// GormTemplateRepository implements sync.TemplateRepository using GORM
type GormTemplateRepository struct {
	db *gorm.DB
}

// NewGormTemplateRepository creates a new GormTemplateRepository
func NewGormTemplateRepository(db *gorm.DB) *GormTemplateRepository {
	return &GormTemplateRepository{db: db}
}

// FindByID finds a template by its ID
func (r *GormTemplateRepository) FindByID(ctx context.Context, id uint) (*syncdomain.Template, error) {
	var template syncdomain.Template
	if err := r.db.WithContext(ctx).First(&template, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &template, nil
}

// FindAll returns all templates ordered by creation time
func (r *GormTemplateRepository) FindAll(ctx context.Context) ([]syncdomain.Template, error) {
	var templates []syncdomain.Template
	if err := r.db.WithContext(ctx).Order("created_at ASC").Find(&templates).Error; err != nil {
		return nil, err
	}
	return templates, nil
}

// Save creates or updates a template
func (r *GormTemplateRepository) Save(ctx context.Context, template *syncdomain.Template) error {
	return r.db.WithContext(ctx).Save(template).Error
}

// Delete deletes a template
func (r *GormTemplateRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&syncdomain.Template{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}
