package persistence

import (
	"context"
	"errors"

	"github.com/DiVotek/smart-cms-products-import/internal/domain/catalog"
	"github.com/DiVotek/smart-cms-products-import/internal/domain/shared"
	"gorm.io/gorm"
)

// GormLanguageRepository implements catalog.LanguageRepository using GORM
type GormLanguageRepository struct {
	db *gorm.DB
}

// NewGormLanguageRepository creates a new GormLanguageRepository
func NewGormLanguageRepository(db *gorm.DB) *GormLanguageRepository {
	return &GormLanguageRepository{db: db}
}

// FindActive returns all active languages
func (r *GormLanguageRepository) FindActive(ctx context.Context) ([]catalog.Language, error) {
	var languages []catalog.Language
	if err := r.db.WithContext(ctx).Where("active = ?", true).Order("id ASC").Find(&languages).Error; err != nil {
		return nil, err
	}
	return languages, nil
}

// FindBySlug finds a language by its slug
func (r *GormLanguageRepository) FindBySlug(ctx context.Context, slug string) (*catalog.Language, error) {
	var language catalog.Language
	if err := r.db.WithContext(ctx).First(&language, "slug = ?", slug).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &language, nil
}

// Save creates or updates a language
func (r *GormLanguageRepository) Save(ctx context.Context, language *catalog.Language) error {
	return r.db.WithContext(ctx).Save(language).Error
}
