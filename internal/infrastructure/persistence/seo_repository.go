package persistence

import (
	"context"
	"time"

	"github.com/DiVotek/smart-cms-products-import/internal/domain/catalog"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormSeoRepository implements catalog.SeoRepository using GORM
type GormSeoRepository struct {
	db *gorm.DB
}

// NewGormSeoRepository creates a new GormSeoRepository
func NewGormSeoRepository(db *gorm.DB) *GormSeoRepository {
	return &GormSeoRepository{db: db}
}

// Upsert creates or overwrites the SEO record for (product, language)
func (r *GormSeoRepository) Upsert(ctx context.Context, productID, languageID uint, fields catalog.SeoFields) error {
	now := time.Now()
	record := catalog.ProductSeo{
		ProductID:   productID,
		LanguageID:  languageID,
		Title:       fields.Title,
		Heading:     fields.Heading,
		Summary:     fields.Summary,
		Description: fields.Description,
		Content:     fields.Content,
	}
	record.CreatedAt = now
	record.UpdatedAt = now

	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "product_id"}, {Name: "language_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"title", "heading", "summary", "description", "content", "updated_at",
		}),
	}).Create(&record).Error
}
