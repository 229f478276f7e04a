package persistence

import (
	"context"
	"time"

	"github.com/DiVotek/smart-cms-products-import/internal/domain/catalog"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormTranslationRepository implements catalog.TranslationRepository using GORM
type GormTranslationRepository struct {
	db *gorm.DB
}

// NewGormTranslationRepository creates a new GormTranslationRepository
func NewGormTranslationRepository(db *gorm.DB) *GormTranslationRepository {
	return &GormTranslationRepository{db: db}
}

// Upsert creates or overwrites the translation for (product, language)
func (r *GormTranslationRepository) Upsert(ctx context.Context, productID, languageID uint, value string) error {
	now := time.Now()
	record := catalog.ProductTranslation{
		ProductID:  productID,
		LanguageID: languageID,
		Value:      value,
	}
	record.CreatedAt = now
	record.UpdatedAt = now

	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "product_id"}, {Name: "language_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&record).Error
}
