package persistence

import (
	"context"
	"errors"

	"github.com/DiVotek/smart-cms-products-import/internal/domain/catalog"
	"github.com/DiVotek/smart-cms-products-import/internal/domain/shared"
	"gorm.io/gorm"
)

// GormStockStatusRepository implements catalog.StockStatusRepository using GORM
type GormStockStatusRepository struct {
	db *gorm.DB
}

// NewGormStockStatusRepository creates a new GormStockStatusRepository
func NewGormStockStatusRepository(db *gorm.DB) *GormStockStatusRepository {
	return &GormStockStatusRepository{db: db}
}

// FindByName finds a stock status by its exact name
func (r *GormStockStatusRepository) FindByName(ctx context.Context, name string) (*catalog.StockStatus, error) {
	var status catalog.StockStatus
	if err := r.db.WithContext(ctx).First(&status, "name = ?", name).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &status, nil
}

// FindFirst returns the first available stock status by ID order
func (r *GormStockStatusRepository) FindFirst(ctx context.Context) (*catalog.StockStatus, error) {
	var status catalog.StockStatus
	if err := r.db.WithContext(ctx).Order("id ASC").First(&status).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &status, nil
}

// Save creates or updates a stock status
func (r *GormStockStatusRepository) Save(ctx context.Context, status *catalog.StockStatus) error {
	return r.db.WithContext(ctx).Save(status).Error
}
