package catalog

import (
	"github.com/DiVotek/smart-cms-products-import/internal/domain/shared"
)

// StockStatus represents an availability state (e.g. "In Stock", "Preorder")
type StockStatus struct {
	shared.BaseEntity
	Name string `gorm:"type:varchar(100);not null;uniqueIndex"`
}

// TableName returns the table name for GORM
func (StockStatus) TableName() string {
	return "stock_statuses"
}

// NewStockStatus creates a new stock status
func NewStockStatus(name string) (*StockStatus, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Stock status name cannot be empty")
	}
	return &StockStatus{Name: name}, nil
}
