package catalog

import (
	"github.com/DiVotek/smart-cms-products-import/internal/domain/shared"
)

// Attribute represents a product attribute (e.g. "Color", "Material")
type Attribute struct {
	shared.BaseEntity
	Name string `gorm:"type:varchar(255);not null"`
}

// TableName returns the table name for GORM
func (Attribute) TableName() string {
	return "attributes"
}

// AttributeValue represents one selectable value of an attribute.
// Products associate to values many-to-many; import rows reference
// values by name within an attribute_<id> column.
type AttributeValue struct {
	shared.BaseEntity
	AttributeID uint   `gorm:"not null;index"`
	Name        string `gorm:"type:varchar(255);not null;index"`
}

// TableName returns the table name for GORM
func (AttributeValue) TableName() string {
	return "attribute_values"
}

// NewAttributeValue creates a new attribute value
func NewAttributeValue(attributeID uint, name string) (*AttributeValue, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Attribute value name cannot be empty")
	}
	return &AttributeValue{AttributeID: attributeID, Name: name}, nil
}
